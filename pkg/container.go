package output

import (
	"errors"
	"fmt"
	"os"
)

// OutputContainer owns the open destination handle for one run: either a text
// stream or an hdf5 channel, never both. Exactly one writer operates against
// a container for its whole lifetime, from a single goroutine.
type OutputContainer struct {
	OutType string
	OutFile string

	Txt  *os.File
	Hdf5 *Hdf5Channel

	rollover int // events per file segment, 0 keeps a single file
	segment  int
}

// NewOutputContainer opens the destination selected by the configuration.
// Failure to open is a fatal configuration error: no partial output is
// preferable to silently writing somewhere else.
func NewOutputContainer(config Configuration) (*OutputContainer, error) {
	c := &OutputContainer{
		OutType:  config.OutputFormat,
		OutFile:  config.FileOut,
		rollover: config.RolloverEvents,
	}
	if err := c.open(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *OutputContainer) open() error {
	switch c.OutType {
	case "txt":
		f, err := os.Create(c.segmentName())
		if err != nil {
			return &ErrOpenFile{Filename: c.segmentName(), Err: err}
		}
		c.Txt = f
	case "hdf5":
		ch, err := NewHdf5Channel(c.segmentName())
		if err != nil {
			return err
		}
		c.Hdf5 = ch
	default:
		return &ErrUnknownFormat{Format: c.OutType, Known: []string{"hdf5", "txt"}}
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Opened %s output %s", c.OutType, c.segmentName()), "output")
	}
	return nil
}

func (c *OutputContainer) segmentName() string {
	if c.rollover == 0 {
		return c.OutFile
	}
	return fmt.Sprintf("%s.%d", c.OutFile, c.segment)
}

// RolloverEvery reports the per-segment event budget, 0 when rollover is
// disabled.
func (c *OutputContainer) RolloverEvery() int {
	return c.rollover
}

// Rollover closes the current destination and opens the next segment. Writers
// call it from WriteEvent once the segment event budget is exhausted.
func (c *OutputContainer) Rollover() error {
	if c.rollover == 0 {
		return nil
	}
	if err := c.Close(); err != nil {
		return err
	}
	c.segment++
	return c.open()
}

// Close releases the destination handle. Safe to call on every exit path;
// a second call is a no-op.
func (c *OutputContainer) Close() error {
	var errs []error

	if c.Txt != nil {
		if err := c.Txt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing text output %s: %w", c.segmentName(), err))
		}
		c.Txt = nil
	}
	if c.Hdf5 != nil {
		if err := c.Hdf5.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing hdf5 output %s: %w", c.segmentName(), err))
		}
		c.Hdf5 = nil
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
