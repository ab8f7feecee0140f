package output

import (
	"fmt"
	"strings"
)

// ErrOpenFile represents an error when opening a destination file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

// ErrUnknownFormat is returned when resolving a format name nothing is
// registered under. There is no fallback format.
type ErrUnknownFormat struct {
	Format string
	Known  []string
}

func (e *ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown output format %q (known formats: %s)",
		e.Format, strings.Join(e.Known, ", "))
}

// ErrWrite reports an I/O failure against a destination. The event for that
// destination is lost; the run decides whether to continue.
type ErrWrite struct {
	Destination string
	Event       int
	Detector    string
	Err         error
}

func (e *ErrWrite) Error() string {
	if e.Detector != "" {
		return fmt.Sprintf("write failure on %q, event %d, detector %s: %v",
			e.Destination, e.Event, e.Detector, e.Err)
	}
	return fmt.Sprintf("write failure on %q, event %d: %v", e.Destination, e.Event, e.Err)
}

func (e *ErrWrite) Unwrap() error { return e.Err }
