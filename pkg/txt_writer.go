package output

import (
	"fmt"
)

// TxtWriter writes every record as a human readable block on the text stream.
// No atomicity beyond a fully written line.
type TxtWriter struct {
	state writerState

	conditions    map[string]string
	segmentEvents int
}

var _ Writer = (*TxtWriter)(nil)

func NewTxtWriter() *TxtWriter {
	return &TxtWriter{}
}

func (w *TxtWriter) writeErr(c *OutputContainer, detector string, err error) error {
	return &ErrWrite{Destination: c.segmentName(), Event: w.state.eventNumber, Detector: detector, Err: err}
}

func (w *TxtWriter) print(c *OutputContainer, detector string, format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(c.Txt, format, args...); err != nil {
		return w.writeErr(c, detector, err)
	}
	return nil
}

func (w *TxtWriter) RecordSimConditions(c *OutputContainer, conditions map[string]string) error {
	w.state.startRun()
	w.conditions = conditions
	return w.printConditions(c)
}

// printConditions writes the run metadata block. Conditions are kept so every
// rolled over segment carries its own copy and stays self describing.
func (w *TxtWriter) printConditions(c *OutputContainer) error {
	if err := w.print(c, "", " > Simulation Conditions:\n"); err != nil {
		return err
	}
	for _, param := range sortedNames(w.conditions) {
		if err := w.print(c, "", "   %s: %s\n", param, w.conditions[param]); err != nil {
			return err
		}
	}
	return nil
}

func (w *TxtWriter) WriteHeader(c *OutputContainer, header map[string]float64, bank Bank) error {
	w.state.startEvent()
	if err := w.print(c, "", " --- Event %d ---\n > Header Bank:\n", w.state.eventNumber); err != nil {
		return err
	}
	for _, field := range headerVariables(bank, header) {
		if err := w.print(c, "", "   %s: %g\n", field, headerValue(header, field)); err != nil {
			return err
		}
	}
	return nil
}

func (w *TxtWriter) WriteGenerated(c *OutputContainer, particles []GeneratedParticle, banks BankSet) error {
	w.state.requireEvent("WriteGenerated")
	if err := w.print(c, "", " > Generated Particles: %d\n", len(particles)); err != nil {
		return err
	}
	for _, p := range particles {
		err := w.print(c, "", "   pid: %d  vertex: (%g, %g, %g) mm  momentum: (%g, %g, %g) MeV  time: %g ns  multiplicity: %d\n",
			p.PID, p.Vertex[0], p.Vertex[1], p.Vertex[2],
			p.Momentum[0], p.Momentum[1], p.Momentum[2], p.Time, p.Multiplicity)
		if err != nil {
			return err
		}
		for _, s := range p.Summaries {
			err := w.print(c, "", "     hits in %s: %d  etot: %g MeV  earliest time: %g ns  nphe: %d\n",
				s.Detector, s.Stat, s.Etot, s.Time, s.Nphe)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *TxtWriter) WriteG4RawIntegrated(c *OutputContainer, hits []HitRecord, detector string, banks BankSet) error {
	w.state.requireEvent("WriteG4RawIntegrated")
	if len(hits) == 0 {
		return nil
	}
	if err := w.print(c, detector, " > Raw Bank %s: %d hits\n", detector, len(hits)); err != nil {
		return err
	}
	variables := rawVariables(banks[detector], hits)
	for i := range hits {
		for _, name := range variables {
			if err := w.print(c, detector, "   hit %d  %s: %g\n", i, name, hits[i].RawValue(name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *TxtWriter) WriteG4RawAll(c *OutputContainer, hits []HitRecord, detector string, banks BankSet) error {
	w.state.requireEvent("WriteG4RawAll")
	wroteBankLine := false
	for i := range hits {
		// per-step capture may be off for this hit
		if len(hits[i].RawSteps) == 0 {
			continue
		}
		if !wroteBankLine {
			if err := w.print(c, detector, " > Raw Step Bank %s:\n", detector); err != nil {
				return err
			}
			wroteBankLine = true
		}
		for _, name := range sortedNames(hits[i].RawSteps) {
			if err := w.print(c, detector, "   hit %d  %s: %v\n", i, name, hits[i].RawSteps[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *TxtWriter) WriteG4DgtIntegrated(c *OutputContainer, hits []HitRecord, detector string, banks BankSet) error {
	w.state.requireEvent("WriteG4DgtIntegrated")
	if len(hits) == 0 {
		return nil
	}
	if err := w.print(c, detector, " > Digitized Bank %s: %d hits\n", detector, len(hits)); err != nil {
		return err
	}
	variables := dgtVariables(banks[detector], hits)
	for i := range hits {
		for _, name := range variables {
			if err := w.print(c, detector, "   hit %d  %s: %g\n", i, name, hits[i].DgtValue(name)); err != nil {
				return err
			}
		}
		for _, t := range sortedTimes(hits[i].SignalVT) {
			if err := w.print(c, detector, "   hit %d  signal t: %g ns  v: %g mV\n", i, t, hits[i].SignalVT[t]); err != nil {
				return err
			}
		}
		for _, bunch := range sortedBunches(hits[i].QuantumS) {
			if err := w.print(c, detector, "   hit %d  quantum bunch: %d  amplitude: %d\n", i, bunch, hits[i].QuantumS[bunch]); err != nil {
				return err
			}
		}
		for _, name := range sortedNames(hits[i].MultiDgt) {
			if err := w.print(c, detector, "   hit %d  %s: %v\n", i, name, hits[i].MultiDgt[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *TxtWriter) WriteEvent(c *OutputContainer) error {
	evt := w.state.eventNumber
	w.state.endEvent()
	if _, err := fmt.Fprintf(c.Txt, " --- End of Event ---\n"); err != nil {
		return &ErrWrite{Destination: c.segmentName(), Event: evt, Err: err}
	}
	w.segmentEvents++
	if c.RolloverEvery() > 0 && w.segmentEvents >= c.RolloverEvery() {
		if err := c.Rollover(); err != nil {
			return &ErrWrite{Destination: c.segmentName(), Event: evt, Err: err}
		}
		w.segmentEvents = 0
		return w.printConditions(c)
	}
	return nil
}
