package output

// Hdf5Writer renders each event as rows of the extendable tables of the hdf5
// channel. Rows are accumulated in a scratch record and appended only in
// WriteEvent, so a failed event never leaves a partial record visible.
type Hdf5Writer struct {
	state   writerState
	scratch hdf5Event

	conditions map[string]string
}

var _ Writer = (*Hdf5Writer)(nil)

type hdf5Event struct {
	headers   []headerHDF5
	particles []particleHDF5
	summaries []summaryHDF5
	raw       []bankValueHDF5
	dgt       []bankValueHDF5
	steps     []stepValueHDF5
	signal    []signalHDF5
	quantum   []quantumHDF5
	multiDgt  []multiDgtHDF5
}

func NewHdf5Writer() *Hdf5Writer {
	return &Hdf5Writer{}
}

func (w *Hdf5Writer) writeErr(c *OutputContainer, detector string, err error) error {
	return &ErrWrite{Destination: c.segmentName(), Event: w.state.eventNumber, Detector: detector, Err: err}
}

func (w *Hdf5Writer) RecordSimConditions(c *OutputContainer, conditions map[string]string) error {
	w.state.startRun()
	w.conditions = conditions
	if err := w.appendConditions(c.Hdf5); err != nil {
		return w.writeErr(c, "", err)
	}
	return nil
}

// appendConditions fills the conditions table of one channel. Conditions are
// kept so every rolled over segment carries its own copy and stays self
// describing.
func (w *Hdf5Writer) appendConditions(ch *Hdf5Channel) error {
	rows := make([]conditionHDF5, 0, len(w.conditions))
	for _, param := range sortedNames(w.conditions) {
		rows = append(rows, conditionHDF5{
			param: convertToHdf5String(param),
			value: convertToHdf5String(w.conditions[param]),
		})
	}
	return appendRows(ch.Conditions, rows)
}

func (w *Hdf5Writer) WriteHeader(c *OutputContainer, header map[string]float64, bank Bank) error {
	w.state.startEvent()
	w.scratch = hdf5Event{}
	evt := int32(w.state.eventNumber)
	for _, field := range headerVariables(bank, header) {
		w.scratch.headers = append(w.scratch.headers, headerHDF5{
			evt_number: evt,
			field:      convertToHdf5String(field),
			value:      headerValue(header, field),
		})
	}
	return nil
}

func (w *Hdf5Writer) WriteGenerated(c *OutputContainer, particles []GeneratedParticle, banks BankSet) error {
	w.state.requireEvent("WriteGenerated")
	evt := int32(w.state.eventNumber)
	for i, p := range particles {
		w.scratch.particles = append(w.scratch.particles, particleHDF5{
			evt_number:   evt,
			index:        int32(i),
			pid:          int32(p.PID),
			vx:           p.Vertex[0],
			vy:           p.Vertex[1],
			vz:           p.Vertex[2],
			px:           p.Momentum[0],
			py:           p.Momentum[1],
			pz:           p.Momentum[2],
			time:         p.Time,
			multiplicity: int32(p.Multiplicity),
		})
		for _, s := range p.Summaries {
			w.scratch.summaries = append(w.scratch.summaries, summaryHDF5{
				evt_number: evt,
				particle:   int32(i),
				detector:   convertToHdf5String(s.Detector),
				stat:       int32(s.Stat),
				etot:       s.Etot,
				time:       s.Time,
				nphe:       int32(s.Nphe),
			})
		}
	}
	return nil
}

func (w *Hdf5Writer) WriteG4RawIntegrated(c *OutputContainer, hits []HitRecord, detector string, banks BankSet) error {
	w.state.requireEvent("WriteG4RawIntegrated")
	if len(hits) == 0 {
		return nil
	}
	evt := int32(w.state.eventNumber)
	det := convertToHdf5String(detector)
	variables := rawVariables(banks[detector], hits)
	for i := range hits {
		for _, name := range variables {
			w.scratch.raw = append(w.scratch.raw, bankValueHDF5{
				evt_number: evt,
				detector:   det,
				hit:        int32(i),
				variable:   convertToHdf5String(name),
				value:      hits[i].RawValue(name),
			})
		}
	}
	return nil
}

func (w *Hdf5Writer) WriteG4RawAll(c *OutputContainer, hits []HitRecord, detector string, banks BankSet) error {
	w.state.requireEvent("WriteG4RawAll")
	evt := int32(w.state.eventNumber)
	det := convertToHdf5String(detector)
	for i := range hits {
		// per-step capture may be off for this hit
		if len(hits[i].RawSteps) == 0 {
			continue
		}
		for _, name := range sortedNames(hits[i].RawSteps) {
			variable := convertToHdf5String(name)
			for step, value := range hits[i].RawSteps[name] {
				w.scratch.steps = append(w.scratch.steps, stepValueHDF5{
					evt_number: evt,
					detector:   det,
					hit:        int32(i),
					variable:   variable,
					step:       int32(step),
					value:      value,
				})
			}
		}
	}
	return nil
}

func (w *Hdf5Writer) WriteG4DgtIntegrated(c *OutputContainer, hits []HitRecord, detector string, banks BankSet) error {
	w.state.requireEvent("WriteG4DgtIntegrated")
	if len(hits) == 0 {
		return nil
	}
	evt := int32(w.state.eventNumber)
	det := convertToHdf5String(detector)
	variables := dgtVariables(banks[detector], hits)
	for i := range hits {
		hit := int32(i)
		for _, name := range variables {
			w.scratch.dgt = append(w.scratch.dgt, bankValueHDF5{
				evt_number: evt,
				detector:   det,
				hit:        hit,
				variable:   convertToHdf5String(name),
				value:      hits[i].DgtValue(name),
			})
		}
		for _, t := range sortedTimes(hits[i].SignalVT) {
			w.scratch.signal = append(w.scratch.signal, signalHDF5{
				evt_number: evt,
				detector:   det,
				hit:        hit,
				time:       t,
				voltage:    hits[i].SignalVT[t],
			})
		}
		for _, bunch := range sortedBunches(hits[i].QuantumS) {
			w.scratch.quantum = append(w.scratch.quantum, quantumHDF5{
				evt_number: evt,
				detector:   det,
				hit:        hit,
				bunch:      int32(bunch),
				amplitude:  int32(hits[i].QuantumS[bunch]),
			})
		}
		for _, name := range sortedNames(hits[i].MultiDgt) {
			variable := convertToHdf5String(name)
			for step, value := range hits[i].MultiDgt[name] {
				w.scratch.multiDgt = append(w.scratch.multiDgt, multiDgtHDF5{
					evt_number: evt,
					detector:   det,
					hit:        hit,
					variable:   variable,
					step:       int32(step),
					value:      int32(value),
				})
			}
		}
	}
	return nil
}

func (w *Hdf5Writer) WriteEvent(c *OutputContainer) error {
	evt := w.state.eventNumber
	w.state.endEvent()
	ch := c.Hdf5

	flush := func() error {
		if err := appendRows(ch.Headers, w.scratch.headers); err != nil {
			return err
		}
		if err := appendRows(ch.Particles, w.scratch.particles); err != nil {
			return err
		}
		if err := appendRows(ch.Summaries, w.scratch.summaries); err != nil {
			return err
		}
		if err := appendRows(ch.Raw, w.scratch.raw); err != nil {
			return err
		}
		if err := appendRows(ch.Dgt, w.scratch.dgt); err != nil {
			return err
		}
		if err := appendRows(ch.Steps, w.scratch.steps); err != nil {
			return err
		}
		if err := appendRows(ch.Signal, w.scratch.signal); err != nil {
			return err
		}
		if err := appendRows(ch.Quantum, w.scratch.quantum); err != nil {
			return err
		}
		return appendRows(ch.MultiDgt, w.scratch.multiDgt)
	}
	if err := flush(); err != nil {
		return &ErrWrite{Destination: c.segmentName(), Event: evt, Err: err}
	}
	w.scratch = hdf5Event{}
	ch.EvtCounter++

	if c.RolloverEvery() > 0 && ch.EvtCounter >= c.RolloverEvery() {
		if err := c.Rollover(); err != nil {
			return &ErrWrite{Destination: c.segmentName(), Event: evt, Err: err}
		}
		if err := w.appendConditions(c.Hdf5); err != nil {
			return &ErrWrite{Destination: c.segmentName(), Event: evt, Err: err}
		}
	}
	return nil
}
