package output

import (
	"fmt"

	hdf5 "github.com/next-exp/hdf5-go"
)

// RunFile is the in-memory image of one hdf5 output file: the simulation
// conditions plus every event record, in written order. Used to verify and
// post-process written runs.
type RunFile struct {
	Conditions map[string]string
	Events     []EventRecord
}

// EventRecord regroups the table rows of one event back into the data model.
// Hits carry both the raw and digitized views, indexed by detector name.
type EventRecord struct {
	Number    int
	Header    map[string]float64
	Particles []GeneratedParticle
	Hits      map[string][]HitRecord
}

// ReadRunFile reads a file written by the hdf5 writer back into memory.
func ReadRunFile(filename string) (*RunFile, error) {
	hdf5.SetStringLength(STRLEN)

	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer f.Close()

	runGroup, err := f.OpenGroup("Run")
	if err != nil {
		return nil, fmt.Errorf("error opening run group: %w", err)
	}
	defer runGroup.Close()
	eventGroup, err := f.OpenGroup("Events")
	if err != nil {
		return nil, fmt.Errorf("error opening events group: %w", err)
	}
	defer eventGroup.Close()

	conditions, err := readTable[conditionHDF5](runGroup, "conditions")
	if err != nil {
		return nil, err
	}
	headers, err := readTable[headerHDF5](eventGroup, "headers")
	if err != nil {
		return nil, err
	}
	particles, err := readTable[particleHDF5](eventGroup, "particles")
	if err != nil {
		return nil, err
	}
	summaries, err := readTable[summaryHDF5](eventGroup, "summaries")
	if err != nil {
		return nil, err
	}
	raw, err := readTable[bankValueHDF5](eventGroup, "raw")
	if err != nil {
		return nil, err
	}
	dgt, err := readTable[bankValueHDF5](eventGroup, "dgtz")
	if err != nil {
		return nil, err
	}
	steps, err := readTable[stepValueHDF5](eventGroup, "rawSteps")
	if err != nil {
		return nil, err
	}
	signal, err := readTable[signalHDF5](eventGroup, "signal")
	if err != nil {
		return nil, err
	}
	quantum, err := readTable[quantumHDF5](eventGroup, "quantum")
	if err != nil {
		return nil, err
	}
	multiDgt, err := readTable[multiDgtHDF5](eventGroup, "multiDgt")
	if err != nil {
		return nil, err
	}

	run := &RunFile{Conditions: map[string]string{}}
	for _, row := range conditions {
		run.Conditions[stringFromHdf5(row.param)] = stringFromHdf5(row.value)
	}

	events := map[int]*EventRecord{}
	order := []int{}
	record := func(evt int32) *EventRecord {
		n := int(evt)
		if ev, ok := events[n]; ok {
			return ev
		}
		ev := &EventRecord{
			Number: n,
			Header: map[string]float64{},
			Hits:   map[string][]HitRecord{},
		}
		events[n] = ev
		order = append(order, n)
		return ev
	}
	hit := func(ev *EventRecord, detector string, index int32) *HitRecord {
		hits := ev.Hits[detector]
		for len(hits) <= int(index) {
			hits = append(hits, HitRecord{})
		}
		ev.Hits[detector] = hits
		return &ev.Hits[detector][index]
	}

	for _, row := range headers {
		ev := record(row.evt_number)
		ev.Header[stringFromHdf5(row.field)] = row.value
	}
	for _, row := range particles {
		ev := record(row.evt_number)
		for len(ev.Particles) <= int(row.index) {
			ev.Particles = append(ev.Particles, GeneratedParticle{})
		}
		ev.Particles[row.index] = GeneratedParticle{
			Vertex:       [3]float64{row.vx, row.vy, row.vz},
			Momentum:     [3]float64{row.px, row.py, row.pz},
			PID:          int(row.pid),
			Time:         row.time,
			Multiplicity: int(row.multiplicity),
		}
	}
	for _, row := range summaries {
		ev := record(row.evt_number)
		if int(row.particle) >= len(ev.Particles) {
			return nil, fmt.Errorf("summary row for missing particle %d in event %d", row.particle, row.evt_number)
		}
		p := &ev.Particles[row.particle]
		p.Summaries = append(p.Summaries, ParticleSummary{
			Detector: stringFromHdf5(row.detector),
			Stat:     int(row.stat),
			Etot:     row.etot,
			Time:     row.time,
			Nphe:     int(row.nphe),
		})
	}
	for _, row := range raw {
		h := hit(record(row.evt_number), stringFromHdf5(row.detector), row.hit)
		if h.Raws == nil {
			h.Raws = map[string]float64{}
		}
		h.Raws[stringFromHdf5(row.variable)] = row.value
	}
	for _, row := range dgt {
		h := hit(record(row.evt_number), stringFromHdf5(row.detector), row.hit)
		if h.Dgtz == nil {
			h.Dgtz = map[string]float64{}
		}
		h.Dgtz[stringFromHdf5(row.variable)] = row.value
	}
	for _, row := range steps {
		h := hit(record(row.evt_number), stringFromHdf5(row.detector), row.hit)
		if h.RawSteps == nil {
			h.RawSteps = map[string][]float64{}
		}
		name := stringFromHdf5(row.variable)
		h.RawSteps[name] = append(h.RawSteps[name], row.value)
	}
	for _, row := range signal {
		h := hit(record(row.evt_number), stringFromHdf5(row.detector), row.hit)
		if h.SignalVT == nil {
			h.SignalVT = map[float64]float64{}
		}
		h.SignalVT[row.time] = row.voltage
	}
	for _, row := range quantum {
		h := hit(record(row.evt_number), stringFromHdf5(row.detector), row.hit)
		if h.QuantumS == nil {
			h.QuantumS = map[int]int{}
		}
		h.QuantumS[int(row.bunch)] = int(row.amplitude)
	}
	for _, row := range multiDgt {
		h := hit(record(row.evt_number), stringFromHdf5(row.detector), row.hit)
		if h.MultiDgt == nil {
			h.MultiDgt = map[string][]int{}
		}
		name := stringFromHdf5(row.variable)
		h.MultiDgt[name] = append(h.MultiDgt[name], int(row.value))
	}

	for _, n := range order {
		run.Events = append(run.Events, *events[n])
	}
	return run, nil
}

func readTable[T any](group *hdf5.Group, name string) ([]T, error) {
	dset, err := group.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("error opening table %s: %w", name, err)
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, fmt.Errorf("error reading extent of table %s: %w", name, err)
	}

	rows := make([]T, int(dims[0]))
	if len(rows) == 0 {
		return rows, nil
	}
	if err := dset.Read(&rows); err != nil {
		return nil, fmt.Errorf("error reading table %s: %w", name, err)
	}
	return rows, nil
}
