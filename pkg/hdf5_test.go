package output

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestHdf5StringConversionRoundTrip(t *testing.T) {
	for _, s := range []string{"", "edep", "a_rather_long_variable"} {
		if got := stringFromHdf5(convertToHdf5String(s)); got != s {
			t.Errorf("round trip of %q = %q", s, got)
		}
	}
	// longer than STRLEN gets truncated, not corrupted
	long := "0123456789012345678901234567890123456789"
	if got := stringFromHdf5(convertToHdf5String(long)); got != long[:STRLEN] {
		t.Errorf("truncation of %q = %q", long, got)
	}
}

// Write a short run and read it back through the same technology: headers,
// particles and per-detector maps must survive, in the original order.
func TestHdf5RoundTrip(t *testing.T) {
	SetConfiguration(Configuration{CompressionLevel: 1})

	filename := filepath.Join(t.TempDir(), "run.h5")
	c, err := NewOutputContainer(Configuration{OutputFormat: "hdf5", FileOut: filename})
	if err != nil {
		t.Fatal(err)
	}
	w := NewHdf5Writer()

	conditions := map[string]string{"generator": "beam", "run_number": "42"}
	if err := w.RecordSimConditions(c, conditions); err != nil {
		t.Fatal(err)
	}

	banks := BankSet{
		"ctof": {Name: "ctof", RawVars: []string{"edep"}, DgtVars: []string{"adc"}},
	}

	// event 0: one particle, raw and digitized views
	hit0 := HitRecord{
		Raws: map[string]float64{"edep": 1.5},
		Dgtz: map[string]float64{"adc": 812},
	}
	particle := GeneratedParticle{
		Vertex:       [3]float64{0, 0, 0},
		Momentum:     [3]float64{0, 0, 1},
		PID:          11,
		Time:         0,
		Multiplicity: 1,
		Summaries:    []ParticleSummary{{Detector: "ctof", Stat: 1, Etot: 1.5, Time: 2.5, Nphe: 4}},
	}
	if err := w.WriteHeader(c, map[string]float64{"evn": 1}, Bank{}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteGenerated(c, []GeneratedParticle{particle}, banks); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteG4RawIntegrated(c, []HitRecord{hit0}, "ctof", banks); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteG4DgtIntegrated(c, []HitRecord{hit0}, "ctof", banks); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEvent(c); err != nil {
		t.Fatal(err)
	}

	// event 1: no particles, step and signal data
	hit1 := HitRecord{
		Dgtz:     map[string]float64{"adc": 40},
		RawSteps: map[string][]float64{"edep": {0.1, 0.2, 0.3}},
		SignalVT: map[float64]float64{0: 0, 4: 1.25},
		QuantumS: map[int]int{0: 0, 1: 3},
		MultiDgt: map[string][]int{"ch": {1, 2}},
	}
	if err := w.WriteHeader(c, map[string]float64{"evn": 2}, Bank{}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteGenerated(c, nil, banks); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteG4RawAll(c, []HitRecord{{}, hit1}, "ctof", banks); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteG4DgtIntegrated(c, []HitRecord{hit1}, "ctof", banks); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEvent(c); err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	run, err := ReadRunFile(filename)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(run.Conditions, conditions) {
		t.Errorf("conditions = %v, want %v", run.Conditions, conditions)
	}
	if len(run.Events) != 2 {
		t.Fatalf("read %d events, want 2", len(run.Events))
	}

	ev0 := run.Events[0]
	if ev0.Header["evn"] != 1 {
		t.Errorf("event 0 header = %v", ev0.Header)
	}
	if len(ev0.Particles) != 1 {
		t.Fatalf("event 0 has %d particles, want 1", len(ev0.Particles))
	}
	p := ev0.Particles[0]
	if p.PID != 11 || p.Momentum != particle.Momentum || p.Vertex != particle.Vertex ||
		p.Time != particle.Time || p.Multiplicity != particle.Multiplicity {
		t.Errorf("particle = %+v, want %+v", p, particle)
	}
	if !reflect.DeepEqual(p.Summaries, particle.Summaries) {
		t.Errorf("summaries = %+v, want %+v", p.Summaries, particle.Summaries)
	}
	hits0 := ev0.Hits["ctof"]
	if len(hits0) != 1 {
		t.Fatalf("event 0 ctof hits = %d, want 1", len(hits0))
	}
	if !reflect.DeepEqual(hits0[0].Raws, hit0.Raws) {
		t.Errorf("raw map = %v, want %v", hits0[0].Raws, hit0.Raws)
	}
	if !reflect.DeepEqual(hits0[0].Dgtz, hit0.Dgtz) {
		t.Errorf("dgt map = %v, want %v", hits0[0].Dgtz, hit0.Dgtz)
	}

	ev1 := run.Events[1]
	if ev1.Header["evn"] != 2 {
		t.Errorf("event 1 header = %v", ev1.Header)
	}
	if len(ev1.Particles) != 0 {
		t.Errorf("event 1 has %d particles, want 0", len(ev1.Particles))
	}
	hits1 := ev1.Hits["ctof"]
	// the first hit of WriteG4RawAll had no step data and was skipped; the
	// digitized call wrote hit 0, so the reader sees two hit slots
	if len(hits1) != 2 {
		t.Fatalf("event 1 ctof hits = %d, want 2", len(hits1))
	}
	if !reflect.DeepEqual(hits1[1].RawSteps, hit1.RawSteps) {
		t.Errorf("raw steps = %v, want %v", hits1[1].RawSteps, hit1.RawSteps)
	}
	if !reflect.DeepEqual(hits1[0].Dgtz, hit1.Dgtz) {
		t.Errorf("dgt map = %v, want %v", hits1[0].Dgtz, hit1.Dgtz)
	}
	if !reflect.DeepEqual(hits1[0].SignalVT, hit1.SignalVT) {
		t.Errorf("signal = %v, want %v", hits1[0].SignalVT, hit1.SignalVT)
	}
	if !reflect.DeepEqual(hits1[0].QuantumS, hit1.QuantumS) {
		t.Errorf("quantum = %v, want %v", hits1[0].QuantumS, hit1.QuantumS)
	}
	if !reflect.DeepEqual(hits1[0].MultiDgt, hit1.MultiDgt) {
		t.Errorf("multi dgt = %v, want %v", hits1[0].MultiDgt, hit1.MultiDgt)
	}
}
