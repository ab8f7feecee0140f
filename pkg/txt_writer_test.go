package output

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTxtContainer(t *testing.T) *OutputContainer {
	t.Helper()
	config := Configuration{
		OutputFormat: "txt",
		FileOut:      filepath.Join(t.TempDir(), "run.txt"),
	}
	c, err := NewOutputContainer(config)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func readBack(t *testing.T, c *OutputContainer) string {
	t.Helper()
	data, err := os.ReadFile(c.OutFile)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// One event, one electron, one detector with digitized-only capture.
func TestTxtWriterDigitizedOnlyEvent(t *testing.T) {
	c := newTxtContainer(t)
	defer c.Close()
	w := NewTxtWriter()

	if err := w.RecordSimConditions(c, map[string]string{"generator": "beam"}); err != nil {
		t.Fatal(err)
	}

	hit := HitRecord{Dgtz: map[string]float64{"edep": 1.5}}
	particle := GeneratedParticle{
		Momentum:     [3]float64{0, 0, 1},
		PID:          11,
		Multiplicity: 1,
		Summaries:    []ParticleSummary{{Detector: "ctof", Stat: 1, Etot: 1.5, Time: 0}},
	}
	banks := BankSet{"ctof": {Name: "ctof", DgtVars: []string{"edep"}}}

	if err := w.WriteHeader(c, map[string]float64{"evn": 1}, Bank{}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteGenerated(c, []GeneratedParticle{particle}, banks); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteG4DgtIntegrated(c, []HitRecord{hit}, "ctof", banks); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEvent(c); err != nil {
		t.Fatal(err)
	}

	out := readBack(t, c)
	for _, want := range []string{
		"Simulation Conditions",
		"generator: beam",
		"Event 0",
		"evn: 1",
		"Generated Particles: 1",
		"pid: 11",
		"Digitized Bank ctof: 1 hits",
		"edep: 1.5",
		"End of Event",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Raw Bank") {
		t.Errorf("raw bank written although raw capture was off:\n%s", out)
	}
	if v := hit.RawValue("edep"); v != MissingValue {
		t.Errorf("raw query on digitized-only hit = %v, want %v", v, float64(MissingValue))
	}
}

// The header bank schema fixes field order and labels; schema fields the
// event never filled carry the sentinel, fields outside it are dropped.
func TestTxtWriterHeaderFollowsBankSchema(t *testing.T) {
	c := newTxtContainer(t)
	defer c.Close()
	w := NewTxtWriter()

	if err := w.RecordSimConditions(c, nil); err != nil {
		t.Fatal(err)
	}
	schema := Bank{Name: "header", DgtVars: []string{"evn", "runNo", "beamPol"}}
	header := map[string]float64{"evn": 4, "runNo": 11, "extra": 3}
	if err := w.WriteHeader(c, header, schema); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEvent(c); err != nil {
		t.Fatal(err)
	}

	out := readBack(t, c)
	if !strings.Contains(out, "beamPol: -99") {
		t.Errorf("schema field without a value not written with the sentinel:\n%s", out)
	}
	if strings.Contains(out, "extra") {
		t.Errorf("field outside the header schema written:\n%s", out)
	}
	evn, runNo := strings.Index(out, "evn:"), strings.Index(out, "runNo:")
	if evn == -1 || runNo == -1 || evn > runNo {
		t.Errorf("schema field order not preserved:\n%s", out)
	}
}

func TestTxtWriterEmptyParticleList(t *testing.T) {
	c := newTxtContainer(t)
	defer c.Close()
	w := NewTxtWriter()

	if err := w.RecordSimConditions(c, nil); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteHeader(c, map[string]float64{"evn": 7}, Bank{}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteGenerated(c, nil, nil); err != nil {
		t.Fatalf("WriteGenerated with no particles: %v", err)
	}
	if err := w.WriteEvent(c); err != nil {
		t.Fatal(err)
	}

	out := readBack(t, c)
	if !strings.Contains(out, "Generated Particles: 0") {
		t.Fatalf("missing empty particle block:\n%s", out)
	}
}

func TestTxtWriterZeroHitsIsNoOp(t *testing.T) {
	c := newTxtContainer(t)
	defer c.Close()
	w := NewTxtWriter()

	if err := w.RecordSimConditions(c, nil); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteHeader(c, nil, Bank{}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteG4RawIntegrated(c, nil, "dc", nil); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteG4DgtIntegrated(c, nil, "dc", nil); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEvent(c); err != nil {
		t.Fatal(err)
	}

	out := readBack(t, c)
	if strings.Contains(out, "Bank dc") {
		t.Fatalf("bank block written for a detector with no hits:\n%s", out)
	}
}

// A destination that becomes unwritable mid event is reported with the event
// index and does not poison a different, healthy destination.
func TestTxtWriterReportsWriteFailure(t *testing.T) {
	broken := newTxtContainer(t)
	w := NewTxtWriter()

	if err := w.RecordSimConditions(broken, nil); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteHeader(broken, nil, Bank{}); err != nil {
		t.Fatal(err)
	}
	broken.Txt.Close() // destination goes away

	err := w.WriteGenerated(broken, []GeneratedParticle{{PID: 22}}, nil)
	if err == nil {
		t.Fatal("expected a write failure on a closed destination")
	}
	var werr *ErrWrite
	if !errors.As(err, &werr) {
		t.Fatalf("error type = %T, want *ErrWrite", err)
	}
	if werr.Event != 0 {
		t.Fatalf("reported event = %d, want 0", werr.Event)
	}
	if werr.Destination != broken.OutFile {
		t.Fatalf("reported destination = %q, want %q", werr.Destination, broken.OutFile)
	}

	// a healthy destination keeps going
	healthy := newTxtContainer(t)
	defer healthy.Close()
	w2 := NewTxtWriter()
	if err := w2.RecordSimConditions(healthy, nil); err != nil {
		t.Fatal(err)
	}
	if err := w2.WriteHeader(healthy, nil, Bank{}); err != nil {
		t.Fatal(err)
	}
	if err := w2.WriteEvent(healthy); err != nil {
		t.Fatal(err)
	}
}

func TestContractOrderingViolationsPanic(t *testing.T) {
	c := newTxtContainer(t)
	defer c.Close()

	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", name)
			}
		}()
		fn()
	}

	w := NewTxtWriter()
	mustPanic("WriteHeader before RecordSimConditions", func() {
		w.WriteHeader(c, nil, Bank{})
	})

	w2 := NewTxtWriter()
	if err := w2.RecordSimConditions(c, nil); err != nil {
		t.Fatal(err)
	}
	mustPanic("WriteGenerated before WriteHeader", func() {
		w2.WriteGenerated(c, nil, nil)
	})
	mustPanic("WriteEvent before WriteHeader", func() {
		w2.WriteEvent(c)
	})
}
