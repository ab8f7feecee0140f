package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// A segment budget of one event produces one numbered file per event, each
// carrying its own conditions record.
func TestRolloverSegmentsEveryEvent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "run.txt")
	config := Configuration{
		OutputFormat:   "txt",
		FileOut:        out,
		RolloverEvents: 1,
	}
	c, err := NewOutputContainer(config)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if c.RolloverEvery() != 1 {
		t.Fatalf("RolloverEvery() = %d, want 1", c.RolloverEvery())
	}

	w := NewTxtWriter()
	if err := w.RecordSimConditions(c, map[string]string{"run_number": "11"}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := w.WriteHeader(c, map[string]float64{"evn": float64(i)}, Bank{}); err != nil {
			t.Fatal(err)
		}
		if err := w.WriteGenerated(c, nil, nil); err != nil {
			t.Fatal(err)
		}
		if err := w.WriteEvent(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("unsegmented file %s exists although rollover is on", out)
	}
	for i, event := range []string{"Event 0", "Event 1"} {
		segment := fmt.Sprintf("%s.%d", out, i)
		data, err := os.ReadFile(segment)
		if err != nil {
			t.Fatal(err)
		}
		seg := string(data)
		if !strings.Contains(seg, event) {
			t.Errorf("segment %s does not contain %q:\n%s", segment, event, seg)
		}
		if !strings.Contains(seg, "run_number: 11") {
			t.Errorf("segment %s has no conditions record:\n%s", segment, seg)
		}
	}
	first, err := os.ReadFile(out + ".0")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(first), "Event 1") {
		t.Errorf("second event leaked into the first segment:\n%s", first)
	}
}

func TestRolloverDisabledKeepsSingleFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "run.txt")
	c, err := NewOutputContainer(Configuration{OutputFormat: "txt", FileOut: out})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	w := NewTxtWriter()
	if err := w.RecordSimConditions(c, nil); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := w.WriteHeader(c, nil, Bank{}); err != nil {
			t.Fatal(err)
		}
		if err := w.WriteEvent(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(out); err != nil {
		t.Fatalf("single output file missing: %v", err)
	}
	if _, err := os.Stat(out + ".0"); !os.IsNotExist(err) {
		t.Errorf("numbered segment created although rollover is off")
	}
}
