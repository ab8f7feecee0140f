package output

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
)

// Writer is the contract every output format implements. For one run the call
// order is fixed: RecordSimConditions once, then per event WriteHeader,
// followed by WriteGenerated and the per-detector WriteG4* calls in any
// cross-detector order, closed by WriteEvent. All calls operate against the
// same OutputContainer, from a single goroutine.
//
// I/O failures are returned as *ErrWrite: the event is lost for that
// destination but the run may continue. Calling out of order is a driver bug
// and panics.
type Writer interface {
	// RecordSimConditions writes the run-level metadata record. Called once,
	// before any event.
	RecordSimConditions(c *OutputContainer, conditions map[string]string) error

	// WriteHeader starts a new event record with its header fields and the
	// header schema descriptor.
	WriteHeader(c *OutputContainer, header map[string]float64, bank Bank) error

	// WriteGenerated writes the generated particles of the current event with
	// their per-detector summaries. An empty slice is valid.
	WriteGenerated(c *OutputContainer, particles []GeneratedParticle, banks BankSet) error

	// WriteG4RawIntegrated writes the integrated geant4 truth of one detector.
	// Zero hits is a no-op.
	WriteG4RawIntegrated(c *OutputContainer, hits []HitRecord, detector string, banks BankSet) error

	// WriteG4RawAll writes the step by step geant4 truth of one detector.
	// Hits with no per-step data are skipped.
	WriteG4RawAll(c *OutputContainer, hits []HitRecord, detector string, banks BankSet) error

	// WriteG4DgtIntegrated writes the digitized bank of one detector,
	// including signal, quantized and multi-channel data when present.
	WriteG4DgtIntegrated(c *OutputContainer, hits []HitRecord, detector string, banks BankSet) error

	// WriteEvent finalizes the current event record, flushing it to the
	// destination, and rolls the stream over when the container asks for it.
	WriteEvent(c *OutputContainer) error
}

// writerState tracks the call sequence so contract violations fail loudly
// instead of leaving a partial record behind.
type writerState struct {
	conditionsDone bool
	inEvent        bool
	eventNumber    int
}

func (s *writerState) startRun() {
	if s.conditionsDone {
		panic("output: RecordSimConditions called twice in one run")
	}
	s.conditionsDone = true
}

func (s *writerState) startEvent() {
	if !s.conditionsDone {
		panic("output: WriteHeader before RecordSimConditions")
	}
	if s.inEvent {
		panic("output: WriteHeader called twice for the same event")
	}
	s.inEvent = true
}

func (s *writerState) requireEvent(call string) {
	if !s.inEvent {
		panic(fmt.Sprintf("output: %s outside an event (missing WriteHeader)", call))
	}
}

func (s *writerState) endEvent() {
	s.requireEvent("WriteEvent")
	s.inEvent = false
	s.eventNumber++
}

// Map iteration order is randomized; every writer sorts keys so two runs over
// the same events produce the same bytes.
func sortedNames[V any](m map[string]V) []string {
	names := maps.Keys(m)
	sort.Strings(names)
	return names
}

func sortedTimes[V any](m map[float64]V) []float64 {
	times := maps.Keys(m)
	sort.Float64s(times)
	return times
}

func sortedBunches[V any](m map[int]V) []int {
	bunches := maps.Keys(m)
	sort.Ints(bunches)
	return bunches
}

// headerVariables resolves the header field order: the header bank schema when
// one is configured, otherwise the sorted field names.
func headerVariables(bank Bank, header map[string]float64) []string {
	vars := make([]string, 0, len(bank.RawVars)+len(bank.DgtVars))
	vars = append(vars, bank.RawVars...)
	vars = append(vars, bank.DgtVars...)
	if len(vars) > 0 {
		return vars
	}
	return sortedNames(header)
}

// headerValue looks up one header field, with the sentinel for schema fields
// the event never filled.
func headerValue(header map[string]float64, field string) float64 {
	if value, ok := header[field]; ok {
		return value
	}
	return MissingValue
}

// rawVariables returns the variables to write for the raw view of a detector:
// the bank schema when one is known, otherwise whatever the hits carry.
func rawVariables(bank Bank, hits []HitRecord) []string {
	if len(bank.RawVars) > 0 {
		return bank.RawVars
	}
	seen := map[string]bool{}
	for i := range hits {
		for name := range hits[i].Raws {
			seen[name] = true
		}
	}
	return sortedNames(seen)
}

func dgtVariables(bank Bank, hits []HitRecord) []string {
	if len(bank.DgtVars) > 0 {
		return bank.DgtVars
	}
	seen := map[string]bool{}
	for i := range hits {
		for name := range hits[i].Dgtz {
			seen[name] = true
		}
	}
	return sortedNames(seen)
}
