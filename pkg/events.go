package output

// MissingValue is returned when a variable is not present in a hit.
// Optional capture categories are commonly disabled, so an absent key is
// an ordinary condition, not an error.
const MissingValue = -99

// HitRecord holds the dynamic output of one hit. Which categories are filled
// depends on the capture flags: digitized is on by default, everything else
// off. The record is read-only once handed to a writer.
type HitRecord struct {
	// geant4 truth, integrated over the hit
	Raws map[string]float64
	// digitized information derived from the raw values
	Dgtz map[string]float64
	// geant4 truth, step by step
	RawSteps map[string][]float64
	// treated voltage signal as a function of time
	SignalVT map[float64]float64
	// quantized signal per time bunch
	QuantumS map[int]int
	// multi-channel digitized values, step by step
	MultiDgt map[string][]int
}

// RawValue returns the integrated raw value for a variable, or MissingValue
// if the hit does not carry it.
func (h *HitRecord) RawValue(name string) float64 {
	if v, ok := h.Raws[name]; ok {
		return v
	}
	return MissingValue
}

// DgtValue returns the digitized value for a variable, or MissingValue if the
// hit does not carry it.
func (h *HitRecord) DgtValue(name string) float64 {
	if v, ok := h.Dgtz[name]; ok {
		return v
	}
	return MissingValue
}

// ParticleSummary aggregates, for one detector, all the hits caused by a
// primary particle and its descendants.
type ParticleSummary struct {
	Detector string
	Stat     int
	Etot     float64
	Time     float64 // earliest hit time, -1 until the first hit
	Nphe     int
}

func NewParticleSummary(detector string) ParticleSummary {
	return ParticleSummary{Detector: detector, Time: -1}
}

// RecordHit folds one hit into the summary, keeping the earliest time.
func (s *ParticleSummary) RecordHit(edep float64, t float64, nphe int) {
	s.Stat++
	s.Etot += edep
	s.Nphe += nphe
	if s.Time < 0 || t < s.Time {
		s.Time = t
	}
}

// GeneratedParticle is one simulated primary particle (or secondary, when
// secondaries are enabled upstream), with one summary per detector it
// triggered. Owned by the per-event collection, never shared across events.
type GeneratedParticle struct {
	Vertex       [3]float64
	Momentum     [3]float64
	PID          int
	Time         float64
	Multiplicity int
	Summaries    []ParticleSummary
}
