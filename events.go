package main

import (
	"sort"

	output "github.com/detsim/output_go/pkg"
)

// SimEvent is one event of the simulation dump consumed by the driver.
type SimEvent struct {
	Header    map[string]float64  `json:"header"`
	Particles []SimParticle       `json:"particles"`
	Hits      map[string][]SimHit `json:"hits"`
}

type SimParticle struct {
	Vertex       [3]float64 `json:"vertex"`
	Momentum     [3]float64 `json:"momentum"`
	PID          int        `json:"pid"`
	Time         float64    `json:"time"`
	Multiplicity int        `json:"multiplicity"`
}

// SimHit carries every capture category a detector may have produced, plus
// the index of the generating particle for the per-detector summaries.
// Signal and quantum samples are pair arrays because JSON keys cannot be
// numbers.
type SimHit struct {
	Particle int                  `json:"particle"`
	Edep     float64              `json:"edep"`
	Time     float64              `json:"time"`
	Nphe     int                  `json:"nphe"`
	Raw      map[string]float64   `json:"raw"`
	Dgt      map[string]float64   `json:"dgt"`
	RawSteps map[string][]float64 `json:"raw_steps"`
	Signal   [][2]float64         `json:"signal"`
	Quantum  [][2]int             `json:"quantum"`
	MultiDgt map[string][]int     `json:"multi_dgt"`
}

// toHitRecord keeps only the capture categories enabled by the configuration.
func (h *SimHit) toHitRecord(config output.Configuration) output.HitRecord {
	hit := output.HitRecord{}
	if config.WriteRaw {
		hit.Raws = h.Raw
	}
	if config.WriteDgt {
		hit.Dgtz = h.Dgt
	}
	if config.WriteSteps {
		hit.RawSteps = h.RawSteps
	}
	if config.WriteSignal && len(h.Signal) > 0 {
		hit.SignalVT = map[float64]float64{}
		for _, s := range h.Signal {
			hit.SignalVT[s[0]] = s[1]
		}
	}
	if config.WriteQuantum && len(h.Quantum) > 0 {
		hit.QuantumS = map[int]int{}
		for _, q := range h.Quantum {
			hit.QuantumS[q[0]] = q[1]
		}
	}
	if config.WriteMultiDgt {
		hit.MultiDgt = h.MultiDgt
	}
	return hit
}

func convertHits(simHits []SimHit, config output.Configuration) []output.HitRecord {
	hits := make([]output.HitRecord, len(simHits))
	for i := range simHits {
		hits[i] = simHits[i].toHitRecord(config)
	}
	return hits
}

// generated builds the particle list of one event, aggregating a summary per
// (particle, detector) pair from the hits the particle caused.
func (e *SimEvent) generated() []output.GeneratedParticle {
	particles := make([]output.GeneratedParticle, len(e.Particles))
	for i, p := range e.Particles {
		particles[i] = output.GeneratedParticle{
			Vertex:       p.Vertex,
			Momentum:     p.Momentum,
			PID:          p.PID,
			Time:         p.Time,
			Multiplicity: p.Multiplicity,
		}
	}

	type summaryKey struct {
		particle int
		detector string
	}
	summaries := map[summaryKey]*output.ParticleSummary{}
	for detector, hits := range e.Hits {
		for i := range hits {
			if hits[i].Particle < 0 || hits[i].Particle >= len(particles) {
				continue
			}
			key := summaryKey{particle: hits[i].Particle, detector: detector}
			s, ok := summaries[key]
			if !ok {
				summary := output.NewParticleSummary(detector)
				s = &summary
				summaries[key] = s
			}
			s.RecordHit(hits[i].Edep, hits[i].Time, hits[i].Nphe)
		}
	}

	detectors := sortedDetectors(e.Hits)
	for i := range particles {
		for _, detector := range detectors {
			if s, ok := summaries[summaryKey{particle: i, detector: detector}]; ok {
				particles[i].Summaries = append(particles[i].Summaries, *s)
			}
		}
	}
	return particles
}

func sortedDetectors(hits map[string][]SimHit) []string {
	detectors := make([]string, 0, len(hits))
	for detector := range hits {
		detectors = append(detectors, detector)
	}
	sort.Strings(detectors)
	return detectors
}
