package adapters

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

// Estimate is the per-photo output of a damage estimator.
type Estimate struct {
	Damages      map[string]model.DamageDetail
	Measurements model.Measurements
}

// DamageEstimator produces a damage estimate for one photo. The simulated
// implementation stands in for a computer-vision backend.
type DamageEstimator interface {
	Estimate(ctx context.Context, photo *model.Photo) (*Estimate, error)
}

type SimulatedEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Make sure we conform to DamageEstimator interface
var _ DamageEstimator = (*SimulatedEstimator)(nil)

func NewSimulatedEstimator(seed int64) *SimulatedEstimator {
	return &SimulatedEstimator{rng: rand.New(rand.NewSource(seed))}
}

func (e *SimulatedEstimator) Estimate(ctx context.Context, photo *model.Photo) (*Estimate, error) {
	if photo == nil {
		return nil, fmt.Errorf("no photo to estimate")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	categories := e.selectCategories(photo.DamageTypeHint)

	damages := make(map[string]model.DamageDetail, len(categories))
	var measurements model.Measurements
	for _, category := range categories {
		damages[category] = model.DamageDetail{
			Severity:     e.uniform(0.3, 0.9),
			Confidence:   e.uniform(0.7, 0.98),
			AreaFraction: e.uniform(0.1, 0.6),
		}
		e.measure(category, &measurements)
	}

	return &Estimate{Damages: damages, Measurements: measurements}, nil
}

// selectCategories seeds the working set with the hinted category when it
// is recognized, then adds 1-3 random distinct extras.
func (e *SimulatedEstimator) selectCategories(hint string) []string {
	all := model.Categories()
	var selected []string

	hint = strings.ToLower(strings.TrimSpace(hint))
	if model.IsCategory(hint) {
		selected = append(selected, hint)
	}

	for i := 0; i < 1+e.rng.Intn(3); i++ {
		candidate := all[e.rng.Intn(len(all))]
		if !contains(selected, candidate) {
			selected = append(selected, candidate)
		}
	}

	// Degenerate case: unrecognized hint and every pick collided.
	if len(selected) == 0 {
		selected = append(selected, all[e.rng.Intn(len(all))])
	}
	return selected
}

func (e *SimulatedEstimator) measure(category string, m *model.Measurements) {
	switch category {
	case model.CategoryRoof:
		m.Roof = &model.RoofMeasurement{
			AreaSqFt:       float64(800 + e.rng.Intn(1701)),
			Pitch:          fmt.Sprintf("%d/12", 3+e.rng.Intn(10)),
			Material:       pick(e.rng, "asphalt shingle", "metal", "tile"),
			DamageFraction: round2(e.uniform(0.2, 0.9)),
		}
	case model.CategorySiding:
		m.Siding = &model.SidingMeasurement{
			AreaSqFt:       float64(400 + e.rng.Intn(1401)),
			Material:       pick(e.rng, "vinyl", "wood", "fiber cement"),
			DamageFraction: round2(e.uniform(0.2, 0.9)),
		}
	case model.CategoryStructural:
		components := []string{"wall", "ceiling", "floor", "beam", "column"}
		e.rng.Shuffle(len(components), func(i, j int) {
			components[i], components[j] = components[j], components[i]
		})
		m.Structural = &model.StructuralMeasurement{
			AffectedComponents: components[:1+e.rng.Intn(3)],
			Severity:           pick(e.rng, "minor", "moderate", "severe"),
		}
	case model.CategoryWater:
		m.Water = &model.WaterMeasurement{
			AffectedAreaSqFt: float64(100 + e.rng.Intn(901)),
			DepthInches:      float64(1 + e.rng.Intn(24)),
			Category:         1 + e.rng.Intn(3),
		}
	case model.CategoryDebris:
		m.Debris = &model.DebrisMeasurement{
			VolumeCubicYards: float64(5 + e.rng.Intn(46)),
			Type:             pick(e.rng, "construction", "vegetation", "mixed"),
		}
	}
}

func (e *SimulatedEstimator) uniform(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
