// Package twin detects near-identical properties: same model, same street,
// same floor plan. Stricter than comparability scoring, with a 0-110 scale
// whose top band distinguishes "super twins" from ordinary perfect matches.
package twin

import (
	"fmt"
	"math"
	"sort"

	"github.com/compsred/comps-engine/internal/domain/property"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// Classification thresholds on the 0-110 twin scale.
const (
	TwinThreshold        = 90
	PerfectTwinThreshold = 95
	MaxTwinScore         = 110
)

// Finder scores candidates for twin-ness against a subject property.
// Pure and deterministic; safe for concurrent use.
type Finder struct{}

// NewFinder returns a twin Finder.
func NewFinder() *Finder {
	return &Finder{}
}

// FindTwins scores every candidate against the subject and returns matches
// sorted by twin score descending. Ties keep input order (stable sort).
func (f *Finder) FindTwins(subject *proptypes.PropertyRecord, candidates []*proptypes.PropertyRecord) []proptypes.TwinMatch {
	matches := make([]proptypes.TwinMatch, 0, len(candidates))
	for _, cand := range candidates {
		score := f.TwinScore(subject, cand)
		matches = append(matches, proptypes.TwinMatch{
			Record:        cand,
			TwinScore:     score,
			IsTwin:        score >= TwinThreshold,
			IsPerfectTwin: score >= PerfectTwinThreshold,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].TwinScore > matches[j].TwinScore
	})
	return matches
}

// TwinScore computes the 0-110 twin score of cand against subject.
// A property-type mismatch short-circuits to 0: different types are not
// comparable at all.
func (f *Finder) TwinScore(subject, cand *proptypes.PropertyRecord) int {
	if subject.PropertyType != cand.PropertyType {
		return 0
	}

	score := 100.0

	if subject.Beds != cand.Beds {
		score -= 20
	}
	if subject.Baths != cand.Baths {
		score -= 15
	}

	yearDiff := math.Abs(float64(subject.YearBuilt - cand.YearBuilt))
	if yearDiff > 5 {
		score -= math.Min(20, yearDiff-5)
	}

	sqftDiff := math.Abs(float64(cand.Sqft-subject.Sqft)) / float64(subject.Sqft)
	if sqftDiff > 0.05 {
		score -= math.Min(15, sqftDiff*100)
	}

	if subject.LotSize > 0 && cand.LotSize > 0 {
		lotDiff := math.Abs(float64(cand.LotSize-subject.LotSize)) / float64(subject.LotSize)
		if lotDiff > 0.10 {
			score -= math.Min(10, lotDiff*50)
		}
	}

	sameStreet := property.SameStreet(subject.Address, cand.Address)
	if sameStreet {
		score += 10 // can exceed 100 for perfect twins
	} else if distance := distanceMiles(sameStreet); distance > 0.5 {
		score -= math.Min(20, distance*10)
	}

	if subject.Subdivision != "" && cand.Subdivision != "" && subject.Subdivision == cand.Subdivision {
		score += 5
	}

	if SameFloorPlan(subject, cand) {
		score += 15 // identical floor plans are gold for track homes
	}

	return int(math.Max(0, math.Min(MaxTwinScore, score)))
}

// SameFloorPlan reports whether two properties likely share a floor plan:
// exact match on sqft, beds, and baths with builds within five years, or
// within 50 sqft with matching bed and bath counts.
func SameFloorPlan(a, b *proptypes.PropertyRecord) bool {
	if a.Sqft == b.Sqft && a.Beds == b.Beds && a.Baths == b.Baths &&
		math.Abs(float64(a.YearBuilt-b.YearBuilt)) <= 5 {
		return true
	}
	return math.Abs(float64(a.Sqft-b.Sqft)) <= 50 && a.Beds == b.Beds && a.Baths == b.Baths
}

// distanceMiles is the geocoding stub shared with the scoring engine:
// 0.1 miles on the same street, 0.5 otherwise.
func distanceMiles(sameStreet bool) float64 {
	if sameStreet {
		return 0.1
	}
	return 0.5
}

// ─────────────────────────────────────────────────────────────────────────────
// Model grouping
// ─────────────────────────────────────────────────────────────────────────────

// GroupByModel clusters properties by floor-plan signature (beds, baths,
// sqft rounded to the nearest hundred) and computes per-model price
// averages. Useful for valuing track homes where models repeat.
func GroupByModel(properties []*proptypes.PropertyRecord) map[string]*proptypes.ModelGroup {
	models := make(map[string]*proptypes.ModelGroup)

	for _, p := range properties {
		key := ModelKey(p)
		group, ok := models[key]
		if !ok {
			group = &proptypes.ModelGroup{ModelName: key}
			models[key] = group
		}
		group.Properties = append(group.Properties, p)
	}

	for _, group := range models {
		var totalPrice, totalPPSF float64
		for _, p := range group.Properties {
			totalPrice += float64(p.Price)
			totalPPSF += float64(p.Price) / float64(p.Sqft)
		}
		n := float64(len(group.Properties))
		group.AvgPrice = totalPrice / n
		group.AvgPricePerSqft = totalPPSF / n
	}

	return models
}

// ModelKey returns the floor-plan signature for a property, e.g. "3_2.5_1500".
func ModelKey(p *proptypes.PropertyRecord) string {
	rounded := int64(math.Round(float64(p.Sqft)/100) * 100)
	return fmt.Sprintf("%v_%v_%d", p.Beds, p.Baths, rounded)
}

//Personal.AI order the ending
