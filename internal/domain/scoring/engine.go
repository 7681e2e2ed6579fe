// Package scoring computes the weighted comparability score between a
// subject property and one candidate comparable.
package scoring

import (
	"math"

	"github.com/compsred/comps-engine/internal/domain/property"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// ─────────────────────────────────────────────────────────────────────────────
// Weights and adjustment tables
// ─────────────────────────────────────────────────────────────────────────────

// Weights holds the four sub-score weights. They must sum to 1.0; config
// validation enforces this before an Engine is built from user settings.
type Weights struct {
	Location  float64
	Structure float64
	Condition float64
	Features  float64
}

// DefaultWeights reflect real-world impact: location dominates.
func DefaultWeights() Weights {
	return Weights{
		Location:  0.45,
		Structure: 0.25,
		Condition: 0.20,
		Features:  0.10,
	}
}

// RedFlagWeights are the additive penalties applied per detected red flag.
var RedFlagWeights = map[string]float64{
	"foundation_issues":    -25,
	"water_damage_history": -20,
	"mold_problems":        -20,
	"power_lines_nearby":   -15,
	"flood_zone":           -15,
	"busy_road":            -10,
	"environmental_hazard": -30,
	"structural_damage":    -25,
	"roof_issues":          -15,
	"hvac_failure":         -10,
}

// ValueBombWeights are the additive bonuses applied per detected value bomb.
var ValueBombWeights = map[string]float64{
	"recent_kitchen_update":  15,
	"recent_bathroom_update": 10,
	"energy_efficient":       8,
	"solar_panels":           10,
	"pool_warm_climate":      7,
	"finished_basement":      8,
	"garage_spaces":          5,
	"smart_home_features":    5,
	"new_roof":               10,
	"new_hvac":               8,
}

// ─────────────────────────────────────────────────────────────────────────────
// Adjustment detection
// ─────────────────────────────────────────────────────────────────────────────

// AdjustmentDetector finds red flags and value bombs on a comparable.
// Detection from listing descriptions or images is an extension point; the
// default detector finds nothing.
type AdjustmentDetector interface {
	DetectRedFlags(comp *proptypes.PropertyRecord) []proptypes.Adjustment
	DetectValueBombs(comp *proptypes.PropertyRecord) []proptypes.Adjustment
}

// NoopDetector is the default AdjustmentDetector. It detects nothing.
type NoopDetector struct{}

func (NoopDetector) DetectRedFlags(*proptypes.PropertyRecord) []proptypes.Adjustment {
	return nil
}

func (NoopDetector) DetectValueBombs(*proptypes.PropertyRecord) []proptypes.Adjustment {
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Engine
// ─────────────────────────────────────────────────────────────────────────────

// Engine scores candidate comparables against a subject property across four
// weighted dimensions. Pure and deterministic; safe for concurrent use.
type Engine struct {
	weights  Weights
	detector AdjustmentDetector
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights overrides the default sub-score weights.
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithDetector installs a custom red-flag / value-bomb detector.
func WithDetector(d AdjustmentDetector) Option {
	return func(e *Engine) {
		if d != nil {
			e.detector = d
		}
	}
}

// NewEngine builds an Engine with default weights and a no-op detector.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights:  DefaultWeights(),
		detector: NoopDetector{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the 0-100 comparability score of comp against subject.
// Sub-scores are not individually clamped before weighting; only the final
// adjusted sum is clamped.
func (e *Engine) Score(subject, comp *proptypes.PropertyRecord) proptypes.ScoreResult {
	location := e.scoreLocation(subject, comp)
	structure := e.scoreStructure(subject, comp)
	condition := e.scoreCondition(subject, comp)
	features := e.scoreFeatures(subject, comp)

	weighted := location*e.weights.Location +
		structure*e.weights.Structure +
		condition*e.weights.Condition +
		features*e.weights.Features

	redFlags := e.detector.DetectRedFlags(comp)
	valueBombs := e.detector.DetectValueBombs(comp)

	adjusted := weighted
	for i := range redFlags {
		redFlags[i].Points = RedFlagWeights[redFlags[i].Type]
		adjusted += redFlags[i].Points
	}
	for i := range valueBombs {
		valueBombs[i].Points = ValueBombWeights[valueBombs[i].Type]
		adjusted += valueBombs[i].Points
	}

	return proptypes.ScoreResult{
		Score: int(math.Round(clamp(adjusted, 0, 100))),
		Breakdown: proptypes.ScoreBreakdown{
			Location:   int(math.Round(location)),
			Structure:  int(math.Round(structure)),
			Condition:  int(math.Round(condition)),
			Features:   int(math.Round(features)),
			RedFlags:   redFlags,
			ValueBombs: valueBombs,
		},
	}
}

// Compare produces the full per-dimension comparison of comp against subject,
// signed comparable-minus-subject, with the comparability score attached.
func (e *Engine) Compare(subject, comp *proptypes.PropertyRecord) proptypes.ComparisonResult {
	result := e.Score(subject, comp)

	return proptypes.ComparisonResult{
		PriceDiff:               comp.Price - subject.Price,
		PriceDiffPercent:        percentDiff(float64(comp.Price), float64(subject.Price)),
		SqftDiff:                comp.Sqft - subject.Sqft,
		SqftDiffPercent:         percentDiff(float64(comp.Sqft), float64(subject.Sqft)),
		PricePerSqftDiff:        comp.PricePerSqft - subject.PricePerSqft,
		PricePerSqftDiffPercent: percentDiff(float64(comp.PricePerSqft), float64(subject.PricePerSqft)),
		AgeDiff:                 subject.YearBuilt - comp.YearBuilt,
		BedsDiff:                comp.Beds - subject.Beds,
		BathsDiff:               comp.Baths - subject.Baths,
		DaysOnMarketDiff:        comp.DaysOnMarket - subject.DaysOnMarket,
		ComparabilityScore:      result.Score,
		Breakdown:               result.Breakdown,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Sub-scores
// ─────────────────────────────────────────────────────────────────────────────

// scoreLocation starts at 100. A same-street match short-circuits to a
// perfect score; otherwise distance, school, and neighborhood mismatches
// subtract.
func (e *Engine) scoreLocation(subject, comp *proptypes.PropertyRecord) float64 {
	score := 100.0

	if property.SameStreet(subject.Address, comp.Address) {
		return 100
	}

	distance := e.distanceMiles(subject, comp)
	if distance > 0.1 {
		score -= math.Min(50, distance*10)
	}

	if subject.Schools.Elementary != comp.Schools.Elementary {
		score -= 20
	}
	if subject.Neighborhood != comp.Neighborhood {
		score -= 15
	}

	return score
}

func (e *Engine) scoreStructure(subject, comp *proptypes.PropertyRecord) float64 {
	score := 100.0

	sqftDiff := math.Abs(float64(comp.Sqft-subject.Sqft)) / float64(subject.Sqft)
	score -= math.Min(40, sqftDiff*100)

	score -= math.Abs(float64(comp.Beds-subject.Beds)) * 15
	score -= math.Abs(comp.Baths-subject.Baths) * 10

	if subject.LotSize > 0 && comp.LotSize > 0 {
		lotDiff := math.Abs(float64(comp.LotSize-subject.LotSize)) / float64(subject.LotSize)
		score -= math.Min(10, lotDiff*20)
	}

	if subject.PropertyType != comp.PropertyType {
		score -= 20
	}

	return score
}

func (e *Engine) scoreCondition(subject, comp *proptypes.PropertyRecord) float64 {
	score := 100.0

	ageDiff := math.Abs(float64(comp.YearBuilt - subject.YearBuilt))
	if ageDiff > 20 {
		score -= 20
	} else if ageDiff > 10 {
		score -= 10
	}

	if comp.DaysOnMarket > 90 {
		score -= 15
	}

	subjectPPSF := float64(subject.Price) / float64(subject.Sqft)
	if subjectPPSF > 0 {
		compPPSF := float64(comp.Price) / float64(comp.Sqft)
		ppsfDiff := math.Abs(compPPSF-subjectPPSF) / subjectPPSF
		score -= math.Min(25, ppsfDiff*50)
	}

	return score
}

// scoreFeatures starts at 80 and can move both ways: garage spaces add or
// subtract signed, HOA fee gaps subtract.
func (e *Engine) scoreFeatures(subject, comp *proptypes.PropertyRecord) float64 {
	score := 80.0

	score += float64(comp.GarageSpaces-subject.GarageSpaces) * 5

	if subject.MonthlyHoaFee > 0 && comp.MonthlyHoaFee > 0 {
		hoaDiff := math.Abs(float64(comp.MonthlyHoaFee - subject.MonthlyHoaFee))
		score -= math.Min(10, hoaDiff/50)
	}

	return score
}

// distanceMiles approximates distance between two properties. Real geocoding
// is out of scope; properties on the same street are treated as 0.1 miles
// apart, everything else as 0.5.
func (e *Engine) distanceMiles(subject, comp *proptypes.PropertyRecord) float64 {
	if property.SameStreet(subject.Address, comp.Address) {
		return 0.1
	}
	return 0.5
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// percentDiff returns (comp-subject)/subject*100 rounded to two decimals,
// or 0 when the subject value is zero.
func percentDiff(comp, subject float64) float64 {
	if subject == 0 {
		return 0
	}
	return math.Round((comp-subject)/subject*100*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

//Personal.AI order the ending
