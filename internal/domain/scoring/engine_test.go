package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

func baseRecord() *proptypes.PropertyRecord {
	return &proptypes.PropertyRecord{
		ID:            "subject-1",
		Address:       "123 Main St, Austin, TX",
		Price:         300000,
		PricePerSqft:  200,
		Beds:          3,
		Baths:         2,
		Sqft:          1500,
		LotSize:       6000,
		YearBuilt:     2005,
		PropertyType:  "SINGLE_FAMILY",
		ListingStatus: proptypes.StatusForSale,
		DaysOnMarket:  10,
		Neighborhood:  "Mueller",
		Schools:       proptypes.Schools{Elementary: "Maplewood"},
		GarageSpaces:  2,
		MonthlyHoaFee: 100,
	}
}

func TestScore_SelfComparisonIsMaximal(t *testing.T) {
	e := NewEngine()
	subject := baseRecord()

	result := e.Score(subject, subject)

	// The features baseline of 80 caps the weighted maximum at
	// 45 + 25 + 20 + 8 = 98 when garages match.
	assert.Equal(t, 98, result.Score)
	assert.Equal(t, 100, result.Breakdown.Location)
	assert.Equal(t, 100, result.Breakdown.Structure)
	assert.Equal(t, 100, result.Breakdown.Condition)
	assert.Equal(t, 80, result.Breakdown.Features)
	assert.Empty(t, result.Breakdown.RedFlags)
	assert.Empty(t, result.Breakdown.ValueBombs)
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	e := NewEngine()
	subject := baseRecord()

	worst := &proptypes.PropertyRecord{
		Address:      "999 Far Away Blvd, Houston, TX",
		Price:        50000,
		PricePerSqft: 100,
		Beds:         8,
		Baths:        6,
		Sqft:         500,
		LotSize:      60000,
		YearBuilt:    1950,
		PropertyType: "CONDO",
		DaysOnMarket: 200,
		Neighborhood: "Elsewhere",
		Schools:      proptypes.Schools{Elementary: "Other"},
	}

	result := e.Score(subject, worst)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	// Structure goes deeply negative unclamped (-85); only the weighted
	// sum is clamped, so the final score stays low but non-negative.
	assert.Equal(t, 21, result.Score)
	assert.Equal(t, -85, result.Breakdown.Structure)
}

func TestScore_SameStreetShortCircuitsLocation(t *testing.T) {
	e := NewEngine()
	subject := baseRecord()

	comp := baseRecord()
	comp.ID = "comp-1"
	comp.Address = "456 Main St, Austin, TX"
	comp.Neighborhood = "Different"
	comp.Schools.Elementary = "Different"

	result := e.Score(subject, comp)
	assert.Equal(t, 100, result.Breakdown.Location,
		"same street wins regardless of school or neighborhood mismatch")
}

func TestScore_LocationPenalties(t *testing.T) {
	e := NewEngine()
	subject := baseRecord()

	comp := baseRecord()
	comp.Address = "789 Oak Ave, Austin, TX"

	// Different street: distance stub 0.5 miles costs 5 points.
	result := e.Score(subject, comp)
	assert.Equal(t, 95, result.Breakdown.Location)

	comp.Schools.Elementary = "Different"
	result = e.Score(subject, comp)
	assert.Equal(t, 75, result.Breakdown.Location)

	comp.Neighborhood = "Different"
	result = e.Score(subject, comp)
	assert.Equal(t, 60, result.Breakdown.Location)
}

func TestScore_StructurePenalties(t *testing.T) {
	e := NewEngine()
	subject := baseRecord()

	t.Run("sqft difference capped at 40", func(t *testing.T) {
		comp := baseRecord()
		comp.Address = "9 Other Rd, Austin, TX"
		comp.Sqft = 300 // 80% smaller
		result := e.Score(subject, comp)
		// 100 - 40 (capped sqft penalty)
		assert.Equal(t, 60, result.Breakdown.Structure)
	})

	t.Run("bed and bath deltas", func(t *testing.T) {
		comp := baseRecord()
		comp.Address = "9 Other Rd, Austin, TX"
		comp.Beds = 4  // -15
		comp.Baths = 3 // -10
		result := e.Score(subject, comp)
		assert.Equal(t, 75, result.Breakdown.Structure)
	})

	t.Run("property type mismatch", func(t *testing.T) {
		comp := baseRecord()
		comp.Address = "9 Other Rd, Austin, TX"
		comp.PropertyType = "TOWNHOUSE"
		result := e.Score(subject, comp)
		assert.Equal(t, 80, result.Breakdown.Structure)
	})

	t.Run("lot penalty only when both lots known", func(t *testing.T) {
		comp := baseRecord()
		comp.Address = "9 Other Rd, Austin, TX"
		comp.LotSize = 0
		result := e.Score(subject, comp)
		assert.Equal(t, 100, result.Breakdown.Structure)
	})
}

func TestScore_ConditionPenalties(t *testing.T) {
	e := NewEngine()
	subject := baseRecord()

	t.Run("age gap tiers", func(t *testing.T) {
		comp := baseRecord()
		comp.YearBuilt = 1990 // 15-year gap
		result := e.Score(subject, comp)
		assert.Equal(t, 90, result.Breakdown.Condition)

		comp.YearBuilt = 1980 // 25-year gap
		result = e.Score(subject, comp)
		assert.Equal(t, 80, result.Breakdown.Condition)
	})

	t.Run("stale listing", func(t *testing.T) {
		comp := baseRecord()
		comp.DaysOnMarket = 120
		result := e.Score(subject, comp)
		assert.Equal(t, 85, result.Breakdown.Condition)
	})

	t.Run("price per sqft variance capped at 25", func(t *testing.T) {
		comp := baseRecord()
		comp.Price = 900000 // tripled ppsf
		result := e.Score(subject, comp)
		assert.Equal(t, 75, result.Breakdown.Condition)
	})
}

func TestScore_FeaturesSigned(t *testing.T) {
	e := NewEngine()
	subject := baseRecord()

	comp := baseRecord()
	comp.GarageSpaces = 4 // +2 spaces => +10
	result := e.Score(subject, comp)
	assert.Equal(t, 90, result.Breakdown.Features)

	comp.GarageSpaces = 0 // -2 spaces => -10
	result = e.Score(subject, comp)
	assert.Equal(t, 70, result.Breakdown.Features)

	comp.GarageSpaces = 2
	comp.MonthlyHoaFee = 1100 // |1000|/50 = 20, capped at 10
	result = e.Score(subject, comp)
	assert.Equal(t, 70, result.Breakdown.Features)
}

func TestScore_CustomWeights(t *testing.T) {
	e := NewEngine(WithWeights(Weights{Location: 1, Structure: 0, Condition: 0, Features: 0}))
	subject := baseRecord()

	comp := baseRecord()
	comp.Address = "9 Other Rd, Austin, TX"
	comp.Sqft = 300 // would tank structure, but weight is zero

	result := e.Score(subject, comp)
	assert.Equal(t, 95, result.Score)
}

// staticDetector returns fixed adjustment types so the weight-table lookup
// can be exercised without real detection.
type staticDetector struct {
	flags []string
	bombs []string
}

func (d staticDetector) DetectRedFlags(*proptypes.PropertyRecord) []proptypes.Adjustment {
	out := make([]proptypes.Adjustment, len(d.flags))
	for i, f := range d.flags {
		out[i] = proptypes.Adjustment{Type: f}
	}
	return out
}

func (d staticDetector) DetectValueBombs(*proptypes.PropertyRecord) []proptypes.Adjustment {
	out := make([]proptypes.Adjustment, len(d.bombs))
	for i, b := range d.bombs {
		out[i] = proptypes.Adjustment{Type: b}
	}
	return out
}

func TestScore_AdjustmentsApplied(t *testing.T) {
	subject := baseRecord()

	t.Run("red flags subtract", func(t *testing.T) {
		e := NewEngine(WithDetector(staticDetector{flags: []string{"foundation_issues"}}))
		result := e.Score(subject, subject)
		assert.Equal(t, 73, result.Score)
		require.Len(t, result.Breakdown.RedFlags, 1)
		assert.Equal(t, -25.0, result.Breakdown.RedFlags[0].Points)
	})

	t.Run("value bombs add but final clamps at 100", func(t *testing.T) {
		e := NewEngine(WithDetector(staticDetector{bombs: []string{"recent_kitchen_update"}}))
		result := e.Score(subject, subject)
		assert.Equal(t, 100, result.Score, "98 + 15 clamps to 100")
		require.Len(t, result.Breakdown.ValueBombs, 1)
		assert.Equal(t, 15.0, result.Breakdown.ValueBombs[0].Points)
	})

	t.Run("unknown adjustment type contributes zero", func(t *testing.T) {
		e := NewEngine(WithDetector(staticDetector{flags: []string{"haunted"}}))
		result := e.Score(subject, subject)
		assert.Equal(t, 98, result.Score)
	})
}

func TestCompare_Diffs(t *testing.T) {
	e := NewEngine()
	subject := baseRecord()

	comp := baseRecord()
	comp.ID = "comp-1"
	comp.Address = "456 Main St, Austin, TX"
	comp.Price = 330000
	comp.PricePerSqft = 220
	comp.Sqft = 1600
	comp.Beds = 4
	comp.Baths = 2.5
	comp.YearBuilt = 2000
	comp.DaysOnMarket = 40

	cmp := e.Compare(subject, comp)

	assert.Equal(t, int64(30000), cmp.PriceDiff)
	assert.Equal(t, 10.0, cmp.PriceDiffPercent)
	assert.Equal(t, int64(100), cmp.SqftDiff)
	assert.Equal(t, 6.67, cmp.SqftDiffPercent)
	assert.Equal(t, int64(20), cmp.PricePerSqftDiff)
	assert.Equal(t, 10.0, cmp.PricePerSqftDiffPercent)
	assert.Equal(t, 5, cmp.AgeDiff, "comp is five years older")
	assert.Equal(t, 1, cmp.BedsDiff)
	assert.Equal(t, 0.5, cmp.BathsDiff)
	assert.Equal(t, 30, cmp.DaysOnMarketDiff)
	assert.Equal(t, cmp.ComparabilityScore, e.Score(subject, comp).Score)
}

//Personal.AI order the ending
