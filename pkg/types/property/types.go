package property

import (
	"fmt"
	"strings"
)

// ListingStatus represents the marketing state of a listing.
type ListingStatus string

const (
	StatusForSale    ListingStatus = "For Sale"
	StatusForRent    ListingStatus = "For Rent"
	StatusSold       ListingStatus = "Sold"
	StatusOffMarket  ListingStatus = "Off Market"
	StatusPending    ListingStatus = "Pending"
	StatusContingent ListingStatus = "Contingent"
	StatusComingSoon ListingStatus = "Coming Soon"
	StatusUnknown    ListingStatus = "Unknown"
)

// listingStatusByFeed maps upstream feed status codes to display statuses.
var listingStatusByFeed = map[string]ListingStatus{
	"FOR_SALE":    StatusForSale,
	"FOR_RENT":    StatusForRent,
	"SOLD":        StatusSold,
	"OFF_MARKET":  StatusOffMarket,
	"PENDING":     StatusPending,
	"CONTINGENT":  StatusContingent,
	"COMING_SOON": StatusComingSoon,
}

// NormalizeListingStatus converts an upstream feed status code into the
// canonical display form. Unrecognized non-empty values pass through unchanged;
// an empty value maps to StatusUnknown.
func NormalizeListingStatus(raw string) ListingStatus {
	if raw == "" {
		return StatusUnknown
	}
	if s, ok := listingStatusByFeed[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return s
	}
	return ListingStatus(raw)
}

// Schools holds the assigned school per level for a property.
type Schools struct {
	Elementary string `json:"elementary,omitempty"`
	Middle     string `json:"middle,omitempty"`
	High       string `json:"high,omitempty"`
}

// PropertyRecord is the canonical normalized shape of a scraped listing.
// All numeric fields are non-negative and Sqft is always >= 1, so price-per-
// square-foot ratios never divide by zero. Construct records through the
// normalizer rather than by hand.
type PropertyRecord struct {
	// Identity
	ID      string `json:"id"`
	Address string `json:"address"`

	// Pricing
	Price        int64 `json:"price"`
	PricePerSqft int64 `json:"pricePerSqft"`

	// Physical
	Beds      int     `json:"beds"`
	Baths     float64 `json:"baths"`
	Sqft      int64   `json:"sqft"`
	LotSize   int64   `json:"lotSize"`
	YearBuilt int     `json:"yearBuilt"`

	// Classification
	PropertyType  string        `json:"propertyType"`
	ListingStatus ListingStatus `json:"listingStatus"`
	DaysOnMarket  int           `json:"daysOnMarket"`
	ListDate      string        `json:"listDate,omitempty"`

	// Location
	Neighborhood string  `json:"neighborhood,omitempty"`
	Subdivision  string  `json:"subdivision,omitempty"`
	Schools      Schools `json:"schools"`

	// Auxiliary
	GarageSpaces  int      `json:"garageSpaces"`
	MonthlyHoaFee int64    `json:"monthlyHoaFee"`
	Zestimate     int64    `json:"zestimate,omitempty"`
	RentZestimate int64    `json:"rentZestimate,omitempty"`
	Images        []string `json:"images,omitempty"`
}

// Validate checks the normalizer's structural invariants.
func (p *PropertyRecord) Validate() error {
	if p == nil {
		return fmt.Errorf("property record is nil")
	}
	if p.Sqft < 1 {
		return fmt.Errorf("sqft must be >= 1, got %d", p.Sqft)
	}
	if p.Price < 0 {
		return fmt.Errorf("price must be >= 0, got %d", p.Price)
	}
	if p.Beds < 0 {
		return fmt.Errorf("beds must be >= 0, got %d", p.Beds)
	}
	if p.Baths < 0 {
		return fmt.Errorf("baths must be >= 0, got %f", p.Baths)
	}
	return nil
}

// Age returns how many years old the property is relative to the given year.
func (p *PropertyRecord) Age(currentYear int) int {
	age := currentYear - p.YearBuilt
	if age < 0 {
		return 0
	}
	return age
}

// ScoreBreakdown exposes the four weighted sub-scores plus any special
// adjustments that contributed to a comparability score. Sub-scores are the
// unclamped pre-weighting values rounded to the nearest integer.
type ScoreBreakdown struct {
	Location   int          `json:"location"`
	Structure  int          `json:"structure"`
	Condition  int          `json:"condition"`
	Features   int          `json:"features"`
	RedFlags   []Adjustment `json:"redFlags"`
	ValueBombs []Adjustment `json:"valueBombs"`
}

// Adjustment is a named additive score modifier detected on a comparable.
type Adjustment struct {
	Type   string  `json:"type"`
	Points float64 `json:"points"`
}

// ScoreResult is the output of scoring one comparable against the subject.
type ScoreResult struct {
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// ComparisonResult captures per-dimension differences between a comparable and
// the subject, signed comparable-minus-subject.
type ComparisonResult struct {
	PriceDiff               int64   `json:"priceDiff"`
	PriceDiffPercent        float64 `json:"priceDiffPercent"`
	SqftDiff                int64   `json:"sqftDiff"`
	SqftDiffPercent         float64 `json:"sqftDiffPercent"`
	PricePerSqftDiff        int64   `json:"pricePerSqftDiff"`
	PricePerSqftDiffPercent float64 `json:"pricePerSqftDiffPercent"`
	AgeDiff                 int     `json:"ageDiff"`
	BedsDiff                int     `json:"bedsDiff"`
	BathsDiff               float64 `json:"bathsDiff"`
	DaysOnMarketDiff        int     `json:"daysOnMarketDiff"`
	ComparabilityScore      int     `json:"comparabilityScore"`
	Breakdown               ScoreBreakdown `json:"breakdown"`
}

// TwinMatch is one candidate annotated with its twin classification.
type TwinMatch struct {
	Record        *PropertyRecord `json:"record"`
	TwinScore     int             `json:"twinScore"`
	IsTwin        bool            `json:"isTwin"`
	IsPerfectTwin bool            `json:"isPerfectTwin"`
}

// ModelGroup clusters properties that share a floor-plan signature
// (beds, baths, sqft rounded to the nearest hundred).
type ModelGroup struct {
	ModelName       string            `json:"modelName"`
	Properties      []*PropertyRecord `json:"properties"`
	AvgPrice        float64           `json:"avgPrice"`
	AvgPricePerSqft float64           `json:"avgPricePerSqft"`
}

// MarketTrend classifies recent price direction for a comparable set.
type MarketTrend string

const (
	TrendAppreciating     MarketTrend = "appreciating"
	TrendDepreciating     MarketTrend = "depreciating"
	TrendStable           MarketTrend = "stable"
	TrendInsufficientData MarketTrend = "insufficient data"
)

// DealQuality grades how the asking price compares to the suggested value.
type DealQuality string

const (
	DealExcellent DealQuality = "excellent"
	DealGood      DealQuality = "good"
	DealFair      DealQuality = "fair"
	DealPoor      DealQuality = "poor"
	DealUnknown   DealQuality = "unknown"
)

// Recommendation is one actionable pricing insight from deck analysis.
type Recommendation struct {
	Type            string `json:"type"`
	Message         string `json:"message"`
	SuggestedAction string `json:"suggestedAction"`
}

// Range tracks the observed min/max of one metric across a deck.
// Nil bounds mean no observation yet.
type Range struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Observe widens the range to include v.
func (r *Range) Observe(v float64) {
	if r.Min == nil || v < *r.Min {
		r.Min = &v
	}
	if r.Max == nil || v > *r.Max {
		r.Max = &v
	}
}

// AnalysisSummary aggregates price statistics across a deck.
// SuggestedValue is nil when the deck lacks enough scored comparables or the
// total comparability weight is zero.
type AnalysisSummary struct {
	TotalCards          int      `json:"totalCards"`
	ComparableCount     int      `json:"comparableCount"`
	AveragePrice        float64  `json:"averagePrice"`
	AveragePricePerSqft float64  `json:"averagePricePerSqft"`
	MedianPrice         float64  `json:"medianPrice"`
	SuggestedValue      *int64   `json:"suggestedValue"`
	SuggestedValueNote  string   `json:"suggestedValueNote,omitempty"`
}

// AnalysisRanges holds the metric ranges observed across the deck.
type AnalysisRanges struct {
	Price        Range `json:"price"`
	Sqft         Range `json:"sqft"`
	PricePerSqft Range `json:"pricePerSqft"`
}

// MarketInsights summarizes timing and composition of the comparable set.
type MarketInsights struct {
	AverageDaysOnMarket float64     `json:"averageDaysOnMarket"`
	PropertyTypes       []string    `json:"propertyTypes"`
	MarketTrend         MarketTrend `json:"marketTrend"`
}

// DeckAnalysis is the full derived report over a deck's current card set.
type DeckAnalysis struct {
	Summary         AnalysisSummary  `json:"summary"`
	Ranges          AnalysisRanges   `json:"ranges"`
	MarketInsights  MarketInsights   `json:"marketInsights"`
	Recommendations []Recommendation `json:"recommendations"`
	DealQuality     DealQuality      `json:"dealQuality"`
}

//Personal.AI order the ending
