// Package deck implements the comparable deck: one subject property plus N
// scored candidates, with a purely derived valuation analysis over the
// current card set.
package deck

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/compsred/comps-engine/pkg/types/common"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// Labels assigned to cards as they are added.
const (
	LabelPrimary = "PRIMARY"
	labelCompFmt = "COMP %d"
)

// Scorer is the pluggable scoring strategy a Deck runs over each candidate.
// scoring.Engine satisfies it.
type Scorer interface {
	Compare(subject, candidate *proptypes.PropertyRecord) proptypes.ComparisonResult
}

// Card wraps one PropertyRecord inside a deck. The first card added becomes
// the master (the subject being valued); every later card carries its
// comparison against the master.
type Card struct {
	ID         string                      `json:"id"`
	IsMaster   bool                        `json:"isMaster"`
	Label      string                      `json:"label"`
	Data       *proptypes.PropertyRecord   `json:"data"`
	Comparison *proptypes.ComparisonResult `json:"comparisonToPrimary,omitempty"`
	AddedAt    time.Time                   `json:"addedAt"`
}

// Deck holds the subject and its comparables. A deck has exactly one owner
// per analysis session; it is not safe for concurrent mutation.
type Deck struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`

	cards  []*Card
	master *Card
	scorer Scorer
	now    func() time.Time
}

// Option configures a Deck.
type Option func(*Deck)

// WithClock pins the deck's clock, used for card timestamps and the
// market-trend recency window.
func WithClock(now func() time.Time) Option {
	return func(d *Deck) {
		if now != nil {
			d.now = now
		}
	}
}

// WithID sets the deck id instead of generating one. Used when rehydrating
// a persisted deck.
func WithID(id string) Option {
	return func(d *Deck) { d.ID = id }
}

// New creates an empty deck around the given scoring strategy.
func New(name string, scorer Scorer, opts ...Option) *Deck {
	d := &Deck{
		Name:   name,
		scorer: scorer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.ID == "" {
		d.ID = common.GenerateID("deck")
	}
	d.Created = d.now()
	return d
}

// ─────────────────────────────────────────────────────────────────────────────
// Card management
// ─────────────────────────────────────────────────────────────────────────────

// AddCard adds a record to the deck. The first record becomes the master;
// later records are scored against it. A record whose id or address matches
// an existing card returns that card unchanged with added=false (idempotent
// duplicate policy; no error, no rescore).
func (d *Deck) AddCard(record *proptypes.PropertyRecord) (card *Card, added bool) {
	if existing := d.findDuplicate(record); existing != nil {
		return existing, false
	}

	card = &Card{
		ID:      common.GenerateID("card"),
		Data:    record,
		AddedAt: d.now(),
	}

	if d.master == nil {
		card.IsMaster = true
		card.Label = LabelPrimary
		d.master = card
	} else {
		card.Label = fmt.Sprintf(labelCompFmt, len(d.cards))
		cmp := d.scorer.Compare(d.master.Data, record)
		card.Comparison = &cmp
	}

	d.cards = append(d.cards, card)
	return card, true
}

// findDuplicate matches by external id first, then by address
// (case-insensitive). Records without ids still dedup by address.
func (d *Deck) findDuplicate(record *proptypes.PropertyRecord) *Card {
	for _, c := range d.cards {
		if record.ID != "" && c.Data.ID == record.ID {
			return c
		}
		if strings.EqualFold(c.Data.Address, record.Address) {
			return c
		}
	}
	return nil
}

// Master returns the subject card, nil for an empty deck.
func (d *Deck) Master() *Card {
	return d.master
}

// Cards returns all cards in insertion order, master first.
func (d *Deck) Cards() []*Card {
	return d.cards
}

// Comparables returns the non-master cards in insertion order.
func (d *Deck) Comparables() []*Card {
	comps := make([]*Card, 0, len(d.cards))
	for _, c := range d.cards {
		if !c.IsMaster {
			comps = append(comps, c)
		}
	}
	return comps
}

// Size returns the total number of cards including the master.
func (d *Deck) Size() int {
	return len(d.cards)
}

// Clear discards every card. The next AddCard designates a new master.
func (d *Deck) Clear() {
	d.cards = nil
	d.master = nil
}

// Rehydrate restores a persisted card list. Cards must be in their original
// insertion order with the master first; comparisons are kept as stored,
// not rescored.
func (d *Deck) Rehydrate(cards []*Card) {
	d.cards = cards
	d.master = nil
	for _, c := range cards {
		if c.IsMaster {
			d.master = c
			break
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Analysis
// ─────────────────────────────────────────────────────────────────────────────

// GenerateAnalysis derives the full valuation report from the current card
// set. Pure with respect to the deck: calling it any number of times never
// mutates state. Returns nil for an empty deck.
func (d *Deck) GenerateAnalysis() *proptypes.DeckAnalysis {
	if len(d.cards) == 0 {
		return nil
	}

	suggested, note := d.suggestedValue()

	analysis := &proptypes.DeckAnalysis{
		Summary: proptypes.AnalysisSummary{
			TotalCards:          len(d.cards),
			ComparableCount:     len(d.cards) - 1,
			AveragePrice:        d.averagePrice(),
			AveragePricePerSqft: d.averagePricePerSqft(),
			MedianPrice:         d.medianPrice(),
			SuggestedValue:      suggested,
			SuggestedValueNote:  note,
		},
		Ranges:          d.ranges(),
		MarketInsights:  d.marketInsights(),
		Recommendations: d.recommendations(suggested),
		DealQuality:     d.dealQuality(suggested),
	}
	return analysis
}

// suggestedValue is the comparability-weighted average price-per-sqft of
// the comparables scaled by the master's square footage. Requires at least
// two cards; a zero total weight (every comparable scored 0) returns nil
// with a reason instead of dividing by zero.
func (d *Deck) suggestedValue() (*int64, string) {
	if d.master == nil || len(d.cards) < 2 {
		return nil, "insufficient data"
	}

	var weightedPPSF, totalWeight float64
	for _, c := range d.Comparables() {
		if c.Comparison == nil {
			continue
		}
		w := float64(c.Comparison.ComparabilityScore) / 100
		weightedPPSF += float64(c.Data.PricePerSqft) * w
		totalWeight += w
	}

	if totalWeight == 0 {
		return nil, "insufficient comparability"
	}

	v := int64(math.Round(weightedPPSF / totalWeight * float64(d.master.Data.Sqft)))
	return &v, ""
}

func (d *Deck) averagePrice() float64 {
	var sum float64
	for _, c := range d.cards {
		sum += float64(c.Data.Price)
	}
	return sum / float64(len(d.cards))
}

func (d *Deck) averagePricePerSqft() float64 {
	var sum float64
	for _, c := range d.cards {
		sum += float64(c.Data.Price) / float64(c.Data.Sqft)
	}
	return sum / float64(len(d.cards))
}

func (d *Deck) averageDaysOnMarket() float64 {
	var sum float64
	for _, c := range d.cards {
		sum += float64(c.Data.DaysOnMarket)
	}
	return sum / float64(len(d.cards))
}

// medianPrice uses the standard sorted-midpoint rule: middle element for odd
// counts, mean of the two middle elements for even counts.
func (d *Deck) medianPrice() float64 {
	prices := make([]float64, 0, len(d.cards))
	for _, c := range d.cards {
		prices = append(prices, float64(c.Data.Price))
	}
	sort.Float64s(prices)

	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		return prices[mid]
	}
	return (prices[mid-1] + prices[mid]) / 2
}

func (d *Deck) ranges() proptypes.AnalysisRanges {
	var r proptypes.AnalysisRanges
	for _, c := range d.cards {
		r.Price.Observe(float64(c.Data.Price))
		r.Sqft.Observe(float64(c.Data.Sqft))
		r.PricePerSqft.Observe(float64(c.Data.Price) / float64(c.Data.Sqft))
	}
	return r
}

func (d *Deck) marketInsights() proptypes.MarketInsights {
	seen := make(map[string]bool)
	var types []string
	for _, c := range d.cards {
		if !seen[c.Data.PropertyType] {
			seen[c.Data.PropertyType] = true
			types = append(types, c.Data.PropertyType)
		}
	}

	return proptypes.MarketInsights{
		AverageDaysOnMarket: d.averageDaysOnMarket(),
		PropertyTypes:       types,
		MarketTrend:         d.marketTrend(),
	}
}

// marketTrend compares the average price of cards listed within the last six
// months against the overall average. Fewer than three recent listings is
// not enough signal.
func (d *Deck) marketTrend() proptypes.MarketTrend {
	now := d.now()
	var recent []*Card
	for _, c := range d.cards {
		listed, ok := parseListDate(c.Data.ListDate)
		if !ok {
			continue
		}
		monthsAgo := now.Sub(listed).Hours() / (24 * 30)
		if monthsAgo <= 6 {
			recent = append(recent, c)
		}
	}

	if len(recent) < 3 {
		return proptypes.TrendInsufficientData
	}

	avgAll := d.averagePrice()
	var recentSum float64
	for _, c := range recent {
		recentSum += float64(c.Data.Price)
	}
	avgRecent := recentSum / float64(len(recent))

	trend := (avgRecent - avgAll) / avgAll * 100
	switch {
	case trend > 5:
		return proptypes.TrendAppreciating
	case trend < -5:
		return proptypes.TrendDepreciating
	default:
		return proptypes.TrendStable
	}
}

// recommendations turns the suggested-value gap into actionable pricing
// guidance. No suggested value means no recommendations.
func (d *Deck) recommendations(suggested *int64) []proptypes.Recommendation {
	if d.master == nil || suggested == nil {
		return nil
	}

	asking := float64(d.master.Data.Price)
	if asking == 0 {
		return nil
	}
	diffPercent := (float64(*suggested) - asking) / asking * 100

	switch {
	case diffPercent > 10:
		return []proptypes.Recommendation{{
			Type:            "overpriced",
			Message:         fmt.Sprintf("Property appears overpriced by %.1f%%", math.Abs(diffPercent)),
			SuggestedAction: fmt.Sprintf("Consider offering $%s", formatDollars(*suggested)),
		}}
	case diffPercent < -10:
		return []proptypes.Recommendation{{
			Type:            "underpriced",
			Message:         fmt.Sprintf("Property appears underpriced by %.1f%%", math.Abs(diffPercent)),
			SuggestedAction: "Act quickly - this is a potential deal",
		}}
	default:
		low := int64(math.Round(float64(*suggested) * 0.95))
		high := int64(math.Round(float64(*suggested) * 1.02))
		return []proptypes.Recommendation{{
			Type:            "fair",
			Message:         "Property is priced within market range",
			SuggestedAction: fmt.Sprintf("Fair offer range: $%s - $%s", formatDollars(low), formatDollars(high)),
		}}
	}
}

// dealQuality grades the asking price against the suggested value: deep
// discounts are excellent, premiums are poor.
func (d *Deck) dealQuality(suggested *int64) proptypes.DealQuality {
	if d.master == nil || suggested == nil || *suggested == 0 {
		return proptypes.DealUnknown
	}

	discount := (float64(d.master.Data.Price) - float64(*suggested)) / float64(*suggested) * 100
	switch {
	case discount < -20:
		return proptypes.DealExcellent
	case discount < -10:
		return proptypes.DealGood
	case discount < 5:
		return proptypes.DealFair
	default:
		return proptypes.DealPoor
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

var listDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

func parseListDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range listDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDollars renders an amount with thousands separators: 213333 ->
// "213,333".
func formatDollars(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}

//Personal.AI order the ending
