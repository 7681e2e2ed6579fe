// Package renovation estimates rehab costs, after-repair value, and deal
// viability for a subject property. All math is deterministic arithmetic
// over hand-authored cost tables; there is no I/O and no error path.
package renovation

import (
	"math"
)

// ─────────────────────────────────────────────────────────────────────────────
// Tiers and work types
// ─────────────────────────────────────────────────────────────────────────────

// Level is the quality tier for kitchen and bathroom work.
type Level string

const (
	LevelBudget   Level = "budget"
	LevelStandard Level = "standard"
	LevelPremium  Level = "premium"
)

// FlooringType selects a flooring cost table.
type FlooringType string

const (
	FlooringCarpet   FlooringType = "carpet"
	FlooringLVP      FlooringType = "lvp"
	FlooringHardwood FlooringType = "hardwood"
	FlooringTile     FlooringType = "tile"
	FlooringLaminate FlooringType = "laminate"
)

// RoofType selects a roofing cost table, priced per roofing square
// (100 sqft of roof surface).
type RoofType string

const (
	RoofShingle RoofType = "shingle"
	RoofMetal   RoofType = "metal"
	RoofTile    RoofType = "tile"
	RoofFlat    RoofType = "flat"
)

// HVACSystem selects a heating/cooling system type.
type HVACSystem string

const (
	HVACCentral   HVACSystem = "central"
	HVACHeatPump  HVACSystem = "heatPump"
	HVACMiniSplit HVACSystem = "minisplit"
	HVACWindow    HVACSystem = "window"
)

// ElectricalScope grades how much of the wiring is touched.
type ElectricalScope string

const (
	ElectricalUpdate  ElectricalScope = "update"
	ElectricalPartial ElectricalScope = "partial"
	ElectricalRewire  ElectricalScope = "rewire"
)

// PlumbingScope grades per-fixture plumbing work.
type PlumbingScope string

const (
	PlumbingUpdate  PlumbingScope = "update"
	PlumbingReplace PlumbingScope = "replace"
	PlumbingRepipe  PlumbingScope = "repipe"
)

// DemolitionScope grades how much of the interior comes out first.
type DemolitionScope string

const (
	DemoSurface    DemolitionScope = "surface"
	DemoSelective  DemolitionScope = "selective"
	DemoGutToStuds DemolitionScope = "gutToStuds"
)

// Exterior work items, each a flat or per-area line item.
const (
	ExteriorSiding      = "siding"
	ExteriorWindows     = "windows"
	ExteriorDoors       = "doors"
	ExteriorDeck        = "deck"
	ExteriorDriveway    = "driveway"
	ExteriorLandscaping = "landscaping"
)

// ─────────────────────────────────────────────────────────────────────────────
// Scope and rates
// ─────────────────────────────────────────────────────────────────────────────

// Scope is the per-calculation work selection. It is built fresh for every
// call and never persisted. Zero values fall back to the defaults applied
// by normalize: 1500 sqft, standard kitchen and bathrooms, LVP flooring
// over 80% of the floor area, basic electrical and plumbing, surface
// demolition, paint included.
type Scope struct {
	Sqft            float64         `json:"sqft"`
	KitchenLevel    Level           `json:"kitchenLevel"`
	Bathrooms       float64         `json:"bathrooms"`
	BathroomLevel   Level           `json:"bathroomLevel"`
	FlooringType    FlooringType    `json:"flooringType"`
	FlooringSqft    float64         `json:"flooringSqft"`
	RoofNeeded      bool            `json:"roofNeeded"`
	RoofType        RoofType        `json:"roofType"`
	HVACNeeded      bool            `json:"hvacNeeded"`
	HVACSystem      HVACSystem      `json:"hvacSystem"`
	ElectricalScope ElectricalScope `json:"electricalScope"`
	PlumbingScope   PlumbingScope   `json:"plumbingScope"`
	ExteriorWork    []string        `json:"exteriorWork"`
	DemolitionScope DemolitionScope `json:"demolitionScope"`
	SkipPaint       bool            `json:"skipPaint"`
}

func (s Scope) normalize() Scope {
	if s.Sqft <= 0 {
		s.Sqft = 1500
	}
	if s.KitchenLevel == "" {
		s.KitchenLevel = LevelStandard
	}
	if s.Bathrooms <= 0 {
		s.Bathrooms = 2
	}
	if s.BathroomLevel == "" {
		s.BathroomLevel = LevelStandard
	}
	if s.FlooringType == "" {
		s.FlooringType = FlooringLVP
	}
	if s.FlooringSqft <= 0 {
		s.FlooringSqft = s.Sqft * 0.8
	}
	if s.RoofType == "" {
		s.RoofType = RoofShingle
	}
	if s.HVACSystem == "" {
		s.HVACSystem = HVACCentral
	}
	if s.ElectricalScope == "" {
		s.ElectricalScope = ElectricalUpdate
	}
	if s.PlumbingScope == "" {
		s.PlumbingScope = PlumbingUpdate
	}
	if s.DemolitionScope == "" {
		s.DemolitionScope = DemoSurface
	}
	return s
}

// Rates are the surcharge and investment parameters layered over the raw
// cost tables. Operators tune these through configuration; DefaultRates
// matches field-observed flip economics.
type Rates struct {
	Contingency      float64 `json:"contingency" mapstructure:"contingency"`
	PermitsFees      float64 `json:"permitsFees" mapstructure:"permits_fees"`
	ContractorMarkup float64 `json:"contractorMarkup" mapstructure:"contractor_markup"`
	ProfitMargin     float64 `json:"profitMargin" mapstructure:"profit_margin"`
	HoldingRate      float64 `json:"holdingRate" mapstructure:"holding_rate"`
	SellingRate      float64 `json:"sellingRate" mapstructure:"selling_rate"`
	ResaleBasis      float64 `json:"resaleBasis" mapstructure:"resale_basis"`
	GeneralLaborRate float64 `json:"generalLaborRate" mapstructure:"general_labor_rate"`
}

// DefaultRates returns the stock surcharge set: 15% contingency, 3%
// permits, 20% contractor markup, 20% target margin, 5% holding, 8%
// selling costs on a 1.3x resale basis, $35/hr general labor.
func DefaultRates() Rates {
	return Rates{
		Contingency:      0.15,
		PermitsFees:      0.03,
		ContractorMarkup: 0.20,
		ProfitMargin:     0.20,
		HoldingRate:      0.05,
		SellingRate:      0.08,
		ResaleBasis:      1.3,
		GeneralLaborRate: 35,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Cost tables
// ─────────────────────────────────────────────────────────────────────────────

type kitchenCosts struct {
	cabinets, counters, appliances, labor int64
}

var kitchenTable = map[Level]kitchenCosts{
	LevelBudget:   {cabinets: 3000, counters: 1500, appliances: 2500, labor: 3000},
	LevelStandard: {cabinets: 8000, counters: 3500, appliances: 5000, labor: 5000},
	LevelPremium:  {cabinets: 20000, counters: 8000, appliances: 15000, labor: 10000},
}

type bathroomCosts struct {
	full, half int64
}

var bathroomTable = map[Level]bathroomCosts{
	LevelBudget:   {full: 3500, half: 2000},
	LevelStandard: {full: 7000, half: 3500},
	LevelPremium:  {full: 15000, half: 7500},
}

type perSqftCosts struct {
	material, install float64
}

var flooringTable = map[FlooringType]perSqftCosts{
	FlooringCarpet:   {material: 2, install: 1.5},
	FlooringLVP:      {material: 3, install: 2},
	FlooringHardwood: {material: 5, install: 3},
	FlooringTile:     {material: 4, install: 4},
	FlooringLaminate: {material: 2.5, install: 2},
}

type perSquareCosts struct {
	material, labor float64
}

var roofTable = map[RoofType]perSquareCosts{
	RoofShingle: {material: 100, labor: 100},
	RoofMetal:   {material: 250, labor: 150},
	RoofTile:    {material: 350, labor: 200},
	RoofFlat:    {material: 150, labor: 150},
}

type hvacCosts struct {
	unit, install float64
}

var hvacTable = map[HVACSystem]hvacCosts{
	HVACCentral:   {unit: 2500, install: 1500},
	HVACHeatPump:  {unit: 3500, install: 2000},
	HVACMiniSplit: {unit: 1500, install: 1000},
	HVACWindow:    {unit: 400, install: 100},
}

var electricalTable = map[ElectricalScope]float64{
	ElectricalUpdate:  3,
	ElectricalPartial: 6,
	ElectricalRewire:  10,
}

var plumbingTable = map[PlumbingScope]float64{
	PlumbingUpdate:  500,
	PlumbingReplace: 1000,
	PlumbingRepipe:  2000,
}

var demolitionTable = map[DemolitionScope]float64{
	DemoSurface:    1,
	DemoSelective:  3,
	DemoGutToStuds: 5,
}

// ─────────────────────────────────────────────────────────────────────────────
// Result types
// ─────────────────────────────────────────────────────────────────────────────

// KitchenEstimate itemizes a kitchen remodel at one quality tier.
type KitchenEstimate struct {
	Materials int64            `json:"materials"`
	Labor     int64            `json:"labor"`
	Total     int64            `json:"total"`
	Breakdown KitchenBreakdown `json:"breakdown"`
}

type KitchenBreakdown struct {
	Cabinets     int64 `json:"cabinets"`
	Countertops  int64 `json:"countertops"`
	Appliances   int64 `json:"appliances"`
	Installation int64 `json:"installation"`
}

// BathroomEstimate covers every full bath plus at most one half bath.
type BathroomEstimate struct {
	Total     int64 `json:"total"`
	PerBath   int64 `json:"perBath"`
	FullBaths int   `json:"fullBaths"`
	HalfBaths int   `json:"halfBaths"`
}

type FlooringEstimate struct {
	Materials    int64   `json:"materials"`
	Labor        int64   `json:"labor"`
	Total        int64   `json:"total"`
	PricePerSqft float64 `json:"pricePerSqft"`
}

type PaintEstimate struct {
	Materials    int64   `json:"materials"`
	Labor        int64   `json:"labor"`
	Total        int64   `json:"total"`
	Gallons      int     `json:"gallons"`
	SqftCoverage float64 `json:"sqftCoverage"`
}

type RoofEstimate struct {
	Materials int64   `json:"materials"`
	Labor     int64   `json:"labor"`
	Total     int64   `json:"total"`
	Squares   float64 `json:"squares"`
}

type HVACEstimate struct {
	Equipment    int64 `json:"equipment"`
	Installation int64 `json:"installation"`
	Total        int64 `json:"total"`
	Tonnage      int   `json:"tonnage"`
}

type ElectricalEstimate struct {
	Wiring       int64   `json:"wiring"`
	Panel        int64   `json:"panel"`
	Total        int64   `json:"total"`
	PricePerSqft float64 `json:"pricePerSqft"`
}

type PlumbingEstimate struct {
	PerFixture int64   `json:"perFixture"`
	Fixtures   float64 `json:"fixtures"`
	Total      int64   `json:"total"`
}

type ExteriorEstimate struct {
	Total     int64            `json:"total"`
	Breakdown map[string]int64 `json:"breakdown"`
}

type DemolitionEstimate struct {
	Labor     int64 `json:"labor"`
	Disposal  int64 `json:"disposal"`
	Total     int64 `json:"total"`
	Dumpsters int   `json:"dumpsters"`
}

// CategoryEstimates groups every per-category result of a full run.
// Disabled categories are present with zero totals.
type CategoryEstimates struct {
	Kitchen    KitchenEstimate    `json:"kitchen"`
	Bathrooms  BathroomEstimate   `json:"bathrooms"`
	Flooring   FlooringEstimate   `json:"flooring"`
	Paint      PaintEstimate      `json:"paint"`
	Roof       RoofEstimate       `json:"roof"`
	HVAC       HVACEstimate       `json:"hvac"`
	Electrical ElectricalEstimate `json:"electrical"`
	Plumbing   PlumbingEstimate   `json:"plumbing"`
	Exterior   ExteriorEstimate   `json:"exterior"`
	Demolition DemolitionEstimate `json:"demolition"`
}

// FullEstimate is the rolled-up renovation report. Contingency, permits,
// and markup are three independent percentages of the same subtotal,
// added flat, never compounded on each other.
type FullEstimate struct {
	Estimates        CategoryEstimates `json:"estimates"`
	Subtotal         int64             `json:"subtotal"`
	Contingency      int64             `json:"contingency"`
	PermitsFees      int64             `json:"permitsFees"`
	ContractorMarkup int64             `json:"contractorMarkup"`
	Total            int64             `json:"total"`
	PricePerSqft     int64             `json:"pricePerSqft"`
}

// ARVEstimate is the minimum after-repair value needed to clear the target
// profit margin after holding and selling costs.
type ARVEstimate struct {
	PurchasePrice   int64 `json:"purchasePrice"`
	RenovationCost  int64 `json:"renovationCost"`
	HoldingCosts    int64 `json:"holdingCosts"`
	SellingCosts    int64 `json:"sellingCosts"`
	TotalInvestment int64 `json:"totalInvestment"`
	MinimumARV      int64 `json:"minimumARV"`
	ExpectedProfit  int64 `json:"expectedProfit"`
	ROIPercent      int   `json:"roi"`
}

// SeventyPercentRule caps the purchase offer at 70% of ARV less the
// renovation budget.
type SeventyPercentRule struct {
	ARV            int64 `json:"arv"`
	SeventyPercent int64 `json:"seventyPercent"`
	RenovationCost int64 `json:"renovationCost"`
	MaxOffer       int64 `json:"maxOffer"`
	IsGoodDeal     bool  `json:"isGoodDeal"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Calculator
// ─────────────────────────────────────────────────────────────────────────────

// Calculator computes renovation estimates against a fixed rate set.
// Stateless and safe for concurrent use.
type Calculator struct {
	rates Rates
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithRates overrides the default surcharge and investment rates.
func WithRates(r Rates) Option {
	return func(c *Calculator) { c.rates = r }
}

// NewCalculator builds a calculator with DefaultRates unless overridden.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{rates: DefaultRates()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rates returns the active rate set.
func (c *Calculator) Rates() Rates {
	return c.rates
}

// CalculateKitchen prices a kitchen remodel. Costs are tier-fixed package
// prices, not per-sqft.
func (c *Calculator) CalculateKitchen(level Level) KitchenEstimate {
	costs, ok := kitchenTable[level]
	if !ok {
		costs = kitchenTable[LevelStandard]
	}
	materials := costs.cabinets + costs.counters + costs.appliances
	return KitchenEstimate{
		Materials: materials,
		Labor:     costs.labor,
		Total:     materials + costs.labor,
		Breakdown: KitchenBreakdown{
			Cabinets:     costs.cabinets,
			Countertops:  costs.counters,
			Appliances:   costs.appliances,
			Installation: costs.labor,
		},
	}
}

// CalculateBathroom prices the bathroom count at one tier. A fractional
// count contributes exactly one half bath regardless of the fraction.
func (c *Calculator) CalculateBathroom(count float64, level Level) BathroomEstimate {
	costs, ok := bathroomTable[level]
	if !ok {
		costs = bathroomTable[LevelStandard]
	}

	fullBaths := int(math.Floor(count))
	halfBaths := 0
	if count-math.Floor(count) > 0 {
		halfBaths = 1
	}

	return BathroomEstimate{
		Total:     int64(fullBaths)*costs.full + int64(halfBaths)*costs.half,
		PerBath:   costs.full,
		FullBaths: fullBaths,
		HalfBaths: halfBaths,
	}
}

// CalculateFlooring prices material plus install over the given floor area.
func (c *Calculator) CalculateFlooring(sqft float64, flooring FlooringType) FlooringEstimate {
	perSqft, ok := flooringTable[flooring]
	if !ok {
		perSqft = flooringTable[FlooringLVP]
	}
	materials := perSqft.material * sqft
	labor := perSqft.install * sqft
	return FlooringEstimate{
		Materials:    roundToInt64(materials),
		Labor:        roundToInt64(labor),
		Total:        roundToInt64(materials + labor),
		PricePerSqft: perSqft.material + perSqft.install,
	}
}

// CalculatePaint prices a full interior repaint: walls at 2.5x floor area
// plus ceilings, 350 sqft per gallon at $40, labor at 200 sqft per hour.
func (c *Calculator) CalculatePaint(sqft float64) PaintEstimate {
	wallSqft := sqft * 2.5
	totalPaintSqft := wallSqft + sqft

	gallons := int(math.Ceil(totalPaintSqft / 350))
	paintCost := float64(gallons) * 40
	laborHours := totalPaintSqft / 200
	laborCost := laborHours * c.rates.GeneralLaborRate

	return PaintEstimate{
		Materials:    roundToInt64(paintCost),
		Labor:        roundToInt64(laborCost),
		Total:        roundToInt64(paintCost + laborCost),
		Gallons:      gallons,
		SqftCoverage: totalPaintSqft,
	}
}

// CalculateRoof prices a reroof. Roof surface is estimated at 1.3x the
// floor area to account for pitch and overhang.
func (c *Calculator) CalculateRoof(sqft float64, roof RoofType) RoofEstimate {
	squares := sqft * 1.3 / 100
	perSquare, ok := roofTable[roof]
	if !ok {
		perSquare = roofTable[RoofShingle]
	}
	materials := perSquare.material * squares
	labor := perSquare.labor * squares

	return RoofEstimate{
		Materials: roundToInt64(materials),
		Labor:     roundToInt64(labor),
		Total:     roundToInt64(materials + labor),
		Squares:   math.Round(squares*10) / 10,
	}
}

// CalculateHVAC prices a system swap sized at one ton per 500 sqft.
// Window units multiply per 400 sqft of coverage; mini-split installs
// scale with head count.
func (c *Calculator) CalculateHVAC(sqft float64, system HVACSystem) HVACEstimate {
	tons := int(math.Ceil(sqft / 500))
	costs, ok := hvacTable[system]
	if !ok {
		costs = hvacTable[HVACCentral]
	}

	unitMultiplier := 1.0
	if system == HVACWindow {
		unitMultiplier = math.Ceil(sqft / 400)
	}
	installMultiplier := 1.0
	if system == HVACMiniSplit {
		installMultiplier = math.Ceil(float64(tons) / 2)
	}

	equipment := costs.unit * unitMultiplier
	installation := costs.install * installMultiplier

	return HVACEstimate{
		Equipment:    roundToInt64(equipment),
		Installation: roundToInt64(installation),
		Total:        roundToInt64(equipment + installation),
		Tonnage:      tons,
	}
}

// CalculateElectrical prices wiring work per sqft; a full rewire adds a
// panel upgrade.
func (c *Calculator) CalculateElectrical(sqft float64, scope ElectricalScope) ElectricalEstimate {
	perSqft, ok := electricalTable[scope]
	if !ok {
		perSqft = electricalTable[ElectricalUpdate]
		scope = ElectricalUpdate
	}
	wiring := perSqft * sqft
	var panel int64
	if scope == ElectricalRewire {
		panel = 2000
	}
	return ElectricalEstimate{
		Wiring:       roundToInt64(wiring),
		Panel:        panel,
		Total:        roundToInt64(wiring) + panel,
		PricePerSqft: perSqft,
	}
}

// CalculatePlumbing prices per-fixture work.
func (c *Calculator) CalculatePlumbing(fixtures float64, scope PlumbingScope) PlumbingEstimate {
	perFixture, ok := plumbingTable[scope]
	if !ok {
		perFixture = plumbingTable[PlumbingUpdate]
	}
	return PlumbingEstimate{
		PerFixture: int64(perFixture),
		Fixtures:   fixtures,
		Total:      roundToInt64(perFixture * fixtures),
	}
}

// CalculateExterior prices the selected exterior work items. Unknown items
// are ignored.
func (c *Calculator) CalculateExterior(sqft float64, work []string) ExteriorEstimate {
	var total int64
	breakdown := make(map[string]int64)

	add := func(item string, cost int64) {
		breakdown[item] = cost
		total += cost
	}

	for _, item := range work {
		switch item {
		case ExteriorSiding:
			add(item, roundToInt64(sqft*1.5*8))
		case ExteriorWindows:
			add(item, int64(math.Ceil(sqft/120))*600)
		case ExteriorDoors:
			add(item, 2500)
		case ExteriorDeck:
			add(item, 5000)
		case ExteriorDriveway:
			add(item, 4000)
		case ExteriorLandscaping:
			add(item, 3000)
		}
	}

	return ExteriorEstimate{Total: total, Breakdown: breakdown}
}

// CalculateDemolition prices demo labor per sqft plus dumpster disposal.
func (c *Calculator) CalculateDemolition(sqft float64, scope DemolitionScope) DemolitionEstimate {
	perSqft, ok := demolitionTable[scope]
	if !ok {
		perSqft = demolitionTable[DemoSurface]
	}
	labor := perSqft * sqft
	disposal := int64(math.Ceil(sqft/1000)) * 400

	return DemolitionEstimate{
		Labor:     roundToInt64(labor),
		Disposal:  disposal,
		Total:     roundToInt64(labor) + disposal,
		Dumpsters: int(math.Ceil(sqft / 500)),
	}
}

// CalculateFullRenovation runs every category for the scope and rolls the
// totals into one report. Contingency, permits, and markup each re-base on
// the raw subtotal.
func (c *Calculator) CalculateFullRenovation(scope Scope) FullEstimate {
	scope = scope.normalize()

	estimates := CategoryEstimates{
		Kitchen:    c.CalculateKitchen(scope.KitchenLevel),
		Bathrooms:  c.CalculateBathroom(scope.Bathrooms, scope.BathroomLevel),
		Flooring:   c.CalculateFlooring(scope.FlooringSqft, scope.FlooringType),
		Electrical: c.CalculateElectrical(scope.Sqft, scope.ElectricalScope),
		Plumbing:   c.CalculatePlumbing(scope.Bathrooms*3, scope.PlumbingScope),
		Exterior:   c.CalculateExterior(scope.Sqft, scope.ExteriorWork),
		Demolition: c.CalculateDemolition(scope.Sqft, scope.DemolitionScope),
	}
	if !scope.SkipPaint {
		estimates.Paint = c.CalculatePaint(scope.Sqft)
	}
	if scope.RoofNeeded {
		estimates.Roof = c.CalculateRoof(scope.Sqft, scope.RoofType)
	}
	if scope.HVACNeeded {
		estimates.HVAC = c.CalculateHVAC(scope.Sqft, scope.HVACSystem)
	}

	subtotal := estimates.Kitchen.Total +
		estimates.Bathrooms.Total +
		estimates.Flooring.Total +
		estimates.Paint.Total +
		estimates.Roof.Total +
		estimates.HVAC.Total +
		estimates.Electrical.Total +
		estimates.Plumbing.Total +
		estimates.Exterior.Total +
		estimates.Demolition.Total

	base := float64(subtotal)
	contingency := base * c.rates.Contingency
	permits := base * c.rates.PermitsFees
	markup := base * c.rates.ContractorMarkup
	total := base + contingency + permits + markup

	return FullEstimate{
		Estimates:        estimates,
		Subtotal:         subtotal,
		Contingency:      roundToInt64(contingency),
		PermitsFees:      roundToInt64(permits),
		ContractorMarkup: roundToInt64(markup),
		Total:            roundToInt64(total),
		PricePerSqft:     roundToInt64(total / scope.Sqft),
	}
}

// GenerateARVEstimate derives the minimum resale value that clears the
// target margin. Holding costs run at HoldingRate of investment; selling
// costs at SellingRate of the investment scaled by ResaleBasis.
func (c *Calculator) GenerateARVEstimate(purchasePrice, renovationCost int64) ARVEstimate {
	return c.generateARV(purchasePrice, renovationCost, c.rates.ProfitMargin)
}

// GenerateARVEstimateWithMargin is GenerateARVEstimate with an explicit
// profit margin in (0, 1).
func (c *Calculator) GenerateARVEstimateWithMargin(purchasePrice, renovationCost int64, profitMargin float64) ARVEstimate {
	return c.generateARV(purchasePrice, renovationCost, profitMargin)
}

func (c *Calculator) generateARV(purchasePrice, renovationCost int64, margin float64) ARVEstimate {
	investment := float64(purchasePrice + renovationCost)
	holding := investment * c.rates.HoldingRate
	selling := investment * c.rates.ResaleBasis * c.rates.SellingRate

	minARV := (investment + holding + selling) / (1 - margin)

	return ARVEstimate{
		PurchasePrice:   purchasePrice,
		RenovationCost:  renovationCost,
		HoldingCosts:    roundToInt64(holding),
		SellingCosts:    roundToInt64(selling),
		TotalInvestment: roundToInt64(investment + holding),
		MinimumARV:      roundToInt64(minARV),
		ExpectedProfit:  roundToInt64(minARV * margin),
		ROIPercent:      int(math.Round(margin / (1 - margin) * 100)),
	}
}

// Get70PercentRule applies the flipper's 70% heuristic: never pay more
// than 70% of ARV minus the renovation budget.
func (c *Calculator) Get70PercentRule(arv, renovationCost int64) SeventyPercentRule {
	seventy := float64(arv) * 0.70
	maxOffer := seventy - float64(renovationCost)

	return SeventyPercentRule{
		ARV:            arv,
		SeventyPercent: roundToInt64(seventy),
		RenovationCost: renovationCost,
		MaxOffer:       roundToInt64(maxOffer),
		IsGoodDeal:     maxOffer > 0,
	}
}

func roundToInt64(v float64) int64 {
	return int64(math.Round(v))
}

//Personal.AI order the ending
