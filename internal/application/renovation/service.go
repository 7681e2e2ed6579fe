// Package renovation provides the application-level service for renovation
// cost estimation, ARV projection, and the 70% offer rule.
package renovation

import (
	"context"
	"time"

	"github.com/compsred/comps-engine/internal/config"
	domainRenovation "github.com/compsred/comps-engine/internal/domain/renovation"
	"github.com/compsred/comps-engine/internal/infrastructure/messaging/kafka"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/pkg/errors"
	"github.com/compsred/comps-engine/pkg/types/common"
)

const eventSource = "comps-engine"

// EventPublisher emits domain events. *kafka.Producer satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, msg *common.ProducerMessage) error
}

// Service exposes renovation economics: full-scope cost estimation, the
// minimum after-repair value for a target margin, and the 70% rule offer cap.
type Service interface {
	Estimate(ctx context.Context, input *EstimateInput) (*domainRenovation.FullEstimate, error)
	ARV(ctx context.Context, input *ARVInput) (*domainRenovation.ARVEstimate, error)
	MaxOffer(ctx context.Context, input *MaxOfferInput) (*domainRenovation.SeventyPercentRule, error)
}

// EstimateInput selects the work scope. Zero values fall back to the
// calculator's defaults (1500 sqft standard renovation).
type EstimateInput struct {
	PropertyID      string   `json:"property_id,omitempty"`
	Sqft            float64  `json:"sqft"`
	KitchenLevel    string   `json:"kitchen_level"`
	Bathrooms       float64  `json:"bathrooms"`
	BathroomLevel   string   `json:"bathroom_level"`
	FlooringType    string   `json:"flooring_type"`
	FlooringSqft    float64  `json:"flooring_sqft"`
	RoofNeeded      bool     `json:"roof_needed"`
	RoofType        string   `json:"roof_type"`
	HVACNeeded      bool     `json:"hvac_needed"`
	HVACSystem      string   `json:"hvac_system"`
	ElectricalScope string   `json:"electrical_scope"`
	PlumbingScope   string   `json:"plumbing_scope"`
	ExteriorWork    []string `json:"exterior_work"`
	DemolitionScope string   `json:"demolition_scope"`
	SkipPaint       bool     `json:"skip_paint"`
}

// ARVInput requests the minimum resale value for a flip to clear the
// configured profit margin. Margin overrides the configured default when
// positive.
type ARVInput struct {
	PurchasePrice  int64   `json:"purchase_price"`
	RenovationCost int64   `json:"renovation_cost"`
	Margin         float64 `json:"margin,omitempty"`
}

// MaxOfferInput requests the 70% rule offer cap.
type MaxOfferInput struct {
	ARV            int64 `json:"arv"`
	RenovationCost int64 `json:"renovation_cost"`
}

type service struct {
	calc   *domainRenovation.Calculator
	events EventPublisher
	logger logging.Logger
}

// NewService builds the renovation service with the configured surcharge
// and investment rates. events may be nil.
func NewService(cfg config.RenovationConfig, events EventPublisher, logger logging.Logger) Service {
	return &service{
		calc:   domainRenovation.NewCalculator(domainRenovation.WithRates(ratesFromConfig(cfg))),
		events: events,
		logger: logger,
	}
}

// ratesFromConfig maps the flat config section onto the calculator's rate
// set, keeping the stock defaults for any unset field.
func ratesFromConfig(cfg config.RenovationConfig) domainRenovation.Rates {
	rates := domainRenovation.DefaultRates()
	if cfg.ContingencyRate > 0 {
		rates.Contingency = cfg.ContingencyRate
	}
	if cfg.PermitsRate > 0 {
		rates.PermitsFees = cfg.PermitsRate
	}
	if cfg.MarkupRate > 0 {
		rates.ContractorMarkup = cfg.MarkupRate
	}
	if cfg.DefaultMargin > 0 {
		rates.ProfitMargin = cfg.DefaultMargin
	}
	if cfg.HoldingCostRate > 0 {
		rates.HoldingRate = cfg.HoldingCostRate
	}
	if cfg.SellingCostRate > 0 {
		rates.SellingRate = cfg.SellingCostRate
	}
	if cfg.SellingCostBasis > 0 {
		rates.ResaleBasis = cfg.SellingCostBasis
	}
	return rates
}

func (s *service) Estimate(ctx context.Context, input *EstimateInput) (*domainRenovation.FullEstimate, error) {
	if input == nil {
		return nil, errors.Validation("estimate input is required")
	}
	scope, err := scopeFromInput(input)
	if err != nil {
		return nil, err
	}

	estimate := s.calc.CalculateFullRenovation(scope)

	s.publishEstimated(ctx, kafka.RenovationEstimatedPayload{
		PropertyID:  input.PropertyID,
		Sqft:        scope.Sqft,
		TotalCost:   estimate.Total,
		CostPerSqft: estimate.PricePerSqft,
		EstimatedAt: time.Now().UTC(),
	})

	s.logger.Info("renovation estimated",
		logging.String("property_id", input.PropertyID),
		logging.Float64("sqft", scope.Sqft),
		logging.Int64("total", estimate.Total))
	return &estimate, nil
}

func (s *service) ARV(ctx context.Context, input *ARVInput) (*domainRenovation.ARVEstimate, error) {
	if input == nil {
		return nil, errors.Validation("arv input is required")
	}
	if input.PurchasePrice <= 0 {
		return nil, errors.Validation("purchase_price must be positive")
	}
	if input.RenovationCost < 0 {
		return nil, errors.Validation("renovation_cost must be non-negative")
	}
	if input.Margin < 0 || input.Margin >= 1 {
		return nil, errors.Validation("margin must be in [0, 1)")
	}

	var estimate domainRenovation.ARVEstimate
	if input.Margin > 0 {
		estimate = s.calc.GenerateARVEstimateWithMargin(input.PurchasePrice, input.RenovationCost, input.Margin)
	} else {
		estimate = s.calc.GenerateARVEstimate(input.PurchasePrice, input.RenovationCost)
	}
	return &estimate, nil
}

func (s *service) MaxOffer(ctx context.Context, input *MaxOfferInput) (*domainRenovation.SeventyPercentRule, error) {
	if input == nil {
		return nil, errors.Validation("max offer input is required")
	}
	if input.ARV <= 0 {
		return nil, errors.Validation("arv must be positive")
	}
	if input.RenovationCost < 0 {
		return nil, errors.Validation("renovation_cost must be non-negative")
	}

	rule := s.calc.Get70PercentRule(input.ARV, input.RenovationCost)
	return &rule, nil
}

// scopeFromInput validates the enum-valued fields and assembles the
// domain scope. Unknown level or system names are rejected rather than
// silently defaulted: a typo in a paid estimate is worse than an error.
func scopeFromInput(input *EstimateInput) (domainRenovation.Scope, error) {
	scope := domainRenovation.Scope{
		Sqft:         input.Sqft,
		Bathrooms:    input.Bathrooms,
		FlooringSqft: input.FlooringSqft,
		RoofNeeded:   input.RoofNeeded,
		HVACNeeded:   input.HVACNeeded,
		ExteriorWork: input.ExteriorWork,
		SkipPaint:    input.SkipPaint,
	}

	var err error
	if scope.KitchenLevel, err = parseLevel(input.KitchenLevel); err != nil {
		return scope, err
	}
	if scope.BathroomLevel, err = parseLevel(input.BathroomLevel); err != nil {
		return scope, err
	}

	switch ft := domainRenovation.FlooringType(input.FlooringType); ft {
	case "", domainRenovation.FlooringLVP, domainRenovation.FlooringCarpet,
		domainRenovation.FlooringHardwood, domainRenovation.FlooringTile,
		domainRenovation.FlooringLaminate:
		scope.FlooringType = ft
	default:
		return scope, errors.New(errors.ErrCodeRenovationScopeInvalid, "unknown flooring type: "+input.FlooringType)
	}

	switch rt := domainRenovation.RoofType(input.RoofType); rt {
	case "", domainRenovation.RoofShingle, domainRenovation.RoofMetal, domainRenovation.RoofTile, domainRenovation.RoofFlat:
		scope.RoofType = rt
	default:
		return scope, errors.New(errors.ErrCodeRenovationScopeInvalid, "unknown roof type: "+input.RoofType)
	}

	switch hs := domainRenovation.HVACSystem(input.HVACSystem); hs {
	case "", domainRenovation.HVACCentral, domainRenovation.HVACHeatPump,
		domainRenovation.HVACMiniSplit, domainRenovation.HVACWindow:
		scope.HVACSystem = hs
	default:
		return scope, errors.New(errors.ErrCodeRenovationScopeInvalid, "unknown hvac system: "+input.HVACSystem)
	}

	switch es := domainRenovation.ElectricalScope(input.ElectricalScope); es {
	case "", domainRenovation.ElectricalUpdate, domainRenovation.ElectricalPartial, domainRenovation.ElectricalRewire:
		scope.ElectricalScope = es
	default:
		return scope, errors.New(errors.ErrCodeRenovationScopeInvalid, "unknown electrical scope: "+input.ElectricalScope)
	}

	switch ps := domainRenovation.PlumbingScope(input.PlumbingScope); ps {
	case "", domainRenovation.PlumbingUpdate, domainRenovation.PlumbingReplace, domainRenovation.PlumbingRepipe:
		scope.PlumbingScope = ps
	default:
		return scope, errors.New(errors.ErrCodeRenovationScopeInvalid, "unknown plumbing scope: "+input.PlumbingScope)
	}

	switch ds := domainRenovation.DemolitionScope(input.DemolitionScope); ds {
	case "", domainRenovation.DemoSurface, domainRenovation.DemoSelective, domainRenovation.DemoGutToStuds:
		scope.DemolitionScope = ds
	default:
		return scope, errors.New(errors.ErrCodeRenovationScopeInvalid, "unknown demolition scope: "+input.DemolitionScope)
	}

	return scope, nil
}

func parseLevel(raw string) (domainRenovation.Level, error) {
	switch l := domainRenovation.Level(raw); l {
	case "", domainRenovation.LevelBudget, domainRenovation.LevelStandard, domainRenovation.LevelPremium:
		return l, nil
	default:
		return "", errors.New(errors.ErrCodeRenovationTierInvalid, "unknown renovation level: "+raw)
	}
}

func (s *service) publishEstimated(ctx context.Context, payload kafka.RenovationEstimatedPayload) {
	if s.events == nil {
		return
	}
	env, err := kafka.NewEventEnvelope(kafka.TopicRenovationEstimated, eventSource, payload)
	if err != nil {
		s.logger.Error("failed to build renovation event", logging.Err(err))
		return
	}
	msg, err := env.ToMessage(kafka.TopicRenovationEstimated)
	if err != nil {
		s.logger.Error("failed to build renovation message", logging.Err(err))
		return
	}
	if err := s.events.Publish(ctx, msg); err != nil {
		s.logger.Warn("failed to publish renovation event", logging.Err(err))
	}
}

//Personal.AI order the ending
