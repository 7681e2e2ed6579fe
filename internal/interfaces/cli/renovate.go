package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apprenovation "github.com/compsred/comps-engine/internal/application/renovation"
	domainRenovation "github.com/compsred/comps-engine/internal/domain/renovation"
)

// NewRenovateCmd creates the renovate command group: estimate, arv, and
// max-offer.
func NewRenovateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renovate",
		Short: "Renovation cost estimates and flip deal math",
	}

	cmd.AddCommand(
		newRenovateEstimateCmd(),
		newRenovateARVCmd(),
		newRenovateMaxOfferCmd(),
	)

	return cmd
}

// renovationService builds the renovation application service from the
// loaded configuration.
func renovationService(cmd *cobra.Command) (apprenovation.Service, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	return apprenovation.NewService(cliCtx.Config.Renovation, nil, cliCtx.Logger), nil
}

func newRenovateEstimateCmd() *cobra.Command {
	input := &apprenovation.EstimateInput{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a full renovation budget for a property",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := renovationService(cmd)
			if err != nil {
				return err
			}

			estimate, err := svc.Estimate(cmd.Context(), input)
			if err != nil {
				return err
			}
			return PrintResult(cmd, estimateResult{estimate})
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&input.Sqft, "sqft", 0, "living area in square feet (default 1500)")
	fl.StringVar(&input.KitchenLevel, "kitchen", "", "kitchen renovation level (budget, standard, premium)")
	fl.Float64Var(&input.Bathrooms, "bathrooms", 0, "number of bathrooms to renovate")
	fl.StringVar(&input.BathroomLevel, "bathroom-level", "", "bathroom renovation level (budget, standard, premium)")
	fl.StringVar(&input.FlooringType, "flooring", "", "flooring type (carpet, lvp, hardwood, tile, laminate)")
	fl.Float64Var(&input.FlooringSqft, "flooring-sqft", 0, "flooring area (defaults to --sqft)")
	fl.BoolVar(&input.RoofNeeded, "roof", false, "include roof replacement")
	fl.StringVar(&input.RoofType, "roof-type", "", "roof type (shingle, metal, tile, flat)")
	fl.BoolVar(&input.HVACNeeded, "hvac", false, "include HVAC replacement")
	fl.StringVar(&input.HVACSystem, "hvac-system", "", "HVAC system (central, heatPump, minisplit, window)")
	fl.StringVar(&input.ElectricalScope, "electrical", "", "electrical scope (update, partial, rewire)")
	fl.StringVar(&input.PlumbingScope, "plumbing", "", "plumbing scope (update, replace, repipe)")
	fl.StringSliceVar(&input.ExteriorWork, "exterior", nil, "exterior work items (siding, windows, doors, deck, driveway, landscaping)")
	fl.StringVar(&input.DemolitionScope, "demolition", "", "demolition scope (surface, selective, gutToStuds)")
	fl.BoolVar(&input.SkipPaint, "skip-paint", false, "exclude interior paint")

	return cmd
}

func newRenovateARVCmd() *cobra.Command {
	input := &apprenovation.ARVInput{}

	cmd := &cobra.Command{
		Use:   "arv",
		Short: "Minimum after-repair value needed to hit the profit target",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := renovationService(cmd)
			if err != nil {
				return err
			}

			arv, err := svc.ARV(cmd.Context(), input)
			if err != nil {
				return err
			}
			return PrintResult(cmd, arvResult{arv})
		},
	}

	fl := cmd.Flags()
	fl.Int64Var(&input.PurchasePrice, "purchase", 0, "purchase price in dollars")
	fl.Int64Var(&input.RenovationCost, "renovation", 0, "renovation cost in dollars")
	fl.Float64Var(&input.Margin, "margin", 0, "target profit margin (default from config)")

	return cmd
}

func newRenovateMaxOfferCmd() *cobra.Command {
	input := &apprenovation.MaxOfferInput{}

	cmd := &cobra.Command{
		Use:   "max-offer",
		Short: "Maximum purchase offer under the 70 percent rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := renovationService(cmd)
			if err != nil {
				return err
			}

			rule, err := svc.MaxOffer(cmd.Context(), input)
			if err != nil {
				return err
			}
			return PrintResult(cmd, maxOfferResult{rule})
		},
	}

	fl := cmd.Flags()
	fl.Int64Var(&input.ARV, "arv", 0, "after-repair value in dollars")
	fl.Int64Var(&input.RenovationCost, "renovation", 0, "renovation cost in dollars")

	return cmd
}

type estimateResult struct {
	*domainRenovation.FullEstimate
}

func (r estimateResult) String() string {
	var sb strings.Builder

	categories := []struct {
		name  string
		total int64
	}{
		{"kitchen", r.Estimates.Kitchen.Total},
		{"bathrooms", r.Estimates.Bathrooms.Total},
		{"flooring", r.Estimates.Flooring.Total},
		{"paint", r.Estimates.Paint.Total},
		{"roof", r.Estimates.Roof.Total},
		{"hvac", r.Estimates.HVAC.Total},
		{"electrical", r.Estimates.Electrical.Total},
		{"plumbing", r.Estimates.Plumbing.Total},
		{"exterior", r.Estimates.Exterior.Total},
		{"demolition", r.Estimates.Demolition.Total},
	}

	for _, cat := range categories {
		if cat.total == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%-16s $%d\n", cat.name, cat.total)
	}
	fmt.Fprintf(&sb, "%-16s $%d\n", "subtotal", r.Subtotal)
	fmt.Fprintf(&sb, "%-16s $%d\n", "contingency", r.Contingency)
	fmt.Fprintf(&sb, "%-16s $%d\n", "permits & fees", r.PermitsFees)
	fmt.Fprintf(&sb, "%-16s $%d\n", "markup", r.ContractorMarkup)
	fmt.Fprintf(&sb, "%-16s $%d ($%d/sqft)\n", "TOTAL", r.Total, r.PricePerSqft)

	return sb.String()
}

type arvResult struct {
	*domainRenovation.ARVEstimate
}

func (r arvResult) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Purchase price:    $%d\n", r.PurchasePrice)
	fmt.Fprintf(&sb, "Renovation cost:   $%d\n", r.RenovationCost)
	fmt.Fprintf(&sb, "Holding costs:     $%d\n", r.HoldingCosts)
	fmt.Fprintf(&sb, "Selling costs:     $%d\n", r.SellingCosts)
	fmt.Fprintf(&sb, "Total investment:  $%d\n", r.TotalInvestment)
	fmt.Fprintf(&sb, "Minimum ARV:       $%d\n", r.MinimumARV)
	fmt.Fprintf(&sb, "Expected profit:   $%d (%d%% ROI)\n", r.ExpectedProfit, r.ROIPercent)

	return sb.String()
}

type maxOfferResult struct {
	*domainRenovation.SeventyPercentRule
}

func (r maxOfferResult) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "ARV:               $%d\n", r.ARV)
	fmt.Fprintf(&sb, "70%% of ARV:        $%d\n", r.SeventyPercent)
	fmt.Fprintf(&sb, "Renovation cost:   $%d\n", r.RenovationCost)
	fmt.Fprintf(&sb, "Max offer:         $%d\n", r.MaxOffer)
	if r.IsGoodDeal {
		sb.WriteString("Verdict:           workable deal at or below the max offer\n")
	} else {
		sb.WriteString("Verdict:           renovation cost eats the entire margin\n")
	}

	return sb.String()
}

//Personal.AI order the ending
