package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/compsred/comps-engine/internal/domain/deck"
	"github.com/compsred/comps-engine/internal/domain/property"
	"github.com/compsred/comps-engine/internal/domain/scoring"
	"github.com/compsred/comps-engine/pkg/errors"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// NewAnalyzeCmd creates the analyze command. It reads a JSON file holding an
// array of raw listing objects, treats the first as the subject, scores the
// rest against it, and prints the deck valuation.
func NewAnalyzeCmd() *cobra.Command {
	var deckName string

	cmd := &cobra.Command{
		Use:   "analyze <listings.json>",
		Short: "Score a set of comparable listings and print the deck valuation",
		Long:  "analyze builds an in-memory deck from a JSON array of raw listing\nobjects. The first listing is the subject property; every other listing is\nscored against it. The output is the full deck analysis: suggested value,\nprice ranges, market trend, and recommendations.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadListings(args[0])
			if err != nil {
				return err
			}

			d := deck.New(deckName, scoring.NewEngine())
			for _, rec := range records {
				d.AddCard(rec)
			}

			analysis := d.GenerateAnalysis()
			return PrintResult(cmd, analysisResult{analysis})
		},
	}

	cmd.Flags().StringVar(&deckName, "name", "cli deck", "name for the in-memory deck")

	return cmd
}

// loadListings reads and normalizes a JSON array of raw listing objects.
func loadListings(path string) ([]*proptypes.PropertyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading listings file: %w", err)
	}

	var raws []map[string]interface{}
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "listings file must hold a JSON array of listing objects")
	}
	if len(raws) == 0 {
		return nil, errors.Validation("listings file holds no listings")
	}

	normalizer := property.NewNormalizer()
	records := make([]*proptypes.PropertyRecord, 0, len(raws))
	for i, raw := range raws {
		rec, err := normalizer.Normalize(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePropertyInvalid, fmt.Sprintf("listing %d is invalid", i))
		}
		records = append(records, rec)
	}

	return records, nil
}

// analysisResult adapts DeckAnalysis for text output.
type analysisResult struct {
	*proptypes.DeckAnalysis
}

func (r analysisResult) String() string {
	var sb strings.Builder

	s := r.Summary
	fmt.Fprintf(&sb, "Deck: %d cards (%d comparables)\n", s.TotalCards, s.ComparableCount)
	if s.SuggestedValue != nil {
		fmt.Fprintf(&sb, "Suggested value:   $%d\n", *s.SuggestedValue)
	} else if s.SuggestedValueNote != "" {
		fmt.Fprintf(&sb, "Suggested value:   %s\n", s.SuggestedValueNote)
	}
	fmt.Fprintf(&sb, "Average price:     $%.0f\n", s.AveragePrice)
	fmt.Fprintf(&sb, "Median price:      $%.0f\n", s.MedianPrice)
	fmt.Fprintf(&sb, "Average $/sqft:    $%.2f\n", s.AveragePricePerSqft)
	fmt.Fprintf(&sb, "Market trend:      %s\n", r.MarketInsights.MarketTrend)
	fmt.Fprintf(&sb, "Deal quality:      %s\n", r.DealQuality)

	if len(r.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&sb, "  - [%s] %s\n", rec.Type, rec.Message)
		}
	}

	return sb.String()
}

//Personal.AI order the ending
