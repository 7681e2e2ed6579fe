package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/compsred/comps-engine/internal/domain/twin"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// NewTwinsCmd creates the twins command. The first listing in the input file
// is the subject; the rest are candidates.
func NewTwinsCmd() *cobra.Command {
	var twinsOnly bool

	cmd := &cobra.Command{
		Use:   "twins <listings.json>",
		Short: "Find twin properties for the subject listing",
		Long:  "twins scores every candidate listing against the subject on the twin\nscale: same floor plan, same street, and matching beds, baths, and square\nfootage push the score up; mismatches pull it down. Scores of 90 and above\nare twins; 95 and above are perfect twins.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadListings(args[0])
			if err != nil {
				return err
			}

			subject, candidates := records[0], records[1:]
			matches := twin.NewFinder().FindTwins(subject, candidates)

			if twinsOnly {
				filtered := matches[:0]
				for _, m := range matches {
					if m.IsTwin {
						filtered = append(filtered, m)
					}
				}
				matches = filtered
			}

			return PrintResult(cmd, twinsResult{Subject: subject, Matches: matches})
		},
	}

	cmd.Flags().BoolVar(&twinsOnly, "twins-only", false, "show only matches at or above the twin threshold")

	return cmd
}

// twinsResult adapts twin matches for text and table output.
type twinsResult struct {
	Subject *proptypes.PropertyRecord `json:"subject"`
	Matches []proptypes.TwinMatch     `json:"matches"`
}

func (r twinsResult) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Subject: %s\n\n", r.Subject.Address)
	if len(r.Matches) == 0 {
		sb.WriteString("No candidates to score.\n")
		return sb.String()
	}

	for _, m := range r.Matches {
		marker := " "
		switch {
		case m.IsPerfectTwin:
			marker = "**"
		case m.IsTwin:
			marker = "*"
		}
		fmt.Fprintf(&sb, "%3d %-2s %s\n", m.TwinScore, marker, m.Record.Address)
	}
	sb.WriteString("\n*  twin (score >= 90)   ** perfect twin (score >= 95)\n")

	return sb.String()
}

func (r twinsResult) TableHeaders() []string {
	return []string{"SCORE", "TWIN", "ADDRESS", "BEDS", "BATHS", "SQFT"}
}

func (r twinsResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		twinCol := ""
		switch {
		case m.IsPerfectTwin:
			twinCol = "perfect"
		case m.IsTwin:
			twinCol = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(m.TwinScore),
			twinCol,
			m.Record.Address,
			strconv.Itoa(m.Record.Beds),
			strconv.FormatFloat(m.Record.Baths, 'f', -1, 64),
			strconv.FormatInt(m.Record.Sqft, 10),
		})
	}
	return rows
}

//Personal.AI order the ending
