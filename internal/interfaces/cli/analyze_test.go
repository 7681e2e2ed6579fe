package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// writeListings writes raw listing objects to a temp JSON file.
func writeListings(t *testing.T, listings []map[string]interface{}) string {
	t.Helper()

	data, err := json.Marshal(listings)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "listings.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func listing(id, address string, price, sqft float64) map[string]interface{} {
	return map[string]interface{}{
		"id":           id,
		"address":      address,
		"price":        price,
		"sqft":         sqft,
		"beds":         3.0,
		"baths":        2.0,
		"yearBuilt":    2005.0,
		"propertyType": "Single Family",
	}
}

func TestAnalyzeCmd_JSONOutput(t *testing.T) {
	path := writeListings(t, []map[string]interface{}{
		listing("p1", "123 Maple St, Austin, TX", 450000, 1800),
		listing("p2", "125 Maple St, Austin, TX", 440000, 1750),
		listing("p3", "456 Oak Ave, Austin, TX", 460000, 1850),
	})

	out, err := runCommand(t, "analyze", path, "--output", "json")
	require.NoError(t, err)

	var analysis proptypes.DeckAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Equal(t, 3, analysis.Summary.TotalCards)
	assert.Equal(t, 2, analysis.Summary.ComparableCount)
	require.NotNil(t, analysis.Summary.SuggestedValue)
	assert.Greater(t, *analysis.Summary.SuggestedValue, int64(0))
}

func TestAnalyzeCmd_TextOutput(t *testing.T) {
	path := writeListings(t, []map[string]interface{}{
		listing("p1", "123 Maple St, Austin, TX", 450000, 1800),
		listing("p2", "125 Maple St, Austin, TX", 440000, 1750),
	})

	out, err := runCommand(t, "analyze", path)
	require.NoError(t, err)

	assert.Contains(t, out, "2 cards (1 comparables)")
	assert.Contains(t, out, "Suggested value")
	assert.Contains(t, out, "Market trend")
}

func TestAnalyzeCmd_MissingFile(t *testing.T) {
	_, err := runCommand(t, "analyze", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestAnalyzeCmd_NotAnArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"address":"123 Maple St"}`), 0o644))

	_, err := runCommand(t, "analyze", path)
	require.Error(t, err)
}

func TestAnalyzeCmd_EmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	_, err := runCommand(t, "analyze", path)
	require.Error(t, err)
}

func TestAnalyzeCmd_RequiresArgument(t *testing.T) {
	_, err := runCommand(t, "analyze")
	require.Error(t, err)
}

//Personal.AI order the ending
