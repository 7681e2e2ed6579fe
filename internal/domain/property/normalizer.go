// Package property normalizes raw scraped listing payloads into canonical
// PropertyRecord values and provides the address helpers shared by the
// scoring and twin-matching engines.
package property

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/compsred/comps-engine/pkg/errors"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// Placeholder text assigned to missing string fields. Records never fail
// normalization for missing metadata, only for structurally invalid input.
const (
	PlaceholderAddress = "Address not available"
	PlaceholderText    = "Not available"
	PlaceholderUnknown = "Unknown"
)

// ─────────────────────────────────────────────────────────────────────────────
// Normalizer
// ─────────────────────────────────────────────────────────────────────────────

// Normalizer converts loosely-typed scraped mappings into strict
// PropertyRecord values. All defaulting lives here so the scoring code can
// assume well-formed input. The zero value is not usable; construct with
// NewNormalizer.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer returns a Normalizer that defaults yearBuilt to the current
// year.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewNormalizerAt returns a Normalizer pinned to the given clock. Used by
// tests that need a deterministic "current year".
func NewNormalizerAt(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize converts a raw scraped mapping into a canonical PropertyRecord.
// Numeric fields are coerced with max(0, value); sqft with max(1, value) so
// price-per-sqft ratios never divide by zero. A nil mapping is the only
// rejection case.
func (n *Normalizer) Normalize(raw map[string]interface{}) (*proptypes.PropertyRecord, error) {
	if raw == nil {
		return nil, errors.New(errors.ErrCodePropertyInvalid, "property input is not an object")
	}

	price := nonNegInt64(raw, 0, "price", "unformattedPrice")
	sqft := nonNegInt64(raw, 0, "sqft", "livingArea")
	if sqft < 1 {
		sqft = 1
	}

	yearBuilt := int(nonNegInt64(raw, 0, "yearBuilt"))
	if yearBuilt == 0 {
		yearBuilt = n.now().Year()
	}

	rec := &proptypes.PropertyRecord{
		ID:      stringField(raw, "", "id", "zpid"),
		Address: stringFieldOr(raw, PlaceholderAddress, "address", "streetAddress"),

		Price:        price,
		PricePerSqft: int64(math.Round(float64(price) / float64(sqft))),

		Beds:      int(nonNegInt64(raw, 0, "beds", "bedrooms")),
		Baths:     nonNegFloat(raw, 0, "baths", "bathrooms"),
		Sqft:      sqft,
		LotSize:   nonNegInt64(raw, 0, "lotSize", "lotAreaValue"),
		YearBuilt: yearBuilt,

		PropertyType:  stringFieldOr(raw, PlaceholderUnknown, "propertyType", "homeType"),
		ListingStatus: proptypes.NormalizeListingStatus(stringField(raw, "", "listingStatus", "homeStatus")),
		DaysOnMarket:  int(nonNegInt64(raw, 0, "daysOnMarket", "daysOnZillow")),
		ListDate:      stringField(raw, "", "listDate", "datePosted"),

		Neighborhood: stringFieldOr(raw, PlaceholderText, "neighborhood"),
		Subdivision:  stringField(raw, "", "subdivision"),
		Schools:      schoolsField(raw),

		GarageSpaces:  int(nonNegInt64(raw, 0, "garageSpaces")),
		MonthlyHoaFee: nonNegInt64(raw, 0, "monthlyHoaFee", "hoaFee"),
		Zestimate:     nonNegInt64(raw, 0, "zestimate"),
		RentZestimate: nonNegInt64(raw, 0, "rentZestimate"),
		Images:        imagesField(raw),
	}

	// Prefer an explicitly supplied pricePerSqft if present.
	if v, ok := numberValue(raw["pricePerSqft"]); ok && v > 0 {
		rec.PricePerSqft = int64(math.Round(v))
	}

	if err := rec.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePropertyInvalid, "normalized record failed validation")
	}
	return rec, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Address helpers
// ─────────────────────────────────────────────────────────────────────────────

// ExtractStreetName strips the house number and city/state from a display
// address, returning the lower-cased street name. "123 Main St, Austin, TX"
// yields "main st". Returns "" for empty or placeholder addresses.
func ExtractStreetName(address string) string {
	if address == "" || address == PlaceholderAddress {
		return ""
	}
	parts := strings.Fields(strings.Split(address, ",")[0])
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.ToLower(strings.Join(parts[1:], " ")))
}

// SameStreet reports whether two display addresses share a street name.
// Unknown streets never match.
func SameStreet(a, b string) bool {
	sa := ExtractStreetName(a)
	sb := ExtractStreetName(b)
	return sa != "" && sa == sb
}

// ─────────────────────────────────────────────────────────────────────────────
// Field coercion
// ─────────────────────────────────────────────────────────────────────────────

// numberValue extracts a numeric value from the loosely-typed forms a JSON
// decode or scrape can produce: float64, integers, json.Number, and strings
// with currency formatting ("$1,234").
func numberValue(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(t))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func nonNegFloat(raw map[string]interface{}, def float64, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := numberValue(raw[k]); ok {
			return math.Max(0, v)
		}
	}
	return math.Max(0, def)
}

func nonNegInt64(raw map[string]interface{}, def int64, keys ...string) int64 {
	return int64(math.Round(nonNegFloat(raw, float64(def), keys...)))
}

func stringField(raw map[string]interface{}, def string, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return def
}

// stringFieldOr is stringField with a required non-empty fallback, used for
// display fields that receive placeholder text.
func stringFieldOr(raw map[string]interface{}, placeholder string, keys ...string) string {
	return stringField(raw, placeholder, keys...)
}

func schoolsField(raw map[string]interface{}) proptypes.Schools {
	s := proptypes.Schools{
		Elementary: stringField(raw, "", "elementarySchool"),
		Middle:     stringField(raw, "", "middleSchool"),
		High:       stringField(raw, "", "highSchool"),
	}
	nested, ok := raw["schools"].(map[string]interface{})
	if !ok {
		return s
	}
	if s.Elementary == "" {
		s.Elementary = stringField(nested, "", "elementary")
	}
	if s.Middle == "" {
		s.Middle = stringField(nested, "", "middle")
	}
	if s.High == "" {
		s.High = stringField(nested, "", "high")
	}
	return s
}

func imagesField(raw map[string]interface{}) []string {
	list, ok := raw["images"].([]interface{})
	if !ok {
		return nil
	}
	images := make([]string, 0, len(list))
	for _, item := range list {
		if url, ok := item.(string); ok && url != "" {
			images = append(images, url)
		}
	}
	if len(images) == 0 {
		return nil
	}
	return images
}

//Personal.AI order the ending
