package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPropertyFilter(t *testing.T) {
	t.Run("empty criteria", func(t *testing.T) {
		where, args := buildPropertyFilter(PropertySearchCriteria{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("single filter", func(t *testing.T) {
		where, args := buildPropertyFilter(PropertySearchCriteria{PropertyType: "CONDO"})
		assert.Equal(t, " WHERE property_type = $1", where)
		assert.Equal(t, []interface{}{"CONDO"}, args)
	})

	t.Run("placeholders stay sequential", func(t *testing.T) {
		where, args := buildPropertyFilter(PropertySearchCriteria{
			Address:       "Oak St",
			ListingStatus: "For Sale",
			MinPrice:      100000,
			MaxPrice:      500000,
			MinBeds:       3,
		})
		assert.Equal(t,
			" WHERE address ILIKE $1 AND listing_status = $2 AND price >= $3 AND price <= $4 AND beds >= $5",
			where)
		assert.Equal(t, []interface{}{"%Oak St%", "For Sale", int64(100000), int64(500000), 3}, args)
	})
}

func TestNewRepositories(t *testing.T) {
	assert.NotNil(t, NewPropertyRepository(nil, nil))
	assert.NotNil(t, NewDeckRepository(nil, nil))
}

//Personal.AI order the ending
