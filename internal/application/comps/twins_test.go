package comps

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compsred/comps-engine/internal/domain/deck"
	"github.com/compsred/comps-engine/internal/domain/twin"
	"github.com/compsred/comps-engine/internal/infrastructure/database/postgres/repositories"
	"github.com/compsred/comps-engine/internal/infrastructure/messaging/kafka"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/pkg/errors"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

func twinFixture(rec *repositories.DeckRecord) (*fakeDeckStore, *fakePublisher, TwinService) {
	decks := newFakeDeckStore()
	if rec != nil {
		decks.records[rec.ID] = rec
	}
	events := &fakePublisher{}
	return decks, events, NewTwinService(decks, events, logging.NewNopLogger())
}

func trackHome(id, address string, beds int, baths float64, sqft int64, year int) *proptypes.PropertyRecord {
	return &proptypes.PropertyRecord{
		ID: id, Address: address,
		Price: 450000, PricePerSqft: 250,
		Beds: beds, Baths: baths, Sqft: sqft, YearBuilt: year,
		PropertyType: "Single Family",
	}
}

func TestFindTwins(t *testing.T) {
	subject := trackHome("p1", "123 Maple St, Austin, TX", 3, 2, 1800, 2005)
	perfect := trackHome("p2", "125 Maple St, Austin, TX", 3, 2, 1800, 2006)
	distant := trackHome("p3", "900 Elm Dr, Austin, TX", 4, 2, 2300, 2005)
	condo := trackHome("p4", "77 Tower Ln, Austin, TX", 3, 2, 1800, 2005)
	condo.PropertyType = "Condo"

	_, events, svc := twinFixture(&repositories.DeckRecord{
		ID: "deck_1", Name: "twin deck",
		Cards: []*deck.Card{
			{ID: "card_1", IsMaster: true, Label: "PRIMARY", Data: subject},
			{ID: "card_2", Label: "COMP 1", Data: perfect},
			{ID: "card_3", Label: "COMP 2", Data: distant},
			{ID: "card_4", Label: "COMP 3", Data: condo},
		},
	})

	report, err := svc.FindTwins(context.Background(), "deck_1")
	require.NoError(t, err)

	assert.Equal(t, "deck_1", report.DeckID)
	assert.Same(t, subject, report.Subject)
	require.Len(t, report.Matches, 3)

	// Sorted by score descending: the same-street same-floor-plan comp
	// pins the top of the scale.
	top := report.Matches[0]
	assert.Equal(t, "p2", top.Record.ID)
	assert.Equal(t, twin.MaxTwinScore, top.TwinScore)
	assert.True(t, top.IsTwin)
	assert.True(t, top.IsPerfectTwin)

	assert.Equal(t, 1, report.TwinCount)
	assert.Equal(t, 1, report.PerfectTwinCount)

	// The type mismatch zeroes out, it never counts as a twin.
	bottom := report.Matches[2]
	assert.Equal(t, "p4", bottom.Record.ID)
	assert.Zero(t, bottom.TwinScore)

	// Subject and its twin share a floor-plan model group.
	assert.NotEmpty(t, report.ModelGroups)

	require.Equal(t, []string{kafka.TopicTwinSearchCompleted}, events.topics())
	var payload kafka.TwinSearchCompletedPayload
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, events.messages[0]).Payload, &payload))
	assert.Equal(t, "123 Maple St, Austin, TX", payload.SubjectAddress)
	assert.Equal(t, 3, payload.Candidates)
	assert.Equal(t, 1, payload.TwinsFound)
	assert.Equal(t, twin.MaxTwinScore, payload.TopScore)
}

func TestFindTwins_NoComparables(t *testing.T) {
	subject := trackHome("p1", "123 Maple St, Austin, TX", 3, 2, 1800, 2005)
	_, _, svc := twinFixture(&repositories.DeckRecord{
		ID:    "deck_2",
		Cards: []*deck.Card{{ID: "card_1", IsMaster: true, Label: "PRIMARY", Data: subject}},
	})

	report, err := svc.FindTwins(context.Background(), "deck_2")
	require.NoError(t, err)
	assert.Empty(t, report.Matches)
	assert.Zero(t, report.TwinCount)
}

func TestFindTwins_NoMasterCard(t *testing.T) {
	comp := trackHome("p2", "125 Maple St, Austin, TX", 3, 2, 1800, 2006)
	_, events, svc := twinFixture(&repositories.DeckRecord{
		ID:    "deck_3",
		Cards: []*deck.Card{{ID: "card_2", Label: "COMP 1", Data: comp}},
	})

	_, err := svc.FindTwins(context.Background(), "deck_3")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNoMasterCard))
	assert.Empty(t, events.messages)
}

func TestFindTwins_DeckNotFound(t *testing.T) {
	_, _, svc := twinFixture(nil)

	_, err := svc.FindTwins(context.Background(), "deck_missing")
	assert.True(t, errors.IsCode(err, errors.ErrCodeDeckNotFound))
}

//Personal.AI order the ending
