// Package comps provides the application-level services for comparable
// analysis: deck management, twin search, and deck export. This package
// sits between the HTTP/CLI interfaces and the domain packages.
package comps

import (
	"context"
	"fmt"
	"time"

	"github.com/compsred/comps-engine/internal/domain/deck"
	"github.com/compsred/comps-engine/internal/domain/property"
	"github.com/compsred/comps-engine/internal/infrastructure/database/postgres/repositories"
	"github.com/compsred/comps-engine/internal/infrastructure/database/redis"
	"github.com/compsred/comps-engine/internal/infrastructure/messaging/kafka"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/compsred/comps-engine/pkg/errors"
	"github.com/compsred/comps-engine/pkg/types/common"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

const (
	// eventSource identifies this service in event envelopes.
	eventSource = "comps-engine"

	analysisCacheTTL = 15 * time.Minute
)

// DeckStore is the persistence surface the deck service needs.
// *repositories.DeckRepository satisfies it.
type DeckStore interface {
	Save(ctx context.Context, d *deck.Deck) error
	FindByID(ctx context.Context, id string) (*repositories.DeckRecord, error)
	List(ctx context.Context, page common.Pagination) ([]*repositories.DeckSummary, int64, error)
	SaveAnalysis(ctx context.Context, deckID string, analysis *proptypes.DeckAnalysis) error
	Delete(ctx context.Context, id string) error
}

// PropertyStore persists normalized property records.
// *repositories.PropertyRepository satisfies it.
type PropertyStore interface {
	Save(ctx context.Context, record *proptypes.PropertyRecord) error
	FindByID(ctx context.Context, id string) (*proptypes.PropertyRecord, error)
}

// EventPublisher emits domain events. *kafka.Producer satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, msg *common.ProducerMessage) error
}

// DeckService manages comparable decks: creation, card addition with
// scoring, and the derived valuation analysis.
type DeckService interface {
	CreateDeck(ctx context.Context, input *CreateDeckInput) (*DeckView, error)
	GetDeck(ctx context.Context, id string) (*DeckView, error)
	ListDecks(ctx context.Context, page, pageSize int) (*DeckList, error)
	DeleteDeck(ctx context.Context, id string) error
	AddCard(ctx context.Context, deckID string, raw map[string]interface{}) (*AddCardResult, error)
	Analysis(ctx context.Context, deckID string) (*proptypes.DeckAnalysis, error)
}

// CreateDeckInput names a new deck.
type CreateDeckInput struct {
	Name string `json:"name"`
}

// DeckView is the full deck DTO returned to interfaces.
type DeckView struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
	Cards     []*deck.Card            `json:"cards"`
	Analysis  *proptypes.DeckAnalysis `json:"analysis,omitempty"`
}

// DeckSummaryView is the list-view projection.
type DeckSummaryView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckList is a page of deck summaries.
type DeckList struct {
	Decks      []*DeckSummaryView `json:"decks"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// AddCardResult reports the card affected by an add. Added is false when
// the record matched an existing card by id or address; the existing card
// is returned unchanged in that case.
type AddCardResult struct {
	Card  *deck.Card `json:"card"`
	Added bool       `json:"added"`
}

type deckService struct {
	decks      DeckStore
	properties PropertyStore
	cache      redis.Cache
	locks      redis.LockFactory
	events     EventPublisher
	normalizer *property.Normalizer
	scorer     deck.Scorer
	metrics    *prometheus.AppMetrics
	logger     logging.Logger
}

// NewDeckService wires the deck application service. events and metrics
// may be nil; event publication and metric recording are then skipped.
func NewDeckService(
	decks DeckStore,
	properties PropertyStore,
	cache redis.Cache,
	locks redis.LockFactory,
	events EventPublisher,
	scorer deck.Scorer,
	metrics *prometheus.AppMetrics,
	logger logging.Logger,
) DeckService {
	return &deckService{
		decks:      decks,
		properties: properties,
		cache:      cache,
		locks:      locks,
		events:     events,
		normalizer: property.NewNormalizer(),
		scorer:     scorer,
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *deckService) CreateDeck(ctx context.Context, input *CreateDeckInput) (*DeckView, error) {
	if input == nil || input.Name == "" {
		return nil, errors.Validation("deck name is required")
	}

	d := deck.New(input.Name, s.scorer)
	if err := s.decks.Save(ctx, d); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.TopicDeckCreated, kafka.DeckCreatedPayload{
		DeckID:    d.ID,
		Name:      d.Name,
		CreatedAt: d.Created,
	})

	s.logger.Info("deck created", logging.String("deck_id", d.ID), logging.String("name", d.Name))
	return &DeckView{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.Created,
		UpdatedAt: d.Created,
		Cards:     d.Cards(),
	}, nil
}

func (s *deckService) GetDeck(ctx context.Context, id string) (*DeckView, error) {
	rec, err := s.decks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeckView{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Cards:     rec.Cards,
		Analysis:  rec.Analysis,
	}, nil
}

func (s *deckService) ListDecks(ctx context.Context, page, pageSize int) (*DeckList, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	summaries, total, err := s.decks.List(ctx, common.Pagination{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}

	views := make([]*DeckSummaryView, 0, len(summaries))
	for _, sum := range summaries {
		views = append(views, &DeckSummaryView{
			ID:        sum.ID,
			Name:      sum.Name,
			CardCount: sum.CardCount,
			CreatedAt: sum.CreatedAt,
			UpdatedAt: sum.UpdatedAt,
		})
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &DeckList{
		Decks:      views,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id string) error {
	if err := s.decks.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateAnalysis(ctx, id)
	s.publish(ctx, kafka.TopicDeckDeleted, kafka.DeckDeletedPayload{
		DeckID:    id,
		DeletedAt: time.Now().UTC(),
	})
	return nil
}

// AddCard normalizes the raw listing, adds it to the deck under the deck's
// distributed mutex, and persists both the property record and the new card
// set. A duplicate (same id or address) returns the existing card with
// Added=false and performs no writes.
func (s *deckService) AddCard(ctx context.Context, deckID string, raw map[string]interface{}) (*AddCardResult, error) {
	record, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	mutex := s.locks.NewMutex("deck:" + deckID)
	if err := mutex.Lock(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if err := mutex.Unlock(ctx); err != nil {
			s.logger.Warn("failed to release deck lock", logging.String("deck_id", deckID), logging.Err(err))
		}
	}()

	d, err := s.loadDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	card, added := d.AddCard(record)
	if !added {
		return &AddCardResult{Card: card, Added: false}, nil
	}
	if s.metrics != nil && card.Comparison != nil {
		prometheus.RecordScoring(s.metrics, "comparability", card.Comparison.ComparabilityScore, time.Since(start))
	}

	if err := s.properties.Save(ctx, record); err != nil {
		return nil, err
	}
	if err := s.decks.Save(ctx, d); err != nil {
		return nil, err
	}
	s.invalidateAnalysis(ctx, deckID)

	score := 0
	if card.Comparison != nil {
		score = card.Comparison.ComparabilityScore
	}
	s.publish(ctx, kafka.TopicCardAdded, kafka.CardAddedPayload{
		DeckID:     deckID,
		CardID:     card.ID,
		Label:      card.Label,
		PropertyID: record.ID,
		Address:    record.Address,
		Score:      score,
		IsMaster:   card.IsMaster,
		AddedAt:    card.AddedAt,
	})

	s.logger.Info("card added",
		logging.String("deck_id", deckID),
		logging.String("card_id", card.ID),
		logging.String("label", card.Label),
		logging.Int("score", score))
	return &AddCardResult{Card: card, Added: true}, nil
}

// Analysis returns the deck's valuation analysis, served from cache when
// available. A freshly generated analysis is persisted on the deck row and
// announced on the analysis topic.
func (s *deckService) Analysis(ctx context.Context, deckID string) (*proptypes.DeckAnalysis, error) {
	var analysis proptypes.DeckAnalysis
	cacheHit := true
	start := time.Now()

	err := s.cache.GetOrSet(ctx, analysisKey(deckID), &analysis, analysisCacheTTL, func(ctx context.Context) (interface{}, error) {
		cacheHit = false
		d, err := s.loadDeck(ctx, deckID)
		if err != nil {
			return nil, err
		}

		a := d.GenerateAnalysis()
		if a == nil {
			return nil, errors.New(errors.ErrCodeDeckEmpty, fmt.Sprintf("deck %s has no cards", deckID))
		}

		if err := s.decks.SaveAnalysis(ctx, deckID, a); err != nil {
			s.logger.Warn("failed to persist analysis", logging.String("deck_id", deckID), logging.Err(err))
		}

		s.publish(ctx, kafka.TopicAnalysisCompleted, kafka.AnalysisCompletedPayload{
			DeckID:         deckID,
			CardCount:      a.Summary.TotalCards,
			SuggestedValue: a.Summary.SuggestedValue,
			MarketTrend:    string(a.MarketInsights.MarketTrend),
			DealQuality:    string(a.DealQuality),
			CompletedAt:    time.Now().UTC(),
		})
		return a, nil
	})

	if s.metrics != nil {
		prometheus.RecordCacheAccess(s.metrics, "analysis", cacheHit)
		prometheus.RecordDeckAnalysis(s.metrics, analysis.Summary.TotalCards, err == nil, time.Since(start), "service")
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// loadDeck rehydrates a persisted deck around the service's scorer.
func (s *deckService) loadDeck(ctx context.Context, deckID string) (*deck.Deck, error) {
	rec, err := s.decks.FindByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	d := deck.New(rec.Name, s.scorer, deck.WithID(rec.ID))
	d.Rehydrate(rec.Cards)
	return d, nil
}

func (s *deckService) invalidateAnalysis(ctx context.Context, deckID string) {
	if err := s.cache.Delete(ctx, analysisKey(deckID)); err != nil {
		s.logger.Warn("failed to invalidate analysis cache", logging.String("deck_id", deckID), logging.Err(err))
	}
}

// publish sends an enveloped event, logging failures instead of surfacing
// them: event delivery is best-effort and never fails the request.
func (s *deckService) publish(ctx context.Context, topic string, payload interface{}) {
	if s.events == nil {
		return
	}
	env, err := kafka.NewEventEnvelope(topic, eventSource, payload)
	if err != nil {
		s.logger.Error("failed to build event envelope", logging.String("topic", topic), logging.Err(err))
		return
	}
	msg, err := env.ToMessage(topic)
	if err != nil {
		s.logger.Error("failed to build event message", logging.String("topic", topic), logging.Err(err))
		return
	}

	start := time.Now()
	err = s.events.Publish(ctx, msg)
	if s.metrics != nil {
		prometheus.RecordEventPublish(s.metrics, topic, time.Since(start), err)
	}
	if err != nil {
		s.logger.Warn("failed to publish event", logging.String("topic", topic), logging.Err(err))
	}
}

func analysisKey(deckID string) string {
	return "deck:analysis:" + deckID
}

//Personal.AI order the ending
