package comps

import (
	"context"
	"fmt"
	"time"

	"github.com/compsred/comps-engine/internal/domain/twin"
	"github.com/compsred/comps-engine/internal/infrastructure/messaging/kafka"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/pkg/errors"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// TwinService finds twin properties among a deck's comparables.
type TwinService interface {
	FindTwins(ctx context.Context, deckID string) (*TwinReport, error)
}

// TwinReport is the result of a twin search over one deck: every comparable
// scored against the subject, sorted by twin score descending, plus the
// floor-plan model grouping of the full candidate set.
type TwinReport struct {
	DeckID           string                           `json:"deck_id"`
	Subject          *proptypes.PropertyRecord        `json:"subject"`
	Matches          []proptypes.TwinMatch            `json:"matches"`
	TwinCount        int                              `json:"twin_count"`
	PerfectTwinCount int                              `json:"perfect_twin_count"`
	ModelGroups      map[string]*proptypes.ModelGroup `json:"model_groups,omitempty"`
}

type twinService struct {
	decks  DeckStore
	finder *twin.Finder
	events EventPublisher
	logger logging.Logger
}

// NewTwinService wires the twin search service. events may be nil.
func NewTwinService(decks DeckStore, events EventPublisher, logger logging.Logger) TwinService {
	return &twinService{
		decks:  decks,
		finder: twin.NewFinder(),
		events: events,
		logger: logger,
	}
}

// FindTwins scores the deck's comparables against its master. A deck with
// no master cannot be searched; a deck with no comparables yields an empty
// match list.
func (s *twinService) FindTwins(ctx context.Context, deckID string) (*TwinReport, error) {
	rec, err := s.decks.FindByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	subjectCard := masterCard(rec.Cards)
	if subjectCard == nil {
		return nil, errors.New(errors.ErrCodeNoMasterCard, fmt.Sprintf("deck %s has no subject property", deckID))
	}
	subject := subjectCard.Data

	candidates := make([]*proptypes.PropertyRecord, 0, len(rec.Cards))
	for _, c := range rec.Cards {
		if !c.IsMaster {
			candidates = append(candidates, c.Data)
		}
	}

	matches := s.finder.FindTwins(subject, candidates)

	report := &TwinReport{
		DeckID:      deckID,
		Subject:     subject,
		Matches:     matches,
		ModelGroups: twin.GroupByModel(candidates),
	}
	for _, m := range matches {
		if m.IsTwin {
			report.TwinCount++
		}
		if m.IsPerfectTwin {
			report.PerfectTwinCount++
		}
	}

	topScore := 0
	if len(matches) > 0 {
		topScore = matches[0].TwinScore
	}
	s.publishCompleted(ctx, kafka.TwinSearchCompletedPayload{
		SubjectAddress: subject.Address,
		Candidates:     len(candidates),
		TwinsFound:     report.TwinCount,
		TopScore:       topScore,
		CompletedAt:    time.Now().UTC(),
	})

	s.logger.Info("twin search completed",
		logging.String("deck_id", deckID),
		logging.Int("candidates", len(candidates)),
		logging.Int("twins", report.TwinCount))
	return report, nil
}

func (s *twinService) publishCompleted(ctx context.Context, payload kafka.TwinSearchCompletedPayload) {
	if s.events == nil {
		return
	}
	env, err := kafka.NewEventEnvelope(kafka.TopicTwinSearchCompleted, eventSource, payload)
	if err != nil {
		s.logger.Error("failed to build twin event", logging.Err(err))
		return
	}
	msg, err := env.ToMessage(kafka.TopicTwinSearchCompleted)
	if err != nil {
		s.logger.Error("failed to build twin message", logging.Err(err))
		return
	}
	if err := s.events.Publish(ctx, msg); err != nil {
		s.logger.Warn("failed to publish twin event", logging.Err(err))
	}
}

//Personal.AI order the ending
