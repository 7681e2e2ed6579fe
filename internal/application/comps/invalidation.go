package comps

import (
	"context"
	"encoding/json"

	"github.com/compsred/comps-engine/internal/infrastructure/database/redis"
	"github.com/compsred/comps-engine/internal/infrastructure/messaging/kafka"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/pkg/errors"
	"github.com/compsred/comps-engine/pkg/types/common"
)

// NewAnalysisInvalidationHandler returns a message handler that drops
// the cached analysis for a deck whenever another instance mutates it.
// Instances invalidate their own writes locally; this handler keeps the
// shared cache coherent across replicas. Subscribe it to the card-added
// and deck-deleted topics.
func NewAnalysisInvalidationHandler(cache redis.Cache, logger logging.Logger) common.MessageHandler {
	return func(ctx context.Context, msg *common.Message) error {
		var env kafka.EventEnvelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "malformed event envelope")
		}

		var payload struct {
			DeckID string `json:"deck_id"`
		}
		if err := env.DecodePayload(&payload); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "malformed event payload")
		}
		if payload.DeckID == "" {
			// Not a deck-scoped event; nothing to invalidate.
			return nil
		}

		if err := cache.Delete(ctx, analysisKey(payload.DeckID)); err != nil {
			return err
		}
		logger.Debug("invalidated cached analysis",
			logging.String("deck_id", payload.DeckID),
			logging.String("topic", msg.Topic))
		return nil
	}
}

//Personal.AI order the ending
