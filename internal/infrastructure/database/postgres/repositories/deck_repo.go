package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/compsred/comps-engine/internal/domain/deck"
	appErrors "github.com/compsred/comps-engine/pkg/errors"
	"github.com/compsred/comps-engine/pkg/types/common"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// DeckRecord is the persisted shape of a deck: metadata, ordered cards, and
// the last stored analysis. Cards come back in insertion order so a Deck can
// be rehydrated directly.
type DeckRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Cards     []*deck.Card
	Analysis  *proptypes.DeckAnalysis
}

// DeckSummary is the list-view projection of a deck.
type DeckSummary struct {
	ID        string
	Name      string
	CardCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeckRepository persists decks and their cards. Saving a deck replaces its
// card set wholesale inside one transaction; per-card comparisons are stored
// as JSONB snapshots, not recomputed on load.
type DeckRepository struct {
	db     *sql.DB
	logger Logger
}

// NewDeckRepository constructs a DeckRepository over an open connection pool.
func NewDeckRepository(db *sql.DB, logger Logger) *DeckRepository {
	return &DeckRepository{db: db, logger: logger}
}

// Save upserts the deck row and rewrites its card set.
func (r *DeckRepository) Save(ctx context.Context, d *deck.Deck) error {
	r.logger.Debug("DeckRepository.Save", "deck_id", d.ID, "cards", d.Size())

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("DeckRepository.Save: begin tx", "error", err)
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO decks (id, name, created_at, updated_at)
		VALUES ($1,$2,$3,$3)
		ON CONFLICT (id) DO UPDATE SET
			name       = EXCLUDED.name,
			updated_at = EXCLUDED.updated_at`,
		d.ID, d.Name, now,
	)
	if err != nil {
		r.logger.Error("DeckRepository.Save: upsert deck", "deck_id", d.ID, "error", err)
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to save deck")
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = $1`, d.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to clear deck cards")
	}

	for position, card := range d.Cards() {
		if err := insertCard(ctx, tx, d.ID, position, card); err != nil {
			r.logger.Error("DeckRepository.Save: insert card", "deck_id", d.ID, "card_id", card.ID, "error", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to commit deck")
	}
	return nil
}

func insertCard(ctx context.Context, tx *sql.Tx, deckID string, position int, card *deck.Card) error {
	property, err := json.Marshal(card.Data)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to marshal card property")
	}
	var comparison []byte
	if card.Comparison != nil {
		if comparison, err = json.Marshal(card.Comparison); err != nil {
			return appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to marshal card comparison")
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO deck_cards (
			id, deck_id, position, is_master, label,
			property, comparison, added_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		card.ID, deckID, position, card.IsMaster, card.Label,
		property, comparison, card.AddedAt.UTC(),
	)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to insert deck card")
	}
	return nil
}

// FindByID loads a deck with its full card set and stored analysis.
func (r *DeckRepository) FindByID(ctx context.Context, id string) (*DeckRecord, error) {
	record := &DeckRecord{}
	var analysis []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at, analysis
		FROM decks WHERE id = $1`, id,
	).Scan(&record.ID, &record.Name, &record.CreatedAt, &record.UpdatedAt, &analysis)
	if err == sql.ErrNoRows {
		return nil, appErrors.New(appErrors.ErrCodeDeckNotFound, fmt.Sprintf("deck %s not found", id))
	}
	if err != nil {
		r.logger.Error("DeckRepository.FindByID", "deck_id", id, "error", err)
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load deck")
	}

	if len(analysis) > 0 {
		record.Analysis = &proptypes.DeckAnalysis{}
		if err := json.Unmarshal(analysis, record.Analysis); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to unmarshal deck analysis")
		}
	}

	cards, err := r.loadCards(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Cards = cards
	return record, nil
}

func (r *DeckRepository) loadCards(ctx context.Context, deckID string) ([]*deck.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, is_master, label, property, comparison, added_at
		FROM deck_cards WHERE deck_id = $1
		ORDER BY position`, deckID)
	if err != nil {
		r.logger.Error("DeckRepository.loadCards", "deck_id", deckID, "error", err)
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load deck cards")
	}
	defer rows.Close()

	var cards []*deck.Card
	for rows.Next() {
		card := &deck.Card{}
		var property, comparison []byte
		if err := rows.Scan(&card.ID, &card.IsMaster, &card.Label, &property, &comparison, &card.AddedAt); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan deck card")
		}
		card.Data = &proptypes.PropertyRecord{}
		if err := json.Unmarshal(property, card.Data); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to unmarshal card property")
		}
		if len(comparison) > 0 {
			card.Comparison = &proptypes.ComparisonResult{}
			if err := json.Unmarshal(comparison, card.Comparison); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to unmarshal card comparison")
			}
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to iterate deck cards")
	}
	return cards, nil
}

// List returns deck summaries newest-first plus the unpaged total.
func (r *DeckRepository) List(ctx context.Context, page common.Pagination) ([]*DeckSummary, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM decks`).Scan(&total); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to count decks")
	}

	if page.PageSize <= 0 {
		page.PageSize = 20
	}
	if page.Page <= 0 {
		page.Page = 1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.created_at, d.updated_at,
		       (SELECT count(*) FROM deck_cards c WHERE c.deck_id = d.id)
		FROM decks d
		ORDER BY d.updated_at DESC
		LIMIT $1 OFFSET $2`, page.PageSize, page.Offset())
	if err != nil {
		r.logger.Error("DeckRepository.List", "error", err)
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to list decks")
	}
	defer rows.Close()

	var summaries []*DeckSummary
	for rows.Next() {
		s := &DeckSummary{}
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt, &s.CardCount); err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan deck summary")
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to iterate decks")
	}
	return summaries, total, nil
}

// SaveAnalysis stores the latest derived analysis on the deck row.
func (r *DeckRepository) SaveAnalysis(ctx context.Context, deckID string, analysis *proptypes.DeckAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to marshal deck analysis")
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE decks SET analysis = $2, updated_at = $3 WHERE id = $1`,
		deckID, payload, time.Now().UTC())
	if err != nil {
		r.logger.Error("DeckRepository.SaveAnalysis", "deck_id", deckID, "error", err)
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to save deck analysis")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.New(appErrors.ErrCodeDeckNotFound, fmt.Sprintf("deck %s not found", deckID))
	}
	return nil
}

// Delete removes a deck; cards cascade at the schema level.
func (r *DeckRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("DeckRepository.Delete", "deck_id", id, "error", err)
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to delete deck")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.New(appErrors.ErrCodeDeckNotFound, fmt.Sprintf("deck %s not found", id))
	}
	return nil
}

//Personal.AI order the ending
