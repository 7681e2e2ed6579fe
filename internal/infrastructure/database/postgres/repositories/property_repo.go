// Package repositories provides PostgreSQL-backed persistence for property
// records and comparable decks. Every query is parameterised and carries a
// context for cancellation.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	appErrors "github.com/compsred/comps-engine/pkg/errors"
	"github.com/compsred/comps-engine/pkg/types/common"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// PropertySearchCriteria carries the dynamic filters for List. Zero values
// mean "no filter".
type PropertySearchCriteria struct {
	Address       string
	PropertyType  string
	ListingStatus string
	MinPrice      int64
	MaxPrice      int64
	MinBeds       int
	Pagination    common.Pagination
}

// PropertyRepository stores normalized property records. The full record is
// kept as a JSONB snapshot; a handful of columns are projected out for
// filtering and sorting.
type PropertyRepository struct {
	db     queryExecutor
	logger Logger
}

// NewPropertyRepository constructs a PropertyRepository over an open
// connection pool.
func NewPropertyRepository(db *sql.DB, logger Logger) *PropertyRepository {
	return &PropertyRepository{db: db, logger: logger}
}

// Save upserts a record keyed by its external listing id.
func (r *PropertyRepository) Save(ctx context.Context, record *proptypes.PropertyRecord) error {
	if record == nil || record.ID == "" {
		return appErrors.New(appErrors.ErrCodePropertyInvalid, "property record requires an id")
	}
	r.logger.Debug("PropertyRepository.Save", "property_id", record.ID)

	payload, err := json.Marshal(record)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to marshal property record")
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO property_records (
			id, address, price, sqft, beds, baths,
			property_type, listing_status, payload, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
		ON CONFLICT (id) DO UPDATE SET
			address        = EXCLUDED.address,
			price          = EXCLUDED.price,
			sqft           = EXCLUDED.sqft,
			beds           = EXCLUDED.beds,
			baths          = EXCLUDED.baths,
			property_type  = EXCLUDED.property_type,
			listing_status = EXCLUDED.listing_status,
			payload        = EXCLUDED.payload,
			updated_at     = EXCLUDED.updated_at`,
		record.ID, record.Address, record.Price, record.Sqft, record.Beds, record.Baths,
		record.PropertyType, string(record.ListingStatus), payload, now,
	)
	if err != nil {
		r.logger.Error("PropertyRepository.Save: upsert", "property_id", record.ID, "error", err)
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to save property record")
	}
	return nil
}

// FindByID loads one record by external listing id.
func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*proptypes.PropertyRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload FROM property_records WHERE id = $1`, id)
	record, err := scanPropertyPayload(row)
	if err == sql.ErrNoRows {
		return nil, appErrors.New(appErrors.ErrCodePropertyNotFound,
			fmt.Sprintf("property %s not found", id))
	}
	if err != nil {
		r.logger.Error("PropertyRepository.FindByID", "property_id", id, "error", err)
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load property record")
	}
	return record, nil
}

// FindByAddress loads one record by case-insensitive exact address match.
func (r *PropertyRepository) FindByAddress(ctx context.Context, address string) (*proptypes.PropertyRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload FROM property_records WHERE lower(address) = lower($1)`, address)
	record, err := scanPropertyPayload(row)
	if err == sql.ErrNoRows {
		return nil, appErrors.New(appErrors.ErrCodePropertyNotFound,
			fmt.Sprintf("no property at %q", address))
	}
	if err != nil {
		r.logger.Error("PropertyRepository.FindByAddress", "address", address, "error", err)
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load property record")
	}
	return record, nil
}

// List returns records matching the criteria plus the unpaged total.
func (r *PropertyRepository) List(ctx context.Context, criteria PropertySearchCriteria) ([]*proptypes.PropertyRecord, int64, error) {
	where, args := buildPropertyFilter(criteria)

	var total int64
	countQuery := "SELECT count(*) FROM property_records" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("PropertyRepository.List: count", "error", err)
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to count property records")
	}

	page := criteria.Pagination
	if page.PageSize <= 0 {
		page.PageSize = 20
	}
	if page.Page <= 0 {
		page.Page = 1
	}
	query := fmt.Sprintf(
		"SELECT payload FROM property_records%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("PropertyRepository.List: query", "error", err)
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to list property records")
	}
	defer rows.Close()

	var records []*proptypes.PropertyRecord
	for rows.Next() {
		record, err := scanPropertyPayload(rows)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan property record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to iterate property records")
	}
	return records, total, nil
}

// Delete removes a record. Deleting an absent id is a not-found error.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM property_records WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("PropertyRepository.Delete", "property_id", id, "error", err)
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to delete property record")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.New(appErrors.ErrCodePropertyNotFound,
			fmt.Sprintf("property %s not found", id))
	}
	return nil
}

// buildPropertyFilter assembles the WHERE clause for List. Filters are ANDed
// in a fixed order so placeholder numbering stays deterministic.
func buildPropertyFilter(criteria PropertySearchCriteria) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	next := func() int { return len(args) + 1 }

	if criteria.Address != "" {
		clauses = append(clauses, fmt.Sprintf("address ILIKE $%d", next()))
		args = append(args, "%"+criteria.Address+"%")
	}
	if criteria.PropertyType != "" {
		clauses = append(clauses, fmt.Sprintf("property_type = $%d", next()))
		args = append(args, criteria.PropertyType)
	}
	if criteria.ListingStatus != "" {
		clauses = append(clauses, fmt.Sprintf("listing_status = $%d", next()))
		args = append(args, criteria.ListingStatus)
	}
	if criteria.MinPrice > 0 {
		clauses = append(clauses, fmt.Sprintf("price >= $%d", next()))
		args = append(args, criteria.MinPrice)
	}
	if criteria.MaxPrice > 0 {
		clauses = append(clauses, fmt.Sprintf("price <= $%d", next()))
		args = append(args, criteria.MaxPrice)
	}
	if criteria.MinBeds > 0 {
		clauses = append(clauses, fmt.Sprintf("beds >= $%d", next()))
		args = append(args, criteria.MinBeds)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanPropertyPayload(s scanner) (*proptypes.PropertyRecord, error) {
	var payload []byte
	if err := s.Scan(&payload); err != nil {
		return nil, err
	}
	var record proptypes.PropertyRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

//Personal.AI order the ending
