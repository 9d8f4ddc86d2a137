package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/cruisedesk/internal/model"
)

// CreateMarkup stores a markup rule.
func CreateMarkup(ctx context.Context, db *sql.DB, m model.MarkupRule) (*model.MarkupRule, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO markups (min_markup, max_markup, min_base_fare, max_base_fare,
		    markup_percentage, supplier_id, sailing_id, is_active, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MinMarkup, m.MaxMarkup, m.MinBaseFare, m.MaxBaseFare,
		m.MarkupPercentage, m.SupplierID, m.SailingID, m.IsActive, m.StartDate, m.EndDate,
	)
	if err != nil {
		return nil, wrap("creating markup", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting markup id: %w", err)
	}
	return GetMarkup(ctx, db, id)
}

// GetMarkup returns a markup rule by id, or nil when it does not exist.
func GetMarkup(ctx context.Context, db *sql.DB, id int64) (*model.MarkupRule, error) {
	m := &model.MarkupRule{}
	var supplier, sailing sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT id, min_markup, max_markup, min_base_fare, max_base_fare,
		        markup_percentage, supplier_id, sailing_id, is_active, start_date, end_date
		 FROM markups WHERE id = ?`, id,
	).Scan(&m.ID, &m.MinMarkup, &m.MaxMarkup, &m.MinBaseFare, &m.MaxBaseFare,
		&m.MarkupPercentage, &supplier, &sailing, &m.IsActive, &m.StartDate, &m.EndDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting markup: %w", err)
	}
	m.SupplierID = optionalID(supplier)
	m.SailingID = optionalID(sailing)
	return m, nil
}

func optionalID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}
