package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/erazemk/cruisedesk/internal/model"
)

// Promotions keep their full payload as JSON next to the columns lookups need.

// CreatePromotion stores a promotion.
func CreatePromotion(ctx context.Context, db *sql.DB, p model.Promotion) (*model.Promotion, error) {
	p.ID = 0
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding promotion: %w", err)
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO promotions (name, start_date, end_date, is_active, body) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.StartDate, p.EndDate, p.IsActive, string(body),
	)
	if err != nil {
		return nil, wrap("creating promotion", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting promotion id: %w", err)
	}
	return GetPromotion(ctx, db, id)
}

// GetPromotion returns a promotion by id, or nil when it does not exist.
func GetPromotion(ctx context.Context, db *sql.DB, id int64) (*model.Promotion, error) {
	var body string
	err := db.QueryRowContext(ctx, `SELECT body FROM promotions WHERE id = ?`, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting promotion: %w", err)
	}
	p := &model.Promotion{}
	if err := json.Unmarshal([]byte(body), p); err != nil {
		return nil, fmt.Errorf("decoding promotion %d: %w", id, err)
	}
	p.ID = id
	return p, nil
}
