package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/cruisedesk/internal/model"
)

// ListDestinations returns one page of destinations ordered by code.
func ListDestinations(ctx context.Context, db *sql.DB, page, size int) (model.Page[model.Destination], error) {
	page, size, offset := paging(page, size)

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&total); err != nil {
		return model.Page[model.Destination]{}, fmt.Errorf("counting destinations: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT code, name FROM destinations ORDER BY code LIMIT ? OFFSET ?`, size, offset,
	)
	if err != nil {
		return model.Page[model.Destination]{}, fmt.Errorf("listing destinations: %w", err)
	}
	items, err := scanDestinations(rows)
	if err != nil {
		return model.Page[model.Destination]{}, err
	}
	return model.NewPage(items, page, size, total), nil
}

// AllDestinations returns every destination ordered by name, for pickers.
func AllDestinations(ctx context.Context, db *sql.DB) ([]model.Destination, error) {
	rows, err := db.QueryContext(ctx, `SELECT code, name FROM destinations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing destinations: %w", err)
	}
	return scanDestinations(rows)
}

func scanDestinations(rows *sql.Rows) ([]model.Destination, error) {
	defer rows.Close()

	items := []model.Destination{}
	for rows.Next() {
		d := model.Destination{Persisted: true}
		if err := rows.Scan(&d.Code, &d.Name); err != nil {
			return nil, fmt.Errorf("scanning destination: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// GetDestination returns a destination by code, or nil when it does not exist.
func GetDestination(ctx context.Context, db *sql.DB, code string) (*model.Destination, error) {
	d := &model.Destination{Persisted: true}
	err := db.QueryRowContext(ctx,
		`SELECT code, name FROM destinations WHERE code = ?`, code,
	).Scan(&d.Code, &d.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting destination: %w", err)
	}
	return d, nil
}

// CreateDestination adds a destination. A taken code is a conflict.
func CreateDestination(ctx context.Context, db *sql.DB, d model.Destination) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO destinations (code, name) VALUES (?, ?)`, d.Code, d.Name,
	)
	if err != nil {
		return wrap("creating destination", err)
	}
	return nil
}

// UpdateDestination renames a destination. The code never changes.
func UpdateDestination(ctx context.Context, db *sql.DB, d model.Destination) error {
	res, err := db.ExecContext(ctx,
		`UPDATE destinations SET name = ? WHERE code = ?`, d.Name, d.Code,
	)
	return mustAffect("updating destination", res, err)
}

// DeleteDestination removes a destination that nothing references.
func DeleteDestination(ctx context.Context, db *sql.DB, code string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM destinations WHERE code = ?`, code)
	return mustAffect("deleting destination", res, err)
}
