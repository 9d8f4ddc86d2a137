package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/cruisedesk/internal/model"
)

// ListLines returns one page of cruise lines ordered by id.
func ListLines(ctx context.Context, db *sql.DB, page, size int) (model.Page[model.CruiseLine], error) {
	page, size, offset := paging(page, size)

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cruise_lines`).Scan(&total); err != nil {
		return model.Page[model.CruiseLine]{}, fmt.Errorf("counting cruise lines: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, code, name FROM cruise_lines ORDER BY id LIMIT ? OFFSET ?`, size, offset,
	)
	if err != nil {
		return model.Page[model.CruiseLine]{}, fmt.Errorf("listing cruise lines: %w", err)
	}
	items, err := scanLines(rows)
	if err != nil {
		return model.Page[model.CruiseLine]{}, err
	}
	return model.NewPage(items, page, size, total), nil
}

// AllLines returns every cruise line ordered by name, for pickers.
func AllLines(ctx context.Context, db *sql.DB) ([]model.CruiseLine, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, code, name FROM cruise_lines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing cruise lines: %w", err)
	}
	return scanLines(rows)
}

func scanLines(rows *sql.Rows) ([]model.CruiseLine, error) {
	defer rows.Close()

	items := []model.CruiseLine{}
	for rows.Next() {
		var l model.CruiseLine
		if err := rows.Scan(&l.ID, &l.Code, &l.Name); err != nil {
			return nil, fmt.Errorf("scanning cruise line: %w", err)
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// GetLine returns a cruise line by id, or nil when it does not exist.
func GetLine(ctx context.Context, db *sql.DB, id int64) (*model.CruiseLine, error) {
	l := &model.CruiseLine{}
	err := db.QueryRowContext(ctx,
		`SELECT id, code, name FROM cruise_lines WHERE id = ?`, id,
	).Scan(&l.ID, &l.Code, &l.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cruise line: %w", err)
	}
	return l, nil
}

// CreateLine adds a cruise line.
func CreateLine(ctx context.Context, db *sql.DB, l model.CruiseLine) (*model.CruiseLine, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO cruise_lines (code, name) VALUES (?, ?)`, l.Code, l.Name,
	)
	if err != nil {
		return nil, wrap("creating cruise line", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting cruise line id: %w", err)
	}
	return GetLine(ctx, db, id)
}

// UpdateLine replaces a cruise line.
func UpdateLine(ctx context.Context, db *sql.DB, l model.CruiseLine) error {
	res, err := db.ExecContext(ctx,
		`UPDATE cruise_lines SET code = ?, name = ? WHERE id = ?`, l.Code, l.Name, l.ID,
	)
	return mustAffect("updating cruise line", res, err)
}

// DeleteLine removes a cruise line with no ships or sailings.
func DeleteLine(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM cruise_lines WHERE id = ?`, id)
	return mustAffect("deleting cruise line", res, err)
}
