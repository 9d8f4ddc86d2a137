package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/cruisedesk/internal/model"
)

const shipSelect = `SELECT s.id, s.code, s.name, s.cruise_line_id, l.code, l.name, s.image IS NOT NULL
	FROM ships s JOIN cruise_lines l ON l.id = s.cruise_line_id`

// ListShips returns one page of ships with their operating line, ordered by id.
func ListShips(ctx context.Context, db *sql.DB, page, size int) (model.Page[model.Ship], error) {
	page, size, offset := paging(page, size)

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ships`).Scan(&total); err != nil {
		return model.Page[model.Ship]{}, fmt.Errorf("counting ships: %w", err)
	}

	rows, err := db.QueryContext(ctx, shipSelect+` ORDER BY s.id LIMIT ? OFFSET ?`, size, offset)
	if err != nil {
		return model.Page[model.Ship]{}, fmt.Errorf("listing ships: %w", err)
	}
	items, err := scanShips(rows)
	if err != nil {
		return model.Page[model.Ship]{}, err
	}
	return model.NewPage(items, page, size, total), nil
}

// ShipsByLine returns the ships of one cruise line ordered by name.
func ShipsByLine(ctx context.Context, db *sql.DB, lineID int64) ([]model.Ship, error) {
	rows, err := db.QueryContext(ctx, shipSelect+` WHERE s.cruise_line_id = ? ORDER BY s.name`, lineID)
	if err != nil {
		return nil, fmt.Errorf("listing ships by line: %w", err)
	}
	return scanShips(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShip(row rowScanner) (model.Ship, error) {
	var s model.Ship
	line := &model.CruiseLine{}
	if err := row.Scan(&s.ID, &s.Code, &s.Name, &s.CruiseLineID, &line.Code, &line.Name, &s.HasImage); err != nil {
		return s, err
	}
	line.ID = s.CruiseLineID
	s.CruiseLine = line
	return s, nil
}

func scanShips(rows *sql.Rows) ([]model.Ship, error) {
	defer rows.Close()

	items := []model.Ship{}
	for rows.Next() {
		s, err := scanShip(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ship: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// GetShip returns a ship by id, or nil when it does not exist.
func GetShip(ctx context.Context, db *sql.DB, id int64) (*model.Ship, error) {
	s, err := scanShip(db.QueryRowContext(ctx, shipSelect+` WHERE s.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting ship: %w", err)
	}
	return &s, nil
}

// CreateShip adds a ship. An unknown cruise line is a conflict.
func CreateShip(ctx context.Context, db *sql.DB, s model.Ship) (*model.Ship, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO ships (code, name, cruise_line_id) VALUES (?, ?, ?)`,
		s.Code, s.Name, s.CruiseLineID,
	)
	if err != nil {
		return nil, wrap("creating ship", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting ship id: %w", err)
	}
	return GetShip(ctx, db, id)
}

// UpdateShip replaces a ship's details. The photo is left alone.
func UpdateShip(ctx context.Context, db *sql.DB, s model.Ship) error {
	res, err := db.ExecContext(ctx,
		`UPDATE ships SET code = ?, name = ?, cruise_line_id = ? WHERE id = ?`,
		s.Code, s.Name, s.CruiseLineID, s.ID,
	)
	return mustAffect("updating ship", res, err)
}

// DeleteShip removes a ship that no sailing references.
func DeleteShip(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM ships WHERE id = ?`, id)
	return mustAffect("deleting ship", res, err)
}

// SetShipImage stores a ship's photo.
func SetShipImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE ships SET image = ?, image_mime = ? WHERE id = ?`, image, mime, id,
	)
	return mustAffect("setting ship image", res, err)
}

// GetShipImage returns a ship's photo and MIME type. Both are empty when there is none.
func GetShipImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM ships WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting ship image: %w", err)
	}
	return image, mime.String, nil
}
