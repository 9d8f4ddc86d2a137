package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/cruisedesk/internal/model"
)

const portColumns = `id, code, name, destination_code`

// ListPorts returns one page of departure ports ordered by id.
func ListPorts(ctx context.Context, db *sql.DB, page, size int) (model.Page[model.DeparturePort], error) {
	page, size, offset := paging(page, size)

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM departure_ports`).Scan(&total); err != nil {
		return model.Page[model.DeparturePort]{}, fmt.Errorf("counting departure ports: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+portColumns+` FROM departure_ports ORDER BY id LIMIT ? OFFSET ?`, size, offset,
	)
	if err != nil {
		return model.Page[model.DeparturePort]{}, fmt.Errorf("listing departure ports: %w", err)
	}
	items, err := scanPorts(rows)
	if err != nil {
		return model.Page[model.DeparturePort]{}, err
	}
	return model.NewPage(items, page, size, total), nil
}

// PortsByDestination returns the departure ports of one destination ordered by name.
func PortsByDestination(ctx context.Context, db *sql.DB, code string) ([]model.DeparturePort, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+portColumns+` FROM departure_ports WHERE destination_code = ? ORDER BY name`, code,
	)
	if err != nil {
		return nil, fmt.Errorf("listing departure ports by destination: %w", err)
	}
	return scanPorts(rows)
}

func scanPorts(rows *sql.Rows) ([]model.DeparturePort, error) {
	defer rows.Close()

	items := []model.DeparturePort{}
	for rows.Next() {
		var p model.DeparturePort
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.DestinationCode); err != nil {
			return nil, fmt.Errorf("scanning departure port: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// GetPort returns a departure port by id, or nil when it does not exist.
func GetPort(ctx context.Context, db *sql.DB, id int64) (*model.DeparturePort, error) {
	p := &model.DeparturePort{}
	err := db.QueryRowContext(ctx,
		`SELECT `+portColumns+` FROM departure_ports WHERE id = ?`, id,
	).Scan(&p.ID, &p.Code, &p.Name, &p.DestinationCode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting departure port: %w", err)
	}
	return p, nil
}

// CreatePort adds a departure port. An unknown destination is a conflict.
func CreatePort(ctx context.Context, db *sql.DB, p model.DeparturePort) (*model.DeparturePort, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO departure_ports (code, name, destination_code) VALUES (?, ?, ?)`,
		p.Code, p.Name, p.DestinationCode,
	)
	if err != nil {
		return nil, wrap("creating departure port", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting departure port id: %w", err)
	}
	return GetPort(ctx, db, id)
}

// UpdatePort replaces a departure port.
func UpdatePort(ctx context.Context, db *sql.DB, p model.DeparturePort) error {
	res, err := db.ExecContext(ctx,
		`UPDATE departure_ports SET code = ?, name = ?, destination_code = ? WHERE id = ?`,
		p.Code, p.Name, p.DestinationCode, p.ID,
	)
	return mustAffect("updating departure port", res, err)
}

// DeletePort removes a departure port that no sailing references.
func DeletePort(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM departure_ports WHERE id = ?`, id)
	return mustAffect("deleting departure port", res, err)
}
