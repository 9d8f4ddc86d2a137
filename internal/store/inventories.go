package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/cruisedesk/internal/model"
)

const inventorySelect = `SELECT i.id, i.sail_date, i.group_id, i.nights, i.package_name,
	i.destination_code, i.departure_port_id, i.cruise_line_id, i.ship_id,
	i.category_id, i.stateroom, i.cabin_occupancy, i.pricing_type,
	i.commission_percentage, i.single_rate, i.double_rate, i.triple_rate,
	i.nccf, i.tax, i.grats, i.currency, i.enable_agent, i.enable_admin,
	COALESCE(d.name, ''), COALESCE(p.name, ''), COALESCE(l.code, ''), COALESCE(s.name, '')
	FROM inventories i
	LEFT JOIN destinations d ON d.code = i.destination_code
	LEFT JOIN departure_ports p ON p.id = i.departure_port_id
	LEFT JOIN cruise_lines l ON l.id = i.cruise_line_id
	LEFT JOIN ships s ON s.id = i.ship_id`

// ListInventories returns one page of sailings, newest sail date first.
func ListInventories(ctx context.Context, db *sql.DB, page, size int) (model.Page[model.Inventory], error) {
	page, size, offset := paging(page, size)

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventories`).Scan(&total); err != nil {
		return model.Page[model.Inventory]{}, fmt.Errorf("counting inventories: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		inventorySelect+` ORDER BY i.sail_date DESC, i.id DESC LIMIT ? OFFSET ?`, size, offset,
	)
	if err != nil {
		return model.Page[model.Inventory]{}, fmt.Errorf("listing inventories: %w", err)
	}
	items, err := scanInventories(rows)
	if err != nil {
		return model.Page[model.Inventory]{}, err
	}
	for i := range items {
		if items[i].Cabins, err = listCabins(ctx, db, items[i].ID); err != nil {
			return model.Page[model.Inventory]{}, err
		}
	}
	return model.NewPage(items, page, size, total), nil
}

func scanInventory(row rowScanner) (model.Inventory, error) {
	var (
		inv                      model.Inventory
		dest                     sql.NullString
		port, line, ship         sql.NullInt64
		enableAgent, enableAdmin bool
	)
	err := row.Scan(&inv.ID, &inv.SailDate, &inv.GroupID, &inv.Nights, &inv.PackageName,
		&dest, &port, &line, &ship,
		&inv.CategoryID, &inv.Stateroom, &inv.CabinOccupancy, &inv.PricingType,
		&inv.CommissionPercentage, &inv.SingleRate, &inv.DoubleRate, &inv.TripleRate,
		&inv.NCCF, &inv.Tax, &inv.Grats, &inv.Currency, &enableAgent, &enableAdmin,
		&inv.DestinationName, &inv.DeparturePortName, &inv.CruiseLineCode, &inv.ShipName,
	)
	if err != nil {
		return inv, err
	}
	inv.DestinationID = dest.String
	inv.DeparturePortID = port.Int64
	inv.CruiseLineID = line.Int64
	inv.ShipID = ship.Int64
	inv.EnableAgent = enableAgent
	inv.EnableAdmin = enableAdmin
	inv.Cabins = []model.Cabin{}
	return inv, nil
}

func scanInventories(rows *sql.Rows) ([]model.Inventory, error) {
	defer rows.Close()

	items := []model.Inventory{}
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory: %w", err)
		}
		items = append(items, inv)
	}
	return items, rows.Err()
}

func listCabins(ctx context.Context, db *sql.DB, inventoryID int64) ([]model.Cabin, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT cabin_no, cabin_type, occupancy, single_rate, double_rate, triple_rate, nccf, tax, grats
		 FROM cabins WHERE inventory_id = ? ORDER BY position`, inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing cabins: %w", err)
	}
	defer rows.Close()

	cabins := []model.Cabin{}
	for rows.Next() {
		var c model.Cabin
		if err := rows.Scan(&c.CabinNo, &c.CabinType, &c.Occupancy,
			&c.SingleRate, &c.DoubleRate, &c.TripleRate, &c.NCCF, &c.Tax, &c.Grats); err != nil {
			return nil, fmt.Errorf("scanning cabin: %w", err)
		}
		cabins = append(cabins, c)
	}
	return cabins, rows.Err()
}

// GetInventory returns a sailing with its cabins, or nil when it does not exist.
func GetInventory(ctx context.Context, db *sql.DB, id int64) (*model.Inventory, error) {
	inv, err := scanInventory(db.QueryRowContext(ctx, inventorySelect+` WHERE i.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory: %w", err)
	}
	if inv.Cabins, err = listCabins(ctx, db, id); err != nil {
		return nil, err
	}
	return &inv, nil
}

func inventoryArgs(inv model.Inventory) []any {
	return []any{
		inv.SailDate, inv.GroupID, inv.Nights, inv.PackageName,
		nullString(inv.DestinationID), nullID(inv.DeparturePortID), nullID(inv.CruiseLineID), nullID(inv.ShipID),
		inv.CategoryID, inv.Stateroom, inv.CabinOccupancy, string(inv.PricingType),
		inv.CommissionPercentage, inv.SingleRate, inv.DoubleRate, inv.TripleRate,
		inv.NCCF, inv.Tax, inv.Grats, inv.Currency, inv.EnableAgent, inv.EnableAdmin,
	}
}

// CreateInventory adds a sailing and its cabins in one transaction.
func CreateInventory(ctx context.Context, db *sql.DB, inv model.Inventory) (*model.Inventory, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO inventories (sail_date, group_id, nights, package_name,
		    destination_code, departure_port_id, cruise_line_id, ship_id,
		    category_id, stateroom, cabin_occupancy, pricing_type,
		    commission_percentage, single_rate, double_rate, triple_rate,
		    nccf, tax, grats, currency, enable_agent, enable_admin)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inventoryArgs(inv)...,
	)
	if err != nil {
		return nil, wrap("creating inventory", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting inventory id: %w", err)
	}
	if err := insertCabins(ctx, tx, id, inv.Cabins); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing inventory: %w", err)
	}
	return GetInventory(ctx, db, id)
}

// UpdateInventory replaces a sailing and its full cabin list.
func UpdateInventory(ctx context.Context, db *sql.DB, inv model.Inventory) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE inventories SET sail_date = ?, group_id = ?, nights = ?, package_name = ?,
		    destination_code = ?, departure_port_id = ?, cruise_line_id = ?, ship_id = ?,
		    category_id = ?, stateroom = ?, cabin_occupancy = ?, pricing_type = ?,
		    commission_percentage = ?, single_rate = ?, double_rate = ?, triple_rate = ?,
		    nccf = ?, tax = ?, grats = ?, currency = ?, enable_agent = ?, enable_admin = ?
		 WHERE id = ?`,
		append(inventoryArgs(inv), inv.ID)...,
	)
	if err := mustAffect("updating inventory", res, err); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cabins WHERE inventory_id = ?`, inv.ID); err != nil {
		return fmt.Errorf("clearing cabins: %w", err)
	}
	if err := insertCabins(ctx, tx, inv.ID, inv.Cabins); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing inventory: %w", err)
	}
	return nil
}

func insertCabins(ctx context.Context, tx *sql.Tx, inventoryID int64, cabins []model.Cabin) error {
	for i, c := range cabins {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cabins (inventory_id, position, cabin_no, cabin_type, occupancy,
			    single_rate, double_rate, triple_rate, nccf, tax, grats)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inventoryID, i, c.CabinNo, string(c.CabinType), string(c.Occupancy),
			c.SingleRate, c.DoubleRate, c.TripleRate, c.NCCF, c.Tax, c.Grats,
		)
		if err != nil {
			return wrap("adding cabin", err)
		}
	}
	return nil
}

// DeleteInventory removes a sailing. Its cabins go with it.
func DeleteInventory(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM inventories WHERE id = ?`, id)
	return mustAffect("deleting inventory", res, err)
}
