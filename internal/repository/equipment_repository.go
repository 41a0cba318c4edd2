package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/equipment-rental/internal/model"
)

// EquipmentRepo provides CRUD operations for the equipment catalog.
// Student-facing listings only ever see active items; managers see
// everything in their scope.
type EquipmentRepo struct{ DB *sql.DB }

func NewEquipmentRepo(db *sql.DB) *EquipmentRepo { return &EquipmentRepo{DB: db} }

const equipmentColumns = "id, warehouse_id, name, category, description, total_qty, is_active, created_at, updated_at"

// ListByWarehouse returns catalog items for a warehouse.  When
// activeOnly is set, inactive items are filtered out; this is the
// student/public view.  An optional category narrows the listing.
func (r *EquipmentRepo) ListByWarehouse(ctx context.Context, warehouseID uint64, activeOnly bool, category string) ([]model.Equipment, error) {
	q := "SELECT " + equipmentColumns + " FROM equipment WHERE warehouse_id=?"
	args := []interface{}{warehouseID}
	if activeOnly {
		q += " AND is_active=1"
	}
	if c := strings.TrimSpace(category); c != "" {
		q += " AND category=?"
		args = append(args, c)
	}
	q += " ORDER BY category, name"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Equipment, 0)
	for rows.Next() {
		var e model.Equipment
		if err := rows.Scan(&e.ID, &e.WarehouseID, &e.Name, &e.Category, &e.Description,
			&e.TotalQty, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// GetByID fetches a single catalog item.
func (r *EquipmentRepo) GetByID(ctx context.Context, id uint64) (model.Equipment, error) {
	var e model.Equipment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+equipmentColumns+" FROM equipment WHERE id=? LIMIT 1", id).
		Scan(&e.ID, &e.WarehouseID, &e.Name, &e.Category, &e.Description,
			&e.TotalQty, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// CountActiveByIDs returns how many of the given equipment IDs
// exist, are active and belong to the warehouse.  Order creation
// uses it to reject carts referencing foreign or retired items.
func (r *EquipmentRepo) CountActiveByIDs(ctx context.Context, warehouseID uint64, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, warehouseID)
	for _, id := range ids {
		args = append(args, id)
	}
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM equipment WHERE warehouse_id=? AND is_active=1 AND id IN ("+placeholders+")",
		args...).Scan(&n)
	return n, err
}

// Create inserts a catalog item and returns its ID.
func (r *EquipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO equipment (warehouse_id, name, category, description, total_qty, is_active) VALUES (?,?,?,?,?,?)",
		e.WarehouseID, e.Name, e.Category, e.Description, e.TotalQty, e.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// Update rewrites the mutable columns of a catalog item.  It
// returns sql.ErrNoRows when the item does not exist.
func (r *EquipmentRepo) Update(ctx context.Context, e *model.Equipment) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE equipment SET name=?, category=?, description=?, total_qty=?, is_active=? WHERE id=?",
		e.Name, e.Category, e.Description, e.TotalQty, e.IsActive, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is missing or nothing changed; distinguish.
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM equipment WHERE id=? LIMIT 1", e.ID).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a catalog item.  Items referenced by order line
// items cannot be removed; the foreign key violation is surfaced as
// ErrConflict so handlers can answer 409.
func (r *EquipmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM equipment WHERE id=?", id)
	if err != nil {
		// MySQL foreign key violation is error 1451.
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
