package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/equipment-rental/internal/model"
)

// WarehouseRepo provides read access to warehouses.  Warehouses are
// seeded administratively; the API only lists them and resolves
// existence checks for scoped operations.
type WarehouseRepo struct{ DB *sql.DB }

func NewWarehouseRepo(db *sql.DB) *WarehouseRepo { return &WarehouseRepo{DB: db} }

// List returns all warehouses ordered by name.
func (r *WarehouseRepo) List(ctx context.Context) ([]model.Warehouse, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, address, created_at, updated_at FROM warehouses ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Warehouse, 0)
	for rows.Next() {
		var w model.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Exists reports whether a warehouse with the given id exists.
func (r *WarehouseRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM warehouses WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
