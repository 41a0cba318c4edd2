package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/equipment-rental/internal/model"
)

// ConsentRepo persists consent forms and student signatures.
type ConsentRepo struct{ DB *sql.DB }

func NewConsentRepo(db *sql.DB) *ConsentRepo { return &ConsentRepo{DB: db} }

const consentColumns = "id, warehouse_id, title, body, is_required, created_at, updated_at"

// ListByWarehouse returns all forms of a warehouse.
func (r *ConsentRepo) ListByWarehouse(ctx context.Context, warehouseID uint64) ([]model.ConsentForm, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+consentColumns+" FROM consent_forms WHERE warehouse_id=? ORDER BY created_at", warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ConsentForm, 0)
	for rows.Next() {
		var f model.ConsentForm
		if err := rows.Scan(&f.ID, &f.WarehouseID, &f.Title, &f.Body, &f.IsRequired, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Create inserts a form and returns its ID.
func (r *ConsentRepo) Create(ctx context.Context, f *model.ConsentForm) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO consent_forms (warehouse_id, title, body, is_required) VALUES (?,?,?,?)",
		f.WarehouseID, f.Title, f.Body, f.IsRequired)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// Update rewrites a form's mutable columns.
func (r *ConsentRepo) Update(ctx context.Context, f *model.ConsentForm) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE consent_forms SET title=?, body=?, is_required=? WHERE id=?",
		f.Title, f.Body, f.IsRequired, f.ID)
	return err
}

// Delete removes a form and its signatures.
func (r *ConsentRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM consent_signatures WHERE form_id=?", id); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM consent_forms WHERE id=?", id)
	if err != nil {
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

// Sign records a user's signature on a form.  Re-signing is a
// no-op rather than an error.
func (r *ConsentRepo) Sign(ctx context.Context, formID, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO consent_signatures (form_id, user_id, signed_at) VALUES (?,?,?)",
		formID, userID, time.Now().UTC())
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return nil
	}
	return err
}

// HasSignedAllRequired reports whether the user has signed every
// required form of the warehouse.  Order creation refuses students
// with outstanding required forms.
func (r *ConsentRepo) HasSignedAllRequired(ctx context.Context, warehouseID, userID uint64) (bool, error) {
	var missing int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*)
         FROM consent_forms f
         LEFT JOIN consent_signatures s ON s.form_id = f.id AND s.user_id = ?
         WHERE f.warehouse_id = ? AND f.is_required = 1 AND s.user_id IS NULL`,
		userID, warehouseID).Scan(&missing)
	if err != nil {
		return false, err
	}
	return missing == 0, nil
}
