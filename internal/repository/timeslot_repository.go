package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/equipment-rental/internal/model"
	"github.com/iliyamo/equipment-rental/internal/schedule"
)

// TimeSlotRepo persists the sparse operating-hours override rows of
// a warehouse.  Only deviations from the day-of-week defaults are
// stored; the full weekly grid is reconstructed in memory by the
// schedule package.
type TimeSlotRepo struct{ db *sql.DB }

func NewTimeSlotRepo(db *sql.DB) *TimeSlotRepo { return &TimeSlotRepo{db: db} }

// ListByWarehouse returns all override rows of a warehouse ordered
// by day and slot start.
func (r *TimeSlotRepo) ListByWarehouse(ctx context.Context, warehouseID uint64) ([]model.TimeSlot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, warehouse_id, day_of_week, slot_start, slot_end, is_closed
         FROM warehouse_time_slots WHERE warehouse_id=?
         ORDER BY day_of_week, slot_start`, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TimeSlot, 0)
	for rows.Next() {
		var s model.TimeSlot
		if err := rows.Scan(&s.ID, &s.WarehouseID, &s.DayOfWeek, &s.SlotStart, &s.SlotEnd, &s.IsClosed); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Apply writes a reconciliation in one transaction: the delete
// batch, then the update batch, then the insert batch.  Running the
// three batches under a single transaction means a failed save
// leaves the stored overrides untouched, so a re-fetch after an
// error always shows the pre-save state.  An empty reconciliation
// opens no transaction at all.
func (r *TimeSlotRepo) Apply(ctx context.Context, warehouseID uint64, rec schedule.Reconciliation) error {
	if rec.Empty() {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := r.deleteBatchTx(ctx, tx, warehouseID, rec.Delete); err != nil {
		return err
	}
	if err := r.updateBatchTx(ctx, tx, warehouseID, rec.Update); err != nil {
		return err
	}
	if err := r.insertBatchTx(ctx, tx, rec.Insert); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// deleteBatchTx removes override rows by id, scoped to the
// warehouse so a stale id from another grid cannot be deleted.
func (r *TimeSlotRepo) deleteBatchTx(ctx context.Context, tx *sql.Tx, warehouseID uint64, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, warehouseID)
	_, err := tx.ExecContext(ctx,
		"DELETE FROM warehouse_time_slots WHERE id IN ("+strings.Join(placeholders, ",")+") AND warehouse_id=?",
		args...)
	return err
}

// updateBatchTx rewrites the closed flag of existing rows.  Only
// the flag changes; coordinates of an override row are immutable.
func (r *TimeSlotRepo) updateBatchTx(ctx context.Context, tx *sql.Tx, warehouseID uint64, rows []model.TimeSlot) error {
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx,
			"UPDATE warehouse_time_slots SET is_closed=? WHERE id=? AND warehouse_id=?",
			row.IsClosed, row.ID, warehouseID); err != nil {
			return err
		}
	}
	return nil
}

// insertBatchTx inserts new override rows in one multi-VALUES
// statement, assigning UUIDs.
func (r *TimeSlotRepo) insertBatchTx(ctx context.Context, tx *sql.Tx, rows []model.TimeSlot) error {
	if len(rows) == 0 {
		return nil
	}
	query := `INSERT INTO warehouse_time_slots (id, warehouse_id, day_of_week, slot_start, slot_end, is_closed) VALUES `
	args := make([]interface{}, 0, len(rows)*6)
	for i, row := range rows {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, uuid.NewString(), row.WarehouseID, row.DayOfWeek, row.SlotStart, row.SlotEnd, row.IsClosed)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
