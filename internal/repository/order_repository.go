package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/equipment-rental/internal/model"
)

// OrderRepo provides persistence for rental orders and their line
// items.  A recurring request produces several order rows that are
// inserted together with all of their line items in one
// transaction, so a series is either fully recorded or not at all.
// All timestamp columns are stored in UTC.
type OrderRepo struct{ db *sql.DB }

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so handlers can open
// transactions spanning multiple repositories.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// CreateBatchTx inserts all orders of a series in a single
// multi-VALUES statement.  UUIDs are generated here and written
// back onto the slice so the caller can reference the created rows.
// Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	query := `INSERT INTO orders (id, user_id, warehouse_id, starts_at, ends_at, notes, status, is_recurring, recurrence_count, recurrence_interval) VALUES `
	args := make([]interface{}, 0, len(orders)*10)
	for i := range orders {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		orders[i].ID = uuid.NewString()
		o := &orders[i]
		args = append(args, o.ID, o.UserID, o.WarehouseID, o.StartsAt.UTC(), o.EndsAt.UTC(),
			o.Notes, o.Status, o.IsRecurring, o.RecurrenceCount, o.RecurrenceInterval)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CreateItemsBulkTx inserts line items for every order of a series:
// one row per (order, cart item) pair, in cart order.  The orders
// must already carry their generated IDs.  Passing empty input has
// no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, orders []model.Order, equipmentIDs []uint64) error {
	if len(orders) == 0 || len(equipmentIDs) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (id, order_id, equipment_id) VALUES `
	args := make([]interface{}, 0, len(orders)*len(equipmentIDs)*3)
	first := true
	for _, o := range orders {
		for _, eq := range equipmentIDs {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?)"
			args = append(args, uuid.NewString(), o.ID, eq)
		}
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// OrderDetail is an order together with its line items and display
// names, as returned to students and to the review queue.
type OrderDetail struct {
	ID                 string  `json:"id"`
	UserID             uint64  `json:"user_id"`
	UserName           string  `json:"user_name,omitempty"`
	WarehouseID        uint64  `json:"warehouse_id"`
	StartsAt           string  `json:"starts_at"`
	EndsAt             string  `json:"ends_at"`
	Notes              string  `json:"notes"`
	Status             string  `json:"status"`
	DecisionNote       *string `json:"decision_note,omitempty"`
	IsRecurring        bool    `json:"is_recurring"`
	RecurrenceCount    int     `json:"recurrence_count"`
	RecurrenceInterval string  `json:"recurrence_interval,omitempty"`
	Items              []struct {
		EquipmentID uint64 `json:"equipment_id"`
		Name        string `json:"name"`
	} `json:"items"`
}

type orderItemPart = struct {
	EquipmentID uint64 `json:"equipment_id"`
	Name        string `json:"name"`
}

const orderDetailColumns = `o.id, o.user_id, u.full_name, o.warehouse_id, o.starts_at, o.ends_at,
                      o.notes, o.status, o.decision_note, o.is_recurring, o.recurrence_count, o.recurrence_interval`

// ListByUser returns all orders of a user, newest window first,
// with their line items populated in a single follow-up query.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderDetail, error) {
	const q = `SELECT ` + orderDetailColumns + `
               FROM orders o
               JOIN users u ON u.id = o.user_id
               WHERE o.user_id = ?
               ORDER BY o.starts_at DESC`
	return r.queryDetails(ctx, q, userID)
}

// ListForReview returns orders for the manager review queue.  The
// status filter is optional ("" means any); warehouseID of zero
// means all warehouses and is only permitted for managers — storage
// managers must pass their own warehouse.
func (r *OrderRepo) ListForReview(ctx context.Context, status string, warehouseID uint64) ([]OrderDetail, error) {
	q := `SELECT ` + orderDetailColumns + `
               FROM orders o
               JOIN users u ON u.id = o.user_id
               WHERE 1=1`
	args := make([]interface{}, 0, 2)
	if status != "" {
		q += " AND o.status = ?"
		args = append(args, status)
	}
	if warehouseID != 0 {
		q += " AND o.warehouse_id = ?"
		args = append(args, warehouseID)
	}
	q += " ORDER BY o.created_at DESC"
	return r.queryDetails(ctx, q, args...)
}

// queryDetails runs an order query and assembles line items for all
// returned orders with one IN query, matching rows back to their
// orders through an index map.
func (r *OrderRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]OrderDetail, 0)
	index := make(map[string]int)
	for rows.Next() {
		var d OrderDetail
		var startsAt, endsAt time.Time
		var decisionNote sql.NullString
		var interval sql.NullString
		if err := rows.Scan(&d.ID, &d.UserID, &d.UserName, &d.WarehouseID, &startsAt, &endsAt,
			&d.Notes, &d.Status, &decisionNote, &d.IsRecurring, &d.RecurrenceCount, &interval); err != nil {
			return nil, err
		}
		d.StartsAt = startsAt.UTC().Format(time.RFC3339)
		d.EndsAt = endsAt.UTC().Format(time.RFC3339)
		if decisionNote.Valid {
			note := decisionNote.String
			d.DecisionNote = &note
		}
		if interval.Valid {
			d.RecurrenceInterval = interval.String
		}
		d.Items = []orderItemPart{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	// Populate line items for all orders in a single query.
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	itemQ := `SELECT oi.order_id, oi.equipment_id, e.name
              FROM order_items oi
              JOIN equipment e ON e.id = oi.equipment_id
              WHERE oi.order_id IN (` + strings.Join(placeholders, ",") + `)
              ORDER BY oi.order_id, oi.id`
	irows, err := r.db.QueryContext(ctx, itemQ, ids...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var orderID string
		var part orderItemPart
		if err := irows.Scan(&orderID, &part.EquipmentID, &part.Name); err != nil {
			return nil, err
		}
		idx, ok := index[orderID]
		if !ok {
			continue
		}
		details[idx].Items = append(details[idx].Items, part)
	}
	return details, irows.Err()
}

// GetByID returns a bare order row.  sql.ErrNoRows is returned when
// the order does not exist.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (model.Order, error) {
	var o model.Order
	var decidedBy sql.NullInt64
	var decisionNote, interval sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, warehouse_id, starts_at, ends_at, notes, status, decided_by,
                decision_note, is_recurring, recurrence_count, recurrence_interval, created_at, updated_at
         FROM orders WHERE id=? LIMIT 1`, id).
		Scan(&o.ID, &o.UserID, &o.WarehouseID, &o.StartsAt, &o.EndsAt, &o.Notes, &o.Status,
			&decidedBy, &decisionNote, &o.IsRecurring, &o.RecurrenceCount, &interval,
			&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}
	if decidedBy.Valid {
		uid := uint64(decidedBy.Int64)
		o.DecidedBy = &uid
	}
	if decisionNote.Valid {
		note := decisionNote.String
		o.DecisionNote = &note
	}
	if interval.Valid {
		o.RecurrenceInterval = interval.String
	}
	return o, nil
}

// DecideTx transitions a PENDING order to APPROVED or REJECTED
// within a transaction, recording who decided and an optional note.
// It returns ErrConflict when the order is no longer pending so a
// stale review screen cannot overwrite an earlier decision.
func (r *OrderRepo) DecideTx(ctx context.Context, tx *sql.Tx, orderID string, deciderID uint64, status, note string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET status=?, decided_by=?, decision_note=? WHERE id=? AND status=?",
		status, deciderID, note, orderID, model.OrderPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either missing or already decided; look up which.
		var current string
		if err := tx.QueryRowContext(ctx, "SELECT status FROM orders WHERE id=? LIMIT 1", orderID).Scan(&current); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// CancelOwn cancels a user's own PENDING order.  It returns
// sql.ErrNoRows when the order does not exist, ErrForbidden when it
// belongs to a different user and ErrConflict when it has already
// been decided.
func (r *OrderRepo) CancelOwn(ctx context.Context, orderID string, userID uint64) error {
	var ownerID uint64
	var status string
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, status FROM orders WHERE id=? LIMIT 1", orderID).Scan(&ownerID, &status)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	if status != model.OrderPending {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE orders SET status=? WHERE id=? AND status=?",
		model.OrderCancelled, orderID, model.OrderPending)
	return err
}

// ListStartingBetween returns approved orders whose window starts
// inside [from, to).  The pickup-reminder job uses it to find
// tomorrow's pickups.
func (r *OrderRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, warehouse_id, starts_at, ends_at, notes, status
         FROM orders WHERE status=? AND starts_at >= ? AND starts_at < ?
         ORDER BY starts_at`, model.OrderApproved, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.WarehouseID, &o.StartsAt, &o.EndsAt, &o.Notes, &o.Status); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
