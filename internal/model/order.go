package model

import "time"

// Order records a single borrow window requested by a student.  A
// recurring request fans out into several orders, one per
// occurrence; the recurrence metadata is copied verbatim onto every
// occurrence row so each can be displayed on its own.  Orders are
// keyed by application-generated UUID strings so whole series can
// be inserted in one batched statement.
//
// Fields:
//  ID                 – UUID primary key.
//  UserID             – student who placed the order.
//  WarehouseID        – warehouse inherited from the student's profile.
//  StartsAt           – rental window start (UTC).
//  EndsAt             – rental window end (UTC, strictly after StartsAt).
//  Notes              – free text carried on every occurrence.
//  Status             – PENDING, APPROVED, REJECTED or CANCELLED.
//  DecidedBy          – manager who approved/rejected (nullable).
//  DecisionNote       – optional reason recorded on rejection.
//  IsRecurring        – whether the order belongs to a recurring series.
//  RecurrenceCount    – number of occurrences in the series (1 when not recurring).
//  RecurrenceInterval – DAY, WEEK or MONTH (empty when not recurring).
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Order struct {
    ID                 string     // orders.id (CHAR(36))
    UserID             uint64     // orders.user_id
    WarehouseID        uint64     // orders.warehouse_id
    StartsAt           time.Time  // orders.starts_at
    EndsAt             time.Time  // orders.ends_at
    Notes              string     // orders.notes
    Status             string     // orders.status
    DecidedBy          *uint64    // orders.decided_by (nullable)
    DecisionNote       *string    // orders.decision_note (nullable)
    IsRecurring        bool       // orders.is_recurring
    RecurrenceCount    int        // orders.recurrence_count
    RecurrenceInterval string     // orders.recurrence_interval
    CreatedAt          time.Time  // orders.created_at
    UpdatedAt          time.Time  // orders.updated_at
}

// Order status values stored in orders.status.
const (
    OrderPending   = "PENDING"
    OrderApproved  = "APPROVED"
    OrderRejected  = "REJECTED"
    OrderCancelled = "CANCELLED"
)

// OrderItem links an order to one piece of equipment from the cart.
// Every occurrence of a recurring series carries its own copy of
// the cart's line items.
//
// Fields:
//  ID          – UUID primary key.
//  OrderID     – owning order.
//  EquipmentID – equipment being borrowed.
//  CreatedAt   – creation timestamp.
type OrderItem struct {
    ID          string    // order_items.id (CHAR(36))
    OrderID     string    // order_items.order_id
    EquipmentID uint64    // order_items.equipment_id
    CreatedAt   time.Time // order_items.created_at
}
