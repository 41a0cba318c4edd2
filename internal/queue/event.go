// Package queue defines message payloads exchanged over the message broker.
package queue

// Notification event types carried in NotificationEvent.Type.
const (
    TypeOrderApproved  = "order.approved"
    TypeOrderRejected  = "order.rejected"
    TypePickupReminder = "order.pickup_reminder"
)

// NotificationEvent is published whenever the system owes a user a
// message: an order decision or an upcoming-pickup reminder.  It
// contains enough information for downstream consumers to notify or
// log without querying the primary database.
type NotificationEvent struct {
    Type        string `json:"type"`
    OrderID     string `json:"order_id"`
    UserID      uint64 `json:"user_id"`
    UserEmail   string `json:"user_email"`
    WarehouseID uint64 `json:"warehouse_id"`
    StartsAt    string `json:"starts_at"`
    EndsAt      string `json:"ends_at"`
    Detail      string `json:"detail,omitempty"` // e.g. rejection reason
    OccurredAt  string `json:"occurred_at"`
}
