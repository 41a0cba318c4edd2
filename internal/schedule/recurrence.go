// Package schedule holds the two pure computations behind order
// creation and operating-hours editing: recurrence fan-out of a
// requested rental window, and reconciliation of the weekly
// operating-hours grid against its sparse override rows.  Nothing
// in this package performs I/O; callers hand the results to the
// repository layer.
package schedule

import (
    "errors"
    "time"

    "github.com/iliyamo/equipment-rental/internal/model"
)

// Recurrence interval units accepted on order creation.  The values
// match what is stored in orders.recurrence_interval.
const (
    IntervalDay   = "DAY"
    IntervalWeek  = "WEEK"
    IntervalMonth = "MONTH"
)

// Bounds on the number of occurrences a recurring request may fan
// out into.
const (
    MinRecurrenceCount = 1
    MaxRecurrenceCount = 30
)

// Validation errors raised by Expand before any I/O happens.
// Handlers translate these into HTTP 400 responses.
var (
    // ErrInvalidWindow is returned when the rental window end does
    // not lie strictly after its start.
    ErrInvalidWindow = errors.New("rental window end must be after start")
    // ErrInvalidRecurrence is returned when a recurring request has
    // a count outside [1,30] or an unknown interval unit.
    ErrInvalidRecurrence = errors.New("invalid recurrence count or interval")
    // ErrEmptyCart is returned when the request carries no equipment items.
    ErrEmptyCart = errors.New("cart must contain at least one item")
)

// Request is a validated-on-entry borrow request as submitted by a
// student.  Items holds equipment IDs in cart order; the order is
// preserved onto the generated line items.  When IsRecurring is
// false, Count and Interval are ignored and a single occurrence is
// produced.
type Request struct {
    Start       time.Time
    End         time.Time
    Notes       string
    Items       []uint64
    IsRecurring bool
    Count       int
    Interval    string
}

// Expand fans a request out into its occurrence orders.  Each
// occurrence advances the previous window by exactly one interval
// unit: one calendar day, seven calendar days, or one calendar
// month.  Month advancement uses time.AddDate and keeps its
// overflow behavior (Jan 31 + 1 month lands in early March); the
// day of month is not clamped.  The returned orders are in
// chronological order, share the request's notes and recurrence
// metadata, carry status PENDING and have no IDs assigned; the
// repository generates UUIDs at insert time.
//
// Expand validates before producing anything and returns
// ErrInvalidWindow, ErrInvalidRecurrence or ErrEmptyCart without
// touching the window when validation fails.
func Expand(req Request, userID, warehouseID uint64) ([]model.Order, error) {
    if !req.End.After(req.Start) {
        return nil, ErrInvalidWindow
    }
    if len(req.Items) == 0 {
        return nil, ErrEmptyCart
    }
    count := 1
    interval := ""
    if req.IsRecurring {
        if req.Count < MinRecurrenceCount || req.Count > MaxRecurrenceCount {
            return nil, ErrInvalidRecurrence
        }
        switch req.Interval {
        case IntervalDay, IntervalWeek, IntervalMonth:
        default:
            return nil, ErrInvalidRecurrence
        }
        count = req.Count
        interval = req.Interval
    }

    orders := make([]model.Order, 0, count)
    start, end := req.Start, req.End
    for i := 0; i < count; i++ {
        orders = append(orders, model.Order{
            UserID:             userID,
            WarehouseID:        warehouseID,
            StartsAt:           start,
            EndsAt:             end,
            Notes:              req.Notes,
            Status:             model.OrderPending,
            IsRecurring:        req.IsRecurring,
            RecurrenceCount:    count,
            RecurrenceInterval: interval,
        })
        if i == count-1 {
            break
        }
        start = advance(start, interval)
        end = advance(end, interval)
    }
    return orders, nil
}

// advance moves an instant forward by one interval unit.  Callers
// guarantee the interval has been validated.
func advance(t time.Time, interval string) time.Time {
    switch interval {
    case IntervalWeek:
        return t.AddDate(0, 0, 7)
    case IntervalMonth:
        return t.AddDate(0, 1, 0)
    default: // IntervalDay
        return t.AddDate(0, 0, 1)
    }
}
