package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_SingleOccurrence(t *testing.T) {
	start := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	orders, err := Expand(Request{
		Start: start,
		End:   end,
		Notes: "microphone for lecture",
		Items: []uint64{7},
	}, 42, 3)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, start, orders[0].StartsAt)
	assert.Equal(t, end, orders[0].EndsAt)
	assert.Equal(t, uint64(42), orders[0].UserID)
	assert.Equal(t, uint64(3), orders[0].WarehouseID)
	assert.Equal(t, "PENDING", orders[0].Status)
	assert.False(t, orders[0].IsRecurring)
	assert.Equal(t, 1, orders[0].RecurrenceCount)
	assert.Empty(t, orders[0].RecurrenceInterval)
}

func TestExpand_RecurringFlagFalseIgnoresCount(t *testing.T) {
	// A non-recurring request with a bogus count still produces one order.
	orders, err := Expand(Request{
		Start:       time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
		Items:       []uint64{1},
		IsRecurring: false,
		Count:       99,
	}, 1, 1)

	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestExpand_WeeklySeries(t *testing.T) {
	// Friday March 29 2024 10:00-12:00, weekly, three occurrences.
	start := time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 29, 12, 0, 0, 0, time.UTC)

	orders, err := Expand(Request{
		Start:       start,
		End:         end,
		Items:       []uint64{5, 9},
		IsRecurring: true,
		Count:       3,
		Interval:    IntervalWeek,
	}, 42, 3)

	require.NoError(t, err)
	require.Len(t, orders, 3)
	wantDays := []int{29, 5, 12} // Mar 29, Apr 5, Apr 12
	wantMonths := []time.Month{time.March, time.April, time.April}
	for i, o := range orders {
		assert.Equal(t, wantDays[i], o.StartsAt.Day())
		assert.Equal(t, wantMonths[i], o.StartsAt.Month())
		assert.Equal(t, 10, o.StartsAt.Hour())
		assert.Equal(t, 12, o.EndsAt.Hour())
		assert.Equal(t, 2*time.Hour, o.EndsAt.Sub(o.StartsAt))
		assert.True(t, o.IsRecurring)
		assert.Equal(t, 3, o.RecurrenceCount)
		assert.Equal(t, IntervalWeek, o.RecurrenceInterval)
	}
}

func TestExpand_IntervalSpacingAndDuration(t *testing.T) {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 3, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		interval string
		step     func(time.Time, int) time.Time
	}{
		{"daily", IntervalDay, func(t0 time.Time, i int) time.Time { return t0.AddDate(0, 0, i) }},
		{"weekly", IntervalWeek, func(t0 time.Time, i int) time.Time { return t0.AddDate(0, 0, 7*i) }},
		{"monthly", IntervalMonth, func(t0 time.Time, i int) time.Time { return t0.AddDate(0, i, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := Expand(Request{
				Start:       start,
				End:         end,
				Items:       []uint64{1},
				IsRecurring: true,
				Count:       5,
				Interval:    tt.interval,
			}, 1, 1)

			require.NoError(t, err)
			require.Len(t, orders, 5)
			for i, o := range orders {
				assert.Equal(t, tt.step(start, i), o.StartsAt)
				assert.Equal(t, end.Sub(start), o.EndsAt.Sub(o.StartsAt))
			}
		})
	}
}

func TestExpand_MonthOverflowIsPreserved(t *testing.T) {
	// Jan 31 + 1 month overflows into early March; the fan-out keeps
	// time.AddDate semantics instead of clamping to month end.
	start := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 11, 0, 0, 0, time.UTC)

	orders, err := Expand(Request{
		Start:       start,
		End:         end,
		Items:       []uint64{1},
		IsRecurring: true,
		Count:       2,
		Interval:    IntervalMonth,
	}, 1, 1)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	// 2024 is a leap year: Jan 31 + 1 month = Mar 2.
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), orders[1].StartsAt)
}

func TestExpand_ValidationErrors(t *testing.T) {
	valid := Request{
		Start:       time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
		Items:       []uint64{1},
		IsRecurring: true,
		Count:       2,
		Interval:    IntervalDay,
	}

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"end before start", func(r *Request) {
			r.End = r.Start.Add(-time.Hour)
		}, ErrInvalidWindow},
		{"end equals start", func(r *Request) {
			r.End = r.Start
		}, ErrInvalidWindow},
		{"count zero", func(r *Request) {
			r.Count = 0
		}, ErrInvalidRecurrence},
		{"count above limit", func(r *Request) {
			r.Count = 31
		}, ErrInvalidRecurrence},
		{"unknown interval", func(r *Request) {
			r.Interval = "FORTNIGHT"
		}, ErrInvalidRecurrence},
		{"empty cart", func(r *Request) {
			r.Items = nil
		}, ErrEmptyCart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			orders, err := Expand(req, 1, 1)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, orders)
		})
	}
}
