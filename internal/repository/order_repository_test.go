package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/equipment-rental/internal/model"
)

func newSeries(n int) []model.Order {
	start := time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC)
	orders := make([]model.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, model.Order{
			UserID:             42,
			WarehouseID:        3,
			StartsAt:           start.AddDate(0, 0, 7*i),
			EndsAt:             start.AddDate(0, 0, 7*i).Add(2 * time.Hour),
			Notes:              "projector",
			Status:             model.OrderPending,
			IsRecurring:        n > 1,
			RecurrenceCount:    n,
			RecurrenceInterval: "WEEK",
		})
	}
	return orders
}

func TestOrderRepo_CreateBatchTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepo(db)
	ctx := context.Background()

	orders := newSeries(3)

	mock.ExpectBegin()
	// One statement for the three order rows, one for the 3x2 line items.
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(0, 6))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatchTx(ctx, tx, orders))
	require.NoError(t, repo.CreateItemsBulkTx(ctx, tx, orders, []uint64{7, 9}))
	require.NoError(t, tx.Commit())

	// IDs were generated and written back onto the slice.
	seen := map[string]bool{}
	for _, o := range orders {
		assert.Len(t, o.ID, 36)
		assert.False(t, seen[o.ID], "duplicate order id")
		seen[o.ID] = true
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_CreateBatchTx_EmptySliceIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepo(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	assert.NoError(t, repo.CreateBatchTx(ctx, tx, nil))
	assert.NoError(t, repo.CreateItemsBulkTx(ctx, tx, nil, []uint64{1}))
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_DecideTx_ConflictWhenAlreadyDecided(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepo(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("APPROVED"))
	mock.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	err = repo.DecideTx(ctx, tx, "some-id", 1, model.OrderApproved, "")
	assert.ErrorIs(t, err, ErrConflict)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_CancelOwn(t *testing.T) {
	ctx := context.Background()

	t.Run("forbidden for other users", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT user_id, status FROM orders").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(7, "PENDING"))

		err = NewOrderRepo(db).CancelOwn(ctx, "some-id", 42)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict when already decided", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT user_id, status FROM orders").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(42, "REJECTED"))

		err = NewOrderRepo(db).CancelOwn(ctx, "some-id", 42)
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancels own pending order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT user_id, status FROM orders").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(42, "PENDING"))
		mock.ExpectExec("UPDATE orders SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = NewOrderRepo(db).CancelOwn(ctx, "some-id", 42)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
