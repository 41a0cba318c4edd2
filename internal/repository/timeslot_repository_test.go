package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/equipment-rental/internal/model"
	"github.com/iliyamo/equipment-rental/internal/schedule"
)

func TestTimeSlotRepo_Apply_EmptyOpensNoTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewTimeSlotRepo(db).Apply(context.Background(), 1, schedule.Reconciliation{})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepo_Apply_BatchOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := schedule.Reconciliation{
		Delete: []string{"id-1", "id-2"},
		Update: []model.TimeSlot{{ID: "id-3", WarehouseID: 9, DayOfWeek: 6, SlotStart: "10:00", SlotEnd: "10:30", IsClosed: false}},
		Insert: []model.TimeSlot{{WarehouseID: 9, DayOfWeek: 5, SlotStart: "09:00", SlotEnd: "09:30", IsClosed: false}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM warehouse_time_slots").
		WithArgs("id-1", "id-2", uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE warehouse_time_slots SET is_closed").
		WithArgs(false, "id-3", uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO warehouse_time_slots").
		WithArgs(sqlmock.AnyArg(), uint64(9), 5, "09:00", "09:30", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewTimeSlotRepo(db).Apply(context.Background(), 9, rec)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepo_Apply_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := schedule.Reconciliation{Delete: []string{"id-1"}}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM warehouse_time_slots").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = NewTimeSlotRepo(db).Apply(context.Background(), 1, rec)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepo_ListByWarehouse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "warehouse_id", "day_of_week", "slot_start", "slot_end", "is_closed"}).
		AddRow("id-1", 9, 2, "12:00", "12:30", true).
		AddRow("id-2", 9, 5, "09:00", "09:30", false)
	mock.ExpectQuery("SELECT (.+) FROM warehouse_time_slots WHERE warehouse_id").
		WithArgs(uint64(9)).
		WillReturnRows(rows)

	slots, err := NewTimeSlotRepo(db).ListByWarehouse(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "12:00", slots[0].SlotStart)
	assert.True(t, slots[0].IsClosed)
	assert.Equal(t, 5, slots[1].DayOfWeek)
	assert.False(t, slots[1].IsClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
