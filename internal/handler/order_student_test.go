package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/equipment-rental/internal/repository"
)

// newOrderTestContext builds an echo context for POST /v1/orders
// with the JWT claims already extracted the way middleware does it.
func newOrderTestContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(42)) // JWT numeric claims decode as float64
	c.Set("role", "STUDENT")
	return c, rec
}

func newStudentOrderTestHandler(t *testing.T) (*StudentOrderHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	h := NewStudentOrderHandler(
		repository.NewOrderRepo(db),
		repository.NewUserRepo(db),
		repository.NewEquipmentRepo(db),
		repository.NewConsentRepo(db),
	)
	return h, mock
}

func userRow(warehouseID interface{}) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "full_name", "role",
		"warehouse_id", "is_active", "created_at", "updated_at",
	}).AddRow(42, "s@example.com", "x", "Student", "STUDENT", warehouseID, true, now, now)
}

func TestStudentOrderCreate_RejectsMalformedDates(t *testing.T) {
	h, mock := newStudentOrderTestHandler(t)
	c, rec := newOrderTestContext(t, `{"start_date":"not-a-date","end_date":"2024-01-02T12:00:00Z","cart_items":[{"id":1}]}`)

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "start_date")
	assert.NoError(t, mock.ExpectationsWereMet()) // no queries before validation
}

func TestStudentOrderCreate_RejectsWindowEndingBeforeStart(t *testing.T) {
	h, mock := newStudentOrderTestHandler(t)
	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WillReturnRows(userRow(3))

	c, rec := newOrderTestContext(t,
		`{"start_date":"2024-01-02T12:00:00Z","end_date":"2024-01-02T10:00:00Z","cart_items":[{"id":1}]}`)

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "end date must be after start date")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentOrderCreate_RejectsEmptyCart(t *testing.T) {
	h, mock := newStudentOrderTestHandler(t)
	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WillReturnRows(userRow(3))

	c, rec := newOrderTestContext(t,
		`{"start_date":"2024-01-02T10:00:00Z","end_date":"2024-01-02T12:00:00Z","cart_items":[]}`)

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentOrderCreate_RejectsProfileWithoutWarehouse(t *testing.T) {
	h, mock := newStudentOrderTestHandler(t)
	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WillReturnRows(userRow(nil))

	c, rec := newOrderTestContext(t,
		`{"start_date":"2024-01-02T10:00:00Z","end_date":"2024-01-02T12:00:00Z","cart_items":[{"id":1}]}`)

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no warehouse on profile")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentOrderCreate_RejectsInvalidRecurrence(t *testing.T) {
	h, mock := newStudentOrderTestHandler(t)
	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WillReturnRows(userRow(3))

	c, rec := newOrderTestContext(t,
		`{"start_date":"2024-01-02T10:00:00Z","end_date":"2024-01-02T12:00:00Z","cart_items":[{"id":1}],
		  "is_recurring":true,"recurrence_count":31,"recurrence_interval":"week"}`)

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "recurrence count")
	assert.NoError(t, mock.ExpectationsWereMet())
}
