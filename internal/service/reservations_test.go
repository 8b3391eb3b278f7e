package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterstay/hotel-booking/internal/model"
	"github.com/asterstay/hotel-booking/internal/repository"
)

func newBookingService(t *testing.T) (*ReservationService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := NewReservationService(db,
		repository.NewReservationRepo(db),
		repository.NewInventoryRepo(db),
		repository.NewHotelRepo(db))
	return svc, mock
}

var (
	hotelCols       = []string{"id", "name", "created_at", "updated_at"}
	countCols       = []string{"room_type", "total_rooms"}
	usageCols       = []string{"date", "max_rooms_available", "rooms_reserved"}
	reservationCols = []string{
		"id", "hotel_id", "room_type", "checkin_date", "checkout_date",
		"guest_full_name", "is_cancelled", "is_completed", "created_at", "updated_at",
	}
)

func expectHotelLookup(mock sqlmock.Sqlmock, now time.Time) {
	mock.ExpectQuery("FROM hotels WHERE id").
		WillReturnRows(sqlmock.NewRows(hotelCols).AddRow(1, "Harbor View", now, now))
	mock.ExpectQuery("FROM hotel_room_counts").
		WillReturnRows(sqlmock.NewRows(countCols).
			AddRow("double", 5).AddRow("queen", 3).AddRow("king", 2))
}

func reservationRow(now time.Time, cancelled bool) *sqlmock.Rows {
	return sqlmock.NewRows(reservationCols).AddRow(
		9, 1, "king",
		day(2026, time.June, 10), day(2026, time.June, 12),
		"Ada Birch", cancelled, false, now, now)
}

func TestCreateReservation(t *testing.T) {
	svc, mock := newBookingService(t)
	now := time.Now().UTC()

	expectHotelLookup(mock, now)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM room_inventory").
		WillReturnRows(sqlmock.NewRows(usageCols).
			AddRow(day(2026, time.June, 10), 2, 1).
			AddRow(day(2026, time.June, 11), 2, 0))
	mock.ExpectExec("UPDATE room_inventory").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("FROM reservations WHERE id").
		WillReturnRows(reservationRow(now, false))
	mock.ExpectCommit()

	res, err := svc.Create(context.Background(), 1, model.RoomTypeKing,
		day(2026, time.June, 10), day(2026, time.June, 12), "Ada Birch")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), res.ID)
	assert.Equal(t, model.RoomTypeKing, res.RoomType)
	assert.False(t, res.IsCancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationUnavailable(t *testing.T) {
	svc, mock := newBookingService(t)
	now := time.Now().UTC()

	expectHotelLookup(mock, now)
	mock.ExpectBegin()
	// The second night is at capacity: no ledger write, no insert.
	mock.ExpectQuery("FROM room_inventory").
		WillReturnRows(sqlmock.NewRows(usageCols).
			AddRow(day(2026, time.June, 10), 2, 1).
			AddRow(day(2026, time.June, 11), 2, 2))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 1, model.RoomTypeKing,
		day(2026, time.June, 10), day(2026, time.June, 12), "Ada Birch")
	assert.ErrorIs(t, err, ErrUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationBeyondHorizon(t *testing.T) {
	svc, mock := newBookingService(t)
	now := time.Now().UTC()

	expectHotelLookup(mock, now)
	mock.ExpectBegin()
	// One ledger row for a two night stay: the range is not provisioned.
	mock.ExpectQuery("FROM room_inventory").
		WillReturnRows(sqlmock.NewRows(usageCols).
			AddRow(day(2026, time.June, 10), 2, 0))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 1, model.RoomTypeKing,
		day(2026, time.June, 10), day(2026, time.June, 12), "Ada Birch")
	assert.ErrorIs(t, err, ErrDateRangeTooFar)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationValidation(t *testing.T) {
	svc, mock := newBookingService(t)

	// Rejected before any query.
	_, err := svc.Create(context.Background(), 1, model.RoomTypeKing,
		day(2026, time.June, 12), day(2026, time.June, 10), "Ada Birch")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.Create(context.Background(), 1, model.RoomTypeKing,
		day(2026, time.June, 10), day(2026, time.June, 12), "   ")
	assert.ErrorIs(t, err, ErrGuestNameRequired)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationHotelNotFound(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectQuery("FROM hotels WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := svc.Create(context.Background(), 77, model.RoomTypeKing,
		day(2026, time.June, 10), day(2026, time.June, 12), "Ada Birch")
	assert.ErrorIs(t, err, repository.ErrHotelNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReservation(t *testing.T) {
	svc, mock := newBookingService(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id").
		WillReturnRows(reservationRow(now, false))
	mock.ExpectExec("is_cancelled = TRUE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE room_inventory").
		WithArgs(-1, int64(1), "king", "2026-06-10", "2026-06-12", -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	res, released, err := svc.Cancel(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, released)
	assert.True(t, res.IsCancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReservationIdempotent(t *testing.T) {
	svc, mock := newBookingService(t)
	now := time.Now().UTC()

	// Already cancelled: commit without touching the ledger, so the
	// released units can never be released twice. The transition flag
	// is false so callers do not re-emit cancellation side effects.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id").
		WillReturnRows(reservationRow(now, true))
	mock.ExpectCommit()

	res, released, err := svc.Cancel(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, released)
	assert.True(t, res.IsCancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModifyReservation(t *testing.T) {
	svc, mock := newBookingService(t)
	now := time.Now().UTC()

	newType := model.RoomTypeQueen
	newCheckin := day(2026, time.June, 12)
	newCheckout := day(2026, time.June, 14)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id").
		WillReturnRows(reservationRow(now, false))
	mock.ExpectQuery("FROM room_inventory").
		WillReturnRows(sqlmock.NewRows(usageCols).
			AddRow(newCheckin, 3, 0).
			AddRow(day(2026, time.June, 13), 3, 1))
	// New range is reserved before the old one is released.
	mock.ExpectExec("UPDATE room_inventory").
		WithArgs(1, int64(1), "queen", "2026-06-12", "2026-06-14", 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE room_inventory").
		WithArgs(-1, int64(1), "king", "2026-06-10", "2026-06-12", -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE reservations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM reservations WHERE id").
		WillReturnRows(sqlmock.NewRows(reservationCols).AddRow(
			9, 1, "queen", newCheckin, newCheckout,
			"Ada Birch", false, false, now, now))

	res, err := svc.Modify(context.Background(), 9, ReservationPatch{
		RoomType:     &newType,
		CheckinDate:  &newCheckin,
		CheckoutDate: &newCheckout,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoomTypeQueen, res.RoomType)
	assert.Equal(t, newCheckin, res.CheckinDate)
	assert.Equal(t, newCheckout, res.CheckoutDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModifyReservationImmutableFields(t *testing.T) {
	svc, mock := newBookingService(t)
	now := time.Now().UTC()

	otherHotel := uint64(2)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id").
		WillReturnRows(reservationRow(now, false))
	mock.ExpectRollback()

	_, err := svc.Modify(context.Background(), 9, ReservationPatch{HotelID: &otherHotel})
	assert.ErrorIs(t, err, ErrImmutableFieldChanged)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModifyReservationEchoedImmutableFields(t *testing.T) {
	svc, mock := newBookingService(t)
	now := time.Now().UTC()

	// Sending the current hotel and guest back unchanged is fine; with
	// nothing else in the patch this is a no-op.
	sameHotel := uint64(1)
	sameGuest := "Ada Birch"
	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id").
		WillReturnRows(reservationRow(now, false))
	mock.ExpectCommit()

	res, err := svc.Modify(context.Background(), 9, ReservationPatch{
		HotelID:       &sameHotel,
		GuestFullName: &sameGuest,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoomTypeKing, res.RoomType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestModifyCancelledReservation(t *testing.T) {
	svc, mock := newBookingService(t)
	now := time.Now().UTC()

	newType := model.RoomTypeQueen
	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id").
		WillReturnRows(reservationRow(now, true))
	mock.ExpectRollback()

	_, err := svc.Modify(context.Background(), 9, ReservationPatch{RoomType: &newType})
	assert.ErrorIs(t, err, ErrReservationCancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCompletedIdempotent(t *testing.T) {
	svc, mock := newBookingService(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id").
		WillReturnRows(sqlmock.NewRows(reservationCols).AddRow(
			9, 1, "king", day(2026, time.June, 10), day(2026, time.June, 12),
			"Ada Birch", false, true, now, now))
	mock.ExpectCommit()

	res, err := svc.MarkCompleted(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, res.IsCompleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
