package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/asterstay/hotel-booking/internal/model"
	"github.com/asterstay/hotel-booking/internal/repository"
	"github.com/asterstay/hotel-booking/internal/utils"
)

// ReservationService is the reservation lifecycle manager: the only
// component that creates, modifies or cancels reservations, and the
// keeper of the no-oversell invariant. Every mutation runs the
// availability check and the ledger adjustment inside one transaction
// with the touched inventory rows locked FOR UPDATE, so two concurrent
// bookings of the last unit can never both observe it free.
type ReservationService struct {
	db           *sql.DB
	reservations *repository.ReservationRepo
	inventory    *repository.InventoryRepo
	hotels       *repository.HotelRepo
}

// NewReservationService constructs a ReservationService over the given
// repositories.
func NewReservationService(db *sql.DB, reservations *repository.ReservationRepo, inventory *repository.InventoryRepo, hotels *repository.HotelRepo) *ReservationService {
	return &ReservationService{db: db, reservations: reservations, inventory: inventory, hotels: hotels}
}

// ReservationPatch carries a partial reservation update. Only non-nil
// fields are applied; a nil field means "not sent", which is distinct
// from "sent with the current value". HotelID and GuestFullName are
// accepted in the patch only so an explicit attempt to change them can
// be rejected with ErrImmutableFieldChanged.
type ReservationPatch struct {
	HotelID       *uint64
	GuestFullName *string
	RoomType      *model.RoomType
	CheckinDate   *time.Time
	CheckoutDate  *time.Time
}

// Create books a stay. The availability check, the ledger increment and
// the reservation insert commit together or not at all. Failure modes:
// ErrInvalidDateRange and ErrGuestNameRequired before any query,
// repository.ErrHotelNotFound for an unknown hotel, ErrUnavailable when
// a night is fully booked, ErrDateRangeTooFar past the horizon, and
// ErrBusy under lock contention.
func (s *ReservationService) Create(ctx context.Context, hotelID uint64, roomType model.RoomType, checkin, checkout time.Time, guestFullName string) (*model.Reservation, error) {
	checkin, checkout = utils.Day(checkin), utils.Day(checkout)
	if utils.Nights(checkin, checkout) <= 0 {
		return nil, ErrInvalidDateRange
	}
	if strings.TrimSpace(guestFullName) == "" {
		return nil, ErrGuestNameRequired
	}
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the night range and decide under the lock. This is the
	// critical section that closes the check-then-reserve race.
	usage, err := s.inventory.GetUsageTx(ctx, tx, hotelID, roomType, checkin, checkout, true)
	if errors.Is(err, repository.ErrNotProvisioned) {
		return nil, ErrDateRangeTooFar
	}
	if err != nil {
		return nil, mapLockErr(err)
	}
	if evaluateUsage(usage) != Available {
		return nil, ErrUnavailable
	}
	if err := s.inventory.AdjustReservedTx(ctx, tx, hotelID, roomType, checkin, checkout, +1); err != nil {
		return nil, logCorruption(err, "create", hotelID, roomType, checkin, checkout)
	}
	res := &model.Reservation{
		HotelID:       hotelID,
		RoomType:      roomType,
		CheckinDate:   checkin,
		CheckoutDate:  checkout,
		GuestFullName: strings.TrimSpace(guestFullName),
	}
	if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, mapLockErr(err)
	}
	committed = true
	return res, nil
}

// Modify changes the mutable fields of a reservation: check-in and
// check-out dates and room type. The new range is checked and reserved
// before the old range is released, and the stored dates are rewritten
// last, so capacity is never double-counted mid-operation and a range
// that was never reserved is never released. A patch naming the hotel or
// guest with a different value fails with ErrImmutableFieldChanged; a
// patch changing nothing returns the reservation untouched.
func (s *ReservationService) Modify(ctx context.Context, id uint64, patch ReservationPatch) (*model.Reservation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.reservations.GetByIDTx(ctx, tx, id)
	if err != nil {
		return nil, mapLockErr(err)
	}
	if res.IsCancelled {
		return nil, ErrReservationCancelled
	}
	if patch.HotelID != nil && *patch.HotelID != res.HotelID {
		return nil, ErrImmutableFieldChanged
	}
	if patch.GuestFullName != nil && *patch.GuestFullName != res.GuestFullName {
		return nil, ErrImmutableFieldChanged
	}

	newRoomType := res.RoomType
	if patch.RoomType != nil {
		newRoomType = *patch.RoomType
	}
	newCheckin := res.CheckinDate
	if patch.CheckinDate != nil {
		newCheckin = utils.Day(*patch.CheckinDate)
	}
	newCheckout := res.CheckoutDate
	if patch.CheckoutDate != nil {
		newCheckout = utils.Day(*patch.CheckoutDate)
	}
	if newRoomType == res.RoomType && newCheckin.Equal(res.CheckinDate) && newCheckout.Equal(res.CheckoutDate) {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return res, nil
	}
	if utils.Nights(newCheckin, newCheckout) <= 0 {
		return nil, ErrInvalidDateRange
	}

	usage, err := s.inventory.GetUsageTx(ctx, tx, res.HotelID, newRoomType, newCheckin, newCheckout, true)
	if errors.Is(err, repository.ErrNotProvisioned) {
		return nil, ErrDateRangeTooFar
	}
	if err != nil {
		return nil, mapLockErr(err)
	}
	if evaluateUsage(usage) != Available {
		return nil, ErrUnavailable
	}
	// Reserve the new range first, release the old range second: a
	// failure in between leaks a unit instead of overselling one.
	if err := s.inventory.AdjustReservedTx(ctx, tx, res.HotelID, newRoomType, newCheckin, newCheckout, +1); err != nil {
		return nil, logCorruption(err, "modify-reserve", res.HotelID, newRoomType, newCheckin, newCheckout)
	}
	if err := s.inventory.AdjustReservedTx(ctx, tx, res.HotelID, res.RoomType, res.CheckinDate, res.CheckoutDate, -1); err != nil {
		return nil, logCorruption(err, "modify-release", res.HotelID, res.RoomType, res.CheckinDate, res.CheckoutDate)
	}
	if err := s.reservations.UpdateStayTx(ctx, tx, id, newRoomType,
		newCheckin.Format(utils.DateLayout), newCheckout.Format(utils.DateLayout)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, mapLockErr(err)
	}
	committed = true
	return s.reservations.GetByID(ctx, id)
}

// Cancel marks a reservation cancelled and releases its night range.
// Idempotent: cancelling an already-cancelled reservation is a no-op
// success and never releases ledger capacity twice. The returned bool
// reports whether this call performed the transition, so callers emit
// side effects (events, notifications) exactly once per cancellation.
// The reservation row is kept forever as history.
func (s *ReservationService) Cancel(ctx context.Context, id uint64) (*model.Reservation, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.reservations.GetByIDTx(ctx, tx, id)
	if err != nil {
		return nil, false, mapLockErr(err)
	}
	if res.IsCancelled {
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		committed = true
		return res, false, nil
	}
	if err := s.reservations.MarkCancelledTx(ctx, tx, id); err != nil {
		return nil, false, err
	}
	if err := s.inventory.AdjustReservedTx(ctx, tx, res.HotelID, res.RoomType, res.CheckinDate, res.CheckoutDate, -1); err != nil {
		return nil, false, logCorruption(err, "cancel", res.HotelID, res.RoomType, res.CheckinDate, res.CheckoutDate)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, mapLockErr(err)
	}
	committed = true
	res.IsCancelled = true
	return res, true, nil
}

// MarkCompleted sets the orthogonal completion flag. It is invoked by
// external stay-completion logic and does not touch the ledger: the
// reservation's nights have already elapsed.
func (s *ReservationService) MarkCompleted(ctx context.Context, id uint64) (*model.Reservation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.reservations.GetByIDTx(ctx, tx, id)
	if err != nil {
		return nil, mapLockErr(err)
	}
	if !res.IsCompleted {
		if err := s.reservations.MarkCompletedTx(ctx, tx, id); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	res.IsCompleted = true
	return res, nil
}

// Get returns a reservation by ID.
func (s *ReservationService) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// List returns all reservations, newest first.
func (s *ReservationService) List(ctx context.Context) ([]model.Reservation, error) {
	return s.reservations.List(ctx)
}

// ListByHotel returns all reservations for one hotel, newest first.
func (s *ReservationService) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Reservation, error) {
	return s.reservations.ListByHotel(ctx, hotelID)
}

// MySQL error codes for lock wait timeout and deadlock.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// mapLockErr translates storage-level contention into ErrBusy so callers
// can retry with backoff. Other errors pass through unchanged.
func mapLockErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlLockWaitTimeout || me.Number == mysqlDeadlock) {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	return err
}

// logCorruption makes ledger invariant failures loud before they
// propagate. These indicate a bug (an adjustment without a confirmed
// check under the same lock), never a bad request.
func logCorruption(err error, op string, hotelID uint64, roomType model.RoomType, checkin, checkout time.Time) error {
	if errors.Is(err, repository.ErrLedgerCorruption) {
		log.Printf("LEDGER CORRUPTION during %s: hotel=%d room_type=%s range=%s..%s: %v",
			op, hotelID, roomType,
			checkin.Format(utils.DateLayout), checkout.Format(utils.DateLayout), err)
		return err
	}
	return mapLockErr(err)
}
