package repository

import (
	"context"
	"database/sql"

	"github.com/asterstay/hotel-booking/internal/model"
	"github.com/asterstay/hotel-booking/internal/utils"
)

// ReservationRepo provides persistence for reservations. Rows are never
// physically removed outside the hotel cascade delete: cancellation is a
// flag flip so booking history survives. Mutations happen only through
// the reservation service, which owns the transaction boundaries.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so services can open transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new reservation within the scope of an existing
// transaction and reads the full row back to populate the generated ID
// and timestamps. The caller must commit or roll back the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
			   (hotel_id, room_type, checkin_date, checkout_date, guest_full_name, is_cancelled, is_completed)
			   VALUES (?, ?, ?, ?, ?, FALSE, FALSE)`
	result, err := tx.ExecContext(ctx, q,
		res.HotelID, string(res.RoomType),
		res.CheckinDate.Format(utils.DateLayout), res.CheckoutDate.Format(utils.DateLayout),
		res.GuestFullName)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT id, hotel_id, room_type, checkin_date, checkout_date, guest_full_name,
						is_cancelled, is_completed, created_at, updated_at
				 FROM reservations WHERE id = ?`
	return scanReservation(tx.QueryRowContext(ctx, sel, res.ID), res)
}

// GetByID returns a single reservation. ErrReservationNotFound is
// returned when no reservation with the given ID exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, hotel_id, room_type, checkin_date, checkout_date, guest_full_name,
					  is_cancelled, is_completed, created_at, updated_at
			   FROM reservations WHERE id = ?`
	var res model.Reservation
	if err := scanReservation(r.db.QueryRowContext(ctx, q, id), &res); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// GetByIDTx is the transactional variant of GetByID. The row is locked
// FOR UPDATE so concurrent modify/cancel calls against the same
// reservation serialize instead of double-releasing ledger units.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, hotel_id, room_type, checkin_date, checkout_date, guest_full_name,
					  is_cancelled, is_completed, created_at, updated_at
			   FROM reservations WHERE id = ? FOR UPDATE`
	var res model.Reservation
	if err := scanReservation(tx.QueryRowContext(ctx, q, id), &res); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// List returns all reservations ordered by creation time descending
// (newest first). Cancelled reservations are included: they are history,
// not garbage.
func (r *ReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT id, hotel_id, room_type, checkin_date, checkout_date, guest_full_name,
					  is_cancelled, is_completed, created_at, updated_at
			   FROM reservations ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q)
}

// ListByHotel returns all reservations for one hotel, newest first.
func (r *ReservationRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, hotel_id, room_type, checkin_date, checkout_date, guest_full_name,
					  is_cancelled, is_completed, created_at, updated_at
			   FROM reservations WHERE hotel_id = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, hotelID)
}

// UpdateStayTx rewrites the mutable fields of a reservation: room type
// and stay boundaries. It is called only after the ledger has been moved
// to the new range, and always last inside the transaction.
func (r *ReservationRepo) UpdateStayTx(ctx context.Context, tx *sql.Tx, id uint64, roomType model.RoomType, checkin, checkout string) error {
	const q = `UPDATE reservations
			   SET room_type = ?, checkin_date = ?, checkout_date = ?
			   WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, string(roomType), checkin, checkout, id)
	return err
}

// MarkCancelledTx flips is_cancelled. Idempotency lives in the service:
// it only calls this for reservations observed active under lock.
func (r *ReservationRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `UPDATE reservations SET is_cancelled = TRUE WHERE id = ?`, id)
	return err
}

// MarkCompletedTx flips is_completed. The flag is orthogonal to the
// cancel lifecycle and is driven by external stay-completion logic.
func (r *ReservationRepo) MarkCompletedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `UPDATE reservations SET is_completed = TRUE WHERE id = ?`, id)
	return err
}

// DeleteByHotelTx removes every reservation for a hotel. Only the hotel
// cascade delete may call this.
func (r *ReservationRepo) DeleteByHotelTx(ctx context.Context, tx *sql.Tx, hotelID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE hotel_id = ?`, hotelID)
	return err
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reservations := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		var roomType string
		if err := rows.Scan(
			&res.ID, &res.HotelID, &roomType, &res.CheckinDate, &res.CheckoutDate,
			&res.GuestFullName, &res.IsCancelled, &res.IsCompleted,
			&res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res.RoomType = model.RoomType(roomType)
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner, res *model.Reservation) error {
	var roomType string
	if err := row.Scan(
		&res.ID, &res.HotelID, &roomType, &res.CheckinDate, &res.CheckoutDate,
		&res.GuestFullName, &res.IsCancelled, &res.IsCompleted,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return err
	}
	res.RoomType = model.RoomType(roomType)
	return nil
}
