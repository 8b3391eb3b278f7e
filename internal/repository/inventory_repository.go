package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/asterstay/hotel-booking/internal/model"
	"github.com/asterstay/hotel-booking/internal/utils"
)

// InventoryRepo is the capacity ledger: it owns the room_inventory table
// and exposes the only primitives that may mutate per-day capacity and
// usage. One row exists per (hotel, room type, date) once provisioned.
// All mutating methods operate inside a caller-supplied transaction so
// the lifecycle layer can combine an availability check, a reserved-count
// adjustment and a reservation write into one atomic unit.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns a new InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// DB exposes the underlying handle so services can open transactions.
func (r *InventoryRepo) DB() *sql.DB { return r.db }

// InventoryDayRecord mirrors the insertable columns of room_inventory.
// It is used by BulkInsertTx when provisioning a horizon.
type InventoryDayRecord struct {
	HotelID           uint64
	RoomType          model.RoomType
	Date              time.Time
	MaxRoomsAvailable int
	RoomsReserved     int
}

// UsageDay is one ledger row as seen by availability checks and the
// inventory read API: a date with its capacity ceiling and current usage.
type UsageDay struct {
	Date              time.Time `json:"date"`
	MaxRoomsAvailable int       `json:"max_rooms_available"`
	RoomsReserved     int       `json:"rooms_reserved"`
}

// Free returns the remaining bookable units on this date.
func (u UsageDay) Free() int { return u.MaxRoomsAvailable - u.RoomsReserved }

// BulkInsertTx inserts ledger rows in a single multi-row statement.
// Provisioning a 12 month horizon for three room types writes over a
// thousand rows, so one round trip matters. Passing an empty slice has
// no effect and returns nil.
func (r *InventoryRepo) BulkInsertTx(ctx context.Context, tx *sql.Tx, rows []InventoryDayRecord) error {
	if len(rows) == 0 {
		return nil
	}
	query := `INSERT INTO room_inventory (hotel_id, room_type, date, max_rooms_available, rooms_reserved) VALUES `
	args := make([]interface{}, 0, len(rows)*5)
	for i, row := range rows {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, row.HotelID, string(row.RoomType), row.Date.Format(utils.DateLayout), row.MaxRoomsAvailable, row.RoomsReserved)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetUsageTx returns one UsageDay per night in [checkin, checkout),
// ordered by date, within the provided transaction. When forUpdate is
// true the rows are locked with SELECT ... FOR UPDATE, which serializes
// concurrent check-then-reserve sequences touching overlapping dates.
// ErrNotProvisioned is returned when any night in the range has no row;
// callers must not treat missing rows as zero capacity.
func (r *InventoryRepo) GetUsageTx(ctx context.Context, tx *sql.Tx, hotelID uint64, roomType model.RoomType, checkin, checkout time.Time, forUpdate bool) ([]UsageDay, error) {
	q := `SELECT date, max_rooms_available, rooms_reserved
		  FROM room_inventory
		  WHERE hotel_id = ? AND room_type = ? AND date >= ? AND date < ?
		  ORDER BY date`
	if forUpdate {
		q += " FOR UPDATE"
	}
	rows, err := tx.QueryContext(ctx, q,
		hotelID, string(roomType),
		checkin.Format(utils.DateLayout), checkout.Format(utils.DateLayout))
	if err != nil {
		return nil, err
	}
	return scanUsage(rows, utils.Nights(checkin, checkout))
}

// GetUsage is the non-transactional read variant used by the inventory
// API and the advisory availability check.
func (r *InventoryRepo) GetUsage(ctx context.Context, hotelID uint64, roomType model.RoomType, checkin, checkout time.Time) ([]UsageDay, error) {
	const q = `SELECT date, max_rooms_available, rooms_reserved
			   FROM room_inventory
			   WHERE hotel_id = ? AND room_type = ? AND date >= ? AND date < ?
			   ORDER BY date`
	rows, err := r.db.QueryContext(ctx, q,
		hotelID, string(roomType),
		checkin.Format(utils.DateLayout), checkout.Format(utils.DateLayout))
	if err != nil {
		return nil, err
	}
	return scanUsage(rows, utils.Nights(checkin, checkout))
}

// scanUsage collects usage rows and enforces the provisioning contract:
// fewer rows than nights means the horizon does not cover the range.
func scanUsage(rows *sql.Rows, nights int) ([]UsageDay, error) {
	defer rows.Close()
	usage := make([]UsageDay, 0, nights)
	for rows.Next() {
		var u UsageDay
		if err := rows.Scan(&u.Date, &u.MaxRoomsAvailable, &u.RoomsReserved); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(usage) < nights {
		return nil, ErrNotProvisioned
	}
	return usage, nil
}

// AdjustReservedTx atomically adds delta (+1 to reserve, -1 to release)
// to the reserved counter of every night in [checkin, checkout). The
// UPDATE itself guards the ledger invariant: a row whose counter would
// leave [0, max_rooms_available] is not matched, and a matched-row count
// short of the night count is reported as ErrLedgerCorruption. By the
// time this runs the caller has confirmed availability under the same
// row locks, so a shortfall is a logic bug, not a business outcome.
func (r *InventoryRepo) AdjustReservedTx(ctx context.Context, tx *sql.Tx, hotelID uint64, roomType model.RoomType, checkin, checkout time.Time, delta int) error {
	const q = `UPDATE room_inventory
			   SET rooms_reserved = rooms_reserved + ?
			   WHERE hotel_id = ? AND room_type = ? AND date >= ? AND date < ?
				 AND rooms_reserved + ? >= 0
				 AND rooms_reserved + ? <= max_rooms_available`
	res, err := tx.ExecContext(ctx, q,
		delta, hotelID, string(roomType),
		checkin.Format(utils.DateLayout), checkout.Format(utils.DateLayout),
		delta, delta)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if int(affected) != utils.Nights(checkin, checkout) {
		return ErrLedgerCorruption
	}
	return nil
}

// GrowCapacityTx raises max_rooms_available to newMax for every night in
// [start, end] (end inclusive: the range spans the materialized horizon).
// The current maximum over the range is read under lock first; if newMax
// is below it for any date the ledger is left untouched and
// ErrCapacityShrink is returned. Capacity is monotonically non-decreasing.
func (r *InventoryRepo) GrowCapacityTx(ctx context.Context, tx *sql.Tx, hotelID uint64, roomType model.RoomType, start, end time.Time, newMax int) error {
	const sel = `SELECT COALESCE(MAX(max_rooms_available), -1)
				 FROM room_inventory
				 WHERE hotel_id = ? AND room_type = ? AND date >= ? AND date <= ?
				 FOR UPDATE`
	var current int
	err := tx.QueryRowContext(ctx, sel,
		hotelID, string(roomType),
		start.Format(utils.DateLayout), end.Format(utils.DateLayout)).Scan(&current)
	if err != nil {
		return err
	}
	if current < 0 {
		return ErrNotProvisioned
	}
	if newMax < current {
		return ErrCapacityShrink
	}
	const upd = `UPDATE room_inventory
				 SET max_rooms_available = ?
				 WHERE hotel_id = ? AND room_type = ? AND date >= ? AND date <= ?`
	_, err = tx.ExecContext(ctx, upd,
		newMax, hotelID, string(roomType),
		start.Format(utils.DateLayout), end.Format(utils.DateLayout))
	return err
}

// ProvisionedRangeTx returns the first and last materialized ledger date
// for a hotel. ok is false when the hotel has no inventory at all.
func (r *InventoryRepo) ProvisionedRangeTx(ctx context.Context, tx *sql.Tx, hotelID uint64) (start, end time.Time, ok bool, err error) {
	const q = `SELECT MIN(date), MAX(date) FROM room_inventory WHERE hotel_id = ?`
	var minDate, maxDate sql.NullTime
	if err = tx.QueryRowContext(ctx, q, hotelID).Scan(&minDate, &maxDate); err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	if !minDate.Valid || !maxDate.Valid {
		return time.Time{}, time.Time{}, false, nil
	}
	return utils.Day(minDate.Time), utils.Day(maxDate.Time), true, nil
}

// DeleteByHotelTx removes every ledger row for a hotel. Partial deletion
// is never exposed; this exists solely for the hotel cascade delete.
func (r *InventoryRepo) DeleteByHotelTx(ctx context.Context, tx *sql.Tx, hotelID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM room_inventory WHERE hotel_id = ?`, hotelID)
	return err
}

// SearchAvailableHotels returns the IDs of hotels that can host a stay
// over [checkin, checkout) in at least one of the given room types on
// every night. A hotel qualifies when each night of the stay has free
// capacity in some requested type; the HAVING clause compares the number
// of distinct free nights against the stay length.
func (r *InventoryRepo) SearchAvailableHotels(ctx context.Context, roomTypes []model.RoomType, checkin, checkout time.Time) ([]uint64, error) {
	if len(roomTypes) == 0 {
		roomTypes = model.AllRoomTypes()
	}
	placeholders := make([]string, 0, len(roomTypes))
	args := make([]interface{}, 0, len(roomTypes)+3)
	args = append(args, checkin.Format(utils.DateLayout), checkout.Format(utils.DateLayout))
	for _, t := range roomTypes {
		placeholders = append(placeholders, "?")
		args = append(args, string(t))
	}
	args = append(args, utils.Nights(checkin, checkout))
	query := `SELECT hotel_id FROM (
				  SELECT DISTINCT hotel_id, date
				  FROM room_inventory
				  WHERE date >= ? AND date < ?
					AND room_type IN (` + strings.Join(placeholders, ",") + `)
					AND max_rooms_available - rooms_reserved > 0
			  ) free_nights
			  GROUP BY hotel_id
			  HAVING COUNT(date) = ?
			  ORDER BY hotel_id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
