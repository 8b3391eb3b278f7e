package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/asterstay/hotel-booking/internal/model"
)

// HotelRepo provides CRUD operations for hotels and their authoritative
// room counts. Room totals live in hotel_room_counts and are the source
// of truth for how many rooms a hotel has; the inventory ledger is only
// consulted for date-ranged usage, never for totals.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a new HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// DB exposes the underlying handle so services can open transactions.
func (r *HotelRepo) DB() *sql.DB { return r.db }

// mysqlDuplicateEntry is the server error code for a unique key violation.
const mysqlDuplicateEntry = 1062

// CreateTx inserts a hotel and one room-count row per known room type
// within the provided transaction. Types the hotel does not offer are
// stored with a zero total so later capacity growth is a plain UPDATE.
// A name collision returns ErrHotelExists.
func (r *HotelRepo) CreateTx(ctx context.Context, tx *sql.Tx, name string, counts map[model.RoomType]int) (uint64, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO hotels (name) VALUES (?)`, name)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return 0, ErrHotelExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	hotelID := uint64(id)

	query := `INSERT INTO hotel_room_counts (hotel_id, room_type, total_rooms) VALUES `
	args := make([]interface{}, 0, len(model.AllRoomTypes())*3)
	for i, t := range model.AllRoomTypes() {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, hotelID, string(t), counts[t])
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, err
	}
	return hotelID, nil
}

// GetByID returns a hotel with its room counts. ErrHotelNotFound is
// returned when no hotel with the given ID exists.
func (r *HotelRepo) GetByID(ctx context.Context, hotelID uint64) (*model.Hotel, error) {
	const q = `SELECT id, name, created_at, updated_at FROM hotels WHERE id = ?`
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, hotelID).Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	h.RoomCounts, err = r.roomCounts(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetByIDTx is the transactional variant of GetByID. The hotel row is
// locked FOR UPDATE so that concurrent capacity edits to the same hotel
// serialize against each other.
func (r *HotelRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, hotelID uint64) (*model.Hotel, error) {
	const q = `SELECT id, name, created_at, updated_at FROM hotels WHERE id = ? FOR UPDATE`
	var h model.Hotel
	err := tx.QueryRowContext(ctx, q, hotelID).Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	const cq = `SELECT room_type, total_rooms FROM hotel_room_counts WHERE hotel_id = ?`
	rows, err := tx.QueryContext(ctx, cq, hotelID)
	if err != nil {
		return nil, err
	}
	h.RoomCounts, err = scanRoomCounts(rows)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// List returns all hotels with their room counts, ordered by ID.
func (r *HotelRepo) List(ctx context.Context) ([]model.Hotel, error) {
	const q = `SELECT id, name, created_at, updated_at FROM hotels ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hotels := make([]model.Hotel, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		h.RoomCounts = make(map[model.RoomType]int)
		index[h.ID] = len(hotels)
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		return hotels, nil
	}
	// Populate counts for all hotels in a single query.
	const cq = `SELECT hotel_id, room_type, total_rooms FROM hotel_room_counts`
	crows, err := r.db.QueryContext(ctx, cq)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var hotelID uint64
		var roomType string
		var total int
		if err := crows.Scan(&hotelID, &roomType, &total); err != nil {
			return nil, err
		}
		if idx, ok := index[hotelID]; ok {
			hotels[idx].RoomCounts[model.RoomType(roomType)] = total
		}
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}
	return hotels, nil
}

// GetByIDs returns the hotels matching the given IDs, ordered by ID.
// Used by the availability search to hydrate matched hotel IDs.
func (r *HotelRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Hotel, error) {
	if len(ids) == 0 {
		return []model.Hotel{}, nil
	}
	query := `SELECT id, name, created_at, updated_at FROM hotels WHERE id IN (`
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += `) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hotels := make([]model.Hotel, 0, len(ids))
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range hotels {
		counts, err := r.roomCounts(ctx, hotels[i].ID)
		if err != nil {
			return nil, err
		}
		hotels[i].RoomCounts = counts
	}
	return hotels, nil
}

// UpdateNameTx renames a hotel. A collision with an existing name
// returns ErrHotelExists.
func (r *HotelRepo) UpdateNameTx(ctx context.Context, tx *sql.Tx, hotelID uint64, name string) error {
	_, err := tx.ExecContext(ctx, `UPDATE hotels SET name = ? WHERE id = ?`, name, hotelID)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrHotelExists
		}
	}
	return err
}

// SetRoomCountTx updates the authoritative total for one room type.
// Callers enforce the growth-only rule before calling.
func (r *HotelRepo) SetRoomCountTx(ctx context.Context, tx *sql.Tx, hotelID uint64, roomType model.RoomType, total int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE hotel_room_counts SET total_rooms = ? WHERE hotel_id = ? AND room_type = ?`,
		total, hotelID, string(roomType))
	return err
}

// DeleteTx removes the hotel row and its room counts. The service layer
// cascades reservations and ledger rows in the same transaction first.
func (r *HotelRepo) DeleteTx(ctx context.Context, tx *sql.Tx, hotelID uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM hotel_room_counts WHERE hotel_id = ?`, hotelID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, hotelID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrHotelNotFound
	}
	return nil
}

// roomCounts loads the per-type totals for one hotel.
func (r *HotelRepo) roomCounts(ctx context.Context, hotelID uint64) (map[model.RoomType]int, error) {
	const q = `SELECT room_type, total_rooms FROM hotel_room_counts WHERE hotel_id = ?`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	return scanRoomCounts(rows)
}

func scanRoomCounts(rows *sql.Rows) (map[model.RoomType]int, error) {
	defer rows.Close()
	counts := make(map[model.RoomType]int)
	for rows.Next() {
		var roomType string
		var total int
		if err := rows.Scan(&roomType, &total); err != nil {
			return nil, err
		}
		counts[model.RoomType(roomType)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
