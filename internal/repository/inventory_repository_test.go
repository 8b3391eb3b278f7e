package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterstay/hotel-booking/internal/model"
)

func newMockRepo(t *testing.T) (*InventoryRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInventoryRepo(db), mock, db
}

func beginTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return tx
}

func d(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func TestAdjustReservedTx(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	tx := beginTx(t, db, mock)

	mock.ExpectExec("UPDATE room_inventory").
		WithArgs(1, int64(1), "king", "2026-06-10", "2026-06-12", 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.AdjustReservedTx(context.Background(), tx, 1, model.RoomTypeKing,
		d(2026, time.June, 10), d(2026, time.June, 12), +1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustReservedTxGuardsLedger(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	tx := beginTx(t, db, mock)

	// Two nights requested, one row matched: the bounds predicate
	// filtered a row out, meaning the counter would have left its range.
	mock.ExpectExec("UPDATE room_inventory").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AdjustReservedTx(context.Background(), tx, 1, model.RoomTypeKing,
		d(2026, time.June, 10), d(2026, time.June, 12), +1)
	assert.ErrorIs(t, err, ErrLedgerCorruption)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUsageTxNotProvisioned(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery("FROM room_inventory").
		WillReturnRows(sqlmock.NewRows([]string{"date", "max_rooms_available", "rooms_reserved"}).
			AddRow(d(2026, time.June, 10), 2, 0))

	_, err := repo.GetUsageTx(context.Background(), tx, 1, model.RoomTypeKing,
		d(2026, time.June, 10), d(2026, time.June, 13), true)
	assert.ErrorIs(t, err, ErrNotProvisioned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGrowCapacityTx(t *testing.T) {
	repo, mock, db := newMockRepo(t)

	t.Run("grow", func(t *testing.T) {
		tx := beginTx(t, db, mock)
		mock.ExpectQuery("SELECT COALESCE").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3))
		mock.ExpectExec("UPDATE room_inventory").
			WillReturnResult(sqlmock.NewResult(0, 200))

		err := repo.GrowCapacityTx(context.Background(), tx, 1, model.RoomTypeDouble,
			d(2026, time.June, 1), d(2026, time.December, 31), 5)
		require.NoError(t, err)
	})

	t.Run("shrink rejected", func(t *testing.T) {
		tx := beginTx(t, db, mock)
		mock.ExpectQuery("SELECT COALESCE").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(5))

		err := repo.GrowCapacityTx(context.Background(), tx, 1, model.RoomTypeDouble,
			d(2026, time.June, 1), d(2026, time.December, 31), 3)
		assert.ErrorIs(t, err, ErrCapacityShrink)
	})

	t.Run("equal is a no-op grow", func(t *testing.T) {
		tx := beginTx(t, db, mock)
		mock.ExpectQuery("SELECT COALESCE").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(5))
		mock.ExpectExec("UPDATE room_inventory").
			WillReturnResult(sqlmock.NewResult(0, 200))

		err := repo.GrowCapacityTx(context.Background(), tx, 1, model.RoomTypeDouble,
			d(2026, time.June, 1), d(2026, time.December, 31), 5)
		require.NoError(t, err)
	})

	t.Run("no ledger rows", func(t *testing.T) {
		tx := beginTx(t, db, mock)
		// COALESCE sentinel: no rows in the range at all.
		mock.ExpectQuery("SELECT COALESCE").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(-1))

		err := repo.GrowCapacityTx(context.Background(), tx, 1, model.RoomTypeDouble,
			d(2026, time.June, 1), d(2026, time.December, 31), 5)
		assert.ErrorIs(t, err, ErrNotProvisioned)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkInsertTxEmpty(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	tx := beginTx(t, db, mock)

	// No rows, no statement.
	err := repo.BulkInsertTx(context.Background(), tx, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkInsertTx(t *testing.T) {
	repo, mock, db := newMockRepo(t)
	tx := beginTx(t, db, mock)

	mock.ExpectExec("INSERT INTO room_inventory").
		WillReturnResult(sqlmock.NewResult(0, 2))

	rows := []InventoryDayRecord{
		{HotelID: 1, RoomType: model.RoomTypeKing, Date: d(2026, time.June, 1), MaxRoomsAvailable: 2},
		{HotelID: 1, RoomType: model.RoomTypeKing, Date: d(2026, time.June, 2), MaxRoomsAvailable: 2},
	}
	require.NoError(t, repo.BulkInsertTx(context.Background(), tx, rows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAvailableHotels(t *testing.T) {
	repo, mock, _ := newMockRepo(t)

	// Two free nights per hotel are required for a two night stay.
	mock.ExpectQuery("GROUP BY hotel_id").
		WithArgs("2026-06-10", "2026-06-12", "queen", "king", 2).
		WillReturnRows(sqlmock.NewRows([]string{"hotel_id"}).AddRow(1).AddRow(4))

	ids, err := repo.SearchAvailableHotels(context.Background(),
		[]model.RoomType{model.RoomTypeQueen, model.RoomTypeKing},
		d(2026, time.June, 10), d(2026, time.June, 12))
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 4}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAvailableHotelsDefaultsToAllTypes(t *testing.T) {
	repo, mock, _ := newMockRepo(t)

	mock.ExpectQuery("GROUP BY hotel_id").
		WithArgs("2026-06-10", "2026-06-11", "double", "queen", "king", 1).
		WillReturnRows(sqlmock.NewRows([]string{"hotel_id"}))

	ids, err := repo.SearchAvailableHotels(context.Background(), nil,
		d(2026, time.June, 10), d(2026, time.June, 11))
	require.NoError(t, err)
	assert.Empty(t, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
