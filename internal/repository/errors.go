// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as services
// and handlers to distinguish between different failure scenarios with
// errors.Is. Business errors (a hotel that does not exist, a date range
// the ledger was never extended to) are deliberately separate from
// invariant failures (a reserved counter that would go negative), which
// indicate a bug rather than a bad request.
package repository

import "errors"

// ErrHotelNotFound is returned when the referenced hotel does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrHotelNotFound = errors.New("hotel not found")

// ErrHotelExists is returned when creating a hotel whose name is already
// taken. Handlers should translate this into an HTTP 409 response.
var ErrHotelExists = errors.New("hotel already exists")

// ErrReservationNotFound is returned when the referenced reservation does
// not exist. Handlers should translate this into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrNotProvisioned is returned when a queried date range reaches past
// the materialized inventory horizon. It is distinct from "fully booked":
// missing ledger rows mean the ledger was never extended that far, not
// that capacity is exhausted.
var ErrNotProvisioned = errors.New("inventory not provisioned for date range")

// ErrCapacityShrink is returned when a capacity update would lower
// max_rooms_available for any date. Room counts only grow; shrinking
// would require evicting in-flight reservations, which is unsupported.
var ErrCapacityShrink = errors.New("room capacity cannot shrink")

// ErrLedgerCorruption is returned when a reserved-count adjustment would
// push a row outside [0, max_rooms_available]. By the time an adjustment
// runs, availability has been confirmed under the same row locks, so a
// guard failure means a logic bug upstream. Callers must treat this as
// fatal to the operation and log it loudly, never swallow it.
var ErrLedgerCorruption = errors.New("inventory ledger corruption detected")
