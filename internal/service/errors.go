// Package service implements the booking core: inventory provisioning,
// availability checks and the reservation lifecycle. Services own the
// transaction boundaries; repositories supply the primitives that run
// inside them.
package service

import "errors"

// ErrInvalidDateRange is returned when checkout is not after checkin.
// Rejected before any ledger query, with no side effects.
var ErrInvalidDateRange = errors.New("checkout date must be after checkin date")

// ErrGuestNameRequired is returned when a reservation is created without
// a guest name.
var ErrGuestNameRequired = errors.New("guest full name is required")

// ErrInvalidRoomCount is returned when a hotel is created with a
// negative room count.
var ErrInvalidRoomCount = errors.New("room counts must be non-negative")

// ErrUnavailable is returned when at least one night of the requested
// stay has no free capacity. An expected business outcome, not a fault.
var ErrUnavailable = errors.New("no availability for requested dates")

// ErrDateRangeTooFar is returned when the requested stay reaches past
// the materialized inventory horizon. Distinct from ErrUnavailable so
// callers can surface "dates too far in the future" rather than
// "fully booked".
var ErrDateRangeTooFar = errors.New("requested dates are beyond the inventory horizon")

// ErrImmutableFieldChanged is returned when a reservation patch attempts
// to change the hotel or the guest. Guests must cancel and rebook.
var ErrImmutableFieldChanged = errors.New("reservation hotel and guest cannot be changed")

// ErrReservationCancelled is returned when modifying a reservation that
// has already been cancelled. Cancellation is terminal.
var ErrReservationCancelled = errors.New("reservation is cancelled")

// ErrBusy is returned when the storage layer reports lock contention
// (deadlock or lock wait timeout). The operation was not applied and is
// safe to retry with backoff; the core itself never retries so genuine
// oversell races are not masked.
var ErrBusy = errors.New("operation contended, retry")
