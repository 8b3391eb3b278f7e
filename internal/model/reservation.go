package model

import "time"

// Reservation records a guest's stay at a hotel.  The stay occupies
// every night in [CheckinDate, CheckoutDate); the checkout date itself
// is not occupied.  While a reservation is active (not cancelled) it
// owns exactly one reserved unit per night in the ledger.
//
// Reservations are never physically deleted: cancellation flips
// IsCancelled and releases the ledger units, preserving history.
// IsCompleted is an orthogonal flag maintained by stay-completion
// logic; a reservation can be cancelled without ever completing, or
// completed without being cancelled.
//
// Fields:
//  ID            – primary key identifier.
//  HotelID       – hotel being stayed at.
//  RoomType      – desired room class.
//  CheckinDate   – first occupied night (inclusive).
//  CheckoutDate  – day of departure (exclusive).
//  GuestFullName – display name of the guest.
//  IsCancelled   – true once the reservation has been cancelled.
//  IsCompleted   – true once the stay has concluded.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
	ID            uint64    // reservations.id
	HotelID       uint64    // reservations.hotel_id
	RoomType      RoomType  // reservations.room_type
	CheckinDate   time.Time // reservations.checkin_date
	CheckoutDate  time.Time // reservations.checkout_date
	GuestFullName string    // reservations.guest_full_name
	IsCancelled   bool      // reservations.is_cancelled
	IsCompleted   bool      // reservations.is_completed
	CreatedAt     time.Time // reservations.created_at
	UpdatedAt     time.Time // reservations.updated_at
}

// Nights returns the number of nights the stay occupies.
func (r *Reservation) Nights() int {
	return int(r.CheckoutDate.Sub(r.CheckinDate).Hours() / 24)
}
