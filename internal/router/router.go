package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/asterstay/hotel-booking/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers the routes that carry no middleware. At the
// moment it only exposes a health check endpoint used by load balancers
// and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterHotels registers the hotel provisioning endpoints under /v1.
// Read endpoints take the shared GET middleware (response cache and
// rate limiting); mutations are never cached.
func RegisterHotels(e *echo.Echo, h *handler.HotelHandler, get ...echo.MiddlewareFunc) {
	g := e.Group("/v1")

	// Provision a hotel and materialize its inventory in one call.
	g.POST("/hotels", h.CreateHotel)
	g.GET("/hotels", h.ListHotels, get...)
	g.GET("/hotels/:id", h.GetHotel, get...)
	// Rename and grow capacity. Shrinking is rejected by the service.
	g.PATCH("/hotels/:id", h.UpdateHotel)
	g.DELETE("/hotels/:id", h.DeleteHotel)
}

// RegisterAvailability registers the read-side availability endpoints.
// All three are GETs, so all three take the shared GET middleware.
func RegisterAvailability(e *echo.Echo, a *handler.AvailabilityHandler, get ...echo.MiddlewareFunc) {
	g := e.Group("/v1")

	// Cross-hotel search: which hotels can host the whole stay.
	g.GET("/availabilities", a.SearchAvailabilities, get...)
	// Per-hotel yes/no/not_provisioned answer for one stay.
	g.GET("/hotels/:id/availability", a.CheckAvailability, get...)
	// Raw ledger rows for a range, per date.
	g.GET("/hotels/:id/inventory", a.GetInventory, get...)
}

// RegisterReservations registers the reservation lifecycle endpoints
// under /v1.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, get ...echo.MiddlewareFunc) {
	g := e.Group("/v1")

	g.POST("/reservations", r.Create)
	g.GET("/reservations", r.List, get...)
	g.GET("/reservations/:id", r.Get, get...)
	g.PATCH("/reservations/:id", r.Modify)
	// DELETE cancels; the row is kept as history.
	g.DELETE("/reservations/:id", r.Cancel)
	g.POST("/reservations/:id/complete", r.Complete)
}
