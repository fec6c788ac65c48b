package handlers

// HandlerBundle groups the request handlers for route registration.
type HandlerBundle struct {
	Team         *TeamHandler
	Availability *AvailabilityHandler
	Booking      *BookingHandler
}
