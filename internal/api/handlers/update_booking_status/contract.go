package update_booking_status

import (
	"context"

	"github.com/propdesk/PD-AgentBookingService/internal/service/bookings/models"
)

type BookingService interface {
	Confirm(ctx context.Context, bookingID int64, actorID int64) (*models.BookingResponse, error)
	Complete(ctx context.Context, bookingID int64, actorID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
