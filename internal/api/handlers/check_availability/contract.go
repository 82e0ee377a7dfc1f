package check_availability

import (
	"context"

	"github.com/propdesk/PD-AgentBookingService/internal/service/exceptions/models"
)

type ExceptionService interface {
	CheckAvailability(ctx context.Context, req *models.CheckAvailabilityRequest) (*models.CheckAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
