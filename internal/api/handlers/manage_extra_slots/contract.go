package manage_extra_slots

import (
	"context"

	"github.com/propdesk/PD-AgentBookingService/internal/service/exceptions/models"
)

type ExceptionService interface {
	ManageDate(ctx context.Context, req *models.ManageDateRequest) (*models.ExtraSlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
