package get_schedule

import (
	"context"

	"github.com/propdesk/PD-AgentBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	List(ctx context.Context, agentID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
