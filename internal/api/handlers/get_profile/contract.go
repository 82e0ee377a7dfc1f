package get_profile

import (
	"context"

	"github.com/propdesk/PD-AgentBookingService/internal/service/profile/models"
)

type ProfileService interface {
	Get(ctx context.Context, agentID int64) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
