package update_profile

import (
	"context"

	"github.com/propdesk/PD-AgentBookingService/internal/service/profile/models"
)

type ProfileService interface {
	Set(ctx context.Context, req *models.SetProfileRequest) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
