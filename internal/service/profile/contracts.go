package profile

import (
	"context"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
)

// ProfileRepository интерфейс репозитория профилей доступности
type ProfileRepository interface {
	GetByAgentID(ctx context.Context, agentID int64) (*domain.AgentAvailabilityProfile, error)
	Replace(ctx context.Context, p *domain.AgentAvailabilityProfile) (*domain.AgentAvailabilityProfile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
