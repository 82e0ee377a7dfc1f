package resolve_slots

import (
	"context"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByAgentWithFilter(ctx context.Context, filter domain.AgentBookingsFilter) ([]*domain.Booking, error)
}

// ProfileRepository интерфейс репозитория профилей доступности
type ProfileRepository interface {
	GetByAgentID(ctx context.Context, agentID int64) (*domain.AgentAvailabilityProfile, error)
}

// ScheduleRepository интерфейс репозитория недельного расписания
type ScheduleRepository interface {
	ListByAgentID(ctx context.Context, agentID int64) ([]*domain.WeeklyScheduleEntry, error)
}

// ExceptionRepository интерфейс репозитория исключений календаря
type ExceptionRepository interface {
	ListByAgentAndDateRange(ctx context.Context, agentID int64, start, end time.Time) ([]*domain.ExtraTimeSlot, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
