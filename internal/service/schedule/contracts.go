package schedule

import (
	"context"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория недельного расписания
type ScheduleRepository interface {
	ListByAgentID(ctx context.Context, agentID int64) ([]*domain.WeeklyScheduleEntry, error)
	Insert(ctx context.Context, entry *domain.WeeklyScheduleEntry) (*domain.WeeklyScheduleEntry, error)
	Update(ctx context.Context, entry *domain.WeeklyScheduleEntry) error
	DeleteByIDs(ctx context.Context, agentID int64, ids []int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByAgentWithFilter(ctx context.Context, filter domain.AgentBookingsFilter) ([]*domain.Booking, error)
	MarkNeedsReview(ctx context.Context, ids []int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
