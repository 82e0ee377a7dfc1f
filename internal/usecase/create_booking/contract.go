package create_booking

import (
	"context"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetRecentByRequesterAndAgent(ctx context.Context, requesterID, agentID int64, since time.Time) ([]*domain.Booking, error)
}

// ProfileRepository интерфейс репозитория профилей доступности
type ProfileRepository interface {
	GetByAgentID(ctx context.Context, agentID int64) (*domain.AgentAvailabilityProfile, error)
}

// SlotResolver интерфейс резолвера доступных слотов
// Вызывается внутри сериализуемой транзакции для повторной проверки слота
type SlotResolver interface {
	ResolveDate(ctx context.Context, agentID int64, date time.Time) (*domain.DaySlots, error)
}

// CooldownTracker интерфейс анти-спам трекера повторных попыток
type CooldownTracker interface {
	Allow(key string) bool
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
