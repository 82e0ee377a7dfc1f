package exceptions

import (
	"context"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
)

// ExceptionRepository интерфейс репозитория исключений календаря
type ExceptionRepository interface {
	ListByAgentID(ctx context.Context, agentID int64) ([]*domain.ExtraTimeSlot, error)
	ReplaceForDate(ctx context.Context, agentID int64, date time.Time, slots []domain.ExtraTimeSlotUpsert) ([]*domain.ExtraTimeSlot, error)
	DeleteByIDs(ctx context.Context, agentID int64, ids []int64) error
}

// SlotResolver интерфейс резолвера доступных слотов
type SlotResolver interface {
	ResolveDate(ctx context.Context, agentID int64, date time.Time) (*domain.DaySlots, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
