package resolve_slots

import (
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
)

// Request модель запроса на расчет доступных слотов
// Заполняется либо Date (один день), либо Month+Year (весь месяц)
type Request struct {
	AgentID int64
	Date    *time.Time // Конкретная дата (без времени)
	Month   *time.Month
	Year    *int
}

// Response модель ответа: слоты по датам в таймзоне агента
type Response struct {
	AgentID  int64
	Timezone string
	Days     []domain.DaySlots
}
