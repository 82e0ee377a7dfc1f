package resolve_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
// Запрос должен содержать либо дату, либо пару месяц+год
func validateRequest(req *Request) error {
	if req.AgentID <= 0 {
		return fmt.Errorf("%w: agentID must be positive", ErrInvalidInput)
	}

	if req.Date == nil && (req.Month == nil || req.Year == nil) {
		return fmt.Errorf("%w: either date or month+year is required", ErrInvalidInput)
	}

	if req.Date != nil && (req.Month != nil || req.Year != nil) {
		return fmt.Errorf("%w: date and month+year are mutually exclusive", ErrInvalidInput)
	}

	if req.Date != nil && req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Month != nil {
		if *req.Month < time.January || *req.Month > time.December {
			return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
		}
		if *req.Year < 2000 || *req.Year > 2200 {
			return fmt.Errorf("%w: year is out of range", ErrInvalidInput)
		}
	}

	return nil
}
