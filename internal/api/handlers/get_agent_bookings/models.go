package get_agent_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/internal/service/bookings/models"
)

// parseQuery разбирает query-параметры фильтрации календаря агента
func parseQuery(actorID, agentID int64, values map[string][]string) (*models.GetAgentBookingsRequest, error) {
	req := &models.GetAgentBookingsRequest{
		ActorID: actorID,
		AgentID: agentID,
	}

	get := func(key string) string {
		if v, ok := values[key]; ok && len(v) > 0 {
			return v[0]
		}
		return ""
	}

	if raw := get("startDate"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &parsed
	}

	if raw := get("endDate"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &parsed
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("endDate is before startDate")
	}

	if raw := get("status"); raw != "" {
		req.Status = &raw
	}

	if raw := get("includeInactive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive: %w", err)
		}
		req.IncludeInactive = parsed
	}

	return req, nil
}
