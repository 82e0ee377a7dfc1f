package get_available_slots

import (
	"fmt"
	"strconv"
	"time"

	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	resolveSlots "github.com/propdesk/PD-AgentBookingService/internal/usecase/resolve_slots"
)

// SlotResponse один доступный слот
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Bookable  bool   `json:"bookable"`
}

// DayResponse слоты одной даты
type DayResponse struct {
	Date         string         `json:"date"`
	Slots        []SlotResponse `json:"slots"`
	LimitReached bool           `json:"limitReached,omitempty"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	AgentID  int64         `json:"agentId"`
	Timezone string        `json:"timezone"`
	Days     []DayResponse `json:"days"`
}

// parseQuery разбирает query-параметры: либо date, либо пара month+year
func parseQuery(agentID int64, date, month, year string) (*resolveSlots.Request, error) {
	req := &resolveSlots.Request{AgentID: agentID}

	if date != "" {
		parsed, err := time.Parse(domain.DateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.Date = &parsed
		return req, nil
	}

	if month == "" || year == "" {
		return nil, fmt.Errorf("either date or month+year is required")
	}

	monthNum, err := strconv.Atoi(month)
	if err != nil {
		return nil, fmt.Errorf("invalid month: %w", err)
	}
	yearNum, err := strconv.Atoi(year)
	if err != nil {
		return nil, fmt.Errorf("invalid year: %w", err)
	}

	m := time.Month(monthNum)
	req.Month = &m
	req.Year = &yearNum
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveSlots.Response) *AvailableSlotsResponse {
	result := &AvailableSlotsResponse{
		AgentID:  resp.AgentID,
		Timezone: resp.Timezone,
		Days:     make([]DayResponse, 0, len(resp.Days)),
	}

	for _, day := range resp.Days {
		dayResp := DayResponse{
			Date:         day.Date.Format(domain.DateFormat),
			Slots:        make([]SlotResponse, 0, len(day.Slots)),
			LimitReached: day.LimitReached,
		}
		for _, slot := range day.Slots {
			dayResp.Slots = append(dayResp.Slots, SlotResponse{
				StartTime: slot.StartTime.String(),
				EndTime:   slot.EndTime.String(),
				Bookable:  slot.Bookable,
			})
		}
		result.Days = append(result.Days, dayResp)
	}

	return result
}
