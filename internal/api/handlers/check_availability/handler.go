package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/propdesk/PD-AgentBookingService/internal/api/handlers"
	"github.com/propdesk/PD-AgentBookingService/internal/domain"
	"github.com/propdesk/PD-AgentBookingService/internal/service/exceptions"
	"github.com/propdesk/PD-AgentBookingService/internal/service/exceptions/models"
	"github.com/propdesk/PD-AgentBookingService/pkg/types"
)

const (
	msgInvalidAgentID = "некорректный ID агента"
	msgInvalidQuery   = "нужны параметры date, startTime и endTime"
)

type Handler struct {
	service ExceptionService
	logger  Logger
}

func NewHandler(service ExceptionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/agents/{agentId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /agents/{id}/availability - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /agents/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	startTime, err := types.NewTimeStringFromString(query.Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /agents/{id}/availability - Invalid startTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	endTime, err := types.NewTimeStringFromString(query.Get("endTime"))
	if err != nil {
		h.logger.Warn("GET /agents/{id}/availability - Invalid endTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	req := &models.CheckAvailabilityRequest{
		AgentID:   agentID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
	}

	result, err := h.service.CheckAvailability(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, exceptions.ErrInvalidInput):
			h.logger.Warn("GET /agents/{id}/availability - Invalid input: agent_id=%d, error=%v", agentID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /agents/{id}/availability - Failed to check availability: agent_id=%d, error=%v", agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /agents/{id}/availability - agent_id=%d, date=%s, slot=%s-%s, available=%t",
		agentID, query.Get("date"), startTime, endTime, result.Available)
	handlers.RespondJSON(w, http.StatusOK, result)
}
