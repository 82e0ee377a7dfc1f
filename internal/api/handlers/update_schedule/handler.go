package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/propdesk/PD-AgentBookingService/internal/api/handlers"
	"github.com/propdesk/PD-AgentBookingService/internal/api/middleware"
	"github.com/propdesk/PD-AgentBookingService/internal/service/schedule"
)

const (
	msgInvalidAgentID     = "некорректный ID агента"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgEntryNotFound      = "запись расписания не найдена"
	msgScheduleOverlap    = "интервалы расписания пересекаются"
	msgInvalidSchedule    = "некорректные параметры расписания"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/agents/{agentId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /agents/{id}/schedule - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /agents/{id}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /agents/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(actorID, agentID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /agents/{id}/schedule - Access denied: agent_id=%d, actor_id=%d", agentID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrEntryNotFound):
			h.logger.Warn("PUT /agents/{id}/schedule - Entry not found: agent_id=%d, error=%v", agentID, err)
			handlers.RespondNotFound(w, msgEntryNotFound)

		case errors.Is(err, schedule.ErrScheduleOverlap):
			h.logger.Warn("PUT /agents/{id}/schedule - Overlapping entries: agent_id=%d, error=%v", agentID, err)
			handlers.RespondError(w, http.StatusConflict, msgScheduleOverlap)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /agents/{id}/schedule - Invalid schedule: agent_id=%d, error=%v", agentID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		default:
			h.logger.Error("PUT /agents/{id}/schedule - Failed to update schedule: agent_id=%d, error=%v", agentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /agents/{id}/schedule - Schedule updated: agent_id=%d, entries=%d", agentID, len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, result)
}
