package get_schedule

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/propdesk/PD-AgentBookingService/internal/api/handlers"
)

const msgInvalidAgentID = "некорректный ID агента"

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

// Handle GET /api/v1/agents/{agentId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /agents/{id}/schedule - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	schedule, err := h.service.List(r.Context(), agentID)
	if err != nil {
		h.logger.Error("GET /agents/{id}/schedule - Failed to get schedule: agent_id=%d, error=%v", agentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /agents/{id}/schedule - Retrieved %d entries for agent_id=%d", len(schedule.Entries), agentID)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
