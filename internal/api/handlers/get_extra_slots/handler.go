package get_extra_slots

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/propdesk/PD-AgentBookingService/internal/api/handlers"
)

const msgInvalidAgentID = "некорректный ID агента"

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

// Handle GET /api/v1/agents/{agentId}/extra-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /agents/{id}/extra-slots - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	result, err := h.service.List(r.Context(), agentID)
	if err != nil {
		h.logger.Error("GET /agents/{id}/extra-slots - Failed to get exceptions: agent_id=%d, error=%v", agentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /agents/{id}/extra-slots - Retrieved %d exceptions for agent_id=%d", len(result.Slots), agentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
