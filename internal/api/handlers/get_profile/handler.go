package get_profile

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/propdesk/PD-AgentBookingService/internal/api/handlers"
)

const msgInvalidAgentID = "некорректный ID агента"

type Handler struct {
	service ProfileService
	logger  Logger
}

func NewHandler(service ProfileService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/agents/{agentId}/profile
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	agentID, err := strconv.ParseInt(vars["agentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /agents/{id}/profile - Invalid agent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAgentID)
		return
	}

	profile, err := h.service.Get(r.Context(), agentID)
	if err != nil {
		h.logger.Error("GET /agents/{id}/profile - Failed to get profile: agent_id=%d, error=%v", agentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /agents/{id}/profile - Profile retrieved: agent_id=%d", agentID)
	handlers.RespondJSON(w, http.StatusOK, profile)
}
