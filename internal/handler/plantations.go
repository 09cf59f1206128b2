package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/security"
	"github.com/mfalves/plantledger/internal/state"
)

// PlantationsHandler serves tenant provisioning and the administrative
// tenant list. Listing is available to any session (scoped); creation
// goes through the tenants screen gate and the pipeline's own check.
type PlantationsHandler struct {
	container *state.Container
	authz     *security.AuthorizationService
	logger    *slog.Logger
}

func NewPlantationsHandler(c *state.Container, authz *security.AuthorizationService, logger *slog.Logger) *PlantationsHandler {
	return &PlantationsHandler{container: c, authz: authz, logger: logger}
}

func (h *PlantationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	switch r.Method {
	case http.MethodGet:
		scoped := h.container.Scoped(session)
		writeJSON(w, http.StatusOK, scoped.Plantations)

	case http.MethodPost:
		if err := h.authz.ValidateAccess(session.Role, security.ScreenTenants); err != nil {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		var in state.PlantationInput
		if !readJSON(w, r, h.logger, &in) {
			return
		}
		plantation, err := h.container.AddPlantation(session, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, plantation)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// StatusRequest changes a plantation's lifecycle status.
type StatusRequest struct {
	Status     domain.PlantationStatus `json:"status" validate:"required"`
	ExpiryDate *time.Time              `json:"expiryDate"`
}

// PlantationStatusHandler serves PUT /api/plantations/{code}/status.
type PlantationStatusHandler struct {
	container *state.Container
	authz     *security.AuthorizationService
	logger    *slog.Logger
}

func NewPlantationStatusHandler(c *state.Container, authz *security.AuthorizationService, logger *slog.Logger) *PlantationStatusHandler {
	return &PlantationStatusHandler{container: c, authz: authz, logger: logger}
}

func (h *PlantationStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.authz.ValidateAccess(session.Role, security.ScreenTenants); err != nil {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	code := r.PathValue("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing plantation code")
		return
	}

	var req StatusRequest
	if !readJSON(w, r, h.logger, &req) {
		return
	}
	plantation, err := h.container.SetPlantationStatus(session, code, req.Status, req.ExpiryDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plantation)
}
