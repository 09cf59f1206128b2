package handler

import (
	"log/slog"
	"net/http"

	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/service"
	"github.com/mfalves/plantledger/internal/state"
)

// CashHandler serves the tenant-scoped cash ledger with its running
// balance.
type CashHandler struct {
	container *state.Container
	logger    *slog.Logger
}

func NewCashHandler(c *state.Container, logger *slog.Logger) *CashHandler {
	return &CashHandler{container: c, logger: logger}
}

type cashResponse struct {
	Movements []domain.CashMovement `json:"movements"`
	Balance   float64               `json:"balance"`
}

func (h *CashHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	switch r.Method {
	case http.MethodGet:
		scoped := h.container.Scoped(session)
		if scoped.Suspended {
			writeError(w, http.StatusForbidden, "workspace suspended")
			return
		}
		writeJSON(w, http.StatusOK, cashResponse{
			Movements: scoped.CashMovements,
			Balance:   service.Balance(scoped.CashMovements),
		})

	case http.MethodPost:
		var in state.CashMovementInput
		if !readJSON(w, r, h.logger, &in) {
			return
		}
		movement, err := h.container.CreateCashMovement(session, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, movement)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
