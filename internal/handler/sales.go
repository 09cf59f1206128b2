package handler

import (
	"log/slog"
	"net/http"

	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/state"
)

// SalesHandler serves the tenant-scoped sales register. The product
// catalog is exposed alongside the records so creation forms can only
// offer valid products.
type SalesHandler struct {
	container *state.Container
	logger    *slog.Logger
}

func NewSalesHandler(c *state.Container, logger *slog.Logger) *SalesHandler {
	return &SalesHandler{container: c, logger: logger}
}

type salesResponse struct {
	Sales   []domain.Sale `json:"sales"`
	Catalog []string      `json:"catalog"`
}

func (h *SalesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
		writeJSON(w, http.StatusOK, salesResponse{Sales: scoped.Sales, Catalog: domain.ProductCatalog})

	case http.MethodPost:
		var in state.SaleInput
		if !readJSON(w, r, h.logger, &in) {
			return
		}
		sale, err := h.container.CreateSale(session, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sale)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
