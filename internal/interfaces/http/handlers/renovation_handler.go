package handlers

import (
	"net/http"

	"github.com/compsred/comps-engine/internal/application/renovation"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
)

// RenovationHandler serves renovation economics: cost estimates, minimum
// ARV, and the 70% rule offer cap.
type RenovationHandler struct {
	service renovation.Service
	logger  logging.Logger
}

// NewRenovationHandler creates a RenovationHandler.
func NewRenovationHandler(service renovation.Service, logger logging.Logger) *RenovationHandler {
	return &RenovationHandler{service: service, logger: logger}
}

// Estimate handles POST /api/v1/renovation/estimate.
func (h *RenovationHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var input renovation.EstimateInput
	if err := decodeJSON(r, &input); err != nil {
		writeAppError(w, err)
		return
	}

	estimate, err := h.service.Estimate(r.Context(), &input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// ARV handles POST /api/v1/renovation/arv.
func (h *RenovationHandler) ARV(w http.ResponseWriter, r *http.Request) {
	var input renovation.ARVInput
	if err := decodeJSON(r, &input); err != nil {
		writeAppError(w, err)
		return
	}

	estimate, err := h.service.ARV(r.Context(), &input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// MaxOffer handles POST /api/v1/renovation/max-offer.
func (h *RenovationHandler) MaxOffer(w http.ResponseWriter, r *http.Request) {
	var input renovation.MaxOfferInput
	if err := decodeJSON(r, &input); err != nil {
		writeAppError(w, err)
		return
	}

	rule, err := h.service.MaxOffer(r.Context(), &input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

//Personal.AI order the ending
