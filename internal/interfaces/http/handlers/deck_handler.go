package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/compsred/comps-engine/internal/application/comps"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
)

// DeckHandler serves the deck resource: CRUD, card addition, analysis,
// twin search, and export.
type DeckHandler struct {
	decks   comps.DeckService
	exports comps.ExportService
	twins   comps.TwinService
	logger  logging.Logger
}

// NewDeckHandler creates a DeckHandler.
func NewDeckHandler(decks comps.DeckService, exports comps.ExportService, twins comps.TwinService, logger logging.Logger) *DeckHandler {
	return &DeckHandler{decks: decks, exports: exports, twins: twins, logger: logger}
}

// Create handles POST /api/v1/decks.
func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input comps.CreateDeckInput
	if err := decodeJSON(r, &input); err != nil {
		writeAppError(w, err)
		return
	}

	view, err := h.decks.CreateDeck(r.Context(), &input)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// List handles GET /api/v1/decks.
func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	list, err := h.decks.ListDecks(r.Context(), page, pageSize)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /api/v1/decks/{deckID}.
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.decks.GetDeck(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /api/v1/decks/{deckID}.
func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.decks.DeleteDeck(r.Context(), chi.URLParam(r, "deckID")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCard handles POST /api/v1/decks/{deckID}/cards. The body is the raw
// listing object as scraped; normalization happens in the service. A
// duplicate card returns 200 with the existing card instead of 201.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := decodeJSON(r, &raw); err != nil {
		writeAppError(w, err)
		return
	}

	result, err := h.decks.AddCard(r.Context(), chi.URLParam(r, "deckID"), raw)
	if err != nil {
		writeAppError(w, err)
		return
	}

	status := http.StatusCreated
	if !result.Added {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// Analysis handles GET /api/v1/decks/{deckID}/analysis.
func (h *DeckHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.decks.Analysis(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// Twins handles GET /api/v1/decks/{deckID}/twins.
func (h *DeckHandler) Twins(w http.ResponseWriter, r *http.Request) {
	report, err := h.twins.FindTwins(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Export handles POST /api/v1/decks/{deckID}/export. The format comes from
// the "format" query parameter or JSON body field; JSON is the default.
func (h *DeckHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" && r.ContentLength > 0 {
		var body struct {
			Format string `json:"format"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeAppError(w, err)
			return
		}
		format = body.Format
	}

	result, err := h.exports.ExportDeck(r.Context(), chi.URLParam(r, "deckID"), format)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

//Personal.AI order the ending
