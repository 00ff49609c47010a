package handlers

import (
	"errors"
	"net/http"
	"strings"

	"route-tracking-service/internal/api/dto"
	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/ports"
)

// GeocodeHandler resolves free-form addresses for the stop editor.
type GeocodeHandler struct {
	Geocoder ports.Geocoder
}

// Lookup resolves one address. GET /geocode?text=...
func (h *GeocodeHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	text := strings.TrimSpace(r.URL.Query().Get("text"))
	if text == "" {
		writeError(w, r, http.StatusBadRequest, "text is required")
		return
	}

	coords, err := h.Geocoder.Geocode(r.Context(), text)
	if err != nil {
		if errors.Is(err, domain.ErrGeocodeNotFound) {
			writeError(w, r, http.StatusNotFound, "no match for this address")
			return
		}
		writeError(w, r, http.StatusBadGateway, "geocoding is unavailable right now")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{
		Address: text,
		Lat:     coords.Lat,
		Lng:     coords.Lng,
	})
}
