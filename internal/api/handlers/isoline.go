package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"route-tracking-service/internal/adapters/isoline"
	"route-tracking-service/internal/api/dto"
	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/metrics"
	"route-tracking-service/internal/ports"
	"route-tracking-service/internal/services"
)

// IsolineHandler serves reachable-area calculations.
type IsolineHandler struct {
	Provider ports.IsolineProvider
	Metrics  *metrics.Collector
}

// Calculate computes one polygon per requested time range. POST /isolines
func (h *IsolineHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.IsolineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	polygons, err := services.CalculateIsolines(r.Context(), h.Provider, req.Origin, req.RangeMinutes, req.TransportMode, h.Metrics)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusBadGateway, isoline.UserMessage(err))
		return
	}

	writeJSON(w, r, http.StatusOK, dto.IsolineResponse{Polygons: polygons})
}
