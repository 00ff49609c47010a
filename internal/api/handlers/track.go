package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"route-tracking-service/internal/api/dto"
	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/services"
)

// TrackHandler exposes the live-tracking session lifecycle over HTTP.
type TrackHandler struct {
	Sessions *services.Manager
}

// Open starts (or re-attaches to) a tracking session for a share token.
// POST /track
func (h *TrackHandler) Open(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OpenTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeError(w, r, http.StatusBadRequest, "token is required")
		return
	}

	s, err := h.Sessions.Open(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrDecode) || errors.Is(err, domain.ErrValidation) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusInternalServerError, "could not open tracking session")
		return
	}

	writeJSON(w, r, http.StatusOK, statusOf(s))
}

// Status reports the current timeline and vehicle position.
// GET /track/status?token=...
func (h *TrackHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, statusOf(s))
}

// Refresh forces a route recomputation ahead of the countdown.
// POST /track/refresh?token=...
func (h *TrackHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(s *services.Session) { s.Coord.Refresh() })
}

// Pause freezes the simulated clock. POST /track/pause?token=...
func (h *TrackHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(s *services.Session) { s.Tracker.Pause() })
}

// Resume continues a paused simulation. POST /track/resume?token=...
func (h *TrackHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, func(s *services.Session) { s.Tracker.Resume() })
}

// Stop tears the session down. POST /track/stop?token=...
func (h *TrackHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writeError(w, r, http.StatusBadRequest, "token is required")
		return
	}
	if !h.Sessions.Close(token) {
		writeError(w, r, http.StatusNotFound, "no tracking session for this token")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "stopped"})
}

func (h *TrackHandler) command(w http.ResponseWriter, r *http.Request, apply func(*services.Session)) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s, ok := h.session(w, r)
	if !ok {
		return
	}
	apply(s)
	writeJSON(w, r, http.StatusOK, statusOf(s))
}

func (h *TrackHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writeError(w, r, http.StatusBadRequest, "token is required")
		return nil, false
	}

	s, ok := h.Sessions.Get(token)
	if !ok {
		writeError(w, r, http.StatusNotFound, "no tracking session for this token")
		return nil, false
	}
	return s, true
}

func statusOf(s *services.Session) dto.TrackingStatusResponse {
	snap := s.Coord.Snapshot()

	res := dto.TrackingStatusResponse{
		Token:        s.Token,
		CompanyName:  s.Config.CompanyName,
		Stops:        s.Config.Stops,
		Route:        snap.Result,
		ETAs:         snap.ETAs,
		Paused:       s.Tracker.Paused(),
		Warnings:     snap.Warnings,
		ErrorMessage: snap.ErrorMessage,
		Countdown:    services.FormatCountdown(snap.CountdownSeconds),
	}
	if pos, ok := s.Tracker.Position(); ok {
		res.Position = &pos
	}
	if !snap.UpdatedAt.IsZero() {
		t := snap.UpdatedAt
		res.UpdatedAt = &t
	}
	return res
}
