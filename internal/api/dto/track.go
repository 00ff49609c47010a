package dto

import (
	"time"

	"route-tracking-service/internal/domain"
)

// OpenTrackingRequest starts a tracking session for a shareable route token.
type OpenTrackingRequest struct {
	Token string `json:"token"`
}

// TrackingStatusResponse is the full timeline view for one tracked route:
// the latest route result, per-stop ETAs, the simulated vehicle position
// and the refresh countdown.
type TrackingStatusResponse struct {
	Token        string                 `json:"token"`
	CompanyName  string                 `json:"companyName,omitempty"`
	Stops        []domain.Stop          `json:"stops"`
	Route        *domain.RouteResult    `json:"route,omitempty"`
	ETAs         []time.Time            `json:"etas,omitempty"`
	Position     *domain.DriverPosition `json:"position,omitempty"`
	Paused       bool                   `json:"paused"`
	Warnings     []string               `json:"warnings,omitempty"`
	ErrorMessage string                 `json:"errorMessage,omitempty"`
	Countdown    string                 `json:"countdown"`
	UpdatedAt    *time.Time             `json:"updatedAt,omitempty"`
}
