package ports

import "route-tracking-service/internal/domain"

// Outbound boundary for streaming simulated driver positions to external
// renderers. Publishing is best-effort; tick loops log failures and keep
// going.
type PositionPublisher interface {
	PublishPosition(routeToken string, pos domain.DriverPosition) error
}
