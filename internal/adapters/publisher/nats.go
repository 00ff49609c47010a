// Package publisher streams simulated driver positions to NATS so external
// renderers can subscribe to live updates per shared route.
package publisher

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/metrics"
)

type NATSPublisher struct {
	nc      *nats.Conn
	metrics *metrics.Collector
}

// NewNATSPublisher connects to NATS. m may be nil.
func NewNATSPublisher(url string, m *metrics.Collector) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("route-tracking-service"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc, metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

type positionMessage struct {
	Timestamp             time.Time `json:"timestamp"`
	Lat                   float64   `json:"lat"`
	Lng                   float64   `json:"lng"`
	CurrentLegIndex       int       `json:"currentLegIndex"`
	ProgressInLeg         float64   `json:"progressInLeg"`
	CompletedStops        int       `json:"completedStops"`
	DistanceTraveledMiles float64   `json:"distanceTraveledMiles"`
	TimeElapsedMinutes    float64   `json:"timeElapsedMinutes"`
}

// PublishPosition emits one position update on tracking.position.<route>.
// Route tokens are long and base64-ish, so the subject uses a short digest
// instead of the raw token.
func (p *NATSPublisher) PublishPosition(routeToken string, pos domain.DriverPosition) error {
	subject := "tracking.position." + subjectToken(routeToken)

	b, err := json.Marshal(positionMessage{
		Timestamp:             time.Now(),
		Lat:                   pos.Lat,
		Lng:                   pos.Lng,
		CurrentLegIndex:       pos.CurrentLegIndex,
		ProgressInLeg:         pos.ProgressInLeg,
		CompletedStops:        pos.CompletedStops,
		DistanceTraveledMiles: pos.DistanceTraveledMiles,
		TimeElapsedMinutes:    pos.TimeElapsedMinutes,
	})
	if err != nil {
		return err
	}

	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		if err != nil {
			p.metrics.PublishErrors.Inc()
		} else {
			p.metrics.PositionsPublished.Inc()
		}
	}
	return err
}

// subjectToken derives a NATS-safe identifier from a share token.
func subjectToken(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
