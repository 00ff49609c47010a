package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/platform/obs"
	"route-tracking-service/internal/ports"
)

type routeResponse struct {
	Route *struct {
		Distance float64 `json:"distance"` // miles
		Time     float64 `json:"time"`     // minutes
	} `json:"route"`
}

type rawRouteResponse struct {
	Route *struct {
		Distance float64 `json:"distance"` // miles
		// Duration with no unit tag; see normalizeRawDuration.
		Time float64 `json:"time"`
	} `json:"route"`
}

// GetRoute returns distance and duration for one leg, consulting the leg
// cache first. A primary-endpoint result with no usable distance/time falls
// back to the raw endpoint; if both come back empty the leg is reported as
// domain.ErrDirectionsUnavailable.
func (c *Client) GetRoute(
	ctx context.Context,
	from, to domain.Coordinates,
	routeType domain.RouteType,
) (_ ports.LegEstimate, err error) {
	defer obs.Time(ctx, "directions.GetRoute")(&err)

	fromKey := from.LatLng()
	toKey := to.LatLng()

	if c.legCache != nil {
		est, ok, cErr := c.legCache.Get(ctx, fromKey, toKey, routeType)
		if cErr != nil {
			log.Printf("leg cache read failed: %v", cErr)
		} else if ok {
			return est, nil
		}
	}

	est, err := c.fetchRoute(ctx, fromKey, toKey, routeType)
	if err != nil || (est.DistanceMiles == 0 && est.TimeMinutes == 0) {
		if ctx.Err() != nil {
			return ports.LegEstimate{}, ctx.Err()
		}
		if err != nil {
			log.Printf("primary route endpoint failed, trying raw: %v", err)
		}
		est, err = c.fetchRawRoute(ctx, fromKey, toKey, routeType)
		if err != nil {
			return ports.LegEstimate{}, fmt.Errorf("%w: %v", domain.ErrDirectionsUnavailable, err)
		}
	}

	if est.DistanceMiles == 0 && est.TimeMinutes == 0 {
		return ports.LegEstimate{}, fmt.Errorf("%w: provider returned no distance or time", domain.ErrDirectionsUnavailable)
	}

	if c.legCache != nil {
		if cErr := c.legCache.Put(ctx, fromKey, toKey, routeType, est); cErr != nil {
			log.Printf("leg cache write failed: %v", cErr)
		}
	}

	return est, nil
}

// fetchRoute queries the primary directions endpoint, which returns miles
// and minutes explicitly.
func (c *Client) fetchRoute(ctx context.Context, from, to string, routeType domain.RouteType) (ports.LegEstimate, error) {
	endpoint := c.baseURL + "/directions/v2/route"
	profile := providerProfile(routeType)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("from", from)
		q.Set("to", to)
		q.Set("routeType", profile)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.LegEstimate{}, fmt.Errorf("route request: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.LegEstimate{}, fmt.Errorf("decode route response: %w", err)
	}
	if decoded.Route == nil {
		return ports.LegEstimate{}, nil
	}

	return ports.LegEstimate{
		DistanceMiles: decoded.Route.Distance,
		TimeMinutes:   decoded.Route.Time,
	}, nil
}

// fetchRawRoute queries the lower-level endpoint whose duration field
// carries no unit tag.
func (c *Client) fetchRawRoute(ctx context.Context, from, to string, routeType domain.RouteType) (ports.LegEstimate, error) {
	endpoint := c.baseURL + "/directions/v2/route/raw"
	profile := providerProfile(routeType)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("from", from)
		q.Set("to", to)
		q.Set("routeType", profile)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.LegEstimate{}, fmt.Errorf("raw route request: %w", err)
	}
	defer resp.Body.Close()

	var decoded rawRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.LegEstimate{}, fmt.Errorf("decode raw route response: %w", err)
	}
	if decoded.Route == nil {
		return ports.LegEstimate{}, nil
	}

	return ports.LegEstimate{
		DistanceMiles: decoded.Route.Distance,
		TimeMinutes:   normalizeRawDuration(decoded.Route.Time),
	}, nil
}

// normalizeRawDuration converts the raw endpoint's untagged duration to
// minutes. The provider reports seconds for real-world legs; magnitudes
// above 100 are treated as seconds. Everything past this function speaks
// minutes only, so the heuristic lives in exactly one place.
func normalizeRawDuration(raw float64) float64 {
	if raw > 100 {
		return raw / 60
	}
	return raw
}

// providerProfile maps the route type to a profile the provider accepts.
// The provider has no balanced profile; balanced routes use fastest.
func providerProfile(t domain.RouteType) string {
	if t == domain.RouteBalanced {
		return string(domain.RouteFastest)
	}
	return string(t)
}
