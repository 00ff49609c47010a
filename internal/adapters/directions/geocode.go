package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/platform/obs"
)

type geocodeResponse struct {
	Results []struct {
		Locations []struct {
			LatLng struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

// Geocode resolves a free-form address to coordinates. An address the
// provider cannot place is domain.ErrGeocodeNotFound.
func (c *Client) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "directions.Geocode")(&err)

	address = strings.Join(strings.Fields(address), " ")
	if address == "" {
		return domain.Coordinates{}, fmt.Errorf("%w: address must be non-empty", domain.ErrValidation)
	}

	if c.geoCache != nil {
		coords, found, cacheErr := c.geoCache.Get(ctx, address)
		if cacheErr != nil {
			log.Printf("geocode cache get failed: address=%q err=%v", address, cacheErr)
		} else if found {
			return coords, nil
		}
	}

	endpoint := c.baseURL + "/geocoding/v1/address"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("location", address)
		q.Set("maxResults", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Results) == 0 || len(decoded.Results[0].Locations) == 0 {
		return domain.Coordinates{}, fmt.Errorf("%w: %q", domain.ErrGeocodeNotFound, address)
	}

	loc := decoded.Results[0].Locations[0].LatLng
	coords := domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}
	if err := coords.Validate(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}

	if c.geoCache != nil {
		if cacheErr := c.geoCache.Put(ctx, address, coords); cacheErr != nil {
			log.Printf("geocode cache put failed: address=%q err=%v", address, cacheErr)
		}
	}
	return coords, nil
}
