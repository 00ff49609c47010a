// Package isoline implements the IsolineProvider port against the external
// reachable-area HTTP API, which returns flexible-polyline encoded rings.
package isoline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"route-tracking-service/internal/adapters/directions"
	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/platform/obs"
	"route-tracking-service/internal/polyline"
)

// The provider caps time ranges at two hours; anything larger is rejected
// before the network call.
const MaxRangeSeconds = 7200

type Client struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("isoline api key is empty")
	}
	if baseURL == "" {
		return nil, errors.New("isoline base URL is empty")
	}
	return &Client{
		session: &http.Client{Timeout: 15 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

type isolineRequest struct {
	Origin        string `json:"origin"`
	RangeType     string `json:"rangeType"`
	RangeValues   []int  `json:"rangeValues"`
	TransportMode string `json:"transportMode"`
}

type isolineResponse struct {
	Isolines []struct {
		Polygons []struct {
			Outer string `json:"outer"`
		} `json:"polygons"`
	} `json:"isolines"`
}

// Reachable fetches and decodes the outer ring reachable within
// rangeMinutes of the origin. The request is aborted through ctx, so a
// newer calculation genuinely cancels an in-flight one instead of merely
// ignoring its result. A malformed polyline payload aborts the whole
// calculation; no partial polygon is returned.
func (c *Client) Reachable(
	ctx context.Context,
	origin domain.Coordinates,
	rangeMinutes int,
	transportMode string,
) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "isoline.Reachable")(&err)

	if err := origin.Validate(); err != nil {
		return nil, err
	}
	seconds := rangeMinutes * 60
	if rangeMinutes <= 0 {
		return nil, fmt.Errorf("%w: time range must be positive", domain.ErrValidation)
	}
	if seconds > MaxRangeSeconds {
		return nil, fmt.Errorf("%w: time range %d minutes exceeds the 2 hour maximum", domain.ErrValidation, rangeMinutes)
	}
	if transportMode == "" {
		transportMode = "car"
	}

	payload, err := json.Marshal(isolineRequest{
		Origin:        origin.LatLng(),
		RangeType:     "time",
		RangeValues:   []int{seconds},
		TransportMode: transportMode,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal isoline request: %w", err)
	}

	endpoint := c.baseURL + "/isolines/v1/compute"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create isoline request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("isoline request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &directions.HTTPStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}

	var decoded isolineResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode isoline response: %w", err)
	}

	if len(decoded.Isolines) == 0 || len(decoded.Isolines[0].Polygons) == 0 {
		return nil, fmt.Errorf("%w: provider returned no polygons", domain.ErrDecode)
	}

	ring, err := polyline.Decode(decoded.Isolines[0].Polygons[0].Outer)
	if err != nil {
		return nil, fmt.Errorf("invalid polygon data: %w", err)
	}
	return ring, nil
}

// UserMessage maps provider failures to the distinct texts the presentation
// layer shows for rate limiting and missing configuration.
func UserMessage(err error) string {
	var he *directions.HTTPStatusError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusTooManyRequests:
			return "The isoline service is rate limited right now. Wait a moment and try again."
		case he.Code == http.StatusInternalServerError && strings.Contains(he.Body, "not configured"):
			return "The isoline service is not configured for this account."
		}
	}
	if errors.Is(err, domain.ErrDecode) {
		return "Invalid polygon data returned by the isoline service."
	}
	if errors.Is(err, domain.ErrValidation) {
		return err.Error()
	}
	return "Could not calculate the reachable area. Please try again."
}
