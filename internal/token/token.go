// Package token encodes and decodes shareable route tokens. A token is the
// URL-safe base64 ('-'/'_' alphabet, padding stripped for URLs) encoding of
// a JSON RouteConfig, so a route can be shared by link without server-side
// storage.
package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"route-tracking-service/internal/domain"
)

// Encode serializes a RouteConfig into a URL-safe token.
func Encode(cfg domain.RouteConfig) (string, error) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode token: marshal config: %w", err)
	}
	return strings.TrimRight(base64.URLEncoding.EncodeToString(payload), "="), nil
}

// Decode parses a shareable token back into a RouteConfig and validates it.
// Malformed base64 or JSON yields domain.ErrDecode; a structurally valid
// config that breaks route invariants yields domain.ErrValidation. Both are
// terminal: there is no route to show.
func Decode(tok string) (domain.RouteConfig, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return domain.RouteConfig{}, fmt.Errorf("%w: empty token", domain.ErrDecode)
	}

	// Tokens may arrive with '+'/'/' if a client used standard base64;
	// normalize and re-add padding before decoding.
	tok = strings.NewReplacer("+", "-", "/", "_").Replace(tok)
	if pad := len(tok) % 4; pad != 0 {
		tok += strings.Repeat("=", 4-pad)
	}

	payload, err := base64.URLEncoding.DecodeString(tok)
	if err != nil {
		return domain.RouteConfig{}, fmt.Errorf("%w: invalid base64 token: %v", domain.ErrDecode, err)
	}

	var cfg domain.RouteConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return domain.RouteConfig{}, fmt.Errorf("%w: invalid token payload: %v", domain.ErrDecode, err)
	}

	cfg.RouteType = domain.NormalizeRouteType(string(cfg.RouteType))

	if err := ValidateConfig(cfg); err != nil {
		return domain.RouteConfig{}, err
	}

	return cfg, nil
}

// ValidateConfig enforces route invariants before any network call.
func ValidateConfig(cfg domain.RouteConfig) error {
	if len(cfg.Stops) < 2 {
		return fmt.Errorf("%w: a route needs at least 2 stops, got %d", domain.ErrValidation, len(cfg.Stops))
	}
	for i, s := range cfg.Stops {
		if err := s.Coordinates().Validate(); err != nil {
			return fmt.Errorf("stop %d: %w", i, err)
		}
	}
	return nil
}
