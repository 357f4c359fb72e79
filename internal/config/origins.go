package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// NormalizeOrigin trims an origin to the scheme://host[:port] form browsers
// send in the Origin header.
func NormalizeOrigin(origin string) string {
	origin = strings.TrimSpace(origin)
	return strings.ToLower(strings.TrimRight(origin, "/"))
}

// ValidateOrigins accepts "*" on its own or a list of absolute http(s)
// origins without path, userinfo, query or fragment.
func ValidateOrigins(origins []string) error {
	if len(origins) == 0 {
		return errors.New("allowed origins is empty")
	}
	for _, o := range origins {
		if o == "*" {
			if len(origins) > 1 {
				return fmt.Errorf("invalid %s: \"*\" cannot be combined with other origins", EnvAllowedOrigins)
			}
			continue
		}
		if err := validateOrigin(NormalizeOrigin(o)); err != nil {
			return err
		}
	}
	return nil
}

func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid origin %q: absolute URL with host is required", origin)
	}
	if u.User != nil {
		return fmt.Errorf("invalid origin %q: userinfo is not allowed", origin)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid origin %q: path, query and fragment are not allowed", origin)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("invalid origin %q: http or https is required", origin)
	}
	return nil
}
