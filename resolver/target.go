package resolver

import (
	"errors"
	"fmt"
	"go-reconx/models"
	"net/url"
)

// ErrEmptyHost is returned when the target has no hostname.
var ErrEmptyHost = errors.New("invalid domain")

// ParseTarget normalizes the input and parses it into a TargetInfo structure.
func ParseTarget(raw string) (models.TargetInfo, error) {
	full := Normalize(raw)

	u, err := url.Parse(full)
	if err != nil {
		return models.TargetInfo{}, fmt.Errorf("parse target %q: %w", full, err)
	}

	domain := u.Hostname()
	if len(domain) == 0 {
		return models.TargetInfo{}, fmt.Errorf("parse target %q: %w", full, ErrEmptyHost)
	}

	base := url.URL{Scheme: u.Scheme, Host: u.Host}

	return models.TargetInfo{
		FullURL: full,
		BaseURL: base.String(),
		Scheme:  u.Scheme,
		Domain:  domain,
		Port:    u.Port(),
	}, nil
}
