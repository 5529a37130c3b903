package utils

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const maxDestinationLength = 2048

var (
	ErrEmptyDestination   = errors.New("destination URL is required")
	ErrInvalidDestination = errors.New("invalid destination URL")
	ErrBlockedDestination = errors.New("destination domain is not allowed")
	ErrDestinationTooLong = fmt.Errorf("destination URL exceeds %d characters", maxDestinationLength)
)

var allowedSchemes = map[string]bool{"http": true, "https": true}

var blockedDomains = []string{
	"localhost",
	"127.0.0.1",
	"0.0.0.0",
}

var schemePrefix = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://`)

// NormalizeDestination trims whitespace, defaults to https:// when no
// protocol is given, and strips a single trailing slash.
func NormalizeDestination(raw string) string {
	normalized := strings.TrimSpace(raw)
	if !schemePrefix.MatchString(normalized) {
		normalized = "https://" + normalized
	}
	return strings.TrimSuffix(normalized, "/")
}

// ValidateDestination normalizes raw and enforces the creation-time rules
// for redirect targets: http/https only, bounded length, and a domain
// block-list that also covers subdomains. Returns the normalized URL.
func ValidateDestination(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyDestination
	}

	normalized := NormalizeDestination(raw)

	u, err := url.Parse(normalized)
	if err != nil || u.Hostname() == "" {
		return "", ErrInvalidDestination
	}
	if !allowedSchemes[u.Scheme] {
		return "", ErrInvalidDestination
	}

	host := strings.ToLower(u.Hostname())
	for _, blocked := range blockedDomains {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return "", ErrBlockedDestination
		}
	}

	if len(normalized) > maxDestinationLength {
		return "", ErrDestinationTooLong
	}

	return normalized, nil
}
