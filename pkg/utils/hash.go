package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// HashIdentity returns a truncated one-way digest of a raw client
// identifier (typically an IP address). The same input always produces the
// same 16-character lowercase hex string, so it can be used for
// unique-visitor counting without ever storing the raw identifier.
func HashIdentity(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// RefererDomain extracts the hostname from a raw Referer header.
// Returns "" when the header is absent, empty, or not a parseable URL.
func RefererDomain(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
