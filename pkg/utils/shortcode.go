package utils

import (
	"crypto/rand"
	"regexp"
)

// Base62, 62^6 ≈ 56.8 billion combinations at the default length.
const Charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// CodeLength is the length of auto-generated short codes.
const CodeLength = 6

var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]$`)

// GenerateShortCode returns a random Base62 short code of CodeLength
// characters using a cryptographic source.
func GenerateShortCode() string {
	b := make([]byte, CodeLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	for i := range b {
		b[i] = Charset[int(b[i])%len(Charset)]
	}
	return string(b)
}

// IsValidShortCode reports whether s has the exact shape of an
// auto-generated code.
func IsValidShortCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z') {
			return false
		}
	}
	return true
}

// IsValidCustomAlias reports whether alias is acceptable as a user-chosen
// short code: 3-20 characters, alphanumeric plus hyphens, and no leading or
// trailing hyphen.
func IsValidCustomAlias(alias string) bool {
	if len(alias) < 3 || len(alias) > 20 {
		return false
	}
	return aliasPattern.MatchString(alias)
}
