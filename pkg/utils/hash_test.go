package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashIdentity(t *testing.T) {
	t.Run("Deterministic 16 char lowercase hex", func(t *testing.T) {
		h := HashIdentity("203.0.113.7")
		assert.Len(t, h, 16)
		assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), h)
		assert.Equal(t, h, HashIdentity("203.0.113.7"))
	})

	t.Run("Different inputs differ", func(t *testing.T) {
		assert.NotEqual(t, HashIdentity("203.0.113.7"), HashIdentity("203.0.113.8"))
	})

	t.Run("Output is not the input", func(t *testing.T) {
		assert.NotContains(t, HashIdentity("198.51.100.23"), "198.51")
	})
}

func TestRefererDomain(t *testing.T) {
	t.Run("Full URL", func(t *testing.T) {
		assert.Equal(t, "www.example.com", RefererDomain("https://www.example.com/path?x=1"))
	})

	t.Run("Port stripped", func(t *testing.T) {
		assert.Equal(t, "example.com", RefererDomain("http://example.com:8080/"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", RefererDomain(""))
	})

	t.Run("Unparseable", func(t *testing.T) {
		assert.Equal(t, "", RefererDomain("not-a-url"))
	})
}
