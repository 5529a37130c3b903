package useragent

import (
	"regexp"
	"strings"
)

// Classification holds the categorical tags derived from a raw User-Agent
// string. Each field is nil when the corresponding category could not be
// detected.
type Classification struct {
	Device  *string
	Browser *string
	OS      *string
}

var (
	tabletPattern = regexp.MustCompile(`tablet|ipad|playbook|silk`)
	mobilePattern = regexp.MustCompile(`mobile|iphone|ipod|android.*mobile|windows phone|blackberry`)
)

// Classify maps a raw User-Agent string to device/browser/OS tags.
// Matching is case-insensitive and deterministic. An empty input yields
// all-nil output rather than defaulting to desktop.
func Classify(raw string) Classification {
	if raw == "" {
		return Classification{}
	}

	ua := strings.ToLower(raw)

	// Tablet takes precedence over mobile: tablet UAs often contain "mobile".
	device := "desktop"
	if tabletPattern.MatchString(ua) {
		device = "tablet"
	} else if mobilePattern.MatchString(ua) {
		device = "mobile"
	}

	// First match wins. Chrome and Edge UAs also contain "safari", and Edge
	// contains "chrome", so the order matters.
	var browser *string
	switch {
	case strings.Contains(ua, "edg/"):
		browser = ptr("edge")
	case strings.Contains(ua, "chrome"):
		browser = ptr("chrome")
	case strings.Contains(ua, "safari"):
		browser = ptr("safari")
	case strings.Contains(ua, "firefox"):
		browser = ptr("firefox")
	case strings.Contains(ua, "opera"), strings.Contains(ua, "opr/"):
		browser = ptr("opera")
	case strings.Contains(ua, "msie"), strings.Contains(ua, "trident"):
		browser = ptr("ie")
	}

	// iOS before macOS: iOS user agents contain "Mac OS".
	var os *string
	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		os = ptr("ios")
	case strings.Contains(ua, "windows"):
		os = ptr("windows")
	case strings.Contains(ua, "mac os"), strings.Contains(ua, "macos"):
		os = ptr("macos")
	case strings.Contains(ua, "android"):
		os = ptr("android")
	case strings.Contains(ua, "linux"):
		os = ptr("linux")
	}

	return Classification{Device: &device, Browser: browser, OS: os}
}

func ptr(s string) *string {
	return &s
}
