package cookies

import (
	"strings"
	"time"
)

// SameSite is the cookie SameSite policy. The zero value means the
// attribute was not reported by the browser.
type SameSite int

const (
	// SameSiteUnset means the browser did not report a policy.
	SameSiteUnset SameSite = iota
	// SameSiteStrict is SameSite=Strict.
	SameSiteStrict
	// SameSiteLax is SameSite=Lax.
	SameSiteLax
	// SameSiteNone is SameSite=None.
	SameSiteNone
)

// ParseSameSite maps a WebDriver sameSite string ("Strict", "Lax", "None")
// to a SameSite. Matching is case-insensitive; anything else is unset.
func ParseSameSite(s string) SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return SameSiteStrict
	case "lax":
		return SameSiteLax
	case "none":
		return SameSiteNone
	default:
		return SameSiteUnset
	}
}

func (s SameSite) String() string {
	switch s {
	case SameSiteStrict:
		return "Strict"
	case SameSiteLax:
		return "Lax"
	case SameSiteNone:
		return "None"
	default:
		return ""
	}
}

// Cookie represents a single browser cookie.
// IMPORTANT: Value is SENSITIVE. It MUST NEVER be logged or formatted into
// error messages.
type Cookie struct {
	// Name is the cookie name.
	Name string
	// Value is the cookie value. SENSITIVE, never log.
	Value string
	// Domain is the cookie domain, nil when not reported.
	Domain *string
	// Path is the cookie path scope, nil when not reported.
	Path *string
	// Secure is the Secure attribute, nil when not reported.
	Secure *bool
	// HTTPOnly is the HttpOnly attribute, nil when not reported.
	HTTPOnly *bool
	// SameSite is the SameSite policy.
	SameSite SameSite
	// Expires is the absolute expiry, nil for cookies without one.
	Expires *time.Time
}

// String returns a pointer to s. Handy when building cookies by hand.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }
