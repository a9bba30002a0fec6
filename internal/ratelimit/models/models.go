package models

import (
	"net/netip"
	"strings"
	"time"
)

// EndpointClass groups routes that share one limit.
type EndpointClass string

const (
	// ClassPublic covers unauthenticated routes, keyed by client IP.
	ClassPublic EndpointClass = "public"
	// ClassSession covers /me routes, keyed by session subject.
	ClassSession EndpointClass = "session"
)

// IsValid reports whether c is a known class.
func (c EndpointClass) IsValid() bool {
	return c == ClassPublic || c == ClassSession
}

// KeyPrefix names what a bucket is keyed by.
type KeyPrefix string

const (
	KeyPrefixIP      KeyPrefix = "ip"
	KeyPrefixSubject KeyPrefix = "subject"
)

// Key builds the bucket key. Identifier colons are escaped so a crafted
// identifier cannot land in another bucket.
func Key(prefix KeyPrefix, identifier string, class EndpointClass) string {
	return "rl:" + string(prefix) + ":" + strings.ReplaceAll(identifier, ":", "_") + ":" + string(class)
}

// Limit is the request budget for one class.
type Limit struct {
	Requests int
	Window   time.Duration
}

// RateLimitResult is the outcome of one check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, set when denied
}

// ExceededResponse is the 429 body.
type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"error_description"`
	RetryAfter int    `json:"retry_after"`
}

// MaskIP keeps the network part of an address for logs: /24 for IPv4 and
// /48 for IPv6. Unparseable input is replaced entirely.
func MaskIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	bits := 48
	if addr.Is4() || addr.Is4In6() {
		addr = addr.Unmap()
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.String()
}
