package auditlog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserAgentMaxLength is the widest user-agent string the log stores.
// Longer values are truncated to this prefix.
const UserAgentMaxLength = 1000

// Kind distinguishes successful and failed login events.
type Kind string

const (
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

// LoginEvent is one append-only audit log row. Events are never mutated
// or deleted after creation.
type LoginEvent struct {
	ID            uuid.UUID
	Username      string
	UsernameValid bool
	IPAddress     string
	Proxies       string
	UserAgent     string
	Kind          Kind
	Timestamp     time.Time
}

// SourceInfo carries the request-derived fields of a login attempt. It is
// nil for programmatic authentication calls with no request context.
type SourceInfo struct {
	// PeerAddr is the direct peer address of the connection.
	PeerAddr string
	// ForwardedFor is the raw X-Forwarded-For header value, empty when
	// the header was absent.
	ForwardedFor string
	// UserAgent is the raw User-Agent header value.
	UserAgent string
}

// ExtractIPAddress returns the real client IP and the chain of proxies
// between the client and the server, nearest-to-origin first. When a
// forwarded-for header is present the first element is the client, the
// direct peer is the nearest proxy, and the remaining elements are
// reversed behind it.
func (s *SourceInfo) ExtractIPAddress() (string, []string) {
	clientIP := s.PeerAddr
	var proxies []string
	if s.ForwardedFor != "" {
		closestProxy := clientIP
		forwardedIPs := strings.Split(s.ForwardedFor, ",")
		for i := range forwardedIPs {
			forwardedIPs[i] = strings.TrimSpace(forwardedIPs[i])
		}
		clientIP = forwardedIPs[0]
		rest := forwardedIPs[1:]
		proxies = make([]string, 0, len(rest)+1)
		proxies = append(proxies, closestProxy)
		for i := len(rest) - 1; i >= 0; i-- {
			proxies = append(proxies, rest[i])
		}
	}
	return clientIP, proxies
}
