package auditlog

import (
	"context"
	"log/slog"
	"strings"
)

// LoginLogger records successful and failed login events. It is the only
// writer of the audit log; rows are never updated or removed.
type LoginLogger struct {
	repository LoginEventRepository
}

// NewLoginLogger creates a new LoginLogger
func NewLoginLogger(repository LoginEventRepository) *LoginLogger {
	return &LoginLogger{repository: repository}
}

// RecordSuccess appends a success event for the given username.
func (l *LoginLogger) RecordSuccess(ctx context.Context, username string, src *SourceInfo) (LoginEvent, error) {
	return l.record(ctx, username, src, KindSuccess)
}

// RecordFailure appends a failure event for the given username. The
// username is the raw input string; it does not have to resolve to a
// real identity.
func (l *LoginLogger) RecordFailure(ctx context.Context, username string, src *SourceInfo) (LoginEvent, error) {
	return l.record(ctx, username, src, KindFailure)
}

// CountByKind returns the number of events of the given kind.
func (l *LoginLogger) CountByKind(ctx context.Context, kind Kind) (int64, error) {
	return l.repository.CountByKind(ctx, kind)
}

// Latest returns the newest event of the given kind. The second return
// value is false when no event of that kind has been recorded.
func (l *LoginLogger) Latest(ctx context.Context, kind Kind) (LoginEvent, bool, error) {
	event, err := l.repository.LatestByKind(ctx, kind)
	if err == ErrEventNotFound {
		return LoginEvent{}, false, nil
	}
	if err != nil {
		return LoginEvent{}, false, err
	}
	return event, true, nil
}

func (l *LoginLogger) record(ctx context.Context, username string, src *SourceInfo, kind Kind) (LoginEvent, error) {
	event := extractLogInfo(username, src)
	event.Kind = kind
	return l.repository.CreateEvent(ctx, event)
}

func extractLogInfo(username string, src *SourceInfo) LoginEvent {
	event := LoginEvent{
		Username:      username,
		UsernameValid: username != "",
	}

	if src == nil {
		return event
	}

	ipAddress, proxies := src.ExtractIPAddress()
	userAgent := src.UserAgent
	if len(userAgent) > UserAgentMaxLength {
		slog.Warn("Truncating user agent to fit into field",
			"max", UserAgentMaxLength, "original", userAgent)
		userAgent = userAgent[:UserAgentMaxLength]
	}

	event.IPAddress = ipAddress
	event.Proxies = strings.Join(proxies, ",")
	event.UserAgent = userAgent
	return event
}
