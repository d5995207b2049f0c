// Package sweep deactivates accounts whose owners have not logged in
// within the configured account expiry window. It is the batch
// counterpart of the per-login expiry check: the login path only catches
// expired accounts when their owner shows up, the sweep catches the rest
// on a schedule.
package sweep

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/veritaslabs/useraudit/pkg/deactivation"
	"github.com/veritaslabs/useraudit/pkg/expiry"
	"github.com/veritaslabs/useraudit/pkg/identity"
	"github.com/veritaslabs/useraudit/pkg/notification"
)

// Option configures optional Service behavior.
type Option func(*Service)

// WithNotifier attaches a notification manager; each deactivated account
// gets an account-expired notice.
func WithNotifier(manager *notification.Manager) Option {
	return func(s *Service) {
		s.notifier = manager
	}
}

// WithoutNotices suppresses notices even when a manager is attached.
func WithoutNotices() Option {
	return func(s *Service) {
		s.skipNotices = true
	}
}

// Service runs the batch expiry sweep.
type Service struct {
	store         identity.Store
	deactivations *deactivation.Recorder
	evaluator     *expiry.Evaluator
	settings      expiry.SettingsProvider
	notifier      *notification.Manager
	skipNotices   bool
}

// NewService creates a sweep service over the given identity store and
// deactivation recorder.
func NewService(store identity.Store, deactivations *deactivation.Recorder, evaluator *expiry.Evaluator, settings expiry.SettingsProvider, opts ...Option) *Service {
	s := &Service{
		store:         store,
		deactivations: deactivations,
		evaluator:     evaluator,
		settings:      settings,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DisableInactiveUsers deactivates every active identity whose last
// login predates the account expiry cutoff, records the deactivation
// reason, and notifies the owner. Returns the number of accounts
// deactivated. When account expiry is disabled the sweep is a no-op.
//
// Notice delivery failures are logged by the notification manager and
// never abort the sweep; store errors do.
func (s *Service) DisableInactiveUsers(ctx context.Context) (int, error) {
	cutoff, enabled := s.evaluator.EarliestValidLogin()
	if !enabled {
		slog.Info("Account expiry is disabled, skipping sweep")
		return 0, nil
	}

	stale, err := s.store.ListExpiredActive(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, id := range stale {
		if err := s.store.SetActive(ctx, id.Username, false); err != nil {
			return count, err
		}
		if err := s.deactivations.RecordReason(ctx, id.Username, deactivation.ReasonAccountExpired); err != nil {
			return count, err
		}
		count++
		slog.Info("Deactivated expired account", "username", id.Username, "last_login", id.LastLoginAt)

		if s.notifier == nil || s.skipNotices {
			continue
		}
		data := map[string]string{
			"expiry_days": strconv.Itoa(s.settings.Current().AccountExpiryDays),
		}
		if id.LastLoginAt != nil {
			data["last_login"] = id.LastLoginAt.Format(time.RFC1123)
		}
		s.notifier.Notify(notification.AccountExpired, notification.NotificationData{
			To:       id.Email,
			Username: id.Username,
			Data:     data,
		})
	}
	return count, nil
}
