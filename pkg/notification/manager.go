package notification

import (
	"log/slog"
)

// Manager fans a notice out to every registered notifier. The decision
// chain fires and forgets: delivery errors are logged here and never
// bubble back into a login attempt.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates and returns a new Manager.
func NewManager() *Manager {
	return &Manager{}
}

// RegisterNotifier adds a notifier to the fan-out list.
func (m *Manager) RegisterNotifier(notifier Notifier) {
	m.notifiers = append(m.notifiers, notifier)
}

// Notify sends the notice to all registered notifiers. A manager with no
// notifiers is valid; notices are simply dropped.
func (m *Manager) Notify(noticeType NoticeType, notification NotificationData) {
	for _, notifier := range m.notifiers {
		if err := notifier.Send(noticeType, notification); err != nil {
			slog.Error("Failed to deliver notification",
				"type", noticeType, "username", notification.Username, "err", err)
		}
	}
}
