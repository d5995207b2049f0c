package notification

// NoticeType identifies a policy event broadcast to notifiers.
type NoticeType string

const (
	PasswordWillExpireWarning NoticeType = "password_will_expire_warning"
	PasswordExpired           NoticeType = "password_expired"
	AccountExpired            NoticeType = "account_expired"
	LoginFailureLimitReached  NoticeType = "login_failure_limit_reached"
)

// NotificationData carries the recipient and template data of a notice.
type NotificationData struct {
	To       string            // Recipient identifier (e.g. email address)
	Username string            // The affected identity
	Data     map[string]string // Additional template data (e.g. days left)
}

// Notifier delivers a notice through one channel (email, SMS, logs).
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData) error
}
