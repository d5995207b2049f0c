package notification

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/wneessen/go-mail"

	"github.com/veritaslabs/useraudit/pkg/utils"
)

// SMTPConfig holds the SMTP connection settings for the email notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	TLS      bool
	Username string
	Password string
	From     string
}

type emailTemplate struct {
	subject string
	body    string
}

var emailTemplates = map[NoticeType]emailTemplate{
	PasswordWillExpireWarning: {
		subject: "Your password will expire soon",
		body: `Dear {{.Username}},

Your password will expire in {{index .Data "days_left"}} day(s). Please
change it before then to keep access to your account.
`,
	},
	PasswordExpired: {
		subject: "Your password has expired",
		body: `Dear {{.Username}},

Your password has expired and must be changed before you can log in
again. Use the password reset form to set a new one.
`,
	},
	AccountExpired: {
		subject: "Your account has expired",
		body: `Dear {{.Username}},

Accounts that are not used for {{index .Data "expiry_days"}} days are
deactivated. The last time your user logged in was {{index .Data "last_login"}}.

If you do not need your account any more, you can disregard this
message. Otherwise, please get in contact with the site administrators
to have your account reset.
`,
	},
	LoginFailureLimitReached: {
		subject: "Your account has been blocked",
		body: `Dear {{.Username}},

Your account has been blocked after too many failed login attempts.
Please get in contact with the site administrators to have it
reactivated.
`,
	},
}

// EmailNotifier delivers notices over SMTP.
type EmailNotifier struct {
	config SMTPConfig
	client *mail.Client
}

// NewEmailNotifier creates a new EmailNotifier
func NewEmailNotifier(config SMTPConfig) (*EmailNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTimeout(30),
	}

	if config.Username != "" && config.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	if !config.TLS {
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{InsecureSkipVerify: true}),
			mail.WithTLSPolicy(mail.NoTLS),
		)
	} else {
		opts = append(opts,
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	}

	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		slog.Error("Failed to create mail client", "err", err)
		return nil, err
	}

	return &EmailNotifier{config: config, client: client}, nil
}

// Send renders the notice template and delivers it over SMTP.
func (e *EmailNotifier) Send(noticeType NoticeType, notification NotificationData) error {
	if notification.To == "" {
		return fmt.Errorf("email notification requires 'To' address")
	}

	tpl, ok := emailTemplates[noticeType]
	if !ok {
		return fmt.Errorf("no email template for notice type: %s", noticeType)
	}

	tmpl, err := template.New(string(noticeType)).Parse(tpl.body)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, notification); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(e.config.From); err != nil {
		return err
	}
	if err := msg.To(notification.To); err != nil {
		return err
	}
	msg.Subject(tpl.subject)
	msg.SetBodyString(mail.TypeTextPlain, buf.String())

	if err := e.client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Notification email sent", "type", noticeType, "to", utils.MaskEmail(notification.To))
	return nil
}
