package authflow

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/veritaslabs/useraudit/pkg/deactivation"
	"github.com/veritaslabs/useraudit/pkg/identity"
	"github.com/veritaslabs/useraudit/pkg/notification"
)

// recordFailure performs the bookkeeping shared by every denial and
// failed verification: log a failure event keyed by the raw input
// username, increment the failed-attempt counter, and enforce the
// failure limit. When the limit is reached the identity (if it resolved
// to a real account) is deactivated and the deny reason is overridden
// with the distinguishable limit reason.
func recordFailure(ctx context.Context, fc *FlowContext, deny *DenyError) (*StepResult, error) {
	username := fc.Request.Credentials.Username

	if _, err := fc.Services.LoginLogger.RecordFailure(ctx, username, fc.Request.Source); err != nil {
		return nil, err
	}
	if err := fc.Services.Attempts.Increment(ctx, username); err != nil {
		return nil, err
	}

	limit := fc.Services.FailureLimit.FailureLimit()
	if limit <= 0 {
		return &StepResult{Deny: deny}, nil
	}

	count, found, err := fc.Services.Attempts.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if !found || count < int64(limit) {
		return &StepResult{Deny: deny}, nil
	}

	if fc.Identity != nil && fc.Identity.Active {
		if err := fc.Services.IdentityStore.SetActive(ctx, username, false); err != nil {
			return nil, err
		}
		slog.Warn("Username has been blocked", "username", username)
	}
	if err := fc.Services.Deactivations.RecordReason(ctx, username, deactivation.ReasonTooManyFailedLogins); err != nil {
		return nil, err
	}

	var email string
	if fc.Identity != nil {
		email = fc.Identity.Email
	}
	fc.Services.Notifier.Notify(notification.LoginFailureLimitReached, notification.NotificationData{
		To:       email,
		Username: username,
	})

	slog.Info("Login prevented: maximum failed logins reached",
		"username", username, "limit", limit)
	return &StepResult{Deny: &DenyError{Stage: deny.Stage, Reason: ReasonTooManyFailures}}, nil
}

// IdentityResolutionStep resolves the username against the identity
// store. An unknown username is not a denial here: the flow continues so
// that failure counting and logging behave identically for existing and
// nonexistent identities.
type IdentityResolutionStep struct{}

func NewIdentityResolutionStep() *IdentityResolutionStep {
	return &IdentityResolutionStep{}
}

func (s *IdentityResolutionStep) Name() string {
	return "identity_resolution"
}

func (s *IdentityResolutionStep) Order() int {
	return OrderIdentityResolution
}

func (s *IdentityResolutionStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return false
}

func (s *IdentityResolutionStep) Execute(ctx context.Context, fc *FlowContext) (*StepResult, error) {
	id, err := fc.Services.IdentityStore.FindByUsername(ctx, fc.Request.Credentials.Username)
	if errors.Is(err, identity.ErrIdentityNotFound) {
		return &StepResult{Continue: true}, nil
	}
	if err != nil {
		return nil, err
	}

	fc.Identity = &id
	return &StepResult{Continue: true}, nil
}

// ActiveCheckStep denies logins for identities that have already been
// deactivated.
type ActiveCheckStep struct{}

func NewActiveCheckStep() *ActiveCheckStep {
	return &ActiveCheckStep{}
}

func (s *ActiveCheckStep) Name() string {
	return "active_check"
}

func (s *ActiveCheckStep) Order() int {
	return OrderActiveCheck
}

func (s *ActiveCheckStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return fc.Identity == nil
}

func (s *ActiveCheckStep) Execute(ctx context.Context, fc *FlowContext) (*StepResult, error) {
	if fc.Identity.Active {
		return &StepResult{Continue: true}, nil
	}
	return recordFailure(ctx, fc, &DenyError{Stage: s.Name(), Reason: ReasonAccountInactive})
}

// PasswordExpiryStep denies logins when the identity's password is older
// than the configured expiry window, recording the reason and emitting a
// notification.
type PasswordExpiryStep struct{}

func NewPasswordExpiryStep() *PasswordExpiryStep {
	return &PasswordExpiryStep{}
}

func (s *PasswordExpiryStep) Name() string {
	return "password_expiry"
}

func (s *PasswordExpiryStep) Order() int {
	return OrderPasswordExpiry
}

func (s *PasswordExpiryStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return fc.Identity == nil
}

func (s *PasswordExpiryStep) Execute(ctx context.Context, fc *FlowContext) (*StepResult, error) {
	changedAt, err := fc.Services.PasswordChangedAt.Resolve(ctx, *fc.Identity)
	if err != nil {
		return nil, err
	}

	if !fc.Services.Expiry.IsPasswordExpired(changedAt) {
		return &StepResult{Continue: true}, nil
	}

	fc.Services.Notifier.Notify(notification.PasswordExpired, notification.NotificationData{
		To:       fc.Identity.Email,
		Username: fc.Identity.Username,
	})
	if err := fc.Services.Deactivations.RecordReason(ctx, fc.Identity.Username, deactivation.ReasonPasswordExpired); err != nil {
		return nil, err
	}
	return recordFailure(ctx, fc, &DenyError{Stage: s.Name(), Reason: ReasonPasswordExpired})
}

// AccountExpiryStep deactivates and denies identities that have not
// logged in within the configured account expiry window.
type AccountExpiryStep struct{}

func NewAccountExpiryStep() *AccountExpiryStep {
	return &AccountExpiryStep{}
}

func (s *AccountExpiryStep) Name() string {
	return "account_expiry"
}

func (s *AccountExpiryStep) Order() int {
	return OrderAccountExpiry
}

func (s *AccountExpiryStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return fc.Identity == nil
}

func (s *AccountExpiryStep) Execute(ctx context.Context, fc *FlowContext) (*StepResult, error) {
	if !fc.Services.Expiry.IsAccountExpired(fc.Identity.LastLoginAt) {
		return &StepResult{Continue: true}, nil
	}

	slog.Info("Disabling stale user account", "username", fc.Identity.Username)
	if err := fc.Services.IdentityStore.SetActive(ctx, fc.Identity.Username, false); err != nil {
		return nil, err
	}
	fc.Identity.Active = false

	fc.Services.Notifier.Notify(notification.AccountExpired, notification.NotificationData{
		To:       fc.Identity.Email,
		Username: fc.Identity.Username,
	})
	if err := fc.Services.Deactivations.RecordReason(ctx, fc.Identity.Username, deactivation.ReasonAccountExpired); err != nil {
		return nil, err
	}
	return recordFailure(ctx, fc, &DenyError{Stage: s.Name(), Reason: ReasonAccountExpired})
}

// CredentialVerificationStep asks the identity store to verify the
// supplied secret. Unknown usernames and wrong passwords are
// indistinguishable in the denial to avoid leaking account existence.
type CredentialVerificationStep struct{}

func NewCredentialVerificationStep() *CredentialVerificationStep {
	return &CredentialVerificationStep{}
}

func (s *CredentialVerificationStep) Name() string {
	return "credential_verification"
}

func (s *CredentialVerificationStep) Order() int {
	return OrderCredentialVerification
}

func (s *CredentialVerificationStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return false
}

func (s *CredentialVerificationStep) Execute(ctx context.Context, fc *FlowContext) (*StepResult, error) {
	id, err := fc.Services.IdentityStore.VerifyCredentials(ctx,
		fc.Request.Credentials.Username, fc.Request.Credentials.Password)
	if errors.Is(err, identity.ErrIdentityNotFound) || errors.Is(err, identity.ErrInvalidCredentials) {
		return recordFailure(ctx, fc, &DenyError{Stage: s.Name(), Reason: ReasonInvalidCredentials})
	}
	if err != nil {
		return nil, err
	}

	fc.Identity = &id
	return &StepResult{Continue: true}, nil
}

// SuccessRecordingStep finalizes an allowed login: success event, counter
// reset, deactivation record cleared, last login refreshed, and the
// password-will-expire warning fired when due.
type SuccessRecordingStep struct{}

func NewSuccessRecordingStep() *SuccessRecordingStep {
	return &SuccessRecordingStep{}
}

func (s *SuccessRecordingStep) Name() string {
	return "success_recording"
}

func (s *SuccessRecordingStep) Order() int {
	return OrderSuccessRecording
}

func (s *SuccessRecordingStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	return fc.Identity == nil
}

func (s *SuccessRecordingStep) Execute(ctx context.Context, fc *FlowContext) (*StepResult, error) {
	username := fc.Identity.Username

	if _, err := fc.Services.LoginLogger.RecordSuccess(ctx, username, fc.Request.Source); err != nil {
		return nil, err
	}
	if err := fc.Services.Attempts.Reset(ctx, username); err != nil {
		return nil, err
	}
	if err := fc.Services.Deactivations.Clear(ctx, username); err != nil {
		return nil, err
	}
	if err := fc.Services.IdentityStore.SetLastLoginAt(ctx, username, time.Now()); err != nil {
		return nil, err
	}

	changedAt, err := fc.Services.PasswordChangedAt.Resolve(ctx, *fc.Identity)
	if err != nil {
		return nil, err
	}
	if days, due := fc.Services.Expiry.WarningDue(changedAt); due {
		fc.Decision.DaysToPasswordExpiry = &days
		fc.Services.Notifier.Notify(notification.PasswordWillExpireWarning, notification.NotificationData{
			To:       fc.Identity.Email,
			Username: username,
			Data:     map[string]string{"days_left": strconv.Itoa(days)},
		})
	}

	fc.Decision.Outcome = OutcomeAllow
	fc.Decision.Identity = fc.Identity
	return &StepResult{Continue: true}, nil
}
