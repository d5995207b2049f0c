package authflow

import (
	"context"
	"log/slog"

	"github.com/veritaslabs/useraudit/pkg/auditlog"
)

// DefaultFlow assembles the standard stage order: identity resolution,
// active check, password expiry, account expiry, credential
// verification, success recording.
func DefaultFlow(services *ServiceDependencies) *FlowExecutor {
	return NewFlowBuilder().
		AddStep(NewIdentityResolutionStep()).
		AddStep(NewActiveCheckStep()).
		AddStep(NewPasswordExpiryStep()).
		AddStep(NewAccountExpiryStep()).
		AddStep(NewCredentialVerificationStep()).
		AddStep(NewSuccessRecordingStep()).
		Build(services)
}

// Service is the facade external callers use: one Authenticate entry
// point over the flow, plus the reactivation side channel.
type Service struct {
	executor *FlowExecutor
	services *ServiceDependencies
}

// NewService creates a Service running the default flow.
func NewService(services *ServiceDependencies) *Service {
	return &Service{
		executor: DefaultFlow(services),
		services: services,
	}
}

// NewServiceWithFlow creates a Service running a custom flow, for
// callers composing their own stage list.
func NewServiceWithFlow(executor *FlowExecutor, services *ServiceDependencies) *Service {
	return &Service{
		executor: executor,
		services: services,
	}
}

// Authenticate runs the decision chain for one login attempt. src is nil
// for programmatic calls with no request context. The returned error is
// only ever a storage failure; policy denials come back in the Decision.
func (s *Service) Authenticate(ctx context.Context, credentials Credentials, src *auditlog.SourceInfo) (Decision, error) {
	decision, err := s.executor.Execute(ctx, Request{Credentials: credentials, Source: src})
	if err != nil {
		return Decision{}, err
	}

	if decision.Denied() {
		slog.Info("Login denied",
			"username", credentials.Username,
			"stage", decision.Stage,
			"reason", decision.Reason)
	}
	return decision, nil
}

// Reactivate flips an identity back to active and clears its failure
// bookkeeping: the counter goes back to 0, the deactivation record is
// removed, and the stale last-login timestamp is cleared so account
// expiry does not immediately re-trigger.
func (s *Service) Reactivate(ctx context.Context, username string) error {
	if err := s.services.IdentityStore.SetActive(ctx, username, true); err != nil {
		return err
	}
	if err := s.services.IdentityStore.ClearLastLogin(ctx, username); err != nil {
		return err
	}
	if err := s.services.Attempts.Reset(ctx, username); err != nil {
		return err
	}
	if err := s.services.Deactivations.Clear(ctx, username); err != nil {
		return err
	}

	slog.Info("Identity reactivated", "username", username)
	return nil
}

// FailedAttemptCount returns the current consecutive-failure count for a
// username. found is false when the username has never failed a login.
func (s *Service) FailedAttemptCount(ctx context.Context, username string) (count int64, found bool, err error) {
	return s.services.Attempts.Get(ctx, username)
}
