package authflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/veritaslabs/useraudit/pkg/auditlog"
	"github.com/veritaslabs/useraudit/pkg/deactivation"
	"github.com/veritaslabs/useraudit/pkg/expiry"
	"github.com/veritaslabs/useraudit/pkg/identity"
	"github.com/veritaslabs/useraudit/pkg/loginattempt"
	"github.com/veritaslabs/useraudit/pkg/notification"
)

// Step represents a single policy stage in the authentication flow
type Step interface {
	// Name returns the unique name of this step
	Name() string

	// Order returns the execution order (lower numbers execute first)
	Order() int

	// Execute performs the step's logic
	Execute(ctx context.Context, flowContext *FlowContext) (*StepResult, error)

	// ShouldSkip determines if this step should be skipped based on current context
	ShouldSkip(ctx context.Context, flowContext *FlowContext) bool
}

// Credentials is the raw login input. Username is kept verbatim even
// when it resolves to nothing; counters and failure logs are keyed by it.
type Credentials struct {
	Username string
	Password string
}

// Request carries one login attempt through the flow.
type Request struct {
	Credentials Credentials
	// Source is nil for programmatic authentication calls.
	Source *auditlog.SourceInfo
}

// FlowContext carries state between authentication flow steps
type FlowContext struct {
	// Input data
	Request Request

	// Current state
	Decision *Decision

	// Identity is the resolved account, nil when the username is unknown.
	Identity *identity.Identity

	// Step-specific data (can be used by steps to store intermediate results)
	StepData map[string]any

	// Services (injected by the flow executor)
	Services *ServiceDependencies
}

// StepResult represents the result of executing an authentication flow step
type StepResult struct {
	// Continue indicates whether the flow should continue to the next step
	Continue bool

	// EarlyReturn indicates the flow should return immediately with the current decision
	EarlyReturn bool

	// Deny terminates the flow with a denial
	Deny *DenyError

	// Data can contain step-specific data to be stored in FlowContext.StepData
	Data map[string]any
}

// FailureLimitProvider returns the live failed-login limit. A value <= 0
// disables limit enforcement.
type FailureLimitProvider interface {
	FailureLimit() int
}

// FailureLimitFunc adapts a function to the FailureLimitProvider interface
type FailureLimitFunc func() int

func (f FailureLimitFunc) FailureLimit() int {
	return f()
}

// StaticFailureLimit is a fixed failure limit, used by tests and
// programmatic setups.
type StaticFailureLimit int

func (l StaticFailureLimit) FailureLimit() int {
	return int(l)
}

// ServiceDependencies contains all the collaborators needed by authentication flow steps
type ServiceDependencies struct {
	IdentityStore     identity.Store
	LoginLogger       *auditlog.LoginLogger
	Attempts          *loginattempt.AttemptCounter
	Deactivations     *deactivation.Recorder
	Expiry            *expiry.Evaluator
	PasswordChangedAt expiry.TimestampSource
	Notifier          *notification.Manager
	FailureLimit      FailureLimitProvider
}

// StepRegistry manages and orders authentication flow steps
type StepRegistry struct {
	steps []Step
}

// NewStepRegistry creates a new step registry
func NewStepRegistry() *StepRegistry {
	return &StepRegistry{
		steps: make([]Step, 0),
	}
}

// AddStep adds a step to the registry
func (r *StepRegistry) AddStep(step Step) *StepRegistry {
	r.steps = append(r.steps, step)
	return r
}

// GetOrderedSteps returns steps sorted by their order
func (r *StepRegistry) GetOrderedSteps() []Step {
	orderedSteps := make([]Step, len(r.steps))
	copy(orderedSteps, r.steps)

	sort.Slice(orderedSteps, func(i, j int) bool {
		return orderedSteps[i].Order() < orderedSteps[j].Order()
	})

	return orderedSteps
}

// FlowExecutor orchestrates the execution of authentication flow steps
type FlowExecutor struct {
	registry *StepRegistry
	services *ServiceDependencies
}

// NewFlowExecutor creates a new flow executor
func NewFlowExecutor(registry *StepRegistry, services *ServiceDependencies) *FlowExecutor {
	return &FlowExecutor{
		registry: registry,
		services: services,
	}
}

// Execute runs the complete authentication flow. A flow where no step
// claims the decision ends Inconclusive: the caller's next handler in the
// chain gets its chance. Storage failures abort the flow and propagate
// unmodified.
func (e *FlowExecutor) Execute(ctx context.Context, request Request) (Decision, error) {
	flowContext := &FlowContext{
		Request:  request,
		Decision: &Decision{Outcome: OutcomeInconclusive, Username: request.Credentials.Username},
		StepData: make(map[string]any),
		Services: e.services,
	}

	steps := e.registry.GetOrderedSteps()

	for _, step := range steps {
		if step.ShouldSkip(ctx, flowContext) {
			continue
		}

		stepResult, err := step.Execute(ctx, flowContext)
		if err != nil {
			return Decision{}, fmt.Errorf("step %q failed: %w", step.Name(), err)
		}

		if stepResult.Deny != nil {
			flowContext.Decision.Outcome = OutcomeDeny
			flowContext.Decision.Stage = stepResult.Deny.Stage
			flowContext.Decision.Reason = stepResult.Deny.Reason
			return *flowContext.Decision, nil
		}

		if stepResult.Data != nil {
			for key, value := range stepResult.Data {
				flowContext.StepData[key] = value
			}
		}

		if stepResult.EarlyReturn {
			return *flowContext.Decision, nil
		}

		if !stepResult.Continue {
			break
		}
	}

	return *flowContext.Decision, nil
}

// FlowBuilder provides a fluent interface for building authentication flows
type FlowBuilder struct {
	registry *StepRegistry
}

// NewFlowBuilder creates a new flow builder
func NewFlowBuilder() *FlowBuilder {
	return &FlowBuilder{
		registry: NewStepRegistry(),
	}
}

// AddStep adds a step to the flow
func (b *FlowBuilder) AddStep(step Step) *FlowBuilder {
	b.registry.AddStep(step)
	return b
}

// Build creates a flow executor with the configured steps
func (b *FlowBuilder) Build(services *ServiceDependencies) *FlowExecutor {
	return NewFlowExecutor(b.registry, services)
}

// Standard step orders. Expiry runs before credential verification: an
// expired account is denied without revealing whether the password would
// have been correct.
const (
	OrderIdentityResolution     = 100
	OrderActiveCheck            = 200
	OrderPasswordExpiry         = 300
	OrderAccountExpiry          = 400
	OrderCredentialVerification = 500
	OrderSuccessRecording       = 600
)
