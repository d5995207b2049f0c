package authflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock step for testing the executor mechanics

type MockStep struct {
	name           string
	order          int
	skipStep       bool
	executeFunc    func(ctx context.Context, fc *FlowContext) (*StepResult, error)
	shouldSkipFunc func(ctx context.Context, fc *FlowContext) bool
}

func (m *MockStep) Name() string {
	return m.name
}

func (m *MockStep) Order() int {
	return m.order
}

func (m *MockStep) Execute(ctx context.Context, fc *FlowContext) (*StepResult, error) {
	if m.executeFunc != nil {
		return m.executeFunc(ctx, fc)
	}
	return &StepResult{Continue: true}, nil
}

func (m *MockStep) ShouldSkip(ctx context.Context, fc *FlowContext) bool {
	if m.shouldSkipFunc != nil {
		return m.shouldSkipFunc(ctx, fc)
	}
	return m.skipStep
}

func NewMockStep(name string, order int) *MockStep {
	return &MockStep{name: name, order: order}
}

func testRequest() Request {
	return Request{Credentials: Credentials{Username: "alice", Password: "secret"}}
}

func TestStepRegistry_OrdersSteps(t *testing.T) {
	registry := NewStepRegistry()
	registry.AddStep(NewMockStep("third", 300))
	registry.AddStep(NewMockStep("first", 100))
	registry.AddStep(NewMockStep("second", 200))

	steps := registry.GetOrderedSteps()

	require.Len(t, steps, 3)
	assert.Equal(t, "first", steps[0].Name())
	assert.Equal(t, "second", steps[1].Name())
	assert.Equal(t, "third", steps[2].Name())
}

func TestFlowExecutor_RunsStepsInOrder(t *testing.T) {
	var executed []string
	record := func(name string) *MockStep {
		step := NewMockStep(name, 0)
		step.executeFunc = func(ctx context.Context, fc *FlowContext) (*StepResult, error) {
			executed = append(executed, name)
			return &StepResult{Continue: true}, nil
		}
		return step
	}

	first := record("first")
	first.order = 100
	second := record("second")
	second.order = 200

	executor := NewFlowBuilder().AddStep(second).AddStep(first).Build(&ServiceDependencies{})

	decision, err := executor.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executed)
	assert.Equal(t, OutcomeInconclusive, decision.Outcome)
	assert.Equal(t, "alice", decision.Username)
}

func TestFlowExecutor_SkipsSteps(t *testing.T) {
	executed := false
	skipped := NewMockStep("skipped", 100)
	skipped.skipStep = true
	skipped.executeFunc = func(ctx context.Context, fc *FlowContext) (*StepResult, error) {
		executed = true
		return &StepResult{Continue: true}, nil
	}

	executor := NewFlowBuilder().AddStep(skipped).Build(&ServiceDependencies{})

	_, err := executor.Execute(context.Background(), testRequest())
	require.NoError(t, err)
	assert.False(t, executed)
}

func TestFlowExecutor_DenyStopsFlow(t *testing.T) {
	denying := NewMockStep("denying", 100)
	denying.executeFunc = func(ctx context.Context, fc *FlowContext) (*StepResult, error) {
		return &StepResult{Deny: &DenyError{Stage: "denying", Reason: ReasonAccountInactive}}, nil
	}

	laterRan := false
	later := NewMockStep("later", 200)
	later.executeFunc = func(ctx context.Context, fc *FlowContext) (*StepResult, error) {
		laterRan = true
		return &StepResult{Continue: true}, nil
	}

	executor := NewFlowBuilder().AddStep(denying).AddStep(later).Build(&ServiceDependencies{})

	decision, err := executor.Execute(context.Background(), testRequest())
	require.NoError(t, err)

	assert.True(t, decision.Denied())
	assert.Equal(t, "denying", decision.Stage)
	assert.Equal(t, ReasonAccountInactive, decision.Reason)
	assert.False(t, laterRan)
}

func TestFlowExecutor_EarlyReturn(t *testing.T) {
	early := NewMockStep("early", 100)
	early.executeFunc = func(ctx context.Context, fc *FlowContext) (*StepResult, error) {
		return &StepResult{EarlyReturn: true}, nil
	}

	laterRan := false
	later := NewMockStep("later", 200)
	later.executeFunc = func(ctx context.Context, fc *FlowContext) (*StepResult, error) {
		laterRan = true
		return &StepResult{Continue: true}, nil
	}

	executor := NewFlowBuilder().AddStep(early).AddStep(later).Build(&ServiceDependencies{})

	decision, err := executor.Execute(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, OutcomeInconclusive, decision.Outcome)
	assert.False(t, laterRan)
}

func TestFlowExecutor_StepDataIsCarriedForward(t *testing.T) {
	producer := NewMockStep("producer", 100)
	producer.executeFunc = func(ctx context.Context, fc *FlowContext) (*StepResult, error) {
		return &StepResult{Continue: true, Data: map[string]any{"key": "value"}}, nil
	}

	var seen any
	consumer := NewMockStep("consumer", 200)
	consumer.executeFunc = func(ctx context.Context, fc *FlowContext) (*StepResult, error) {
		seen = fc.StepData["key"]
		return &StepResult{Continue: true}, nil
	}

	executor := NewFlowBuilder().AddStep(producer).AddStep(consumer).Build(&ServiceDependencies{})

	_, err := executor.Execute(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "value", seen)
}

func TestFlowExecutor_StepErrorPropagates(t *testing.T) {
	storageErr := errors.New("connection refused")
	failing := NewMockStep("failing", 100)
	failing.executeFunc = func(ctx context.Context, fc *FlowContext) (*StepResult, error) {
		return nil, storageErr
	}

	executor := NewFlowBuilder().AddStep(failing).Build(&ServiceDependencies{})

	_, err := executor.Execute(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, storageErr)
}

func TestFlowExecutor_EmptyFlowIsInconclusive(t *testing.T) {
	executor := NewFlowBuilder().Build(&ServiceDependencies{})

	decision, err := executor.Execute(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, OutcomeInconclusive, decision.Outcome)
	assert.False(t, decision.Allowed())
	assert.False(t, decision.Denied())
}

func TestDenyError(t *testing.T) {
	deny := &DenyError{Stage: "active_check", Reason: ReasonAccountInactive}
	assert.Equal(t, "login denied (active_check): account is not active", deny.Error())

	extracted, ok := AsDeny(deny)
	require.True(t, ok)
	assert.Equal(t, "active_check", extracted.Stage)

	_, ok = AsDeny(errors.New("other"))
	assert.False(t, ok)
}
