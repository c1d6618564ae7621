package solver

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/artifact"
)

// Sub-command names, as recorded by MockModule and journaled by the driver.
const (
	SubCompFcn              = "comp_fcn"
	SubGenPrecondJacobian   = "gen_precond_jacobian"
	SubApplyPrecondJacobian = "apply_precond_jacobian"
)

// MockCall records one sub-command invocation.
type MockCall struct {
	Sub string
	Ind int
}

// MockModule implements Module for testing. It writes real artifact
// files into the layout's directory with contents derived from its
// inputs, so tests can check the artifact chain end to end. This mock is
// exported for use by driver and CLI tests.
type MockModule struct {
	mu     sync.Mutex
	Layout artifact.Layout

	// FailSub makes the named sub-command fail, producing no artifacts.
	FailSub string
	// FailInd restricts FailSub to one iteration index (-1 means any).
	FailInd int

	calls []MockCall
}

// NewMockModule creates a MockModule writing into the given layout.
func NewMockModule(l artifact.Layout) *MockModule {
	return &MockModule{Layout: l, FailInd: -1}
}

// Calls returns the recorded invocations in order.
func (m *MockModule) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall{}, m.calls...)
}

func (m *MockModule) record(sub string, ind int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Sub: sub, Ind: ind})
	if m.FailSub == sub && (m.FailInd < 0 || m.FailInd == ind) {
		return fmt.Errorf("%s exited with code 1", sub)
	}
	return nil
}

// CompFcn writes hist and fcn artifacts derived from the input iterate.
func (m *MockModule) CompFcn(ctx context.Context, set artifact.Set) error {
	if err := m.record(SubCompFcn, set.Ind); err != nil {
		return err
	}
	in, err := os.ReadFile(m.Layout.Path(set.Iterate))
	if err != nil {
		return fmt.Errorf("comp_fcn: missing input iterate: %w", err)
	}
	if err := os.WriteFile(m.Layout.Path(set.Hist), []byte(fmt.Sprintf("hist(%s)", in)), 0o644); err != nil {
		return err
	}
	return os.WriteFile(m.Layout.Path(set.FcnEval), []byte(fmt.Sprintf("fcn(%s)", in)), 0o644)
}

// GenPrecondJacobian writes the precond artifact from iterate and hist.
func (m *MockModule) GenPrecondJacobian(ctx context.Context, set artifact.Set) error {
	if err := m.record(SubGenPrecondJacobian, set.Ind); err != nil {
		return err
	}
	hist, err := os.ReadFile(m.Layout.Path(set.Hist))
	if err != nil {
		return fmt.Errorf("gen_precond_jacobian: missing hist: %w", err)
	}
	return os.WriteFile(m.Layout.Path(set.Precond), []byte(fmt.Sprintf("precond(%s)", hist)), 0o644)
}

// ApplyPrecondJacobian writes the correction artifact from fcn and precond.
func (m *MockModule) ApplyPrecondJacobian(ctx context.Context, set artifact.Set) error {
	if err := m.record(SubApplyPrecondJacobian, set.Ind); err != nil {
		return err
	}
	fcn, err := os.ReadFile(m.Layout.Path(set.FcnEval))
	if err != nil {
		return fmt.Errorf("apply_precond_jacobian: missing fcn eval: %w", err)
	}
	if _, err := os.Stat(m.Layout.Path(set.Precond)); err != nil {
		return fmt.Errorf("apply_precond_jacobian: missing precond: %w", err)
	}
	return os.WriteFile(m.Layout.Path(set.Correction), []byte(fmt.Sprintf("w(%s)", fcn)), 0o644)
}

// MockReducer implements Reducer with a deterministic transform on the
// history contents, standing in for "select final time record".
type MockReducer struct {
	mu    sync.Mutex
	Err   error
	calls [][2]string
}

// Calls returns the recorded (hist, out) path pairs in order.
func (r *MockReducer) Calls() [][2]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][2]string{}, r.calls...)
}

// LastTimeSlice writes slice(<hist contents>) to outPath.
func (r *MockReducer) LastTimeSlice(ctx context.Context, histPath, outPath string) error {
	r.mu.Lock()
	r.calls = append(r.calls, [2]string{histPath, outPath})
	err := r.Err
	r.mu.Unlock()
	if err != nil {
		return err
	}

	hist, readErr := os.ReadFile(histPath)
	if readErr != nil {
		return fmt.Errorf("reducer: missing hist: %w", readErr)
	}
	return os.WriteFile(outPath, []byte(fmt.Sprintf("slice(%s)", hist)), 0o644)
}
