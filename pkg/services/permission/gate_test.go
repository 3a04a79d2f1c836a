package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
)

func okProbe(context.Context) error     { return nil }
func deniedProbe(context.Context) error { return errors.New("permission denied") }

type stubPrompter struct {
	answer bool
	err    error
	asked  bool
}

func (s *stubPrompter) ConfirmDegraded(domain.PermissionReport) (bool, error) {
	s.asked = true
	return s.answer, s.err
}

func requirements(total, denied int) []domain.PermissionRequirement {
	reqs := make([]domain.PermissionRequirement, 0, total)
	for i := 0; i < total; i++ {
		probe := okProbe
		if i < denied {
			probe = deniedProbe
		}
		reqs = append(reqs, domain.PermissionRequirement{
			Name:  string(rune('a' + i)),
			Probe: probe,
		})
	}
	return reqs
}

func TestEvaluate_NoRequirements_FullCoverage(t *testing.T) {
	g := NewGate(Settings{})

	report, err := g.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.InDelta(t, 1.0, report.CoverageRatio(), 1e-9)
	assert.Equal(t, domain.DecisionProceed, report.Decision)
}

func TestEvaluate_CoverageAboveThreshold_Proceeds(t *testing.T) {
	g := NewGate(Settings{})
	g.Register(requirements(10, 3)...)

	report, err := g.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, report.Total)
	assert.Equal(t, 3, report.Denied)
	assert.InDelta(t, 0.7, report.CoverageRatio(), 1e-9)
	assert.Equal(t, domain.DecisionProceed, report.Decision)
}

func TestEvaluate_BelowThreshold_DefaultAborts(t *testing.T) {
	g := NewGate(Settings{})
	g.Register(requirements(10, 4)...)

	report, err := g.Evaluate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.6, report.CoverageRatio(), 1e-9)
	assert.Equal(t, domain.DecisionAbort, report.Decision)
	assert.Len(t, report.Missing, 4)
}

func TestEvaluate_BelowThreshold_ProceedPolicyDegrades(t *testing.T) {
	g := NewGate(Settings{Policy: domain.PolicyProceed})
	g.Register(requirements(10, 4)...)

	report, err := g.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionDegraded, report.Decision)
}

func TestEvaluate_PromptPolicy_CallerAccepts(t *testing.T) {
	p := &stubPrompter{answer: true}
	g := NewGate(Settings{Policy: domain.PolicyPrompt, Prompter: p})
	g.Register(requirements(10, 4)...)

	report, err := g.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, p.asked)
	assert.Equal(t, domain.DecisionDegraded, report.Decision)
}

func TestEvaluate_PromptPolicy_CallerDeclines(t *testing.T) {
	p := &stubPrompter{answer: false}
	g := NewGate(Settings{Policy: domain.PolicyPrompt, Prompter: p})
	g.Register(requirements(10, 4)...)

	report, err := g.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAbort, report.Decision)
}

func TestEvaluate_PromptPolicy_NoPrompterAborts(t *testing.T) {
	g := NewGate(Settings{Policy: domain.PolicyPrompt})
	g.Register(requirements(10, 4)...)

	report, err := g.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAbort, report.Decision)
}

func TestRegister_DuplicateNamesKeepFirst(t *testing.T) {
	g := NewGate(Settings{})
	g.Register(
		domain.PermissionRequirement{Name: "compute.firewalls.list", Probe: okProbe},
		domain.PermissionRequirement{Name: "compute.firewalls.list", Probe: deniedProbe},
	)

	report, err := g.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 0, report.Denied)
}

func TestEvaluate_ProbesRunInRegistrationOrder(t *testing.T) {
	var order []string
	probe := func(name string) func(context.Context) error {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	g := NewGate(Settings{})
	g.Register(
		domain.PermissionRequirement{Name: "one", Probe: probe("one")},
		domain.PermissionRequirement{Name: "two", Probe: probe("two")},
		domain.PermissionRequirement{Name: "three", Probe: probe("three")},
	)

	_, err := g.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, order)
}
