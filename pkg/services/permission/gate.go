package permission

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
)

// CoverageThreshold is the percentage of confirmed permissions under
// which the degraded-coverage policy takes over.
const CoverageThreshold = 70

// Prompter asks a human whether a degraded run should continue. Only
// consulted under PolicyPrompt.
type Prompter interface {
	ConfirmDegraded(report domain.PermissionReport) (bool, error)
}

// Gate probes the permission set a run needs and turns the result into a
// single continue/abort decision. Probing happens once, before the
// project loop, in the scope's primary project context; the outcome is
// assumed representative for the whole run.
type Gate struct {
	requirements []domain.PermissionRequirement
	names        map[string]struct{}
	policy       domain.DegradedPolicy
	prompter     Prompter
}

type Settings struct {
	Policy   domain.DegradedPolicy
	Prompter Prompter
}

func NewGate(settings Settings) *Gate {
	policy := settings.Policy
	if policy == "" {
		policy = domain.PolicyAbort
	}
	return &Gate{
		names:    make(map[string]struct{}),
		policy:   policy,
		prompter: settings.Prompter,
	}
}

// Register adds requirements to the gate. Names are unique within a run;
// a duplicate keeps the first registration.
func (g *Gate) Register(requirements ...domain.PermissionRequirement) {
	for _, req := range requirements {
		if _, dup := g.names[req.Name]; dup {
			continue
		}
		g.names[req.Name] = struct{}{}
		g.requirements = append(g.requirements, req)
	}
}

// Evaluate runs every registered probe in registration order and computes
// the coverage decision. Individual probe failures are recorded, never
// fatal; only the aggregate decision can abort the run. The report is
// computed once and never revised.
func (g *Gate) Evaluate(ctx context.Context) (domain.PermissionReport, error) {
	logger := zerolog.Ctx(ctx)

	report := domain.PermissionReport{Total: len(g.requirements)}
	for _, req := range g.requirements {
		if err := req.Probe(ctx); err != nil {
			logger.Warn().Str("permission", req.Name).Err(err).Msg("permission probe denied")
			report.Denied++
			report.Missing = append(report.Missing, req.Name)
		}
	}

	coverage := int(report.CoverageRatio() * 100)
	if coverage >= CoverageThreshold {
		report.Decision = domain.DecisionProceed
		return report, nil
	}

	logger.Warn().
		Int("coverage_percent", coverage).
		Strs("missing", report.Missing).
		Msg("permission coverage below threshold")

	switch g.policy {
	case domain.PolicyProceed:
		report.Decision = domain.DecisionDegraded
	case domain.PolicyPrompt:
		if g.prompter == nil {
			report.Decision = domain.DecisionAbort
			break
		}
		proceed, err := g.prompter.ConfirmDegraded(report)
		if err != nil || !proceed {
			report.Decision = domain.DecisionAbort
		} else {
			report.Decision = domain.DecisionDegraded
		}
	default:
		report.Decision = domain.DecisionAbort
	}
	return report, nil
}
