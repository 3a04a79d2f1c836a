package assessment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
	"github.com/de-tools/pci-atlas/pkg/services/report"
)

// Checklist is one externally supplied requirement checklist. Run
// records its outcomes through the recorder; an error aborts only the
// remaining checklists for the current project.
type Checklist struct {
	ID          string
	Title       string
	Description string
	Run         func(ctx context.Context, project string, rec *Recorder) error
}

// ScopeResolver determines the target project set for a run.
type ScopeResolver interface {
	Resolve(ctx context.Context, req domain.ScopeRequest) (domain.AssessmentScope, error)
}

// PermissionGate validates the caller's effective permissions before any
// checklist executes.
type PermissionGate interface {
	Register(requirements ...domain.PermissionRequirement)
	Evaluate(ctx context.Context) (domain.PermissionReport, error)
}

const manualSectionID = "manual"

// manualGuidance lists controls no automated query can assess. These
// records are appended after every run regardless of automated results.
var manualGuidance = []struct {
	Title     string
	Narrative string
}{
	{
		Title:     "Physical access controls (Requirement 9)",
		Narrative: "Verify on site that media, consoles, and network jacks in the cardholder data environment are physically protected.",
	},
	{
		Title:     "Security policies and personnel training (Requirement 12)",
		Narrative: "Review the information security policy, incident response plan, and awareness training records with the responsible teams.",
	},
	{
		Title:     "Service provider due diligence (Requirement 12.8)",
		Narrative: "Confirm written agreements and compliance attestations exist for every third party handling account data.",
	},
}

// Runner drives an assessment end to end: resolve scope, gate on
// permissions, execute checklists per project, append manual guidance,
// and finalize the report exactly once.
type Runner struct {
	resolver ScopeResolver
	gate     PermissionGate
}

func NewRunner(resolver ScopeResolver, gate PermissionGate) *Runner {
	return &Runner{
		resolver: resolver,
		gate:     gate,
	}
}

// RunSpec describes one assessment run.
type RunSpec struct {
	Title        string
	Scope        domain.ScopeRequest
	Checklists   []Checklist
	Requirements []domain.PermissionRequirement
}

// Result carries the finalized document plus the run aggregates.
type Result struct {
	Document    *report.Document
	Scope       domain.AssessmentScope
	Permissions domain.PermissionReport
	Counters    domain.RunCounters
}

// Run executes the assessment. Failing checks are data, not errors: the
// returned error is non-nil only for structural failures (unresolvable
// scope, permission abort, report contract violations).
func (r *Runner) Run(ctx context.Context, spec RunSpec) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	scope, err := r.resolver.Resolve(ctx, spec.Scope)
	if err != nil {
		return nil, fmt.Errorf("scope resolution failed: %w", err)
	}
	if len(scope.Projects) == 0 {
		return nil, domain.ErrNoProjectsInScope
	}
	logger.Info().
		Str("mode", string(scope.Mode)).
		Strs("projects", scope.Projects).
		Msg("scope resolved")

	r.gate.Register(spec.Requirements...)
	permReport, err := r.gate.Evaluate(ctx)
	if err != nil {
		return nil, fmt.Errorf("permission evaluation failed: %w", err)
	}
	if permReport.Decision == domain.DecisionAbort {
		return nil, domain.ErrPermissionAborted
	}
	if permReport.Decision == domain.DecisionDegraded {
		logger.Warn().
			Int("denied", permReport.Denied).
			Int("total", permReport.Total).
			Msg("continuing with degraded permission coverage")
	}

	doc := report.Open(spec.Title, scope.Describe())
	for _, checklist := range spec.Checklists {
		if err := doc.AddSection(checklist.ID, checklist.Title, checklist.Description); err != nil {
			return nil, err
		}
	}
	if err := doc.AddSection(manualSectionID, "Manual Verification Required", "Controls that cannot be assessed automatically."); err != nil {
		return nil, err
	}

	recorder := NewRecorder()
	for _, project := range scope.Projects {
		projectLogger := logger.With().Str("project", project).Logger()
		projectCtx := projectLogger.WithContext(ctx)

		for _, checklist := range spec.Checklists {
			if err := checklist.Run(projectCtx, project, recorder); err != nil {
				// Isolate the failure: skip this project's remaining
				// checklists so one bad project cannot blank the
				// whole report.
				projectLogger.Error().
					Err(err).
					Str("checklist", checklist.ID).
					Msg("checklist aborted for project")
				break
			}
		}
	}

	for _, guidance := range manualGuidance {
		if err := recorder.Record(manualSectionID, guidance.Title, domain.SeverityManual, guidance.Narrative, ""); err != nil {
			return nil, err
		}
	}

	for _, rec := range recorder.Records() {
		if err := doc.AppendCheck(rec); err != nil {
			return nil, err
		}
	}

	counters := recorder.Snapshot()
	if err := doc.Finalize(counters); err != nil {
		return nil, err
	}

	logger.Info().
		Int("total", counters.Total).
		Int("passed", counters.Passed).
		Int("failed", counters.Failed).
		Int("warned", counters.Warned).
		Msg("assessment finalized")

	return &Result{
		Document:    doc,
		Scope:       scope,
		Permissions: permReport,
		Counters:    counters,
	}, nil
}
