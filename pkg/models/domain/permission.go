package domain

import "context"

// PermissionRequirement declares one capability a checklist needs,
// together with a probe that confirms it. Probe success is binary: the
// returned error is the only signal inspected.
type PermissionRequirement struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Decision is the permission gate's verdict for the whole run.
type Decision string

const (
	DecisionProceed  Decision = "proceed"
	DecisionDegraded Decision = "degraded"
	DecisionAbort    Decision = "abort"
)

// DegradedPolicy selects what happens when permission coverage falls
// under the threshold. The unattended default is PolicyAbort.
type DegradedPolicy string

const (
	PolicyAbort   DegradedPolicy = "abort"
	PolicyProceed DegradedPolicy = "proceed"
	PolicyPrompt  DegradedPolicy = "prompt"
)

func ParseDegradedPolicy(s string) (DegradedPolicy, error) {
	switch DegradedPolicy(s) {
	case PolicyAbort, PolicyProceed, PolicyPrompt:
		return DegradedPolicy(s), nil
	}
	return "", ErrUnknownPolicy
}

// PermissionReport is computed once per run and never revised, even if
// later probes would have changed the numbers.
type PermissionReport struct {
	Total    int
	Denied   int
	Missing  []string
	Decision Decision
}

// CoverageRatio is (total-denied)/total; an empty requirement set counts
// as full coverage.
func (r PermissionReport) CoverageRatio() float64 {
	if r.Total == 0 {
		return 1.0
	}
	return float64(r.Total-r.Denied) / float64(r.Total)
}
