package domain

import "fmt"

// ScopeMode selects what a run assesses: a single project or every
// project under an organization.
type ScopeMode string

const (
	ScopeProject      ScopeMode = "project"
	ScopeOrganization ScopeMode = "organization"
)

func ParseScopeMode(s string) (ScopeMode, error) {
	switch ScopeMode(s) {
	case ScopeProject, ScopeOrganization:
		return ScopeMode(s), nil
	}
	return "", fmt.Errorf("unknown scope mode %q", s)
}

// ScopeRequest carries the caller-supplied scope flags before resolution.
type ScopeRequest struct {
	Mode           ScopeMode
	ProjectID      string
	OrganizationID string
}

// AssessmentScope is the resolved target set for a run. Projects keeps
// discovery order and is immutable after resolution.
type AssessmentScope struct {
	Mode           ScopeMode
	OrganizationID string
	Projects       []string
}

// Describe renders the scope as human text for report headers.
func (s AssessmentScope) Describe() string {
	if s.Mode == ScopeOrganization {
		return fmt.Sprintf("Organization %s (%d projects)", s.OrganizationID, len(s.Projects))
	}
	if len(s.Projects) > 0 {
		return fmt.Sprintf("Project %s", s.Projects[0])
	}
	return "Project (unresolved)"
}
