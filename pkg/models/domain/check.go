package domain

import "fmt"

// Severity classifies a single check outcome. The set is closed: values
// outside it are rejected at the recording boundary rather than being
// silently treated as informational.
type Severity string

const (
	SeverityPass    Severity = "pass"
	SeverityFail    Severity = "fail"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityManual  Severity = "manual"
)

func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityPass, SeverityFail, SeverityWarning, SeverityInfo, SeverityManual:
		return Severity(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
}

func (s Severity) Valid() bool {
	_, err := ParseSeverity(string(s))
	return err == nil
}

// CSSClass maps a severity to the report's fixed style class. The class
// names are an external interface: prior reports are regression-tested
// against them.
func (s Severity) CSSClass() string {
	return string(s)
}

// CheckRecord is one recorded outcome of a checklist function. Records
// are append-only and never mutated after creation.
type CheckRecord struct {
	SectionID   string
	Title       string
	Severity    Severity
	Narrative   string
	Remediation string
}

// RunCounters aggregates outcomes across a run. Info and Manual records
// count toward Total but stay out of the pass/fail arithmetic.
type RunCounters struct {
	Total  int
	Passed int
	Failed int
	Warned int
	Info   int
	Manual int
}

// SuccessPercent is passed*100/total, 0 for an empty run.
func (c RunCounters) SuccessPercent() int {
	if c.Total == 0 {
		return 0
	}
	return c.Passed * 100 / c.Total
}
