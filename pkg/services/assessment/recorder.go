package assessment

import (
	"fmt"
	"sync"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
)

// Recorder is the append-only ledger of check outcomes. Checklist code
// never touches counters directly; every outcome flows through Record,
// and Snapshot is the only read path. The mutex keeps Record and
// Snapshot safe should the per-project loop ever be parallelized.
type Recorder struct {
	mu       sync.Mutex
	records  []domain.CheckRecord
	counters domain.RunCounters
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one outcome. Valid input never fails; a severity
// outside the closed enum or a missing section/title is a contract
// violation in the calling checklist.
func (r *Recorder) Record(sectionID, title string, severity domain.Severity, narrative, remediation string) error {
	if !severity.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSeverity, severity)
	}
	if sectionID == "" || title == "" {
		return fmt.Errorf("check record requires a section id and a title")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, domain.CheckRecord{
		SectionID:   sectionID,
		Title:       title,
		Severity:    severity,
		Narrative:   narrative,
		Remediation: remediation,
	})

	r.counters.Total++
	switch severity {
	case domain.SeverityPass:
		r.counters.Passed++
	case domain.SeverityFail:
		r.counters.Failed++
	case domain.SeverityWarning:
		r.counters.Warned++
	case domain.SeverityInfo:
		r.counters.Info++
	case domain.SeverityManual:
		r.counters.Manual++
	}
	return nil
}

// Snapshot returns a consistent point-in-time copy of the counters.
func (r *Recorder) Snapshot() domain.RunCounters {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters
}

// Records returns the ledger in insertion order. The copy keeps the
// ledger itself immutable from the caller's side.
func (r *Recorder) Records() []domain.CheckRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CheckRecord, len(r.records))
	copy(out, r.records)
	return out
}
