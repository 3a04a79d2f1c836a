package report

import (
	"fmt"
	"time"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
)

// Section is one named group of check entries. Entries keep insertion
// order so a rebuilt report serializes identically.
type Section struct {
	ID          string
	Title       string
	Description string
	Checks      []domain.CheckRecord
}

// Summary is the trailing block attached at finalization.
type Summary struct {
	Counters       domain.RunCounters
	SuccessPercent int
}

// Document is the hierarchical report artifact: header, ordered
// sections, and a summary written exactly once. Appending to an unopened
// section or after finalization is a contract violation and fails fast.
type Document struct {
	Title       string
	ScopeText   string
	GeneratedAt time.Time
	Sections    []*Section
	Summary     *Summary

	index     map[string]*Section
	finalized bool
}

// Open starts a new document with its header written.
func Open(title, scopeText string) *Document {
	return &Document{
		Title:       title,
		ScopeText:   scopeText,
		GeneratedAt: time.Now().UTC(),
		index:       make(map[string]*Section),
	}
}

// AddSection opens a section. Sections must be opened before any check
// is appended to them.
func (d *Document) AddSection(id, title, description string) error {
	if d.finalized {
		return domain.ErrReportFinalized
	}
	if _, exists := d.index[id]; exists {
		return fmt.Errorf("section %q already opened", id)
	}
	section := &Section{ID: id, Title: title, Description: description}
	d.index[id] = section
	d.Sections = append(d.Sections, section)
	return nil
}

// AppendCheck adds a record to its section. The record is not persisted
// when the section is unknown or the document is closed.
func (d *Document) AppendCheck(rec domain.CheckRecord) error {
	if d.finalized {
		return domain.ErrReportFinalized
	}
	section, ok := d.index[rec.SectionID]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownSection, rec.SectionID)
	}
	section.Checks = append(section.Checks, rec)
	return nil
}

// Finalize computes the success percentage, attaches the summary, and
// closes the document. A second call is rejected rather than silently
// producing a duplicate trailing summary.
func (d *Document) Finalize(counters domain.RunCounters) error {
	if d.finalized {
		return domain.ErrReportFinalized
	}
	d.Summary = &Summary{
		Counters:       counters,
		SuccessPercent: counters.SuccessPercent(),
	}
	d.finalized = true
	return nil
}

// Finalized reports whether the summary has been written.
func (d *Document) Finalized() bool {
	return d.finalized
}
