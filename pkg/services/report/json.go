package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/pci-atlas/pkg/models/api"
)

// WriteSummary exports the finalized document's summary as JSON next to
// the main artifact, so the web API can list runs without parsing the
// rendered report.
func WriteSummary(doc *Document, dir, name string) (string, error) {
	if !doc.Finalized() {
		return "", fmt.Errorf("cannot export the summary of an unfinalized report")
	}

	counters := doc.Summary.Counters
	payload := api.ReportSummary{
		Title:          doc.Title,
		Scope:          doc.ScopeText,
		GeneratedAt:    doc.GeneratedAt,
		Total:          counters.Total,
		Passed:         counters.Passed,
		Failed:         counters.Failed,
		Warned:         counters.Warned,
		Info:           counters.Info,
		Manual:         counters.Manual,
		SuccessPercent: doc.Summary.SuccessPercent,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name+".summary.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}
	return filepath.Abs(path)
}
