package checks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
	"github.com/de-tools/pci-atlas/pkg/services/assessment"
	"github.com/de-tools/pci-atlas/pkg/services/query"
)

const sectionLogging = "req10"

// minRetentionDays is the PCI DSS audit trail retention floor: one year,
// with three months immediately available.
const minRetentionDays = 365

// LoggingControls implements PCI DSS Requirement 10: log and monitor all
// access to system components and cardholder data.
func (c *Catalog) LoggingControls() assessment.Checklist {
	return assessment.Checklist{
		ID:          sectionLogging,
		Title:       "Requirement 10: Log and Monitor All Access",
		Description: "Audit log export and retention configuration.",
		Run:         c.runLoggingControls,
	}
}

func (c *Catalog) runLoggingControls(ctx context.Context, project string, rec *assessment.Recorder) error {
	if err := c.checkLogSinks(ctx, project, rec); err != nil {
		return err
	}
	return c.checkLogRetention(ctx, project, rec)
}

func (c *Catalog) checkLogSinks(ctx context.Context, project string, rec *assessment.Recorder) error {
	title := fmt.Sprintf("[%s] Audit logs exported to a sink", project)

	rows, err := c.executor.Query(ctx, query.Spec{
		Args:    []string{"logging", "sinks", "list"},
		Project: project,
	})
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		return recordQueryFailure(rec, sectionLogging, title, err)
	}

	var sinks []string
	for _, row := range rows {
		name := row.Str("name")
		if name == "" || name == "_Required" || name == "_Default" {
			continue
		}
		sinks = append(sinks, name)
	}

	if len(sinks) == 0 {
		return rec.Record(sectionLogging, title, domain.SeverityFail,
			"No user-defined log sink exports audit logs out of the project.",
			"Create a sink routing audit logs to centralized, access-controlled storage.")
	}
	return rec.Record(sectionLogging, title, domain.SeverityPass,
		"Audit logs are exported via: "+strings.Join(sinks, ", "), "")
}

func (c *Catalog) checkLogRetention(ctx context.Context, project string, rec *assessment.Recorder) error {
	title := fmt.Sprintf("[%s] Log retention meets the one-year floor", project)

	rows, err := c.executor.Query(ctx, query.Spec{
		Args:    []string{"logging", "buckets", "list"},
		Project: project,
	})
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		return recordQueryFailure(rec, sectionLogging, title, err)
	}

	var short []string
	for _, row := range rows {
		days, ok := row["retentionDays"].(float64)
		if !ok {
			continue
		}
		if int(days) < minRetentionDays {
			short = append(short, fmt.Sprintf("%s (%d days)", row.Str("name"), int(days)))
		}
	}

	if len(short) > 0 {
		return rec.Record(sectionLogging, title, domain.SeverityWarning,
			"Log buckets retain less than a year:\n"+strings.Join(short, "\n"),
			"Raise retention to 365 days or export logs to long-term storage before they expire.")
	}
	if len(rows) == 0 {
		return rec.Record(sectionLogging, title, domain.SeverityInfo,
			"No log bucket information available for this project.", "")
	}
	return rec.Record(sectionLogging, title, domain.SeverityPass,
		fmt.Sprintf("All %d log buckets retain logs for at least a year.", len(rows)), "")
}
