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

const sectionStorage = "req3"

// StoredDataProtection implements PCI DSS Requirement 3: protect stored
// account data.
func (c *Catalog) StoredDataProtection() assessment.Checklist {
	return assessment.Checklist{
		ID:          sectionStorage,
		Title:       "Requirement 3: Protect Stored Account Data",
		Description: "Public exposure and encryption posture of storage holding account data.",
		Run:         c.runStoredDataProtection,
	}
}

func (c *Catalog) runStoredDataProtection(ctx context.Context, project string, rec *assessment.Recorder) error {
	if err := c.checkBucketExposure(ctx, project, rec); err != nil {
		return err
	}
	return c.checkDiskEncryption(ctx, project, rec)
}

func (c *Catalog) checkBucketExposure(ctx context.Context, project string, rec *assessment.Recorder) error {
	title := fmt.Sprintf("[%s] Storage buckets block public access", project)

	rows, err := c.executor.Query(ctx, query.Spec{
		Args:    []string{"storage", "buckets", "list"},
		Project: project,
	})
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		return recordQueryFailure(rec, sectionStorage, title, err)
	}
	if len(rows) == 0 {
		return rec.Record(sectionStorage, title, domain.SeverityInfo,
			"No storage buckets found in this project.", "")
	}

	var exposed []string
	for _, row := range rows {
		prevention := row.Str("public_access_prevention")
		if prevention == "" {
			if iam := row.Child("iamConfiguration"); iam != nil {
				prevention = iam.Str("publicAccessPrevention")
			}
		}
		if prevention != "enforced" {
			exposed = append(exposed, row.Str("name"))
		}
	}

	if len(exposed) > 0 {
		return rec.Record(sectionStorage, title, domain.SeverityFail,
			"Buckets without enforced public access prevention:\n"+strings.Join(exposed, "\n"),
			"Enable public access prevention on every bucket in the cardholder data environment.")
	}
	return rec.Record(sectionStorage, title, domain.SeverityPass,
		fmt.Sprintf("All %d buckets enforce public access prevention.", len(rows)), "")
}

func (c *Catalog) checkDiskEncryption(ctx context.Context, project string, rec *assessment.Recorder) error {
	title := fmt.Sprintf("[%s] Disks use customer-managed encryption keys", project)

	rows, err := c.executor.Query(ctx, query.Spec{
		Args:    []string{"compute", "disks", "list"},
		Project: project,
	})
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		return recordQueryFailure(rec, sectionStorage, title, err)
	}
	if len(rows) == 0 {
		return rec.Record(sectionStorage, title, domain.SeverityInfo,
			"No persistent disks found in this project.", "")
	}

	var googleManaged []string
	for _, row := range rows {
		if row.Child("diskEncryptionKey") == nil {
			googleManaged = append(googleManaged, row.Str("name"))
		}
	}

	if len(googleManaged) > 0 {
		return rec.Record(sectionStorage, title, domain.SeverityWarning,
			"Disks encrypted only with Google-managed keys:\n"+strings.Join(googleManaged, "\n"),
			"Use customer-managed (CMEK) or customer-supplied keys for disks that may hold account data.")
	}
	return rec.Record(sectionStorage, title, domain.SeverityPass,
		fmt.Sprintf("All %d disks use customer-managed encryption keys.", len(rows)), "")
}
