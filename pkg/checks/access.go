package checks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
	"github.com/de-tools/pci-atlas/pkg/services/assessment"
	"github.com/de-tools/pci-atlas/pkg/services/query"
)

const sectionAccess = "req7"

// primitiveRoles grant project-wide access far beyond any documented
// business need.
var primitiveRoles = map[string]struct{}{
	"roles/owner":  {},
	"roles/editor": {},
}

// maxKeyAgeDays is the rotation window for user-managed service account
// keys (Requirement 8.3.9).
const maxKeyAgeDays = 90

// AccessControl implements PCI DSS Requirements 7 and 8: restrict access
// to system components by business need to know.
func (c *Catalog) AccessControl() assessment.Checklist {
	return assessment.Checklist{
		ID:          sectionAccess,
		Title:       "Requirement 7: Restrict Access by Business Need to Know",
		Description: "IAM policy review for over-broad grants on the assessed projects.",
		Run: func(ctx context.Context, project string, rec *assessment.Recorder) error {
			if err := c.checkPrimitiveRoles(ctx, project, rec); err != nil {
				return err
			}
			return c.checkServiceAccountKeys(ctx, project, rec)
		},
	}
}

func (c *Catalog) checkPrimitiveRoles(ctx context.Context, project string, rec *assessment.Recorder) error {
	title := fmt.Sprintf("[%s] No primitive roles granted to user accounts", project)

	rows, err := c.executor.Query(ctx, query.Spec{
		Args: []string{"projects", "get-iam-policy", project},
	})
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		return recordQueryFailure(rec, sectionAccess, title, err)
	}
	if len(rows) == 0 {
		return rec.Record(sectionAccess, title, domain.SeverityWarning,
			"The project IAM policy could not be read; access breadth is unknown.",
			"Grant the assessment credentials resourcemanager.projects.getIamPolicy and rerun.")
	}

	var grants []string
	bindings, _ := rows[0]["bindings"].([]any)
	for _, entry := range bindings {
		binding, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		role, _ := binding["role"].(string)
		if _, primitive := primitiveRoles[role]; !primitive {
			continue
		}
		for _, member := range strSlice(binding["members"]) {
			if strings.HasPrefix(member, "user:") {
				grants = append(grants, fmt.Sprintf("%s -> %s", member, role))
			}
		}
	}

	if len(grants) > 0 {
		return rec.Record(sectionAccess, title, domain.SeverityFail,
			"User accounts hold primitive roles:\n"+strings.Join(grants, "\n"),
			"Replace owner/editor grants with least-privilege predefined or custom roles.")
	}
	return rec.Record(sectionAccess, title, domain.SeverityPass,
		"No user account holds roles/owner or roles/editor.", "")
}

func (c *Catalog) checkServiceAccountKeys(ctx context.Context, project string, rec *assessment.Recorder) error {
	title := fmt.Sprintf("[%s] Service account keys rotated within %d days", project, maxKeyAgeDays)

	accounts, err := c.executor.Query(ctx, query.Spec{
		Args:    []string{"iam", "service-accounts", "list"},
		Project: project,
	})
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		return recordQueryFailure(rec, sectionAccess, title, err)
	}
	if len(accounts) == 0 {
		return rec.Record(sectionAccess, title, domain.SeverityInfo,
			"No service accounts found in the project.", "")
	}

	var stale []string
	for _, account := range accounts {
		email := account.Str("email")
		if email == "" {
			continue
		}
		keys, err := c.executor.Query(ctx, query.Spec{
			Args:    []string{"iam", "service-accounts", "keys", "list", "--iam-account", email, "--managed-by", "user"},
			Project: project,
		})
		if err != nil {
			if errors.Is(err, domain.ErrNoData) {
				continue
			}
			return recordQueryFailure(rec, sectionAccess, title, err)
		}
		for _, key := range keys {
			created, parseErr := time.Parse(time.RFC3339, key.Str("validAfterTime"))
			if parseErr != nil {
				continue
			}
			if time.Since(created) > maxKeyAgeDays*24*time.Hour {
				stale = append(stale, fmt.Sprintf("%s (key created %s)", email, created.Format("2006-01-02")))
			}
		}
	}

	if len(stale) > 0 {
		return rec.Record(sectionAccess, title, domain.SeverityFail,
			"User-managed keys exceed the rotation window:\n"+strings.Join(stale, "\n"),
			"Rotate or delete the listed keys and prefer workload identity over long-lived keys.")
	}
	return rec.Record(sectionAccess, title, domain.SeverityPass,
		fmt.Sprintf("All user-managed service account keys are younger than %d days.", maxKeyAgeDays), "")
}
