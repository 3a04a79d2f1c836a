// Package checks holds the built-in PCI DSS requirement checklists.
// Each checklist is a thin set of predicate evaluations over resource
// attributes; everything interesting (scope, gating, aggregation,
// reporting) lives in the shared framework it records into.
package checks

import (
	"context"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
	"github.com/de-tools/pci-atlas/pkg/services/assessment"
	"github.com/de-tools/pci-atlas/pkg/services/query"
)

// Catalog binds the built-in checklists to a resource query executor.
type Catalog struct {
	executor query.Executor
}

func NewCatalog(executor query.Executor) *Catalog {
	return &Catalog{executor: executor}
}

// All returns the checklists in requirement order.
func (c *Catalog) All() []assessment.Checklist {
	return []assessment.Checklist{
		c.NetworkControls(),
		c.StoredDataProtection(),
		c.AccessControl(),
		c.LoggingControls(),
	}
}

// Requirements declares the permission set the built-in checklists need.
// Probes run once, in the primary project's context, before the project
// loop; the result is assumed representative for the whole run. With an
// empty project the probes rely on the ambient gcloud default, and the
// IAM policy probe (which needs an explicit project argument) is left
// out of the coverage computation.
func (c *Catalog) Requirements(project string) []domain.PermissionRequirement {
	probe := func(args ...string) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			return c.executor.Probe(ctx, query.Spec{Args: args, Project: project, Limit: 1})
		}
	}
	requirements := []domain.PermissionRequirement{
		{Name: "compute.firewalls.list", Probe: probe("compute", "firewall-rules", "list")},
		{Name: "compute.networks.list", Probe: probe("compute", "networks", "list")},
		{Name: "storage.buckets.list", Probe: probe("storage", "buckets", "list")},
		{Name: "compute.disks.list", Probe: probe("compute", "disks", "list")},
		{Name: "logging.sinks.list", Probe: probe("logging", "sinks", "list")},
		{Name: "iam.serviceAccounts.list", Probe: probe("iam", "service-accounts", "list")},
	}
	if project != "" {
		requirements = append(requirements, domain.PermissionRequirement{
			Name: "resourcemanager.projects.getIamPolicy",
			Probe: func(ctx context.Context) error {
				return c.executor.Probe(ctx, query.Spec{Args: []string{"projects", "get-iam-policy", project}})
			},
		})
	}
	return requirements
}

// strSlice coerces a JSON array field into strings.
func strSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// recordQueryFailure converts an unusable query result into a recorded
// outcome instead of a crash, so one unavailable resource type never
// stops the rest of the checklist.
func recordQueryFailure(rec *assessment.Recorder, sectionID, title string, err error) error {
	return rec.Record(sectionID, title, domain.SeverityWarning,
		"No information available: "+err.Error(),
		"Verify the assessment credentials can read this resource type, then rerun.")
}
