package scope

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
	"github.com/de-tools/pci-atlas/pkg/services/config"
	"github.com/de-tools/pci-atlas/pkg/services/query"
)

// Resolver turns caller-supplied scope flags into the ordered list of
// target projects for a run.
type Resolver struct {
	executor query.Executor
	registry config.Registry
}

func NewResolver(executor query.Executor, registry config.Registry) *Resolver {
	return &Resolver{
		executor: executor,
		registry: registry,
	}
}

// Resolve produces the assessment scope. In project mode the explicit
// project wins; otherwise the ambient gcloud configuration supplies one.
// In organization mode a single query lists every child project, and the
// result keeps the order the query returned. Callers must not assume the
// list is sorted.
func (r *Resolver) Resolve(ctx context.Context, req domain.ScopeRequest) (domain.AssessmentScope, error) {
	switch req.Mode {
	case domain.ScopeProject:
		return r.resolveProject(ctx, req)
	case domain.ScopeOrganization:
		return r.resolveOrganization(ctx, req)
	}
	return domain.AssessmentScope{}, fmt.Errorf("unknown scope mode %q", req.Mode)
}

func (r *Resolver) resolveProject(ctx context.Context, req domain.ScopeRequest) (domain.AssessmentScope, error) {
	project := req.ProjectID
	if project == "" {
		current, err := r.registry.CurrentProject(ctx)
		if err != nil {
			return domain.AssessmentScope{}, fmt.Errorf("%w: %v", domain.ErrNoProjectResolved, err)
		}
		project = current
		zerolog.Ctx(ctx).Debug().Str("project", project).Msg("using current project from gcloud configuration")
	}
	if project == "" {
		return domain.AssessmentScope{}, domain.ErrNoProjectResolved
	}

	return domain.AssessmentScope{
		Mode:     domain.ScopeProject,
		Projects: []string{project},
	}, nil
}

func (r *Resolver) resolveOrganization(ctx context.Context, req domain.ScopeRequest) (domain.AssessmentScope, error) {
	if req.OrganizationID == "" {
		return domain.AssessmentScope{}, domain.ErrOrganizationRequired
	}

	rows, err := r.executor.Query(ctx, query.Spec{
		Args:   []string{"projects", "list"},
		Filter: fmt.Sprintf("parent.type=organization AND parent.id=%s", req.OrganizationID),
	})
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		// A failed listing is indistinguishable from an empty
		// organization; the orchestrator treats zero projects as a
		// hard stop either way.
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("organization", req.OrganizationID).
			Msg("project listing failed")
		rows = nil
	}

	scope := domain.AssessmentScope{
		Mode:           domain.ScopeOrganization,
		OrganizationID: req.OrganizationID,
	}
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		id := row.Str("projectId")
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		scope.Projects = append(scope.Projects, id)
	}
	return scope, nil
}
