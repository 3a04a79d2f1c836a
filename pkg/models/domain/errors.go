package domain

import "errors"

var (
	// ErrNoProjectResolved means no project could be determined for a
	// project-mode run, neither from flags nor ambient configuration.
	ErrNoProjectResolved = errors.New("no project could be determined")

	// ErrOrganizationRequired means organization mode was requested
	// without an organization id.
	ErrOrganizationRequired = errors.New("organization id is required for organization scope")

	// ErrNoProjectsInScope means scope resolution yielded zero targets;
	// the orchestrator treats this as a hard stop.
	ErrNoProjectsInScope = errors.New("no projects in scope")

	// ErrPermissionAborted means the coverage decision ended the run
	// before any checklist executed.
	ErrPermissionAborted = errors.New("run aborted: permission coverage below threshold")

	ErrUnknownPolicy = errors.New("unknown degraded-coverage policy")

	// ErrInvalidSeverity rejects severities outside the closed enum.
	ErrInvalidSeverity = errors.New("invalid severity")

	// ErrUnknownSection flags a check appended to a section that was
	// never opened.
	ErrUnknownSection = errors.New("section not opened")

	// ErrReportFinalized flags writes after Finalize.
	ErrReportFinalized = errors.New("report already finalized")

	// ErrNoData marks a resource query that succeeded but returned
	// nothing usable. Checklists record it, they do not crash on it.
	ErrNoData = errors.New("no data returned")
)
