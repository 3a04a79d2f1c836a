package checks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
	"github.com/de-tools/pci-atlas/pkg/services/assessment"
	"github.com/de-tools/pci-atlas/pkg/services/query"
)

func iamPolicy(bindings ...map[string]any) []query.Row {
	entries := make([]any, len(bindings))
	for i, b := range bindings {
		entries[i] = b
	}
	return []query.Row{{"bindings": entries}}
}

func noServiceAccounts(ex *mockExecutor) {
	ex.On("Query", mock.Anything, specFor("iam", "service-accounts")).Return(nil, domain.ErrNoData)
}

func TestAccessControl_PrimitiveRoleOnUserFails(t *testing.T) {
	ex := new(mockExecutor)
	noServiceAccounts(ex)
	ex.On("Query", mock.Anything, specFor("projects", "get-iam-policy")).Return(iamPolicy(
		map[string]any{"role": "roles/owner", "members": []any{"user:alice@example.com", "serviceAccount:ci@acme-1.iam.gserviceaccount.com"}},
		map[string]any{"role": "roles/viewer", "members": []any{"user:bob@example.com"}},
	), nil)

	rec := assessment.NewRecorder()
	require.NoError(t, NewCatalog(ex).AccessControl().Run(context.Background(), "acme-1", rec))

	record := findRecord(t, rec, "primitive roles")
	assert.Equal(t, domain.SeverityFail, record.Severity)
	assert.Contains(t, record.Narrative, "user:alice@example.com -> roles/owner")
	assert.NotContains(t, record.Narrative, "serviceAccount:ci")
	assert.NotContains(t, record.Narrative, "bob@example.com")
}

func TestAccessControl_LeastPrivilegePasses(t *testing.T) {
	ex := new(mockExecutor)
	noServiceAccounts(ex)
	ex.On("Query", mock.Anything, specFor("projects", "get-iam-policy")).Return(iamPolicy(
		map[string]any{"role": "roles/viewer", "members": []any{"user:bob@example.com"}},
		map[string]any{"role": "roles/editor", "members": []any{"serviceAccount:deploy@acme-1.iam.gserviceaccount.com"}},
	), nil)

	rec := assessment.NewRecorder()
	require.NoError(t, NewCatalog(ex).AccessControl().Run(context.Background(), "acme-1", rec))

	record := findRecord(t, rec, "primitive roles")
	assert.Equal(t, domain.SeverityPass, record.Severity)
}

func TestAccessControl_UnreadablePolicyWarns(t *testing.T) {
	ex := new(mockExecutor)
	noServiceAccounts(ex)
	ex.On("Query", mock.Anything, specFor("projects", "get-iam-policy")).Return(nil, domain.ErrNoData)

	rec := assessment.NewRecorder()
	require.NoError(t, NewCatalog(ex).AccessControl().Run(context.Background(), "acme-1", rec))

	record := findRecord(t, rec, "primitive roles")
	assert.Equal(t, domain.SeverityWarning, record.Severity)
	assert.NotEmpty(t, record.Remediation)
}

func cleanIAMPolicy(ex *mockExecutor) {
	ex.On("Query", mock.Anything, specFor("projects", "get-iam-policy")).Return(iamPolicy(
		map[string]any{"role": "roles/viewer", "members": []any{"user:bob@example.com"}},
	), nil)
}

func serviceAccountKeys() any {
	return mock.MatchedBy(func(s query.Spec) bool {
		return len(s.Args) >= 3 && s.Args[0] == "iam" && s.Args[2] == "keys"
	})
}

func TestAccessControl_StaleServiceAccountKeyFails(t *testing.T) {
	ex := new(mockExecutor)
	cleanIAMPolicy(ex)
	ex.On("Query", mock.Anything, serviceAccountKeys()).Return([]query.Row{
		{"name": "key-1", "validAfterTime": "2020-01-01T00:00:00Z"},
	}, nil)
	ex.On("Query", mock.Anything, specFor("iam", "service-accounts")).Return([]query.Row{
		{"email": "ci@acme-1.iam.gserviceaccount.com"},
	}, nil)

	rec := assessment.NewRecorder()
	require.NoError(t, NewCatalog(ex).AccessControl().Run(context.Background(), "acme-1", rec))

	keys := findRecord(t, rec, "Service account keys")
	assert.Equal(t, domain.SeverityFail, keys.Severity)
	assert.Contains(t, keys.Narrative, "ci@acme-1.iam.gserviceaccount.com")
	assert.Contains(t, keys.Narrative, "2020-01-01")
}

func TestAccessControl_FreshServiceAccountKeysPass(t *testing.T) {
	ex := new(mockExecutor)
	cleanIAMPolicy(ex)
	ex.On("Query", mock.Anything, serviceAccountKeys()).Return([]query.Row{
		{"name": "key-1", "validAfterTime": time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)},
	}, nil)
	ex.On("Query", mock.Anything, specFor("iam", "service-accounts")).Return([]query.Row{
		{"email": "deploy@acme-1.iam.gserviceaccount.com"},
	}, nil)

	rec := assessment.NewRecorder()
	require.NoError(t, NewCatalog(ex).AccessControl().Run(context.Background(), "acme-1", rec))

	keys := findRecord(t, rec, "Service account keys")
	assert.Equal(t, domain.SeverityPass, keys.Severity)
}

func TestStoredDataProtection_PublicBucketFails(t *testing.T) {
	ex := new(mockExecutor)
	ex.On("Query", mock.Anything, specFor("storage", "buckets")).Return([]query.Row{
		{"name": "acme-data", "iamConfiguration": map[string]any{"publicAccessPrevention": "inherited"}},
		{"name": "acme-logs", "iamConfiguration": map[string]any{"publicAccessPrevention": "enforced"}},
	}, nil)
	ex.On("Query", mock.Anything, specFor("compute", "disks")).Return(nil, domain.ErrNoData)

	rec := assessment.NewRecorder()
	require.NoError(t, NewCatalog(ex).StoredDataProtection().Run(context.Background(), "acme-1", rec))

	buckets := findRecord(t, rec, "public access")
	assert.Equal(t, domain.SeverityFail, buckets.Severity)
	assert.Contains(t, buckets.Narrative, "acme-data")
	assert.NotContains(t, buckets.Narrative, "acme-logs")

	disks := findRecord(t, rec, "customer-managed encryption")
	assert.Equal(t, domain.SeverityInfo, disks.Severity)
}

func TestLoggingControls_NoSinkFailsShortRetentionWarns(t *testing.T) {
	ex := new(mockExecutor)
	ex.On("Query", mock.Anything, specFor("logging", "sinks")).Return([]query.Row{
		{"name": "_Required"},
		{"name": "_Default"},
	}, nil)
	ex.On("Query", mock.Anything, specFor("logging", "buckets")).Return([]query.Row{
		{"name": "_Default", "retentionDays": float64(30)},
	}, nil)

	rec := assessment.NewRecorder()
	require.NoError(t, NewCatalog(ex).LoggingControls().Run(context.Background(), "acme-1", rec))

	sinks := findRecord(t, rec, "exported to a sink")
	assert.Equal(t, domain.SeverityFail, sinks.Severity)

	retention := findRecord(t, rec, "one-year floor")
	assert.Equal(t, domain.SeverityWarning, retention.Severity)
	assert.Contains(t, retention.Narrative, "30 days")
}

func TestLoggingControls_HealthyConfigurationPasses(t *testing.T) {
	ex := new(mockExecutor)
	ex.On("Query", mock.Anything, specFor("logging", "sinks")).Return([]query.Row{
		{"name": "audit-export"},
	}, nil)
	ex.On("Query", mock.Anything, specFor("logging", "buckets")).Return([]query.Row{
		{"name": "_Default", "retentionDays": float64(400)},
	}, nil)

	rec := assessment.NewRecorder()
	require.NoError(t, NewCatalog(ex).LoggingControls().Run(context.Background(), "acme-1", rec))

	sinks := findRecord(t, rec, "exported to a sink")
	assert.Equal(t, domain.SeverityPass, sinks.Severity)
	assert.Contains(t, sinks.Narrative, "audit-export")

	retention := findRecord(t, rec, "one-year floor")
	assert.Equal(t, domain.SeverityPass, retention.Severity)
}
