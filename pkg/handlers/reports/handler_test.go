package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/pci-atlas/pkg/models/api"
)

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func requestWithName(name string) *http.Request {
	req := httptest.NewRequest("GET", "/reports/"+name, nil)
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("name", name)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func TestListReports_FiltersAndDescribesArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "pci_dss_report.html", "<html></html>")
	writeArtifact(t, dir, "pci_dss_report.pdf", "%PDF-1.4")
	writeArtifact(t, dir, "README", "not a report")

	h := NewHandler(dir)
	rec := httptest.NewRecorder()
	h.ListReports(rec, httptest.NewRequest("GET", "/reports", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var reports []api.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reports))
	require.Len(t, reports, 2)

	names := []string{reports[0].Name, reports[1].Name}
	assert.Contains(t, names, "pci_dss_report.html")
	assert.Contains(t, names, "pci_dss_report.pdf")
	for _, report := range reports {
		assert.NotZero(t, report.SizeBytes)
		assert.False(t, report.ModifiedAt.IsZero())
	}
}

func TestListReports_EmptyDirectory(t *testing.T) {
	h := NewHandler(t.TempDir())
	rec := httptest.NewRecorder()
	h.ListReports(rec, httptest.NewRequest("GET", "/reports", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetReport_ServesContent(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "report.txt", "PCI DSS Compliance Report")

	h := NewHandler(dir)
	rec := httptest.NewRecorder()
	h.GetReport(rec, requestWithName("report.txt"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "PCI DSS Compliance Report", rec.Body.String())
}

func TestGetReport_RejectsTraversal(t *testing.T) {
	h := NewHandler(t.TempDir())

	for _, name := range []string{"../secrets.html", "nested/report.html", ".hidden.html", "report.exe"} {
		rec := httptest.NewRecorder()
		h.GetReport(rec, requestWithName(name))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "name %q should be rejected", name)
	}
}

func TestGetReport_MissingFile(t *testing.T) {
	h := NewHandler(t.TempDir())
	rec := httptest.NewRecorder()
	h.GetReport(rec, requestWithName("missing.html"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
