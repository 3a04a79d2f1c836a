package reports

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de-tools/pci-atlas/pkg/models/api"
)

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".txt":  "text/plain; charset=utf-8",
	".pdf":  "application/pdf",
	".json": "application/json",
}

// Handler serves the report artifacts found in a directory.
type Handler struct {
	dir string
}

func NewHandler(dir string) *Handler {
	return &Handler{dir: dir}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		logger.Error().Err(err).Str("dir", h.dir).Msg("failed to read reports directory")
		http.Error(w, "reports directory unavailable", http.StatusInternalServerError)
		return
	}

	response := make([]api.Report, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := contentTypes[ext]; !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		response = append(response, api.Report{
			Name:       entry.Name(),
			Format:     strings.TrimPrefix(ext, "."),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	sort.Slice(response, func(i, j int) bool {
		return response[i].ModifiedAt.After(response[j].ModifiedAt)
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode reports")
	}
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	// Reject anything that could escape the reports directory.
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.Error(w, "invalid report name", http.StatusBadRequest)
		return
	}
	contentType, ok := contentTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		http.Error(w, "invalid report name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(h.dir, name)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(api.Health{Status: "ok"})
}
