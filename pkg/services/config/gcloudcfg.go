package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Registry exposes the ambient gcloud CLI configuration. It is the
// fallback source for the current project when no explicit project is
// supplied.
type Registry interface {
	ActiveConfiguration(ctx context.Context) (string, error)
	CurrentProject(ctx context.Context) (string, error)
}

type cfgRegistry struct {
	root string
}

// NewRegistry creates a registry over a gcloud configuration directory
// (normally $HOME/.config/gcloud).
func NewRegistry(root string) Registry {
	return &cfgRegistry{root: root}
}

// DefaultRoot returns the standard gcloud configuration directory for
// the current user.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gcloud"), nil
}

func (cr *cfgRegistry) ActiveConfiguration(_ context.Context) (string, error) {
	data, err := os.ReadFile(filepath.Join(cr.root, "active_config"))
	if err != nil {
		if os.IsNotExist(err) {
			return "default", nil
		}
		return "", err
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		name = "default"
	}
	return name, nil
}

func (cr *cfgRegistry) CurrentProject(ctx context.Context) (string, error) {
	name, err := cr.ActiveConfiguration(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(cr.root, "configurations", "config_"+name)
	cfg, err := ini.Load(path)
	if err != nil {
		return "", fmt.Errorf("failed to load gcloud configuration %q: %w", name, err)
	}

	project := cfg.Section("core").Key("project").String()
	if project == "" {
		return "", fmt.Errorf("gcloud configuration %q has no core/project set", name)
	}
	return project, nil
}
