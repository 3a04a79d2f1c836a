package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
)

const defaultTimeout = 30 * time.Second

// Runner executes an external command and returns its stdout. Injected
// so tests never shell out.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// GCloud executes resource queries through the gcloud CLI. Credentials
// are assumed already established by the external tool; every query gets
// its own timeout so an unresponsive call cannot stall the whole run.
type GCloud struct {
	binary  string
	runner  Runner
	timeout time.Duration
}

type Option func(*GCloud)

// WithRunner injects a command runner, for tests.
func WithRunner(r Runner) Option {
	return func(g *GCloud) {
		if r != nil {
			g.runner = r
		}
	}
}

// WithTimeout sets the per-query timeout. Zero or negative keeps the
// default.
func WithTimeout(d time.Duration) Option {
	return func(g *GCloud) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func NewGCloud(opts ...Option) *GCloud {
	g := &GCloud{
		binary:  "gcloud",
		runner:  execRunner{},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GCloud) buildArgs(spec Spec) []string {
	args := append([]string{}, spec.Args...)
	if spec.Project != "" {
		args = append(args, "--project", spec.Project)
	}
	if spec.Filter != "" {
		args = append(args, "--filter", spec.Filter)
	}
	if spec.Limit > 0 {
		args = append(args, "--limit", strconv.Itoa(spec.Limit))
	}
	return append(args, "--format", "json")
}

func (g *GCloud) Query(ctx context.Context, spec Spec) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	args := g.buildArgs(spec)
	out, err := g.runner.Run(ctx, g.binary, args...)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Strs("args", args).Msg("resource query failed")
		return nil, fmt.Errorf("resource query failed: %w", err)
	}

	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, domain.ErrNoData
	}

	var rows []Row
	if err := json.Unmarshal(out, &rows); err != nil {
		// Some describe-style calls return a single object.
		var single Row
		if err2 := json.Unmarshal(out, &single); err2 == nil {
			return []Row{single}, nil
		}
		return nil, fmt.Errorf("resource query returned malformed output: %w", err)
	}
	return rows, nil
}

func (g *GCloud) Probe(ctx context.Context, spec Spec) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, err := g.runner.Run(ctx, g.binary, g.buildArgs(spec)...)
	return err
}
