package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/pci-atlas/pkg/checks"
	"github.com/de-tools/pci-atlas/pkg/models/domain"
	"github.com/de-tools/pci-atlas/pkg/runtime/terminal/prompt"
	"github.com/de-tools/pci-atlas/pkg/services/assessment"
	"github.com/de-tools/pci-atlas/pkg/services/config"
	"github.com/de-tools/pci-atlas/pkg/services/permission"
	"github.com/de-tools/pci-atlas/pkg/services/query"
	"github.com/de-tools/pci-atlas/pkg/services/report"
	"github.com/de-tools/pci-atlas/pkg/services/scope"
)

type AssessCmd struct {
	scopeMode  string
	project    string
	org        string
	format     string
	outputDir  string
	reportName string
	configFile string
	onDegraded string
	timeout    int
	verbose    bool

	in  io.Reader
	out io.Writer
}

func NewAssessCmd(in io.Reader, out io.Writer) *cobra.Command {
	ac := &AssessCmd{in: in, out: out}
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run the compliance assessment and emit a report",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.scopeMode, "scope", "project", "Assessment scope: project or organization")
	cmd.Flags().StringVar(&ac.project, "project", "", "Project to assess (default: current gcloud project)")
	cmd.Flags().StringVar(&ac.org, "org", "", "Organization whose projects are assessed")
	cmd.Flags().StringVar(&ac.format, "format", "", "Report format: html, text, or pdf")
	cmd.Flags().StringVar(&ac.outputDir, "output", "", "Directory for the report artifact")
	cmd.Flags().StringVar(&ac.reportName, "report-name", "", "Base name of the report file (without extension)")
	cmd.Flags().StringVar(&ac.configFile, "config", "", "Path to a settings file (YAML, TOML, or JSON)")
	cmd.Flags().StringVar(&ac.onDegraded, "on-degraded", "", "Policy under low permission coverage: abort, proceed, or prompt")
	cmd.Flags().IntVar(&ac.timeout, "timeout", 0, "Per-query timeout in seconds")
	cmd.Flags().BoolVarP(&ac.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func (ac *AssessCmd) settings(cmd *cobra.Command) (assessment.Settings, error) {
	settings, err := assessment.LoadSettings(ac.configFile)
	if err != nil {
		return assessment.Settings{}, err
	}

	// Flags override file values only when set explicitly.
	if cmd.Flags().Changed("format") {
		settings.Format = ac.format
	}
	if cmd.Flags().Changed("output") {
		settings.OutputDir = ac.outputDir
	}
	if cmd.Flags().Changed("report-name") {
		settings.ReportName = ac.reportName
	}
	if cmd.Flags().Changed("on-degraded") {
		settings.OnDegradedCoverage = ac.onDegraded
	}
	if cmd.Flags().Changed("timeout") {
		settings.QueryTimeoutSecs = ac.timeout
	}
	return settings, nil
}

func (ac *AssessCmd) run(cmd *cobra.Command, _ []string) error {
	settings, err := ac.settings(cmd)
	if err != nil {
		return err
	}

	mode, err := domain.ParseScopeMode(ac.scopeMode)
	if err != nil {
		return err
	}
	policy, err := domain.ParseDegradedPolicy(settings.OnDegradedCoverage)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(settings.Format)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if ac.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	executor := query.NewGCloud(query.WithTimeout(time.Duration(settings.QueryTimeoutSecs) * time.Second))

	cfgRoot, err := config.DefaultRoot()
	if err != nil {
		return fmt.Errorf("failed to locate gcloud configuration: %w", err)
	}
	registry := config.NewRegistry(cfgRoot)

	prompter := prompt.New(ac.in, ac.out)
	if policy == domain.PolicyPrompt && !prompter.IsInteractive() {
		logger.Warn().Msg("prompt policy requested without a terminal; falling back to abort")
		policy = domain.PolicyAbort
	}

	resolver := scope.NewResolver(executor, registry)
	gate := permission.NewGate(permission.Settings{Policy: policy, Prompter: prompter})
	catalog := checks.NewCatalog(executor)
	runner := assessment.NewRunner(resolver, gate)

	spinner, _ := pterm.DefaultSpinner.WithWriter(ac.out).Start("Running compliance assessment...")

	result, err := runner.Run(ctx, assessment.RunSpec{
		Title: settings.Title,
		Scope: domain.ScopeRequest{
			Mode:           mode,
			ProjectID:      ac.project,
			OrganizationID: ac.org,
		},
		Checklists:   catalog.All(),
		Requirements: catalog.Requirements(ac.project),
	})
	if err != nil {
		if spinner != nil {
			spinner.Fail("Assessment aborted")
		}
		return err
	}
	if spinner != nil {
		spinner.Success("Assessment complete")
	}

	path, err := report.WriteFile(result.Document, format, settings.OutputDir, settings.ReportName)
	if err != nil {
		return fmt.Errorf("failed to write report artifact: %w", err)
	}
	if _, err := report.WriteSummary(result.Document, settings.OutputDir, settings.ReportName); err != nil {
		return fmt.Errorf("failed to write report summary: %w", err)
	}

	ac.printSummary(result, path)
	return nil
}

func (ac *AssessCmd) printSummary(result *assessment.Result, artifactPath string) {
	counters := result.Counters

	table := pterm.TableData{
		{"Scope", result.Scope.Describe()},
		{"Total checks", fmt.Sprintf("%d", counters.Total)},
		{"Passed", pterm.FgGreen.Sprintf("%d", counters.Passed)},
		{"Failed", pterm.FgRed.Sprintf("%d", counters.Failed)},
		{"Warnings", pterm.FgYellow.Sprintf("%d", counters.Warned)},
		{"Manual verification", fmt.Sprintf("%d", counters.Manual)},
		{"Success rate", fmt.Sprintf("%d%%", counters.SuccessPercent())},
	}
	_ = pterm.DefaultTable.WithWriter(ac.out).WithData(table).Render()

	fmt.Fprintf(ac.out, "\nReport written to %s\n", filepath.Clean(artifactPath))
}
