package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
)

// Prompter asks the operator whether a degraded run should continue.
// Anything but an explicit yes declines, and a non-terminal input
// stream declines without blocking.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// IsInteractive checks if the input is a terminal.
func (p *Prompter) IsInteractive() bool {
	f, ok := p.in.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (p *Prompter) ConfirmDegraded(report domain.PermissionReport) (bool, error) {
	coverage := int(report.CoverageRatio() * 100)
	fmt.Fprintf(p.out, "Permission coverage is %d%% (%d of %d confirmed).\n",
		coverage, report.Total-report.Denied, report.Total)
	if len(report.Missing) > 0 {
		fmt.Fprintf(p.out, "Missing: %s\n", strings.Join(report.Missing, ", "))
	}
	fmt.Fprint(p.out, "Continue with degraded coverage? [y/N]: ")

	scanner := bufio.NewScanner(p.in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}
