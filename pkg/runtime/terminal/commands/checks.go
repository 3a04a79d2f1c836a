package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/de-tools/pci-atlas/pkg/checks"
)

// NewChecksCmd lists the built-in checklists and the permissions they probe.
func NewChecksCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the built-in compliance checklists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := checks.NewCatalog(nil)

			table := pterm.TableData{{"ID", "Checklist", "Description"}}
			for _, checklist := range catalog.All() {
				table = append(table, []string{checklist.ID, checklist.Title, checklist.Description})
			}
			if err := pterm.DefaultTable.WithWriter(out).WithHasHeader().WithData(table).Render(); err != nil {
				return err
			}

			fmt.Fprintln(out, "\nPermissions probed before a run:")
			for _, req := range catalog.Requirements("") {
				fmt.Fprintf(out, "  - %s\n", req.Name)
			}
			return nil
		},
	}
}
