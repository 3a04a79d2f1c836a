package checks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
	"github.com/de-tools/pci-atlas/pkg/services/assessment"
	"github.com/de-tools/pci-atlas/pkg/services/query"
)

const sectionNetwork = "req1"

// adminPorts are the remote-administration ports a firewall rule must
// never expose to the open internet. Kept as an ordered slice so the
// recorded narrative is identical for identical rule sets.
var adminPorts = []struct {
	Port    string
	Service string
}{
	{"22", "SSH"},
	{"3389", "RDP"},
}

func allAdminPorts() []string {
	out := make([]string, len(adminPorts))
	for i, ap := range adminPorts {
		out[i] = ap.Service + " port " + ap.Port
	}
	return out
}

func adminPortLabel(port string) string {
	for _, ap := range adminPorts {
		if ap.Port == port {
			return ap.Service + " port " + ap.Port
		}
	}
	return ""
}

// NetworkControls implements PCI DSS Requirement 1: install and maintain
// network security controls.
func (c *Catalog) NetworkControls() assessment.Checklist {
	return assessment.Checklist{
		ID:          sectionNetwork,
		Title:       "Requirement 1: Network Security Controls",
		Description: "Firewall rules and network topology of the cardholder data environment.",
		Run:         c.runNetworkControls,
	}
}

func (c *Catalog) runNetworkControls(ctx context.Context, project string, rec *assessment.Recorder) error {
	if err := c.checkOpenFirewallRules(ctx, project, rec); err != nil {
		return err
	}
	return c.checkDefaultNetwork(ctx, project, rec)
}

func (c *Catalog) checkOpenFirewallRules(ctx context.Context, project string, rec *assessment.Recorder) error {
	title := fmt.Sprintf("[%s] Firewall rules exposing administrative ports", project)

	rows, err := c.executor.Query(ctx, query.Spec{
		Args:    []string{"compute", "firewall-rules", "list"},
		Project: project,
		Filter:  "disabled=false AND direction=INGRESS",
	})
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		return recordQueryFailure(rec, sectionNetwork, title, err)
	}

	var offenders []string
	for _, row := range rows {
		if !openToWorld(row) {
			continue
		}
		for _, exposed := range exposedAdminPorts(row) {
			offenders = append(offenders, fmt.Sprintf("%s (%s)", row.Str("name"), exposed))
		}
	}

	if len(offenders) > 0 {
		return rec.Record(sectionNetwork, title, domain.SeverityFail,
			"Rules allow 0.0.0.0/0 on administrative ports:\n"+strings.Join(offenders, "\n"),
			"Restrict source ranges to trusted networks or require IAP for administrative access.")
	}
	return rec.Record(sectionNetwork, title, domain.SeverityPass,
		"No enabled ingress rule allows 0.0.0.0/0 on SSH or RDP.", "")
}

func (c *Catalog) checkDefaultNetwork(ctx context.Context, project string, rec *assessment.Recorder) error {
	title := fmt.Sprintf("[%s] Default VPC network present", project)

	rows, err := c.executor.Query(ctx, query.Spec{
		Args:    []string{"compute", "networks", "list"},
		Project: project,
		Filter:  "name=default",
	})
	if err != nil && !errors.Is(err, domain.ErrNoData) {
		return recordQueryFailure(rec, sectionNetwork, title, err)
	}

	if len(rows) > 0 {
		return rec.Record(sectionNetwork, title, domain.SeverityWarning,
			"The auto-created default network exists. Its permissive baseline rules rarely match a documented ruleset.",
			"Replace the default network with purpose-built VPCs and documented firewall rules.")
	}
	return rec.Record(sectionNetwork, title, domain.SeverityPass,
		"No default network found; networks appear purpose-built.", "")
}

func openToWorld(row query.Row) bool {
	for _, source := range strSlice(row["sourceRanges"]) {
		if source == "0.0.0.0/0" || source == "::/0" {
			return true
		}
	}
	return false
}

func exposedAdminPorts(row query.Row) []string {
	var exposed []string
	allowed, ok := row["allowed"].([]any)
	if !ok {
		return nil
	}
	for _, entry := range allowed {
		rule, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		proto, _ := rule["IPProtocol"].(string)
		if proto == "all" {
			exposed = append(exposed, allAdminPorts()...)
			continue
		}
		if proto != "tcp" {
			continue
		}
		ports := strSlice(rule["ports"])
		if len(ports) == 0 {
			// A tcp rule without ports allows every port.
			exposed = append(exposed, allAdminPorts()...)
			continue
		}
		for _, port := range ports {
			if label := adminPortLabel(port); label != "" {
				exposed = append(exposed, label)
			}
			if covered := rangeCoversAdminPort(port); covered != "" {
				exposed = append(exposed, covered)
			}
		}
	}
	return exposed
}

// rangeCoversAdminPort handles "low-high" port range entries.
func rangeCoversAdminPort(port string) string {
	low, high, found := strings.Cut(port, "-")
	if !found {
		return ""
	}
	var lo, hi int
	if _, err := fmt.Sscanf(low, "%d", &lo); err != nil {
		return ""
	}
	if _, err := fmt.Sscanf(high, "%d", &hi); err != nil {
		return ""
	}
	for _, ap := range adminPorts {
		var p int
		fmt.Sscanf(ap.Port, "%d", &p)
		if p >= lo && p <= hi {
			return ap.Service + " port " + ap.Port
		}
	}
	return ""
}
