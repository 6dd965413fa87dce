package deployment

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/printer"
)

const (
	noValue     = "-"
	tabPadding  = 3
	dividerSize = 60
)

// render prints value as json or yaml, or calls table for the default format.
func render(format models.OutputFormat, value any, table func()) error {
	switch format {
	case models.OutputJSON:
		out, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return eris.Wrap(err, "failed to encode json output")
		}
		printer.Infoln(string(out))
	case models.OutputYAML:
		out, err := yaml.Marshal(value)
		if err != nil {
			return eris.Wrap(err, "failed to encode yaml output")
		}
		printer.Info(string(out))
	case models.OutputTable:
		table()
	default:
		return eris.Wrapf(models.ErrInvalidOutput, "got %q", format)
	}
	return nil
}

// printTable aligns rows into columns. Cells are tab separated.
func printTable(header string, rows []string) {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, tabPadding, ' ', 0)
	if header != "" {
		fmt.Fprintln(w, header)
	}
	for _, row := range rows {
		fmt.Fprintln(w, row)
	}
	_ = w.Flush()
	printer.Info(sb.String())
}

func orNone(value string) string {
	if value == "" {
		return noValue
	}
	return value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func printGroups(project string, snapshot deployments.Snapshot) {
	printer.Headerf("Deployments of %s\n", project)
	if len(snapshot.Groups) == 0 {
		printer.Mutedln("No active or in-flight deployments.")
		return
	}

	rows := []string{}
	for _, group := range snapshot.Groups {
		if group.Active != nil {
			rows = append(rows, groupRow(group.Name, "active", *group.Active))
		}
		for _, d := range group.Progressing {
			if group.Active != nil && d.DeploymentID == group.Active.DeploymentID {
				continue
			}
			rows = append(rows, groupRow(group.Name, "progressing", d))
		}
	}
	printTable("GROUP\tDEPLOYMENT\tROLE\tSTATUS\tCREATED\tURL", rows)
}

func groupRow(group, role string, d models.Deployment) string {
	return strings.Join([]string{
		group, d.DeploymentID, role, string(d.Status), orNone(d.Created), orNone(d.PrimaryURL),
	}, "\t")
}

func printDeployment(d models.Deployment) {
	printer.Headerf("Deployment %s\n", d.DeploymentID)
	active := "no"
	if d.IsActive {
		active = "yes"
	}
	rows := []string{
		"Status:\t" + string(d.Status),
		"Group:\t" + d.Group(),
		"Active:\t" + active,
		"Image:\t" + orNone(d.Image),
		"Digest:\t" + orNone(d.ImageDigest),
		"URL:\t" + orNone(d.PrimaryURL),
		"Domains:\t" + orNone(strings.Join(d.CustomDomainURLs, ", ")),
		"Created:\t" + orNone(d.Created),
		"Completed:\t" + orNone(deref(d.CompletedAt)),
		"Expires:\t" + orNone(deref(d.ExpiresAt)),
		"Created by:\t" + orNone(d.CreatedByEmail),
	}
	if lastCheck, healthy, ok := d.HealthCheck(); ok {
		health := "degraded"
		if healthy {
			health = "healthy"
		}
		rows = append(rows, fmt.Sprintf("Health:\t%s (checked %s)", health, lastCheck))
	}
	printTable("", rows)
	if msg := deref(d.ErrorMessage); msg != "" {
		printer.Errorln(msg)
	}
}

func printTimeline(events []deployments.TimelineEvent) {
	printer.NewLine(1)
	printer.Headerln("Timeline")
	if len(events) == 0 {
		printer.Mutedln("No lifecycle events recorded.")
		return
	}
	rows := []string{}
	for _, group := range deployments.GroupByPhase(events) {
		for i, e := range group.Events {
			phase := ""
			if i == 0 {
				phase = string(group.Phase)
			}
			rows = append(rows, strings.Join([]string{phase, e.Label, e.Timestamp, e.Delta}, "\t"))
		}
	}
	printTable("PHASE\tEVENT\tTIME\tDELTA", rows)
}

// detailOutput is the json/yaml shape of a single deployment.
type detailOutput struct {
	Deployment models.Deployment           `json:"deployment" yaml:"deployment"`
	Timeline   []deployments.TimelineEvent `json:"timeline"   yaml:"timeline"`
}

// groupSummary is one row of the groups command.
type groupSummary struct {
	Name        string `json:"name"              yaml:"name"`
	Active      string `json:"active,omitempty"  yaml:"active,omitempty"`
	Status      string `json:"status,omitempty"  yaml:"status,omitempty"`
	Progressing int    `json:"progressing"       yaml:"progressing"`
}

func printGroupSummaries(project string, summaries []groupSummary) {
	printer.Headerf("Deployment groups of %s\n", project)
	if len(summaries) == 0 {
		printer.Mutedln("No deployment groups.")
		return
	}
	rows := make([]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, strings.Join([]string{
			s.Name, orNone(s.Active), orNone(s.Status), fmt.Sprint(s.Progressing),
		}, "\t"))
	}
	printTable("GROUP\tACTIVE\tSTATUS\tIN FLIGHT", rows)
}
