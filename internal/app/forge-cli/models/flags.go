package models

import (
	"slices"

	"github.com/rotisserie/eris"
)

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

var ErrInvalidOutput = eris.New("output must be one of table, json, yaml")

// OutputFormats lists the accepted --output values.
func OutputFormats() []OutputFormat {
	return []OutputFormat{OutputTable, OutputJSON, OutputYAML}
}

// ParseOutputFormat validates an --output value. Empty means table.
func ParseOutputFormat(value string) (OutputFormat, error) {
	if value == "" {
		return OutputTable, nil
	}
	format := OutputFormat(value)
	if !slices.Contains(OutputFormats(), format) {
		return "", eris.Wrapf(ErrInvalidOutput, "got %q", value)
	}
	return format, nil
}

type ListDeploymentsFlags struct {
	Group  string
	Watch  bool
	Output OutputFormat
}

type ShowDeploymentFlags struct {
	ID     string
	Watch  bool
	Output OutputFormat
}

type GroupsFlags struct {
	Output OutputFormat
}

type StopDeploymentFlags struct {
	ID  string
	Yes bool
}

type RollbackDeploymentFlags struct {
	ID           string
	UseSourceEnv bool
	Yes          bool
}

type LogsFlags struct {
	ID     string
	Follow bool
	Tail   int
}

type DashboardFlags struct {
	Group string
}

type UseProjectFlags struct {
	Project string
}
