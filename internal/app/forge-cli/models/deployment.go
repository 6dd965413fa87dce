package models

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"
)

const DefaultDeploymentGroup = "default"

type DeploymentStatus string

const (
	StatusPending     DeploymentStatus = "Pending"
	StatusBuilding    DeploymentStatus = "Building"
	StatusPushing     DeploymentStatus = "Pushing"
	StatusPushed      DeploymentStatus = "Pushed"
	StatusDeploying   DeploymentStatus = "Deploying"
	StatusRunning     DeploymentStatus = "Running"
	StatusHealthy     DeploymentStatus = "Healthy"
	StatusUnhealthy   DeploymentStatus = "Unhealthy"
	StatusTerminating DeploymentStatus = "Terminating"

	StatusCancelled  DeploymentStatus = "Cancelled"
	StatusStopped    DeploymentStatus = "Stopped"
	StatusSuperseded DeploymentStatus = "Superseded"
	StatusFailed     DeploymentStatus = "Failed"
	StatusExpired    DeploymentStatus = "Expired"
)

// IsTerminal reports whether no further transition can happen from s.
func (s DeploymentStatus) IsTerminal() bool {
	switch s { //nolint:exhaustive // everything else is in flight
	case StatusCancelled, StatusStopped, StatusSuperseded, StatusFailed, StatusExpired:
		return true
	}
	return false
}

// CanStop reports whether the stop action is offered for s.
func (s DeploymentStatus) CanStop() bool {
	return !s.IsTerminal()
}

// CanRollback reports whether rollback/redeploy is offered for s.
func (s DeploymentStatus) CanRollback() bool {
	return s == StatusHealthy || s == StatusSuperseded
}

// CanViewLogs reports whether a runtime container may exist for s.
func (s DeploymentStatus) CanViewLogs() bool {
	switch s { //nolint:exhaustive // only these have runtime output
	case StatusDeploying, StatusHealthy, StatusUnhealthy, StatusStopped, StatusFailed, StatusSuperseded:
		return true
	}
	return false
}

// Deployment is one attempt to run a project's image in a deployment group.
// Timestamps are kept as sent by the server and parsed on demand.
type Deployment struct {
	ID                 string           `json:"id"                           yaml:"id"`
	DeploymentID       string           `json:"deployment_id"                yaml:"deployment_id"`
	Status             DeploymentStatus `json:"status"                       yaml:"status"`
	DeploymentGroup    string           `json:"deployment_group,omitempty"   yaml:"deployment_group,omitempty"`
	Image              string           `json:"image"                        yaml:"image"`
	ImageDigest        string           `json:"image_digest"                 yaml:"image_digest"`
	PrimaryURL         string           `json:"primary_url"                  yaml:"primary_url"`
	CustomDomainURLs   []string         `json:"custom_domain_urls"           yaml:"custom_domain_urls"`
	Created            string           `json:"created"                      yaml:"created"`
	CompletedAt        *string          `json:"completed_at"                 yaml:"completed_at"`
	ExpiresAt          *string          `json:"expires_at"                   yaml:"expires_at"`
	ErrorMessage       *string          `json:"error_message"                yaml:"error_message"`
	BuildLogs          *string          `json:"build_logs"                   yaml:"build_logs"`
	CreatedByEmail     string           `json:"created_by_email"             yaml:"created_by_email"`
	IsActive           bool             `json:"is_active"                    yaml:"is_active"`
	ControllerMetadata json.RawMessage  `json:"controller_metadata,omitempty" yaml:"-"`
}

// Group returns the deployment group, falling back to the default group.
func (d Deployment) Group() string {
	if d.DeploymentGroup == "" {
		return DefaultDeploymentGroup
	}
	return d.DeploymentGroup
}

// CreatedTime parses the created timestamp.
func (d Deployment) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(d.Created)
}

// CompletedTime parses completed_at, if present.
func (d Deployment) CompletedTime() (time.Time, bool) {
	if d.CompletedAt == nil {
		return time.Time{}, false
	}
	return ParseTimestamp(*d.CompletedAt)
}

// HealthCheck returns controller_metadata.health.last_check and .healthy.
// The last return value is false when no health check was recorded.
func (d Deployment) HealthCheck() (string, bool, bool) {
	if len(d.ControllerMetadata) == 0 {
		return "", false, false
	}
	lastCheck := gjson.GetBytes(d.ControllerMetadata, "health.last_check")
	if !lastCheck.Exists() || lastCheck.Type == gjson.Null || lastCheck.String() == "" {
		return "", false, false
	}
	healthy := gjson.GetBytes(d.ControllerMetadata, "health.healthy").Bool()
	return lastCheck.String(), healthy, true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses the timestamp formats the API is known to emit.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreatedDeployment is the payload returned when a deployment is created from another one.
type CreatedDeployment struct {
	DeploymentID string `json:"deployment_id"`
}
