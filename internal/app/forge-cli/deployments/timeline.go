package deployments

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
)

type Phase string

const (
	PhaseBuild   Phase = "build"
	PhasePush    Phase = "push"
	PhaseRollout Phase = "rollout"
	PhaseHealth  Phase = "health"
	PhaseOther   Phase = "other"

	// NoDelta is shown when no duration can be computed.
	NoDelta = "--"
)

// PhaseOrder is the display order of timeline phases.
//
//nolint:gochecknoglobals // read only
var PhaseOrder = []Phase{PhaseBuild, PhasePush, PhaseRollout, PhaseHealth, PhaseOther}

// statusPhases maps every known status to the phase its "current status" event belongs to.
//
//nolint:gochecknoglobals // read only
var statusPhases = map[models.DeploymentStatus]Phase{
	models.StatusPending:     PhaseOther,
	models.StatusBuilding:    PhaseBuild,
	models.StatusPushing:     PhasePush,
	models.StatusPushed:      PhasePush,
	models.StatusDeploying:   PhaseRollout,
	models.StatusRunning:     PhaseOther,
	models.StatusHealthy:     PhaseHealth,
	models.StatusUnhealthy:   PhaseHealth,
	models.StatusTerminating: PhaseOther,
	models.StatusCancelled:   PhaseOther,
	models.StatusStopped:     PhaseOther,
	models.StatusSuperseded:  PhaseOther,
	models.StatusFailed:      PhaseOther,
	models.StatusExpired:     PhaseOther,
}

// TimelineEvent is one derived lifecycle event of a deployment.
type TimelineEvent struct {
	Label     string `json:"label"     yaml:"label"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Phase     Phase  `json:"phase"     yaml:"phase"`
	Delta     string `json:"delta"     yaml:"delta"`

	at     time.Time
	parsed bool
}

// Time returns the parsed timestamp. ok is false when the server value could not be parsed.
func (e TimelineEvent) Time() (time.Time, bool) {
	return e.at, e.parsed
}

// PhaseGroup holds the events of one phase.
type PhaseGroup struct {
	Phase  Phase           `json:"phase"  yaml:"phase"`
	Events []TimelineEvent `json:"events" yaml:"events"`
}

// PhaseFor classifies a status. Unknown statuses fall back to matching well-known words in the
// status text and finally to PhaseOther.
func PhaseFor(status models.DeploymentStatus) Phase {
	if phase, ok := statusPhases[status]; ok {
		return phase
	}
	s := strings.ToLower(string(status))
	switch {
	case strings.Contains(s, "build"):
		return PhaseBuild
	case strings.Contains(s, "push"), strings.Contains(s, "image"):
		return PhasePush
	case strings.Contains(s, "rollout"), strings.Contains(s, "deploy"):
		return PhaseRollout
	case strings.Contains(s, "health"), strings.Contains(s, "ready"), strings.Contains(s, "active"):
		return PhaseHealth
	default:
		return PhaseOther
	}
}

// BuildTimeline derives the ordered lifecycle events of d.
// Events without a timestamp are dropped; events whose timestamp can't be parsed sort last.
func BuildTimeline(d models.Deployment) []TimelineEvent {
	var events []TimelineEvent
	add := func(label string, timestamp *string, phase Phase) {
		if timestamp == nil || *timestamp == "" {
			return
		}
		at, parsed := models.ParseTimestamp(*timestamp)
		events = append(events, TimelineEvent{
			Label:     label,
			Timestamp: *timestamp,
			Phase:     phase,
			at:        at,
			parsed:    parsed,
		})
	}

	created := &d.Created
	add("Deployment requested", created, PhaseBuild)
	add("Image prepared", created, PhasePush)
	add("Rollout started", created, PhaseRollout)

	if d.CompletedAt != nil {
		if d.Status == models.StatusFailed {
			add("Deployment failed", d.CompletedAt, PhaseRollout)
		} else {
			add("Deployment completed", d.CompletedAt, PhaseHealth)
		}
	}

	if lastCheck, healthy, ok := d.HealthCheck(); ok {
		label := "Health check degraded"
		if healthy {
			label = "Health check healthy"
		}
		add(label, &lastCheck, PhaseHealth)
	}

	anchor := created
	if d.CompletedAt != nil {
		anchor = d.CompletedAt
	}
	add(fmt.Sprintf("Current status: %s", d.Status), anchor, PhaseFor(d.Status))

	slices.SortStableFunc(events, func(a, b TimelineEvent) int {
		switch {
		case a.parsed && b.parsed:
			return a.at.Compare(b.at)
		case a.parsed:
			return -1
		case b.parsed:
			return 1
		}
		return 0
	})

	for i := range events {
		events[i].Delta = NoDelta
		if i == 0 {
			continue
		}
		prev, cur := events[i-1], events[i]
		if !prev.parsed || !cur.parsed {
			continue
		}
		if gap := cur.at.Sub(prev.at); gap >= 0 {
			events[i].Delta = FormatDelta(gap)
		}
	}
	return events
}

// FormatDelta renders a non-negative gap as "Ns", "Mm Ss" or "Hh Mm".
func FormatDelta(d time.Duration) string {
	if d < 0 {
		return NoDelta
	}
	secs := int64(d / time.Second)
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	}
}

// GroupByPhase buckets events by phase in PhaseOrder, dropping empty phases.
func GroupByPhase(events []TimelineEvent) []PhaseGroup {
	groups := []PhaseGroup{}
	for _, phase := range PhaseOrder {
		var bucket []TimelineEvent
		for _, e := range events {
			if e.Phase == phase {
				bucket = append(bucket, e)
			}
		}
		if len(bucket) > 0 {
			groups = append(groups, PhaseGroup{Phase: phase, Events: bucket})
		}
	}
	return groups
}
