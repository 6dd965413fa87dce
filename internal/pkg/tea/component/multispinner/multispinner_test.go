package multispinner

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestStartTicksOnlyWhenIdle(t *testing.T) {
	s := New(lipgloss.NewStyle())

	assert.Assert(t, s.Start(ProcessState{Name: "a", State: "Stopping", Detail: "dep-1"}) != nil)
	assert.Assert(t, s.Start(ProcessState{Name: "b", State: "Loading logs of", Detail: "dep-2"}) == nil)
	assert.Equal(t, 2, s.Running())
	assert.Assert(t, s.Has("a"))
}

func TestViewKeepsStartOrder(t *testing.T) {
	s := New(lipgloss.NewStyle())
	s.Start(ProcessState{Name: "b", State: "Redeploying", Detail: "dep-2"})
	s.Start(ProcessState{Name: "a", State: "Stopping", Detail: "dep-1"})
	// replacing a process keeps its position
	s.Start(ProcessState{Name: "b", State: "Rolling back to", Detail: "dep-2"})

	view := s.View()
	assert.Check(t, is.Contains(view, "Rolling back to"))
	assert.Check(t, !strings.Contains(view, "Redeploying"))
	assert.Assert(t, strings.Index(view, "dep-2") < strings.Index(view, "dep-1"))
}

func TestDoneStopsTicking(t *testing.T) {
	s := New(lipgloss.NewStyle())
	s.Start(ProcessState{Name: "a", State: "Stopping"})

	_, cmd := s.Update(spinner.TickMsg{})
	assert.Assert(t, cmd != nil)

	s.Done("a")
	s.Done("unknown")
	assert.Equal(t, 0, s.Running())
	assert.Equal(t, "", s.View())
	_, cmd = s.Update(spinner.TickMsg{})
	assert.Assert(t, cmd == nil)
}
