package multispinner

import (
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pkg.world.dev/forge-cli/internal/pkg/tea/style"
)

// MultiSpinner shows a spinner line for every running process, in the order they started.
// It is meant to be embedded in a parent model that forwards spinner ticks to Update.
type MultiSpinner struct {
	processMap *ProcessStateMap // need to be pointer because of the mutex

	spinner spinner.Model
}

type ProcessStateMap struct {
	sync.Mutex
	order []string
	value map[string]ProcessState
}

type ProcessState struct {
	Name   string
	State  string
	Detail string
}

func New(spinnerStyle lipgloss.Style) MultiSpinner {
	return MultiSpinner{
		processMap: &ProcessStateMap{value: make(map[string]ProcessState)},
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
}

// Start adds or replaces a running process. The returned command starts the spinner when
// nothing else was running.
func (s MultiSpinner) Start(state ProcessState) tea.Cmd {
	s.processMap.Lock()
	defer s.processMap.Unlock()

	wasIdle := len(s.processMap.order) == 0
	if _, ok := s.processMap.value[state.Name]; !ok {
		s.processMap.order = append(s.processMap.order, state.Name)
	}
	s.processMap.value[state.Name] = state
	if wasIdle {
		return s.spinner.Tick
	}
	return nil
}

// Done removes a process. Unknown names are ignored.
func (s MultiSpinner) Done(name string) {
	s.processMap.Lock()
	defer s.processMap.Unlock()

	if _, ok := s.processMap.value[name]; !ok {
		return
	}
	delete(s.processMap.value, name)
	s.processMap.order = slices.DeleteFunc(s.processMap.order, func(n string) bool { return n == name })
}

func (s MultiSpinner) Has(name string) bool {
	s.processMap.Lock()
	defer s.processMap.Unlock()

	_, ok := s.processMap.value[name]
	return ok
}

// Running returns the number of running processes.
func (s MultiSpinner) Running() int {
	s.processMap.Lock()
	defer s.processMap.Unlock()

	return len(s.processMap.order)
}

// Update advances the spinner. Ticks stop once nothing is running.
func (s MultiSpinner) Update(msg tea.Msg) (MultiSpinner, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || s.Running() == 0 {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders one line per running process.
func (s MultiSpinner) View() string {
	var sb strings.Builder
	icon := s.spinner.View()
	for _, state := range s.getStates() {
		sb.WriteString(icon + " " + style.ForegroundPrint(state.State, "12"))
		if state.Detail != "" {
			sb.WriteString(" " + state.Detail)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (s MultiSpinner) getStates() []ProcessState {
	s.processMap.Lock()
	defer s.processMap.Unlock()

	states := make([]ProcessState, 0, len(s.processMap.order))
	for _, name := range s.processMap.order {
		states = append(states, s.processMap.value[name])
	}
	return states
}
