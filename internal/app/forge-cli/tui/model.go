package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pkg.world.dev/forge-cli/internal/app/forge-cli/deployments"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/logstream"
	"pkg.world.dev/forge-cli/internal/app/forge-cli/models"
	"pkg.world.dev/forge-cli/internal/pkg/tea/component/multispinner"
	"pkg.world.dev/forge-cli/internal/pkg/tea/style"
)

type screen int

const (
	screenGroups screen = iota
	screenDetail
	screenLogs
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	chromeLines   = 6
)

// runtime holds the background resources of a dashboard. The pointer is shared by every copy
// of the model and only touched from Update.
type runtime struct {
	groupsPoller *deployments.Poller[deployments.Snapshot]

	detailPoller  *deployments.Poller[models.Deployment]
	detailCancel  context.CancelFunc
	detailRunning bool

	session *logstream.Session
	actions *deployments.ActionController
}

// Model is the dashboard's bubbletea model.
type Model struct {
	ctx  context.Context //nolint:containedctx // parent of every background task of the dashboard
	opts Options
	send func(tea.Msg)
	rt   *runtime

	screen        screen
	width, height int

	snapshot     deployments.Snapshot
	groupsLoaded bool
	groupsErr    error
	rows         []row
	cursor       int

	detailID  string
	detail    *models.Deployment
	detailErr error

	logTarget  models.Deployment
	viewport   viewport.Model
	tailField  textinput.Model
	tail       *logstream.TailInput
	autoScroll bool

	pending *pendingAction
	tasks   multispinner.MultiSpinner
	taskSeq int
	toast   *toastMsg
	toastID int
}

// NewModel creates the dashboard. send delivers messages from background work back into the
// program.
func NewModel(ctx context.Context, opts Options, send func(tea.Msg)) Model {
	rt := &runtime{}
	rt.groupsPoller = deployments.NewGroupsPoller(opts.Client, opts.Project, opts.Group, opts.PollInterval,
		func(result deployments.PollResult[deployments.Snapshot]) {
			send(groupsMsg(result))
		})
	rt.actions = deployments.NewActionController(opts.Client, opts.Project,
		deployments.NotifierFuncs{
			OnSuccess: func(msg string) { send(toastMsg{ok: true, text: msg}) },
			OnError:   func(msg string) { send(toastMsg{ok: false, text: msg}) },
		},
		deployments.WithAfterStop(func(context.Context, models.Deployment) {
			send(refreshMsg{})
		}),
	)

	tailField := textinput.New()
	tailField.Prompt = "tail: "
	tailField.CharLimit = 6
	tailField.Width = 8
	tail := logstream.NewTailInput(opts.Tail)
	tailField.SetValue(tail.Draft())

	return Model{
		ctx:        ctx,
		opts:       opts,
		send:       send,
		rt:         rt,
		width:      defaultWidth,
		height:     defaultHeight,
		viewport:   viewport.New(defaultWidth, defaultHeight-chromeLines),
		tailField:  tailField,
		tail:       tail,
		autoScroll: opts.AutoScroll,
		tasks:      multispinner.New(style.Selected),
	}
}

// Init starts polling the project's deployments.
func (m Model) Init() tea.Cmd {
	return m.startGroupsPoller()
}

// Close releases the log stream and background pollers.
func (m Model) Close() {
	if m.rt.detailCancel != nil {
		m.rt.detailCancel()
	}
	if m.rt.session != nil {
		m.rt.session.Close()
	}
}

// Update handles incoming events and updates the model accordingly.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeLines, 1)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case groupsMsg:
		return m.handleGroups(deployments.PollResult[deployments.Snapshot](msg)), nil
	case groupsStoppedMsg:
		return m, nil
	case detailMsg:
		return m.handleDetail(msg), nil
	case detailStoppedMsg:
		if msg.poller == m.rt.detailPoller {
			m.rt.detailRunning = false
		}
		return m, nil
	case logsUpdatedMsg:
		return m.syncLogs(), nil
	case logsLoadedMsg:
		m.tasks.Done(loadLogsTask)
		return m.syncLogs(), nil
	case refreshMsg:
		return m, m.refresh()
	case actionDoneMsg:
		return m.handleActionDone(msg)
	case toastMsg:
		m.toastID++
		m.toast = &msg
		seq := m.toastID
		return m, tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
	case toastExpiredMsg:
		if msg.seq == m.toastID {
			m.toast = nil
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.tasks, cmd = m.tasks.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.pending != nil {
		return m.handleConfirmKey(msg)
	}
	switch m.screen {
	case screenDetail:
		return m.handleDetailKey(msg)
	case screenLogs:
		return m.handleLogsKey(msg)
	case screenGroups:
	}
	return m.handleGroupsKey(msg)
}

// refresh issues an authoritative refetch of the visible data, restarting pollers that
// already stopped.
func (m Model) refresh() tea.Cmd {
	cmds := []tea.Cmd{m.refreshGroups()}
	if m.screen == screenDetail && m.detailID != "" {
		if !m.rt.detailRunning || !m.rt.detailPoller.Refresh() {
			cmds = append(cmds, m.startDetailPoller(m.detailID))
		}
	}
	return tea.Batch(cmds...)
}

// refreshGroups resyncs the list. A poller that already stopped at a quiet state is started
// again, since nothing would read the refresh request otherwise.
func (m Model) refreshGroups() tea.Cmd {
	if m.rt.groupsPoller.Refresh() {
		return nil
	}
	return m.startGroupsPoller()
}

func (m Model) startGroupsPoller() tea.Cmd {
	loop, ctx := m.rt.groupsPoller.Start(), m.ctx
	if loop == nil {
		return nil
	}
	return func() tea.Msg {
		return groupsStoppedMsg{err: loop(ctx)}
	}
}

func (m Model) busy() bool {
	return m.tasks.Running() > 0
}

// View renders the model to the screen.
func (m Model) View() string {
	var body string
	switch m.screen {
	case screenDetail:
		body = m.detailView()
	case screenLogs:
		body = m.logsView()
	case screenGroups:
		body = m.groupsView()
	}

	var sb strings.Builder
	sb.WriteString(style.Title.Render("forge · " + m.opts.Project))
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	if m.pending != nil {
		sb.WriteString(style.Selected.Render(m.pending.prompt()) + "\n")
	} else if m.busy() {
		sb.WriteString(m.tasks.View())
	}
	if m.toast != nil {
		toastStyle := style.ToastFail
		icon := style.CrossIcon.String()
		if m.toast.ok {
			toastStyle = style.ToastOK
			icon = style.TickIcon.String()
		}
		sb.WriteString(icon + " " + toastStyle.Render(m.toast.text) + "\n")
	}
	sb.WriteString(style.Muted.Render(m.helpLine()))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(sb.String())
}

func (m Model) helpLine() string {
	switch m.screen {
	case screenDetail:
		return strings.Join(m.actionHelp(m.detail, "esc back"), " · ")
	case screenLogs:
		return "f follow · x stop · o load once · c clear · t tail · a auto-scroll · esc back · q quit"
	case screenGroups:
	}
	var selected *models.Deployment
	if r, ok := m.selectedRow(); ok {
		selected = &r.deployment
	}
	return strings.Join(m.actionHelp(selected, "↑/↓ move · enter details"), " · ")
}

// actionHelp lists only the keys whose action is available for d.
func (m Model) actionHelp(d *models.Deployment, nav string) []string {
	help := []string{nav}
	if d != nil {
		if m.rt.actions.CanStop(*d) {
			help = append(help, "s stop")
		}
		if m.rt.actions.CanRollback(*d) {
			help = append(help, "r "+string(deployments.KindFor(*d)), "R with source env")
		}
		if d.Status.CanViewLogs() {
			help = append(help, "l logs")
		}
	}
	return append(help, "f refresh", "q quit")
}
