package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tosifAN/sunrise-2024/internal/board"
	"github.com/tosifAN/sunrise-2024/internal/models"
)

// TaskClient is the slice of the task API the board uses.
type TaskClient interface {
	ListTasks(ctx context.Context, activeOnly bool) ([]models.Task, error)
	CreateTask(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error)
	CompleteTask(ctx context.Context, id int) (*models.CompleteTaskResponse, error)
	Reset(ctx context.Context) error
}

// ViewMode represents the current view
type ViewMode int

const (
	ViewModeBoard ViewMode = iota // Three-column board
	ViewModeAdd                   // Add-task dialog
	ViewModeHelp                  // Help overlay
)

// Messages
type tasksLoadedMsg struct {
	tasks []models.Task
	err   error
}

type taskCompletedMsg struct {
	resp *models.CompleteTaskResponse
	err  error
}

type taskCreatedMsg struct {
	task *models.Task
	err  error
}

type boardResetMsg struct {
	err error
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Options configures a new board model.
type Options struct {
	// ServerURL is shown in the header.
	ServerURL string
	Light     bool
	Logger    *slog.Logger
}

// Model is the root Bubble Tea model
type Model struct {
	// Terminal dimensions
	width  int
	height int
	ready  bool

	viewMode ViewMode

	client    TaskClient
	serverURL string
	logger    *slog.Logger

	// Data
	tasks   []models.Task
	loading bool

	// Cursor: focused column and the selected row within each column
	col  int
	rows [3]int

	form addForm

	status     string
	statusKind statusKind

	theme  Theme
	styles Styles
	keys   KeyMap
	help   help.Model
}

// NewModel creates the board model. Tasks are fetched by Init.
func NewModel(c TaskClient, opts Options) Model {
	theme := DarkTheme
	if opts.Light {
		theme = LightTheme
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := Model{
		viewMode:  ViewModeBoard,
		client:    c,
		serverURL: opts.ServerURL,
		logger:    logger,
		loading:   true,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
	m.applyTheme(theme)
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.loadTasksCmd()
}

func (m Model) loadTasksCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		tasks, err := c.ListTasks(context.Background(), false)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) completeTaskCmd(id int) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		resp, err := c.CompleteTask(context.Background(), id)
		return taskCompletedMsg{resp: resp, err: err}
	}
}

func (m Model) createTaskCmd(req *models.CreateTaskRequest) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		task, err := c.CreateTask(context.Background(), req)
		return taskCreatedMsg{task: task, err: err}
	}
}

func (m Model) resetCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		return boardResetMsg{err: c.Reset(context.Background())}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.form.setWidth(m.dialogInputWidth())
		return m, nil

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error("load tasks", "error", msg.err)
			m.setStatus(statusError, "Failed to load tasks: "+msg.err.Error())
			return m, nil
		}
		m.tasks = msg.tasks
		m.clampCursor()
		if m.statusKind == statusInfo {
			m.status = ""
		}
		return m, nil

	case taskCompletedMsg:
		if msg.err != nil {
			m.logger.Error("complete task", "error", msg.err)
			m.setStatus(statusError, "Failed to complete task: "+msg.err.Error())
			return m, nil
		}
		m.setStatus(statusSuccess, completedStatus(msg.resp))
		return m, m.loadTasksCmd()

	case taskCreatedMsg:
		if msg.err != nil {
			m.logger.Error("create task", "error", msg.err)
			m.setStatus(statusError, "Failed to create task: "+msg.err.Error())
			return m, nil
		}
		m.setStatus(statusSuccess, fmt.Sprintf("Created #%d %s", msg.task.ID, msg.task.Title))
		return m, m.loadTasksCmd()

	case boardResetMsg:
		if msg.err != nil {
			m.logger.Error("reset board", "error", msg.err)
			m.setStatus(statusError, "Failed to reset board: "+msg.err.Error())
			return m, nil
		}
		m.col = 0
		m.rows = [3]int{}
		m.setStatus(statusSuccess, "Board reset")
		return m, m.loadTasksCmd()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Interrupt) {
			return m, tea.Quit
		}
		switch m.viewMode {
		case ViewModeAdd:
			return m.updateAdd(msg)
		case ViewModeHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
				m.viewMode = ViewModeBoard
			}
			return m, nil
		default:
			return m.updateBoard(msg)
		}
	}

	// Cursor blink and other input messages only matter to the dialog
	if m.viewMode == ViewModeAdd {
		cmd := m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.viewMode = ViewModeHelp

	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}

	case key.Matches(msg, m.keys.Right):
		if m.col < len(models.Stages)-1 {
			m.col++
		}

	case key.Matches(msg, m.keys.Up):
		if m.rows[m.col] > 0 {
			m.rows[m.col]--
		}

	case key.Matches(msg, m.keys.Down):
		if m.rows[m.col] < len(m.columnTasks(m.col))-1 {
			m.rows[m.col]++
		}

	case key.Matches(msg, m.keys.Done):
		return m.completeSelected()

	case key.Matches(msg, m.keys.Add):
		m.viewMode = ViewModeAdd
		m.form = newAddForm(m.styles)
		m.form.setWidth(m.dialogInputWidth())
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.setStatus(statusInfo, "Refreshing...")
		return m, m.loadTasksCmd()

	case key.Matches(msg, m.keys.Reset):
		return m, m.resetCmd()

	case key.Matches(msg, m.keys.Theme):
		if m.theme.Name == LightTheme.Name {
			m.applyTheme(DarkTheme)
		} else {
			m.applyTheme(LightTheme)
		}
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.viewMode = ViewModeBoard
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, m.form.next()

	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.prev()

	case key.Matches(msg, m.keys.Submit):
		if !m.form.onLastField() {
			return m, m.form.next()
		}
		req, err := m.form.request()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.viewMode = ViewModeBoard
		return m, m.createTaskCmd(req)
	}

	cmd := m.form.update(msg)
	return m, cmd
}

// completeSelected runs the Done action on the selected task when the
// progression rule allows it.
func (m Model) completeSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok {
		return m, nil
	}
	if !board.CanComplete(m.tasks, task) {
		switch {
		case task.Stage != models.StageInProgress:
			m.setStatus(statusWarning, fmt.Sprintf("#%d is %s; only In Progress tasks can be marked done", task.ID, task.Stage))
		default:
			m.setStatus(statusWarning, fmt.Sprintf("#%d is blocked until earlier groups are completed", task.ID))
		}
		return m, nil
	}
	m.setStatus(statusInfo, fmt.Sprintf("Completing #%d...", task.ID))
	return m, m.completeTaskCmd(task.ID)
}

func completedStatus(resp *models.CompleteTaskResponse) string {
	if resp == nil || resp.Completed == nil {
		return "Task already gone"
	}
	s := fmt.Sprintf("Completed #%d %s", resp.Completed.ID, resp.Completed.Title)
	if resp.Activated != nil {
		s += fmt.Sprintf(", started #%d %s", resp.Activated.ID, resp.Activated.Title)
	}
	return s
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	m.styles = NewStyles(t)
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(t.FgPrimary)
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(t.FgMuted)
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(t.Border)
	m.help.Styles.FullKey = lipgloss.NewStyle().Foreground(t.Yellow)
	m.help.Styles.FullDesc = lipgloss.NewStyle().Foreground(t.FgPrimary)
	m.help.Styles.FullSeparator = lipgloss.NewStyle().Foreground(t.Border)
}

// columnTasks flattens column i in display order.
func (m Model) columnTasks(i int) []models.Task {
	var out []models.Task
	for _, g := range board.Columns(m.tasks)[i].Groups {
		out = append(out, g.Tasks...)
	}
	return out
}

func (m Model) selected() (models.Task, bool) {
	tasks := m.columnTasks(m.col)
	row := m.rows[m.col]
	if row < 0 || row >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[row], true
}

func (m *Model) clampCursor() {
	for i := range m.rows {
		n := len(m.columnTasks(i))
		if m.rows[i] >= n {
			m.rows[i] = max(n-1, 0)
		}
	}
}

func (m Model) dialogInputWidth() int {
	if m.width == 0 {
		return 40
	}
	return min(max(m.width/2, 20), 60)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.viewMode {
	case ViewModeHelp:
		return m.helpView()
	case ViewModeAdd:
		return m.addView()
	default:
		return m.boardView()
	}
}

// boardView renders the three stage columns
func (m Model) boardView() string {
	header := m.renderHeader()

	// Account for: header (2 lines), status bar (1 line)
	bodyHeight := max(m.height-3, 5)
	colWidth := max(m.width/len(models.Stages), 20)

	cols := board.Columns(m.tasks)
	rendered := make([]string, len(cols))
	for i, col := range cols {
		rendered[i] = m.renderColumn(i, col, colWidth, bodyHeight)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render("TASK BOARD")
	subtitle := m.styles.Subtitle.Render(m.serverURL)
	return lipgloss.NewStyle().
		PaddingLeft(1).
		Width(m.width).
		Render(title+"  "+subtitle) + "\n"
}

func (m Model) renderColumn(idx int, col models.BoardColumn, width, height int) string {
	// Border and padding take four columns
	inner := width - 4

	var b strings.Builder
	b.WriteString(m.styles.StageTitle(col.Stage).Render(fmt.Sprintf("%s (%d)", col.Stage, col.Count)))
	b.WriteString("\n")

	switch {
	case m.loading && len(m.tasks) == 0:
		b.WriteString(m.styles.Dim.Render("Loading..."))
	case col.Count == 0:
		b.WriteString(m.styles.Dim.Render("No tasks"))
	}

	row := 0
	for _, g := range col.Groups {
		b.WriteString("\n")
		if g.Blocked {
			b.WriteString(m.styles.GroupBlocked.Render(fmt.Sprintf("Group %d · blocked", g.Group)))
		} else {
			b.WriteString(m.styles.GroupTitle.Render(fmt.Sprintf("Group %d", g.Group)))
		}
		b.WriteString("\n")
		for _, t := range g.Tasks {
			selected := idx == m.col && row == m.rows[idx]
			b.WriteString(m.renderCard(t, selected, inner))
			b.WriteString("\n")
			row++
		}
	}

	style := m.styles.Column
	if idx == m.col {
		style = m.styles.ColumnFocused
	}
	return style.
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height).
		Render(b.String())
}

func (m Model) renderCard(t models.Task, selected bool, width int) string {
	// Card border and padding take two columns
	textWidth := max(width-2, 8)

	lines := []string{m.styles.CardTitle.Render(truncate(fmt.Sprintf("#%d %s", t.ID, t.Title), textWidth))}
	if t.Persona != "" {
		lines = append(lines, m.styles.CardMeta.Render(truncate(t.Persona, textWidth)))
	}
	if selected && t.Description != "" {
		lines = append(lines, m.styles.Dim.Render(truncate(t.Description, textWidth)))
	}
	if t.Stage == models.StageInProgress {
		if board.CanComplete(m.tasks, t) {
			lines = append(lines, m.styles.DoneEnabled.Render("[ Done ]"))
		} else {
			lines = append(lines, m.styles.DoneDisabled.Render("[ Done ]"))
		}
	}

	style := m.styles.Card
	if selected {
		style = m.styles.CardSelected
	}
	return style.Width(width - 1).Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusBar() string {
	var status string
	switch m.statusKind {
	case statusError:
		status = m.styles.Error.Render(m.status)
	case statusWarning:
		status = m.styles.Warning.Render(m.status)
	case statusSuccess:
		status = m.styles.Success.Render(m.status)
	default:
		status = m.styles.Dim.Render(m.status)
	}

	count := m.styles.Dim.Render(fmt.Sprintf("Tasks: %d", len(m.tasks)))
	parts := []string{count}
	if m.status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, m.help.View(m.keys))
	return m.styles.StatusBar.Render(strings.Join(parts, m.styles.Dim.Render(" │ ")))
}

// addView renders the add-task dialog over an empty screen
func (m Model) addView() string {
	content := m.form.view(m.styles) + "\n" + m.help.ShortHelpView(m.keys.dialogHelp())
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.styles.Dialog.Render(content),
	)
}

// helpView renders the help overlay
func (m Model) helpView() string {
	title := m.styles.DialogTitle.Render("Keyboard Shortcuts")
	content := title + "\n\n" + m.help.FullHelpView(m.keys.FullHelp()) +
		"\n\n" + m.styles.Dim.Render("Press ? or Esc to close")

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.styles.Dialog.Render(content),
	)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
