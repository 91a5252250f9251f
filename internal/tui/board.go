package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/akyairhashvil/sprintctl/internal/models"
	"github.com/akyairhashvil/sprintctl/internal/service"
)

const (
	minColumnWidth = 18
	unstagedTitle  = "No Stage"
)

type boardLoadedMsg struct {
	board service.Board
	err   error
}

// BoardModel renders the active sprint of a project as stage columns.
type BoardModel struct {
	ctx       context.Context
	src       BoardSource
	logger    *zap.Logger
	keys      *HandlerRegistry
	projectID int64
	board     service.Board
	loaded    bool
	err       error
	focus     int
	width     int
	height    int
	progress  progress.Model
}

func NewBoardModel(ctx context.Context, src BoardSource, projectID int64, logger *zap.Logger) BoardModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := BoardModel{
		ctx:       ctx,
		src:       src,
		logger:    logger,
		keys:      defaultBindings(),
		projectID: projectID,
		progress:  progress.New(progress.WithDefaultGradient()),
	}
	m.progress.Width = 30
	return m
}

func (m BoardModel) Init() tea.Cmd {
	return m.load()
}

func (m BoardModel) load() tea.Cmd {
	ctx, src, id := m.ctx, m.src, m.projectID
	return func() tea.Msg {
		b, err := src.SprintBoard(ctx, id)
		return boardLoadedMsg{board: b, err: err}
	}
}

// columnCount includes the unstaged column when it has tasks.
func (m BoardModel) columnCount() int {
	n := len(m.board.Columns)
	if len(m.board.Unstaged) > 0 {
		n++
	}
	return n
}

func (m *BoardModel) moveFocus(delta int) {
	n := m.columnCount()
	if n == 0 {
		m.focus = 0
		return
	}
	m.focus = (m.focus + delta + n) % n
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err != nil {
			m.logger.Warn("board load failed", zap.Int64("project_id", m.projectID), zap.Error(msg.err))
			m.board = service.Board{}
			m.focus = 0
			return m, nil
		}
		m.board = msg.board
		if n := m.columnCount(); m.focus >= n {
			m.focus = 0
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if target := msg.Width / 3; target > 10 {
			m.progress.Width = target
		}
		return m, nil
	case tea.KeyMsg:
		next, cmd, _ := m.keys.Handle(m, msg.String())
		return next, cmd
	}
	return m, nil
}

func (m BoardModel) View() string {
	theme := CurrentTheme
	if !m.loaded {
		return theme.Base.Render(theme.Dim.Render("Loading board..."))
	}
	if m.err != nil {
		return theme.Base.Render(lipgloss.JoinVertical(lipgloss.Left,
			theme.Error.Render("No active sprint"),
			theme.Dim.Render(m.err.Error()),
			"",
			theme.Dim.Render(m.keys.Help()),
		))
	}

	b := m.board
	header := theme.Header.Render(fmt.Sprintf("%s / %s", b.Project.Name, b.Sprint.Name))
	window := theme.Dim.Render(FormatDateRange(b.Sprint.StartDate, b.Sprint.EndDate))
	bar := fmt.Sprintf("%s %.2f%% (%s)",
		m.progress.ViewAs(b.Metrics.CompletionPercentage/100),
		b.Metrics.CompletionPercentage,
		FormatTaskCount(b.Metrics.DoneCount, b.Metrics.TaskCount))

	return theme.Base.Render(lipgloss.JoinVertical(lipgloss.Left,
		header+"  "+window,
		bar,
		"",
		m.renderColumns(),
		"",
		theme.Dim.Render(m.keys.Help()),
	))
}

func (m BoardModel) columnWidth() int {
	n := m.columnCount()
	if n == 0 || m.width == 0 {
		return minColumnWidth + 8
	}
	w := (m.width - 4) / n
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

func (m BoardModel) renderColumns() string {
	theme := CurrentTheme
	if m.columnCount() == 0 {
		return theme.Dim.Render("This sprint has no stages.")
	}
	width := m.columnWidth()
	inner := width - 4

	var cols []string
	for i, c := range m.board.Columns {
		cols = append(cols, m.renderColumn(i, c.Stage.Name, c.Tasks, inner))
	}
	if len(m.board.Unstaged) > 0 {
		cols = append(cols, m.renderColumn(len(m.board.Columns), unstagedTitle, m.board.Unstaged, inner))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m BoardModel) renderColumn(idx int, title string, tasks []models.Task, inner int) string {
	theme := CurrentTheme
	style := theme.Column.Width(inner).BorderForeground(theme.Border)
	titleStyle := theme.Header
	if idx == m.focus {
		style = style.BorderForeground(lipgloss.Color("205"))
		titleStyle = theme.Focused
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(truncateLabel(fmt.Sprintf("%s (%d)", title, len(tasks)), inner)))
	for _, t := range tasks {
		sb.WriteString("\n")
		label := truncateLabel(fmt.Sprintf("#%d %s", t.ID, t.Name), inner)
		if t.Done() {
			sb.WriteString(theme.DoneTask.Render(label))
		} else {
			sb.WriteString(theme.Task.Render(label))
		}
	}
	if len(tasks) == 0 {
		sb.WriteString("\n" + theme.Dim.Render("(empty)"))
	}
	return style.Render(sb.String())
}
