package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/rongjin-uky/dynakit/internal/runner"
)

const (
	elapsedInterval   = time.Second
	durationPrecision = 100 * time.Millisecond
)

// Theme holds the color scheme for the run display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// elapsedMsg updates the elapsed-time readout.
type elapsedMsg time.Time

// solverDoneMsg carries the solver result once the child process exits.
type solverDoneMsg struct {
	res *runner.Result
	err error
}

// runModel is the bubbletea model shown while the solver runs.
type runModel struct {
	ctx      context.Context
	cfg      runner.Config
	spinner  spinner.Model
	theme    Theme
	start    time.Time
	elapsed  time.Duration
	res      *runner.Result
	err      error
	done     bool
	quitting bool
}

func newRunModel(ctx context.Context, cfg runner.Config) runModel {
	return runModel{
		ctx:     ctx,
		cfg:     cfg,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:   defaultTheme,
		start:   time.Now(),
	}
}

// Init starts the solver and the elapsed/spinner tickers.
func (m runModel) Init() tea.Cmd {
	return tea.Batch(
		m.launchSolver(),
		m.spinner.Tick,
		elapsedCmd(),
	)
}

// Update handles messages and returns the updated model.
func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// The solver is not cancelled; the UI detaches and the child
			// process finishes on its own.
			m.quitting = true
			return m, tea.Quit
		}

	case elapsedMsg:
		m.elapsed = time.Time(msg).Sub(m.start)
		return m, elapsedCmd()

	case solverDoneMsg:
		m.done = true
		m.res = msg.res
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the run display.
func (m runModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m runModel) renderContent() string {
	if m.done || m.quitting {
		return m.finalView()
	}

	status := m.theme.statusStyle().Render("[running]")
	deck := filepath.Base(m.cfg.InputFile)
	detail := fmt.Sprintf("%s  ncpu=%d memory=%s  elapsed %s",
		deck, m.cfg.NCPU, m.cfg.Memory, m.elapsed.Round(time.Second))
	hint := m.theme.hintStyle().Render("Press Ctrl+C to detach; the solver keeps running")

	return fmt.Sprintf("%s %s%s\n%s\n", status, m.spinner.View(), detail, hint)
}

// finalView renders the completion message.
func (m runModel) finalView() string {
	if m.quitting {
		msg := fmt.Sprintf("\nDetached. The solver continues in %s.\n", m.solverDir())
		return m.theme.hintStyle().Render(msg)
	}
	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ %s\n", m.err))
	}
	if m.res != nil {
		return m.theme.completedStyle().Render(
			fmt.Sprintf("\n✓ Solver finished in %s\n", m.res.Duration.Round(durationPrecision)))
	}
	return ""
}

func (m runModel) solverDir() string {
	if m.cfg.WorkDir != "" {
		return m.cfg.WorkDir
	}
	return filepath.Dir(m.cfg.InputFile)
}

// launchSolver runs the solver in a command goroutine so Update never
// blocks on the child process.
func (m runModel) launchSolver() tea.Cmd {
	ctx, cfg := m.ctx, m.cfg
	return func() tea.Msg {
		res, err := runner.Run(ctx, logger, cfg)
		return solverDoneMsg{res: res, err: err}
	}
}

func elapsedCmd() tea.Cmd {
	return tea.Tick(elapsedInterval, func(t time.Time) tea.Msg {
		return elapsedMsg(t)
	})
}

// runWithProgress runs the solver behind the interactive display. It
// returns (nil, nil) when the user detached; the child continues under OS
// process handling.
func runWithProgress(ctx context.Context, cfg runner.Config) (*runner.Result, error) {
	// Preflight failures should surface before any UI appears.
	if err := cfg.Preflight(); err != nil {
		return nil, err
	}

	p := tea.NewProgram(newRunModel(ctx, cfg))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run display error: %w", err)
	}

	m, ok := finalModel.(runModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final model type")
	}
	if m.quitting {
		return nil, nil
	}
	return m.res, m.err
}
