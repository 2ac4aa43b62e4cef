package tui

import (
	"context"
	"fmt"
	"time"

	"sysdash/internal/sampler"
	"sysdash/internal/window"
	"sysdash/ui/tui/components"
	"sysdash/ui/tui/state"
	"sysdash/ui/tui/views"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

const maxConsoleLogs = 100

// Options configures the initial model.
type Options struct {
	Capacity int             // window capacity, sets the chart x range
	Chart    state.ChartMode // initial dashboard chart
}

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	state          state.AppState
	spinner        spinner.Model
	chart          *components.SeriesChart
	menuCursor     int
	animCursor     float64
	velocity       float64 // Physics velocity
	spring         harmonica.Spring
	consoleScrollY int
	mouseX         int
	mouseY         int
	quitting       bool
	width          int
	height         int
}

// Messages
type AnimateMsg time.Time

// UpdateMsg carries one published sampler update into the program.
type UpdateMsg sampler.Update

// ErrorMsg carries a failed tick into the program.
type ErrorMsg struct {
	Err error
}

func InitialModel(opts Options) MainModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	capacity := opts.Capacity
	if capacity < 1 {
		capacity = window.DefaultCapacity
	}

	// Increased frequency (12.0) for faster response and damping (0.9) to prevent overshoot
	spring := harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9)

	return MainModel{
		spinner: s,
		chart:   components.NewSeriesChart(30, 10, capacity),
		spring:  spring,
		state: state.AppState{
			CurrentPage: state.PageMenu,
			Chart:       opts.Chart,
		},
	}
}

func (m *MainModel) Init() tea.Cmd {
	zone.NewGlobal()
	return tea.Batch(
		m.spinner.Tick,
		animateCmd(),
	)
}

// Commands
func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case UpdateMsg:
		return m.handleUpdateMsg(msg)

	case ErrorMsg:
		return m.handleErrorMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state.CurrentPage {
	case state.PageMenu:
		switch msg.String() {
		case "up", "k":
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case "down", "j":
			if m.menuCursor < len(views.MenuOptions)-1 {
				m.menuCursor++
			}
		case "enter":
			m.navigateTo(m.menuCursor)
		}
		return m, nil

	case state.PageConsole:
		switch msg.String() {
		case "up", "k":
			if m.consoleScrollY > 0 {
				m.consoleScrollY--
			}
		case "down", "j":
			m.consoleScrollY++
		}

	case state.PageDashboard:
		switch msg.String() {
		case "t":
			m.toggleChart()
		case "left", "h":
			m.selectStorageTab(m.state.StorageTab - 1)
		case "right", "l", "tab":
			m.selectStorageTab(m.state.StorageTab + 1)
		}
	}

	if msg.String() == "b" || msg.String() == "esc" || msg.String() == "backspace" {
		m.state.CurrentPage = state.PageMenu
		m.consoleScrollY = 0
		return m, nil
	}

	return m, nil
}

func (m *MainModel) navigateTo(cursor int) {
	switch cursor {
	case 0:
		m.state.CurrentPage = state.PageConsole
	case 1:
		m.state.CurrentPage = state.PageDashboard
	case 2:
		m.state.CurrentPage = state.PageProcessor
	case 3:
		m.state.CurrentPage = state.PageStorage
	case 4:
		m.state.CurrentPage = state.PageMemory
	}
}

func (m *MainModel) toggleChart() {
	if m.state.Chart == state.ChartUtilization {
		m.state.Chart = state.ChartTemperature
	} else {
		m.state.Chart = state.ChartUtilization
	}
}

// selectStorageTab moves to a device tab, wrapping around at either end.
func (m *MainModel) selectStorageTab(i int) {
	n := m.storageDevices()
	if n == 0 {
		m.state.StorageTab = 0
		return
	}
	m.state.StorageTab = (i%n + n) % n
}

func (m *MainModel) storageDevices() int {
	if m.state.Update == nil {
		return 0
	}
	return len(m.state.Update.Snapshot.Storage)
}

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	var v float64 = m.velocity
	m.animCursor, v = m.spring.Update(m.animCursor, float64(m.menuCursor), v)
	m.velocity = v
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	newW := msg.Width/2 - 6
	if newW > 10 {
		m.chart.Resize(newW, 10)
	}
	return m, nil
}

func (m *MainModel) handleUpdateMsg(msg UpdateMsg) (tea.Model, tea.Cmd) {
	u := sampler.Update(msg)
	m.state.Update = &u
	m.state.LastUpdate = u.At
	m.state.Err = nil
	m.selectStorageTab(m.state.StorageTab)

	snap := u.Snapshot
	var diskUsage int
	if d, ok := snap.PrimaryStorage(); ok {
		diskUsage = d.UsagePercent
	}
	logLine := fmt.Sprintf("[%s] #%d CPU: %d%% | RAM: %d%% | Disk: %d%%",
		u.At.Format("15:04:05"),
		u.Tick,
		snap.Processor.UsagePercent,
		snap.Memory.UsagePercent,
		diskUsage,
	)
	if snap.GPU != nil {
		logLine += fmt.Sprintf(" | GPU: %d%%", snap.GPU.UsagePercent)
	}
	m.appendLog(logLine)
	return m, nil
}

func (m *MainModel) handleErrorMsg(msg ErrorMsg) (tea.Model, tea.Cmd) {
	m.state.Err = msg.Err
	m.appendLog(fmt.Sprintf("[%s] sample failed: %v", time.Now().Format("15:04:05"), msg.Err))
	return m, nil
}

func (m *MainModel) appendLog(line string) {
	m.state.ConsoleLogs = append(m.state.ConsoleLogs, line)
	if len(m.state.ConsoleLogs) > maxConsoleLogs {
		m.state.ConsoleLogs = m.state.ConsoleLogs[1:]
	}
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.mouseX = msg.X
	m.mouseY = msg.Y

	if msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	switch m.state.CurrentPage {
	case state.PageMenu:
		for i := range views.MenuOptions {
			if zone.Get(fmt.Sprintf("menu_%d", i)).InBounds(msg) {
				m.menuCursor = i
				m.navigateTo(i)
				return m, nil
			}
		}
	case state.PageDashboard:
		if zone.Get(views.ChartToggleZone).InBounds(msg) {
			m.toggleChart()
			return m, nil
		}
		for i := range m.storageDevices() {
			if zone.Get(views.StorageTabZone(i)).InBounds(msg) {
				m.selectStorageTab(i)
				return m, nil
			}
		}
	}
	return m, nil
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	switch m.state.CurrentPage {
	case state.PageMenu:
		return views.RenderMenu(m.state, m.width, m.height, m.menuCursor, m.animCursor, m.mouseX, m.mouseY)
	case state.PageDashboard:
		m.chart.SetSeries(m.state.Chart.String()+" History", m.state.ChartSeries())
		return views.RenderDashboard(m.state, m.spinner.View(), m.chart.View(), m.width)
	case state.PageConsole:
		return views.RenderRawConsole(m.state, m.width, m.height, m.consoleScrollY)
	case state.PageProcessor:
		m.chart.SetSeries("Processor History", m.processorSeries())
		return views.RenderProcessor(m.state, m.spinner.View(), m.chart.View(), m.width, m.height)
	case state.PageStorage:
		return views.RenderStorage(m.state, m.spinner.View(), m.width, m.height)
	case state.PageMemory:
		return views.RenderMemory(m.state, m.spinner.View(), m.width, m.height)
	default:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Bold(true).Render("Unknown page\n\nPress 'b' to go back"),
		)
	}
}

func (m *MainModel) processorSeries() []window.Series {
	var out []window.Series
	for _, key := range []string{sampler.KeyProcessorUsage, sampler.KeyProcessorTemperature} {
		if s, ok := m.state.SeriesByKey(key); ok {
			out = append(out, s)
		}
	}
	return out
}

// Program runs the TUI and receives sampler publications as messages. It
// implements sampler.Consumer.
type Program struct {
	program *tea.Program
}

func NewProgram(opts Options, teaOpts ...tea.ProgramOption) *Program {
	m := InitialModel(opts)
	all := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, teaOpts...)
	return &Program{program: tea.NewProgram(&m, all...)}
}

// OnUpdate blocks until the program accepts the message or has exited.
func (p *Program) OnUpdate(u sampler.Update) {
	p.program.Send(UpdateMsg(u))
}

func (p *Program) OnError(err error) {
	p.program.Send(ErrorMsg{Err: err})
}

// Run blocks until the user quits or ctx is cancelled.
func (p *Program) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, p.program.Quit)
	defer stop()
	_, err := p.program.Run()
	return err
}
