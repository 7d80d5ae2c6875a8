package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultTickInterval = 200 * time.Millisecond
	failurePaneRows     = 5
	// chromeHeight is the number of lines outside the table.
	chromeHeight = 5 + failurePaneRows
)

// Options configures the live UI model.
type Options struct {
	NoColor      bool
	TickInterval time.Duration
	// Mode is shown in the header until the run start event names it.
	Mode string
	// OnInterrupt runs when the user quits with ctrl+c.
	OnInterrupt func()
}

// Model is the Bubble Tea model for a batch run.
type Model struct {
	state  State
	table  table.Model
	events <-chan Event
	opts   Options
	now    time.Time
	width  int
	clock  func() time.Time
}

// NewModel constructs a live UI model reading from events.
func NewModel(events <-chan Event, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	t := table.New(
		table.WithColumns(columnsForWidth(80)),
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	return Model{
		state:  State{Mode: opts.Mode},
		table:  t,
		events: events,
		opts:   opts,
		now:    time.Now(),
		width:  80,
		clock:  time.Now,
	}
}

// Init starts the clock and waits for the first event.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick(m.opts.TickInterval))
}

// Update consumes run events, key presses, resizes and clock ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			if m.opts.OnInterrupt != nil {
				m.opts.OnInterrupt()
			}
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.table.SetWidth(typed.Width)
		m.table.SetHeight(max(typed.Height-chromeHeight, 1))
		m.table.SetColumns(columnsForWidth(typed.Width))
		return m, nil
	case EventMsg:
		m = m.apply(typed.Event)
		return m, waitForEvent(m.events)
	case tickMsg:
		m.now = time.Time(typed)
		if !m.state.Finished {
			m.table.SetRows(rowsForState(m.state, m.now, m.opts.NoColor))
		}
		return m, tick(m.opts.TickInterval)
	}
	return m, nil
}

// View renders header, progress, file table, failures and footer.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.state, m.now, m.opts.NoColor),
		renderProgress(m.state.Counts, m.width, m.opts.NoColor),
		m.table.View(),
		renderFailures(failures(m.state, failurePaneRows), m.opts.NoColor),
		renderFooter(m.state, m.opts.NoColor),
	)
}

// apply folds an event into the state and refreshes the table rows.
func (m Model) apply(event Event) Model {
	m.state = ReduceEvent(m.state, event, m.clock())
	m.table.SetRows(rowsForState(m.state, m.now, m.opts.NoColor))
	return m
}

// EventMsg wraps a run event for Bubble Tea.
type EventMsg struct {
	Event Event
}

type tickMsg time.Time

// waitForEvent blocks until the next event; a closed channel quits the program.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event}
	}
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
