package live

import (
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"qaconv/internal/batch"
)

// Controller runs the live UI and implements batch.Observer.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	indexes map[string]int
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 1024)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
		indexes: make(map[string]int),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnRunStart forwards run start events to the UI.
func (c *Controller) OnRunStart(runID string, caseDir string, files []string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	for index, path := range files {
		c.indexes[path] = index
	}
	c.mu.Unlock()
	c.send(Event{Kind: EventRunStart, RunID: runID, CaseDir: caseDir, Files: files})
}

// OnFileStart forwards file start events to the UI.
func (c *Controller) OnFileStart(path string) {
	c.send(Event{Kind: EventFile, File: FileEvent{
		Index:     c.indexOf(path),
		Path:      path,
		Status:    FileRunning,
		EmittedAt: time.Now(),
	}})
}

// OnFileDone forwards file outcomes to the UI.
func (c *Controller) OnFileDone(result batch.FileResult) {
	c.send(Event{Kind: EventFile, File: FileEvent{
		Index:     c.indexOf(result.Path),
		Path:      result.Path,
		Status:    statusOf(result.Outcome),
		Written:   len(result.Written),
		Reason:    result.Reason(),
		EmittedAt: time.Now(),
	}})
}

// OnRunEnd forwards run completion events to the UI and closes it.
func (c *Controller) OnRunEnd(summary batch.Summary) {
	c.send(Event{Kind: EventRunEnd, Summary: &summary})
	c.Close()
}

func (c *Controller) indexOf(path string) int {
	if c == nil {
		return -1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	index, ok := c.indexes[path]
	if !ok {
		return -1
	}
	return index
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
