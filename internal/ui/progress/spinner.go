// Package progress shows a spinner on stderr during slow operations such as
// fetching a large issue feed or driving OmniFocus through osascript.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/redfocus/internal/ui/styles"
)

// messageUpdate is sent to update the spinner message
type messageUpdate string

type spinnerModel struct {
	spinner spinner.Model
	message string
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, nil
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(fmt.Sprintf("%s %s", m.spinner.View(), m.message))
}

// Spinner wraps a Bubbletea spinner for non-interactive use.
// A nil *Spinner is valid and does nothing.
type Spinner struct {
	out     io.Writer
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// NewSpinner creates a spinner that renders to out.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out}
}

// Start begins the animation with message.
func (s *Spinner) Start(message string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.program.Send(messageUpdate(message))
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.PrimaryStyle()

	s.program = tea.NewProgram(spinnerModel{spinner: sp, message: message},
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(s.out),
	)
	s.done = make(chan struct{})
	s.running = true

	go func(p *tea.Program, done chan struct{}) {
		_, _ = p.Run()
		close(done)
	}(s.program, s.done)
}

// Update changes the message of a running spinner.
func (s *Spinner) Update(message string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.program.Send(messageUpdate(message))
	}
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	p, done := s.program, s.done
	s.mu.Unlock()

	p.Quit()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
	}
	fmt.Fprint(s.out, "\r\033[K")
}
