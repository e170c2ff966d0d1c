package deploy

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner shows a progress indicator on a single terminal line while a
// long-running command executes. ClearLine erases the indicator so status
// lines can be printed in its place.
type spinner struct {
	out         io.Writer
	description string

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func newSpinner(out io.Writer, description string) *spinner {
	return &spinner{
		out:         out,
		description: description,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start begins animating in a background goroutine.
func (s *spinner) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.out, "\r%s %s... ", spinnerFrames[frame%len(spinnerFrames)], s.description)
				s.mu.Unlock()
				frame++
			}
		}
	}()
}

// ClearLine erases the spinner's current line.
func (s *spinner) ClearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// Printf erases the spinner line and prints a status line in its place.
// The lock is held across both writes so a concurrent tick cannot
// interleave with the status line.
func (s *spinner) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	fmt.Fprintf(s.out, format+"\n", args...)
}

// clearLocked erases the current line. Caller holds mu.
func (s *spinner) clearLocked() {
	fmt.Fprint(s.out, "\r"+strings.Repeat(" ", 80)+"\r")
}

// Stop halts the animation and clears the line.
func (s *spinner) Stop() {
	close(s.stop)
	<-s.done
	s.ClearLine()
}
