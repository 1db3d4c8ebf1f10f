package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates one status line until stopped. An inactive spinner
// draws nothing, which is what piped or redirected stderr gets.
type spinner struct {
	out    io.Writer
	active bool
	msg    string

	quit     chan struct{}
	finished chan struct{}
	once     sync.Once
}

// spin shows msg on stderr while fn runs and clears it afterwards.
func spin(ctx context.Context, msg string, fn func() error) error {
	s := startSpinner(ctx, os.Stderr, isatty.IsTerminal(os.Stderr.Fd()), msg)
	defer s.stop()
	return fn()
}

func startSpinner(ctx context.Context, out io.Writer, active bool, msg string) *spinner {
	s := &spinner{
		out:      out,
		active:   active,
		msg:      msg,
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.finished)
	if !s.active {
		return
	}
	defer s.clear()

	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case <-tick.C:
			icon := styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)])
			fmt.Fprintf(s.out, "\r%s %s", icon, StyleDim.Render(s.msg))
		}
	}
}

func (s *spinner) clear() {
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.msg)+4))
}

// stop ends the animation and waits for the line to be cleared. Calling it
// again is a no-op.
func (s *spinner) stop() {
	s.once.Do(func() { close(s.quit) })
	<-s.finished
}
