package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w until stopped or ctx is cancelled.
// It is used while rsvg-convert runs, which gives no progress of its own.
type spinner struct {
	w       io.Writer
	message string

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

// startSpinner begins animating message on w.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, message: message, cancel: cancel, stopped: make(chan struct{})}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// stop ends the animation and clears the line. Safe to call more than once.
func (s *spinner) stop() {
	s.once.Do(s.cancel)
	<-s.stopped
}
