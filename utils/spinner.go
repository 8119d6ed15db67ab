package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Spinner initializes the process indicator.
type Spinner struct {
	// Writer receives the indicator frames. Defaults to os.Stderr.
	Writer io.Writer

	stopChan chan struct{}
	doneChan chan struct{}
}

// NewSpinner instantiates a new Spinner struct.
func NewSpinner() *Spinner {
	return &Spinner{Writer: os.Stderr}
}

// Start starts the process indicator.
func (s *Spinner) Start(message string) {
	if s.stopChan != nil {
		return
	}
	w := s.Writer
	if w == nil {
		w = os.Stderr
	}
	stop, done := make(chan struct{}), make(chan struct{})
	s.stopChan, s.doneChan = stop, done

	go func() {
		defer close(done)
		for {
			for _, r := range `-\|/` {
				fmt.Fprintf(w, "\r%s%s %c%s", message, SuccessColor, r, DefaultColor)
				select {
				case <-stop:
					fmt.Fprint(w, "\r")
					return
				case <-time.After(time.Millisecond * 100):
				}
			}
		}
	}()
}

// Stop stops the process indicator and waits for its last frame to be written.
func (s *Spinner) Stop() {
	if s.stopChan == nil {
		return
	}
	close(s.stopChan)
	<-s.doneChan
	s.stopChan, s.doneChan = nil, nil
}
