// Package notify tells the user that a focus phase has ended.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Notifier delivers a short phase-change message.
type Notifier interface {
	Notify(title, body string) error
}

// Bell writes the terminal bell followed by a one-line message.
type Bell struct {
	mu    sync.Mutex
	W     io.Writer
	Quiet bool // skip the bell character, keep the message
}

func (b *Bell) Notify(title, body string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.W == nil {
		return nil
	}
	bell := "\a"
	if b.Quiet {
		bell = ""
	}
	_, err := fmt.Fprintf(b.W, "%s%s: %s\n", bell, title, body)
	return err
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(string, string) error { return nil }

// Recorder keeps notifications in memory.
type Recorder struct {
	mu   sync.Mutex
	Sent []string
}

func (r *Recorder) Notify(title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, title+": "+body)
	return nil
}
