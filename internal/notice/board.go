// Package notice keeps a small ring of user-visible messages. It exists so
// background failures (a rejected hub mutation, mostly) can reach the
// operator without blocking anything or raising modal errors.
package notice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a notice for display.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notice is one user-visible message.
type Notice struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
}

// Board is a bounded, most-recent-first notice buffer.
type Board struct {
	mu      sync.RWMutex
	notices []Notice
	cap     int
}

// NewBoard creates a board holding at most capacity notices.
func NewBoard(capacity int) *Board {
	if capacity <= 0 {
		capacity = 50
	}
	return &Board{cap: capacity}
}

// Post appends a notice, evicting the oldest past capacity.
func (b *Board) Post(_ context.Context, level Level, title, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, Notice{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Level:     level,
		Title:     title,
		Message:   message,
	})
	if len(b.notices) > b.cap {
		b.notices = b.notices[len(b.notices)-b.cap:]
	}
}

// Warn posts a warning-level notice.
func (b *Board) Warn(ctx context.Context, title, message string) {
	b.Post(ctx, LevelWarning, title, message)
}

// Recent returns the notices, most recent first.
func (b *Board) Recent() []Notice {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Notice, 0, len(b.notices))
	for i := len(b.notices) - 1; i >= 0; i-- {
		out = append(out, b.notices[i])
	}
	return out
}
