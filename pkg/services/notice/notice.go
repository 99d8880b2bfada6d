// Package notice collects user-facing messages produced while serving one
// render pass, so that lower layers can report problems without failing.
package notice

import (
	"context"
	"fmt"
	"sync"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level
	Message string
}

type Board struct {
	mu      sync.Mutex
	notices []Notice
}

func NewBoard() *Board {
	return &Board{}
}

func (b *Board) Add(level Level, format string, args ...any) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, Notice{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (b *Board) Info(format string, args ...any) {
	b.Add(LevelInfo, format, args...)
}

func (b *Board) Warn(format string, args ...any) {
	b.Add(LevelWarning, format, args...)
}

func (b *Board) Error(format string, args ...any) {
	b.Add(LevelError, format, args...)
}

// Notices returns a copy of everything posted so far.
func (b *Board) Notices() []Notice {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Notice, len(b.notices))
	copy(out, b.notices)
	return out
}

func (b *Board) Count(level Level) int {
	n := 0
	for _, nt := range b.Notices() {
		if nt.Level == level {
			n++
		}
	}
	return n
}

type boardKey struct{}

func WithBoard(ctx context.Context, b *Board) context.Context {
	return context.WithValue(ctx, boardKey{}, b)
}

// FromContext returns the board attached to ctx. A nil board is returned when
// none is attached; posting to it is a no-op.
func FromContext(ctx context.Context) *Board {
	b, _ := ctx.Value(boardKey{}).(*Board)
	return b
}
