// Package activity keeps the human-readable, in-memory activity log shown to
// users alongside the spectrum.
package activity

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/wifiscope/pkg/models"
)

const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// DefaultCapacity is used when a non-positive capacity is requested
const DefaultCapacity = 500

// Log is an append-only ring of entries. Once full, the oldest entry is dropped.
type Log struct {
	mu      sync.RWMutex
	entries []models.LogEntry
	next    int
	full    bool
	now     func() time.Time
	logger  zerolog.Logger
}

// NewLog creates a log holding at most capacity entries
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		entries: make([]models.LogEntry, capacity),
		now:     time.Now,
		logger:  log.With().Str("component", "activity").Logger(),
	}
}

// Append records a message and mirrors it to the structured logger
func (l *Log) Append(level, msg string) models.LogEntry {
	entry := models.LogEntry{
		ID:      uuid.New().String(),
		Time:    l.now(),
		Level:   level,
		Message: msg,
	}

	l.mu.Lock()
	l.entries[l.next] = entry
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
	l.mu.Unlock()

	var ev *zerolog.Event
	switch level {
	case LevelError:
		ev = l.logger.Error()
	case LevelWarn:
		ev = l.logger.Warn()
	default:
		ev = l.logger.Info()
	}
	ev.Str("entryID", entry.ID).Msg(msg)

	return entry
}

// Infof appends a formatted info entry
func (l *Log) Infof(format string, args ...any) models.LogEntry {
	return l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf appends a formatted warning entry
func (l *Log) Warnf(format string, args ...any) models.LogEntry {
	return l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf appends a formatted error entry
func (l *Log) Errorf(format string, args ...any) models.LogEntry {
	return l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Len returns the number of entries currently held
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.full {
		return len(l.entries)
	}
	return l.next
}

// Entries returns up to limit of the most recent entries, oldest first.
// A non-positive limit returns everything held.
func (l *Log) Entries(limit int) []models.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var ordered []models.LogEntry
	if l.full {
		ordered = append(ordered, l.entries[l.next:]...)
	}
	ordered = append(ordered, l.entries[:l.next]...)

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}

	out := make([]models.LogEntry, len(ordered))
	copy(out, ordered)
	return out
}
