// Package logging wires up structured logging for sdbackup: a colourised
// console handler, a plain text handler on the backup log file, and a
// fan-out handler delivering every record to both.
package logging

import (
	"context"
	"log/slog"
	"sync"
)

// Manager is a [slog.Handler] that forwards records to a set of named
// handlers, which can be added and removed while logging.
type Manager struct {
	sync.RWMutex
	handlers map[string]slog.Handler
	attrs    []slog.Attr
	groups   []string
}

// NewManager returns a pointer to a new [Manager] without handlers.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[string]slog.Handler),
	}
}

func (m *Manager) Enabled(ctx context.Context, level slog.Level) bool {
	m.RLock()
	defer m.RUnlock()

	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (m *Manager) Handle(ctx context.Context, r slog.Record) error {
	m.RLock()
	defer m.RUnlock()

	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}

	return nil
}

func (m *Manager) WithAttrs(attrs []slog.Attr) slog.Handler {
	m.RLock()
	defer m.RUnlock()

	newAttrs := make([]slog.Attr, 0, len(m.attrs)+len(attrs))
	newAttrs = append(newAttrs, m.attrs...)
	newAttrs = append(newAttrs, attrs...)

	newM := &Manager{
		handlers: make(map[string]slog.Handler, len(m.handlers)),
		attrs:    newAttrs,
		groups:   append([]string(nil), m.groups...),
	}

	for name, h := range m.handlers {
		newM.handlers[name] = h.WithAttrs(attrs)
	}

	return newM
}

func (m *Manager) WithGroup(name string) slog.Handler {
	m.RLock()
	defer m.RUnlock()

	newM := &Manager{
		handlers: make(map[string]slog.Handler, len(m.handlers)),
		attrs:    append([]slog.Attr(nil), m.attrs...),
		groups:   append(append([]string(nil), m.groups...), name),
	}

	for handlerName, h := range m.handlers {
		newM.handlers[handlerName] = h.WithGroup(name)
	}

	return newM
}

// AddHandler registers handler under name, replaying attributes and groups
// already applied to the manager.
func (m *Manager) AddHandler(name string, handler slog.Handler) {
	m.Lock()
	defer m.Unlock()

	h := handler
	if len(m.attrs) > 0 {
		h = h.WithAttrs(m.attrs)
	}
	for _, group := range m.groups {
		h = h.WithGroup(group)
	}

	m.handlers[name] = h
}
