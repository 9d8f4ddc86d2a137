package feedback

import (
	"context"
	"sync"
)

// Level is the kind of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Toast is a short-lived message shown to the user.
type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives toasts raised while handling one user action.
type Notifier interface {
	Notify(t Toast)
}

type discard struct{}

func (discard) Notify(Toast) {}

// Discard drops every toast.
var Discard Notifier = discard{}

// Collector gathers the toasts of one request.
type Collector struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify implements Notifier.
func (c *Collector) Notify(t Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, t)
}

// Toasts returns what was collected so far.
func (c *Collector) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// Success, Error and Info are shorthands for notifying a level.
func Success(n Notifier, msg string) { n.Notify(Toast{Level: LevelSuccess, Message: msg}) }
func Error(n Notifier, msg string)   { n.Notify(Toast{Level: LevelError, Message: msg}) }
func Info(n Notifier, msg string)    { n.Notify(Toast{Level: LevelInfo, Message: msg}) }

// Store keeps toasts across a redirect, keyed by the console session id.
type Store interface {
	Push(ctx context.Context, sid string, toasts ...Toast) error
	// Drain returns and removes every pending toast of sid.
	Drain(ctx context.Context, sid string) ([]Toast, error)
}
