package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Event records one successful change made through the console.
type Event struct {
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
	Role   string    `json:"role"`
	Action string    `json:"action"`
	Entity string    `json:"entity"`
	Key    string    `json:"key"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(actor Actor, action, entity, key string) Event {
	return Event{
		ID:     uuid.NewString(),
		At:     time.Now().UTC(),
		Actor:  actor.Email,
		Role:   actor.Role,
		Action: action,
		Entity: entity,
		Key:    key,
	}
}

// Actor is who made a change.
type Actor struct {
	Email string
	Role  string
}

// Publisher delivers audit events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes audit events to a structured logger.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that logs through logger.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.logger.InfoContext(ctx, "audit",
		"id", e.ID, "actor", e.Actor, "role", e.Role,
		"action", e.Action, "entity", e.Entity, "key", e.Key)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
