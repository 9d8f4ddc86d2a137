package audit

import (
	"context"
	"log/slog"

	"github.com/erazemk/cruisedesk/internal/manager"
	"github.com/erazemk/cruisedesk/internal/model"
)

// Source wraps a manager source and publishes an event after every
// successful mutation. Publish failures are logged and never fail the change.
type Source[T manager.Record] struct {
	inner  manager.Source[T]
	pub    Publisher
	entity string
	actor  Actor
}

// Wrap returns src with auditing for changes made by actor.
func Wrap[T manager.Record](src manager.Source[T], pub Publisher, entity string, actor Actor) *Source[T] {
	return &Source[T]{inner: src, pub: pub, entity: entity, actor: actor}
}

func (s *Source[T]) List(ctx context.Context, page, size int) (model.Page[T], error) {
	return s.inner.List(ctx, page, size)
}

func (s *Source[T]) Create(ctx context.Context, rec T) error {
	if err := s.inner.Create(ctx, rec); err != nil {
		return err
	}
	s.publish(ctx, ActionCreate, rec.Key())
	return nil
}

func (s *Source[T]) Update(ctx context.Context, rec T) error {
	if err := s.inner.Update(ctx, rec); err != nil {
		return err
	}
	s.publish(ctx, ActionUpdate, rec.Key())
	return nil
}

func (s *Source[T]) Delete(ctx context.Context, key string) error {
	if err := s.inner.Delete(ctx, key); err != nil {
		return err
	}
	s.publish(ctx, ActionDelete, key)
	return nil
}

func (s *Source[T]) publish(ctx context.Context, action, key string) {
	e := NewEvent(s.actor, action, s.entity, key)
	if err := s.pub.Publish(ctx, e); err != nil {
		slog.Error("failed to publish audit event", "entity", s.entity, "action", action, "key", key, "error", err)
	}
}
