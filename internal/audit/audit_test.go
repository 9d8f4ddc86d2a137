package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/cruisedesk/internal/model"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type lineSource struct {
	fail error
}

func (s *lineSource) List(ctx context.Context, page, size int) (model.Page[model.CruiseLine], error) {
	return model.NewPage([]model.CruiseLine{{ID: 1, Code: "RCL", Name: "Royal Caribbean"}}, page, size, 1), nil
}
func (s *lineSource) Create(ctx context.Context, rec model.CruiseLine) error { return s.fail }
func (s *lineSource) Update(ctx context.Context, rec model.CruiseLine) error { return s.fail }
func (s *lineSource) Delete(ctx context.Context, key string) error           { return s.fail }

var actor = Actor{Email: "admin@example.com", Role: "Admin"}

func TestWrapPublishesSuccessfulChanges(t *testing.T) {
	pub := &recordingPublisher{}
	src := Wrap[model.CruiseLine](&lineSource{}, pub, "cruise line", actor)
	ctx := context.Background()

	_, err := src.List(ctx, 1, 5)
	require.NoError(t, err)
	require.NoError(t, src.Create(ctx, model.CruiseLine{Code: "NCL", Name: "Norwegian"}))
	require.NoError(t, src.Update(ctx, model.CruiseLine{ID: 1, Code: "RCL", Name: "Royal"}))
	require.NoError(t, src.Delete(ctx, "1"))

	require.Len(t, pub.events, 3, "reads are not audited")
	assert.Equal(t, ActionCreate, pub.events[0].Action)
	assert.Equal(t, ActionUpdate, pub.events[1].Action)
	assert.Equal(t, "1", pub.events[1].Key)
	assert.Equal(t, ActionDelete, pub.events[2].Action)
	for _, e := range pub.events {
		assert.Equal(t, "cruise line", e.Entity)
		assert.Equal(t, "admin@example.com", e.Actor)
		assert.NotEmpty(t, e.ID)
	}
}

func TestWrapSkipsFailedChanges(t *testing.T) {
	pub := &recordingPublisher{}
	src := Wrap[model.CruiseLine](&lineSource{fail: errors.New("conflict")}, pub, "cruise line", actor)

	assert.Error(t, src.Delete(context.Background(), "1"))
	assert.Empty(t, pub.events)
}

func TestWrapIgnoresPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	src := Wrap[model.CruiseLine](&lineSource{}, pub, "cruise line", actor)

	assert.NoError(t, src.Delete(context.Background(), "1"))
	assert.Len(t, pub.events, 1)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, pub.Publish(context.Background(), NewEvent(actor, ActionDelete, "ship", "7")))
	assert.Contains(t, buf.String(), "action=delete")
	assert.Contains(t, buf.String(), "entity=ship")
	assert.Contains(t, buf.String(), "key=7")
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	pub := &KafkaPublisher{writer: w}
	e := NewEvent(actor, ActionCreate, "destination", "MIA")

	require.NoError(t, pub.Publish(context.Background(), e))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "destination", string(w.msgs[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "MIA", got.Key)

	w.err = errors.New("leader not available")
	assert.ErrorContains(t, pub.Publish(context.Background(), e), "publishing audit event")
}
