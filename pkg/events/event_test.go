package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubEvent struct {
	id uuid.UUID
	at time.Time
}

func (e stubEvent) EventType() string      { return "stub.event" }
func (e stubEvent) AggregateID() uuid.UUID { return e.id }
func (e stubEvent) OccurredAt() time.Time  { return e.at }

func TestCollector_RecordAndClear(t *testing.T) {
	var c Collector

	assert.Empty(t, c.Events())

	first := stubEvent{id: uuid.New(), at: time.Now()}
	second := stubEvent{id: uuid.New(), at: time.Now()}
	c.Record(first)
	c.Record(second)

	assert.Len(t, c.Events(), 2)
	assert.Equal(t, first, c.Events()[0])

	cleared := c.ClearEvents()
	assert.Len(t, cleared, 2)
	assert.Empty(t, c.Events())
}
