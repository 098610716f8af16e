package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls int
	boom := errors.New("boom")
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error {
		calls++
		return nil
	})
	d.Subscribe(EventPasswordResetRequested, func(context.Context, Event) error {
		t.Fatal("unrelated handler invoked")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventUserRegistered})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
