package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/promptdeck/internal/adapter/memory"
	"github.com/alanyang/promptdeck/internal/domain/event"
	"github.com/alanyang/promptdeck/internal/port/storage"
)

func TestStorage_GetPut(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStorage()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	value := []byte("v1")
	require.NoError(t, s.Put(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	got[0] = 'y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "v1", string(again))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEventBus_RoutesByChannel(t *testing.T) {
	ctx := context.Background()
	bus := memory.NewEventBus()

	var themeEvents, promptEvents []event.Event
	themeSub, err := bus.Subscribe(ctx, event.ChannelTheme, func(_ context.Context, e event.Event) {
		themeEvents = append(themeEvents, e)
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, event.ChannelPrompt, func(_ context.Context, e event.Event) {
		promptEvents = append(promptEvents, e)
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeThemeChanged, 1, "dark-blue")))
	require.NoError(t, bus.Publish(ctx, event.New(event.TypePromptConfigChanged, 2, "")))

	require.Len(t, themeEvents, 1)
	assert.Equal(t, "dark-blue", themeEvents[0].EntityID)
	require.Len(t, promptEvents, 1)

	themeSub.Unsubscribe()
	themeSub.Unsubscribe()
	require.NoError(t, bus.Publish(ctx, event.New(event.TypeThemeChanged, 3, "dark-green")))
	assert.Len(t, themeEvents, 1)
}
