//go:build integration

package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgeventbus "github.com/alanyang/promptdeck/internal/adapter/postgres/eventbus"
	"github.com/alanyang/promptdeck/internal/domain/event"
	"github.com/alanyang/promptdeck/internal/testutil"
)

func TestEventBus_DeliversAcrossConnections(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	bus := pgeventbus.New(pool)

	received := make(chan event.Event, 1)
	sub, err := bus.Subscribe(ctx, event.ChannelTheme, func(_ context.Context, e event.Event) {
		received <- e
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeThemeChanged, 3, "dark-green")))

	select {
	case e := <-received:
		assert.Equal(t, event.TypeThemeChanged, e.Type)
		assert.Equal(t, uint64(3), e.Version)
		assert.Equal(t, "dark-green", e.EntityID)
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
}
