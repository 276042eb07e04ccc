package persist_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/promptdeck/internal/adapter/memory"
	"github.com/alanyang/promptdeck/internal/mocks"
	"github.com/alanyang/promptdeck/internal/port/storage"
	"github.com/alanyang/promptdeck/internal/service/persist"
)

const key = "bolt-test"

func counter(values ...string) (persist.Snapshot, *atomic.Int32) {
	var calls atomic.Int32
	return func() ([]byte, error) {
		n := int(calls.Add(1))
		if n > len(values) {
			n = len(values)
		}
		return []byte(values[n-1]), nil
	}, &calls
}

func TestSchedule_CoalescesBurst(t *testing.T) {
	store := memory.NewStorage()
	snap, calls := counter("v1", "v2", "v3")
	p := persist.New(store, key, snap, 20*time.Millisecond)

	for i := 0; i < 10; i++ {
		p.Schedule()
	}

	assert.Eventually(t, func() bool {
		got, err := store.Get(context.Background(), key)
		return err == nil && string(got) == "v1"
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "a burst produces exactly one write")
	assert.False(t, p.Status().Pending)
	assert.False(t, p.Status().LastSaved.IsZero())
}

func TestSaveNow_CancelsPendingTimer(t *testing.T) {
	store := memory.NewStorage()
	snap, calls := counter("now", "late")
	p := persist.New(store, key, snap, 30*time.Millisecond)

	p.Schedule()
	require.NoError(t, p.SaveNow(context.Background()))
	assert.Equal(t, int32(1), calls.Load())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "superseded timer must not write")

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "now", string(got))
}

func TestFlush_OnlyWritesWhenPending(t *testing.T) {
	store := memory.NewStorage()
	snap, calls := counter("a", "b")
	p := persist.New(store, key, snap, time.Hour)

	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, int32(0), calls.Load())

	p.Schedule()
	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSaveNow_PutFailureIsReportedInStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStorage(ctrl)
	quota := errors.New("quota exceeded")
	store.EXPECT().Put(gomock.Any(), key, []byte("x")).Return(quota)

	p := persist.New(store, key, func() ([]byte, error) { return []byte("x"), nil }, 0)
	err := p.SaveNow(context.Background())

	var we *persist.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, key, we.Key)
	assert.ErrorIs(t, err, quota)
	assert.Equal(t, err, p.Status().LastError)
	assert.False(t, p.Status().Saving)
}

func TestSaveNow_EmptyReadBackFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStorage(ctrl)
	store.EXPECT().Put(gomock.Any(), key, gomock.Any()).Return(nil)
	store.EXPECT().Get(gomock.Any(), key).Return([]byte{}, nil)

	p := persist.New(store, key, func() ([]byte, error) { return []byte("x"), nil }, 0)
	err := p.SaveNow(context.Background())

	var we *persist.WriteError
	require.ErrorAs(t, err, &we)
	assert.Contains(t, err.Error(), "empty")
}

func TestSaveNow_SuccessClearsPreviousError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStorage(ctrl)
	gomock.InOrder(
		store.EXPECT().Put(gomock.Any(), key, gomock.Any()).Return(errors.New("disk full")),
		store.EXPECT().Put(gomock.Any(), key, gomock.Any()).Return(nil),
		store.EXPECT().Get(gomock.Any(), key).Return([]byte("x"), nil),
	)

	p := persist.New(store, key, func() ([]byte, error) { return []byte("x"), nil }, 0)
	require.Error(t, p.SaveNow(context.Background()))
	require.NoError(t, p.SaveNow(context.Background()))
	assert.NoError(t, p.Status().LastError)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStorage()

	data, err := persist.Load(ctx, store, key)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, store.Put(ctx, key, []byte("{}")))
	data, err = persist.Load(ctx, store, key)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	ctrl := gomock.NewController(t)
	broken := mocks.NewMockStorage(ctrl)
	broken.EXPECT().Get(gomock.Any(), key).Return(nil, errors.New("locked"))
	_, err = persist.Load(ctx, broken, key)
	var re *persist.ReadError
	require.ErrorAs(t, err, &re)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}

// gatedStorage blocks the first Put until release is closed.
type gatedStorage struct {
	*memory.Storage
	entered chan struct{}
	release chan struct{}
	puts    atomic.Int32
}

func newGatedStorage() *gatedStorage {
	return &gatedStorage{
		Storage: memory.NewStorage(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedStorage) Put(ctx context.Context, k string, v []byte) error {
	if g.puts.Add(1) == 1 {
		close(g.entered)
		<-g.release
	}
	return g.Storage.Put(ctx, k, v)
}

func TestFlush_WaitsForInFlightWrite(t *testing.T) {
	store := newGatedStorage()
	p := persist.New(store, key, func() ([]byte, error) { return []byte("x"), nil }, 5*time.Millisecond)

	p.Schedule()
	<-store.entered

	done := make(chan error, 1)
	go func() { done <- p.Flush(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Flush returned while the timer write was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), store.puts.Load())

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

func TestSaveNow_SupersedesFiredTimer(t *testing.T) {
	store := newGatedStorage()
	p := persist.New(store, key, func() ([]byte, error) { return []byte("x"), nil }, 5*time.Millisecond)

	first := make(chan error, 1)
	go func() { first <- p.SaveNow(context.Background()) }()
	<-store.entered

	// The timer fires while the first write holds the write lock.
	p.Schedule()
	time.Sleep(30 * time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- p.SaveNow(context.Background()) }()
	time.Sleep(10 * time.Millisecond)

	close(store.release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(2), store.puts.Load(), "the fired timer must not write after SaveNow")
	assert.False(t, p.Status().Pending)
}

func TestOnSaved(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStorage(ctrl)
	gomock.InOrder(
		store.EXPECT().Put(gomock.Any(), key, gomock.Any()).Return(errors.New("disk full")),
		store.EXPECT().Put(gomock.Any(), key, gomock.Any()).Return(nil),
		store.EXPECT().Get(gomock.Any(), key).Return([]byte("x"), nil),
	)

	var saved []string
	p := persist.New(store, key, func() ([]byte, error) { return []byte("x"), nil }, 0)
	p.OnSaved(func(_ context.Context, k string) { saved = append(saved, k) })

	require.Error(t, p.SaveNow(context.Background()))
	assert.Empty(t, saved, "failed writes are not reported")
	require.NoError(t, p.SaveNow(context.Background()))
	assert.Equal(t, []string{key}, saved)
}
