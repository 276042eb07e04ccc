package promptconfig_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/promptdeck/internal/adapter/memory"
	"github.com/alanyang/promptdeck/internal/domain/prompt"
	"github.com/alanyang/promptdeck/internal/mocks"
	"github.com/alanyang/promptdeck/internal/service/persist"
	"github.com/alanyang/promptdeck/internal/service/promptconfig"
)

func ptr[T any](v T) *T { return &v }

func newAttachedStore(t *testing.T) (*promptconfig.Store, *mocks.MockSaveCoordinator) {
	t.Helper()
	ctrl := gomock.NewController(t)
	saver := mocks.NewMockSaveCoordinator(ctrl)
	store := promptconfig.NewStore()
	store.Attach(saver)
	return store, saver
}

func TestNewStore_HoldsDefaults(t *testing.T) {
	store := promptconfig.NewStore()
	assert.Equal(t, prompt.Defaults(), store.Snapshot())
	assert.Equal(t, uint64(0), store.Version())
}

func TestLoad_Missing(t *testing.T) {
	store := promptconfig.NewStore()
	require.NoError(t, store.Load(context.Background(), memory.NewStorage()))
	assert.Equal(t, prompt.Defaults(), store.Snapshot())
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStorage()
	require.NoError(t, st.Put(ctx, promptconfig.StorageKey, []byte(`{
		"systemPrompt": {"id": "default", "name": "Mine", "content": "custom", "enabled": true, "isDefault": false},
		"customPrompts": [{"id": "1", "name": "n", "content": "c", "enabled": true, "order": 0, "category": "suffix"}],
		"roles": []
	}`)))

	store := promptconfig.NewStore()
	require.NoError(t, store.Load(ctx, st))

	cfg := store.Snapshot()
	assert.Equal(t, prompt.DefaultTools(), cfg.Tools)
	assert.Equal(t, "custom", cfg.SystemPrompt.Content)
	assert.Empty(t, cfg.Roles)
}

func TestLoad_CorruptBlobFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStorage()
	require.NoError(t, st.Put(ctx, promptconfig.StorageKey, []byte(`{"systemPrompt": `)))

	store := promptconfig.NewStore()
	err := store.Load(ctx, st)

	var re *persist.ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, prompt.Defaults(), store.Snapshot())

	blob, _ := st.Get(ctx, promptconfig.StorageKey)
	assert.Equal(t, `{"systemPrompt": `, string(blob), "corrupt blob is left in place")
}

func TestLoad_NestedToolParameterKeepsRestOfConfig(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStorage()
	require.NoError(t, st.Put(ctx, promptconfig.StorageKey, []byte(`{
		"systemPrompt": {"id": "default", "name": "Mine", "content": "custom", "enabled": true, "isDefault": false},
		"customPrompts": [{"id": "1", "name": "n", "content": "Be brief", "enabled": true, "order": 0, "category": "suffix"}],
		"tools": [{"id": "t1", "name": "Lint", "description": "lints", "enabled": true, "parameters": {"opts": {"deep": true}}}]
	}`)))

	store := promptconfig.NewStore()
	require.NoError(t, store.Load(ctx, st))

	cfg := store.Snapshot()
	assert.Equal(t, "custom", cfg.SystemPrompt.Content)
	require.Len(t, cfg.CustomPrompts, 1)
	require.Len(t, cfg.Tools, 1)
	assert.Equal(t, `{"deep":true}`, cfg.Tools[0].Parameters["opts"].String())
	assert.Contains(t, store.Compose(), "Be brief")
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStorage()

	writer := promptconfig.NewStore()
	_, err := writer.UpdateRole(ctx, "developer", prompt.RolePatch{Enabled: ptr(true)})
	require.NoError(t, err)
	data, err := writer.Encode()
	require.NoError(t, err)

	reader, saver := newAttachedStore(t)
	saver.EXPECT().Schedule().Times(0)
	saver.EXPECT().SaveNow(gomock.Any()).Times(0)
	var notified int
	reader.Subscribe(func(uint64) { notified++ })

	version, err := reader.Reload(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), version, "nothing stored keeps the state")

	require.NoError(t, st.Put(ctx, promptconfig.StorageKey, data))
	version, err = reader.Reload(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)
	assert.True(t, reader.Snapshot().Roles[0].Enabled)
	assert.Zero(t, notified, "a reload is not a local change")

	require.NoError(t, st.Put(ctx, promptconfig.StorageKey, []byte("{broken")))
	_, err = reader.Reload(ctx, st)
	var re *persist.ReadError
	require.ErrorAs(t, err, &re)
	assert.True(t, reader.Snapshot().Roles[0].Enabled, "a broken snapshot keeps the current state")
}

func TestAddCustomPrompt_AssignsIDAndOrder(t *testing.T) {
	store, saver := newAttachedStore(t)
	saver.EXPECT().Schedule().Times(2)
	ctx := context.Background()

	a := store.AddCustomPrompt(ctx, prompt.CustomPromptDraft{Name: "a", Content: "A", Category: prompt.CategoryPrefix, Enabled: true})
	b := store.AddCustomPrompt(ctx, prompt.CustomPromptDraft{Name: "b", Content: "B", Category: prompt.CategorySuffix, Enabled: true})

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)
	assert.Equal(t, uint64(2), store.Version())
}

func TestUpdateRole_ToggleSavesImmediately(t *testing.T) {
	store, saver := newAttachedStore(t)
	gomock.InOrder(
		saver.EXPECT().Schedule(),
		saver.EXPECT().SaveNow(gomock.Any()).Return(nil),
	)

	role, err := store.UpdateRole(context.Background(), "developer", prompt.RolePatch{Enabled: ptr(true)})
	require.NoError(t, err)
	assert.True(t, role.Enabled)
	assert.True(t, store.Snapshot().Roles[0].Enabled)
}

func TestUpdateRole_NonToggleOnlySchedules(t *testing.T) {
	store, saver := newAttachedStore(t)
	saver.EXPECT().Schedule()

	role, err := store.UpdateRole(context.Background(), "developer", prompt.RolePatch{Name: ptr("Dev")})
	require.NoError(t, err)
	assert.Equal(t, "Dev", role.Name)
}

func TestUpdate_UnknownIDIsNoOp(t *testing.T) {
	store, _ := newAttachedStore(t)
	ctx := context.Background()

	_, err := store.UpdateTool(ctx, "missing", prompt.ToolPatch{Enabled: ptr(true)})
	assert.ErrorIs(t, err, promptconfig.ErrNotFound)
	_, err = store.UpdateCustomPrompt(ctx, "missing", prompt.CustomPromptPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, promptconfig.ErrNotFound)
	assert.ErrorIs(t, store.DeleteRole(ctx, "missing"), promptconfig.ErrNotFound)
	assert.ErrorIs(t, store.DeleteTool(ctx, "missing"), promptconfig.ErrNotFound)
	assert.ErrorIs(t, store.DeleteCustomPrompt(ctx, "missing"), promptconfig.ErrNotFound)

	assert.Equal(t, uint64(0), store.Version())
	assert.Equal(t, prompt.Defaults(), store.Snapshot())
}

func TestDeleteTool(t *testing.T) {
	store, saver := newAttachedStore(t)
	saver.EXPECT().Schedule()

	require.NoError(t, store.DeleteTool(context.Background(), "code-review"))
	tools := store.Snapshot().Tools
	require.Len(t, tools, 1)
	assert.Equal(t, "debug-helper", tools[0].ID)
}

func TestPresets(t *testing.T) {
	store, saver := newAttachedStore(t)
	saver.EXPECT().Schedule().Times(2)
	ctx := context.Background()

	role, err := store.AddRolePreset(ctx, "security")
	require.NoError(t, err)
	assert.True(t, role.Enabled)

	tool, err := store.AddToolPreset(ctx, "analyze-code")
	require.NoError(t, err)
	assert.True(t, tool.Enabled)

	_, err = store.AddRolePreset(ctx, "astronaut")
	assert.ErrorIs(t, err, promptconfig.ErrUnknownPreset)
	_, err = store.AddToolPreset(ctx, "astronaut")
	assert.ErrorIs(t, err, promptconfig.ErrUnknownPreset)
}

func TestResetToDefaults(t *testing.T) {
	store, saver := newAttachedStore(t)
	saver.EXPECT().Schedule().Times(2)
	ctx := context.Background()

	store.AddRole(ctx, prompt.RoleDraft{Name: "QA", Prompt: "test", Enabled: true})
	store.ResetToDefaults(ctx)

	assert.Equal(t, prompt.Defaults(), store.Snapshot())
	assert.Equal(t, uint64(2), store.Version())
}

func TestSnapshot_DoesNotAlias(t *testing.T) {
	store := promptconfig.NewStore()
	snap := store.Snapshot()
	snap.Roles[0].Name = "hacked"
	snap.Tools[0].Parameters["x"] = prompt.StringParam("y")

	fresh := store.Snapshot()
	assert.NotEqual(t, "hacked", fresh.Roles[0].Name)
	assert.NotContains(t, fresh.Tools[0].Parameters, "x")
}

func TestSubscribe_OrderAndUnsubscribe(t *testing.T) {
	store := promptconfig.NewStore()
	ctx := context.Background()

	var calls []string
	unsubA := store.Subscribe(func(v uint64) { calls = append(calls, "a") })
	store.Subscribe(func(v uint64) { calls = append(calls, "b") })

	store.UpdateSystemPrompt(ctx, prompt.SystemPromptPatch{Content: ptr("x")})
	unsubA()
	unsubA()
	store.UpdateSystemPrompt(ctx, prompt.SystemPromptPatch{Content: ptr("y")})

	assert.Equal(t, []string{"a", "b", "b"}, calls)
}

func TestListenerMayReadStore(t *testing.T) {
	store := promptconfig.NewStore()
	var composed string
	store.Subscribe(func(uint64) { composed = store.Compose() })

	store.UpdateRole(context.Background(), "architect", prompt.RolePatch{Enabled: ptr(true)})
	assert.Contains(t, composed, "Architecte Logiciel")
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStorage()

	store := promptconfig.NewStore()
	p := persist.New(st, promptconfig.StorageKey, store.Encode, 10*time.Millisecond)
	store.Attach(p)

	store.AddCustomPrompt(ctx, prompt.CustomPromptDraft{Name: "n", Content: "Be concise", Category: prompt.CategorySuffix, Enabled: true})
	require.Eventually(t, func() bool { return !p.Status().Pending && !p.Status().LastSaved.IsZero() }, time.Second, 5*time.Millisecond)

	reloaded := promptconfig.NewStore()
	require.NoError(t, reloaded.Load(ctx, st))
	assert.Equal(t, store.Snapshot(), reloaded.Snapshot())
}

func TestConcurrentMutations(t *testing.T) {
	store := promptconfig.NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddTool(ctx, prompt.ToolDraft{Name: "t", Description: "d"})
		}()
	}
	wg.Wait()

	assert.Len(t, store.Snapshot().Tools, 52)
	assert.Equal(t, uint64(50), store.Version())
}
