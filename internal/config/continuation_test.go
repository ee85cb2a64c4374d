package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stax.dev/stax/internal/config"
)

func newStoreDir(t *testing.T) (string, *config.ContinuationStore) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0700))
	return dir, config.NewContinuationStore(dir)
}

func restackFrame(branches ...string) *config.Frame {
	steps := make([]config.RestackStep, 0, len(branches))
	for _, b := range branches {
		steps = append(steps, config.RestackStep{Branch: b})
	}
	return &config.Frame{
		Kind:    config.FrameKindRestack,
		Restack: &config.RestackPayload{RemainingPlan: steps},
	}
}

func TestContinuationStore(t *testing.T) {
	t.Run("empty store has nothing pending", func(t *testing.T) {
		_, store := newStoreDir(t)

		require.False(t, store.HasPending())

		top, err := store.Peek()
		require.NoError(t, err)
		require.Nil(t, top)

		popped, err := store.Pop()
		require.NoError(t, err)
		require.Nil(t, popped)
	})

	t.Run("push then peek returns the frame", func(t *testing.T) {
		_, store := newStoreDir(t)

		require.NoError(t, store.Push(restackFrame("feature")))
		require.True(t, store.HasPending())

		top, err := store.Peek()
		require.NoError(t, err)
		require.NotNil(t, top)
		require.Equal(t, config.FrameKindRestack, top.Kind)
		require.Equal(t, "feature", top.Restack.RemainingPlan[0].Branch)
		require.Nil(t, top.Parent)
	})

	t.Run("pop returns frames in LIFO order", func(t *testing.T) {
		_, store := newStoreDir(t)

		require.NoError(t, store.Push(restackFrame("first")))
		require.NoError(t, store.Push(restackFrame("second")))

		popped, err := store.Pop()
		require.NoError(t, err)
		require.Equal(t, "second", popped.Restack.RemainingPlan[0].Branch)

		popped, err = store.Pop()
		require.NoError(t, err)
		require.Equal(t, "first", popped.Restack.RemainingPlan[0].Branch)

		require.False(t, store.HasPending())
	})

	t.Run("three nested frames unwind innermost first", func(t *testing.T) {
		dir, store := newStoreDir(t)

		require.NoError(t, store.Push(restackFrame("outer")))
		require.NoError(t, store.Push(restackFrame("middle")))
		require.NoError(t, store.Push(restackFrame("inner")))

		// A fresh instance sees the whole chain, not just the last push
		store = config.NewContinuationStore(dir)

		var unwound []string
		for {
			top, err := store.Peek()
			require.NoError(t, err)
			if top == nil {
				break
			}
			unwound = append(unwound, top.Restack.RemainingPlan[0].Branch)

			popped, err := store.Pop()
			require.NoError(t, err)
			require.Equal(t, top.Restack.RemainingPlan[0].Branch, popped.Restack.RemainingPlan[0].Branch)
		}

		require.Equal(t, []string{"inner", "middle", "outer"}, unwound)
		require.False(t, store.HasPending())
	})

	t.Run("state survives a new store instance", func(t *testing.T) {
		dir, store := newStoreDir(t)

		require.NoError(t, store.Push(restackFrame("durable")))

		reopened := config.NewContinuationStore(dir)
		top, err := reopened.Peek()
		require.NoError(t, err)
		require.NotNil(t, top)
		require.Equal(t, "durable", top.Restack.RemainingPlan[0].Branch)
	})

	t.Run("replace top preserves the parent chain", func(t *testing.T) {
		_, store := newStoreDir(t)

		require.NoError(t, store.Push(&config.Frame{
			Kind: config.FrameKindSync,
			Sync: &config.SyncPayload{RemainingRoots: []string{"stack-b"}},
		}))
		require.NoError(t, store.Push(restackFrame("a1", "a2")))

		require.NoError(t, store.ReplaceTop(restackFrame("a2")))

		top, err := store.Peek()
		require.NoError(t, err)
		require.Len(t, top.Restack.RemainingPlan, 1)
		require.Equal(t, "a2", top.Restack.RemainingPlan[0].Branch)

		popped, err := store.Pop()
		require.NoError(t, err)
		require.Equal(t, config.FrameKindRestack, popped.Kind)

		top, err = store.Peek()
		require.NoError(t, err)
		require.Equal(t, config.FrameKindSync, top.Kind)
		require.Equal(t, []string{"stack-b"}, top.Sync.RemainingRoots)
	})

	t.Run("replace top on empty store behaves like push", func(t *testing.T) {
		_, store := newStoreDir(t)

		require.NoError(t, store.ReplaceTop(restackFrame("solo")))

		top, err := store.Peek()
		require.NoError(t, err)
		require.NotNil(t, top)
		require.Nil(t, top.Parent)
	})

	t.Run("clear removes everything", func(t *testing.T) {
		_, store := newStoreDir(t)

		require.NoError(t, store.Push(restackFrame("one")))
		require.NoError(t, store.Push(restackFrame("two")))

		require.NoError(t, store.Clear())
		require.False(t, store.HasPending())

		// Clearing an already-empty store is fine
		require.NoError(t, store.Clear())
	})

	t.Run("pending rebase state round-trips", func(t *testing.T) {
		dir, store := newStoreDir(t)

		require.NoError(t, store.Push(&config.Frame{
			Kind: config.FrameKindRestack,
			Restack: &config.RestackPayload{
				RemainingPlan: []config.RestackStep{{Branch: "later", NewParentRevision: "abc123"}},
				PendingBranch: "stuck",
				PendingBase:   "def456",
			},
		}))

		top, err := config.NewContinuationStore(dir).Peek()
		require.NoError(t, err)
		require.Equal(t, "stuck", top.Restack.PendingBranch)
		require.Equal(t, "def456", top.Restack.PendingBase)
		require.Equal(t, "abc123", top.Restack.RemainingPlan[0].NewParentRevision)
	})
}
