package actions_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"stax.dev/stax/internal/actions"
	"stax.dev/stax/internal/config"
	"stax.dev/stax/internal/engine"
	staxerrors "stax.dev/stax/internal/errors"
	"stax.dev/stax/internal/git"
	"stax.dev/stax/testhelpers"
)

func TestRestackAction(t *testing.T) {
	t.Run("restacks a whole stack", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		s.CreateBranch("a").CommitChange("a", "a change").
			CreateBranch("b").CommitChange("b", "b change").
			Checkout("main").
			TrackBranch("a", "main").
			TrackBranch("b", "a").
			CommitChange("trunk", "trunk moved")

		err := actions.RestackAction(ctx, s.Context, actions.RestackOptions{
			BranchName: "a",
			Scope:      engine.ScopeFull,
		})
		require.NoError(t, err)

		require.True(t, s.Engine.IsBranchFixed("a"))
		require.True(t, s.Engine.IsBranchFixed("b"))
		require.False(t, s.Context.Continuations.HasPending())
	})

	t.Run("refuses a dirty working tree", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		s.CreateBranch("a").Commit("a change").
			Checkout("main").
			TrackBranch("a", "main")

		// Unstaged modification to a tracked file
		require.NoError(t, s.Repo.CreateChange("dirty", "init", true))

		err := actions.RestackAction(ctx, s.Context, actions.RestackOptions{
			BranchName: "a",
			Scope:      engine.ScopeFull,
		})
		require.ErrorIs(t, err, staxerrors.ErrDirtyWorkingState)
	})

	t.Run("conflict persists the remaining plan", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		s.CommitChange("conflict", "base").
			CreateBranch("a").CommitChange("conflict", "a side").
			CreateBranch("b").CommitChange("b", "b change").
			Checkout("main").
			TrackBranch("a", "main").
			TrackBranch("b", "a").
			CommitChange("conflict", "trunk side")

		err := actions.RestackAction(ctx, s.Context, actions.RestackOptions{
			BranchName: "a",
			Scope:      engine.ScopeFull,
		})
		require.ErrorIs(t, err, staxerrors.ErrRebaseConflict)

		top, err := s.Context.Continuations.Peek()
		require.NoError(t, err)
		require.NotNil(t, top)
		require.Equal(t, config.FrameKindRestack, top.Kind)
		require.Equal(t, "a", top.Restack.PendingBranch)
		require.Len(t, top.Restack.RemainingPlan, 1)
		require.Equal(t, "b", top.Restack.RemainingPlan[0].Branch)

		// A second command is refused while the continuation is pending
		err = actions.RestackAction(ctx, s.Context, actions.RestackOptions{
			BranchName: "a",
			Scope:      engine.ScopeFull,
		})
		require.ErrorIs(t, err, staxerrors.ErrDirtyWorkingState)
	})
}

func TestContinueAction(t *testing.T) {
	t.Run("nothing pending", func(t *testing.T) {
		s := testhelpers.NewScenario(t)

		err := actions.ContinueAction(context.Background(), s.Context, actions.ContinueOptions{})
		require.ErrorIs(t, err, staxerrors.ErrNoPendingOperation)
	})

	t.Run("finishes the pending rebase and the rest of the plan", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		s.CommitChange("conflict", "base").
			CreateBranch("a").CommitChange("conflict", "a side").
			CreateBranch("b").CommitChange("b", "b change").
			Checkout("main").
			TrackBranch("a", "main").
			TrackBranch("b", "a").
			CommitChange("conflict", "trunk side")

		err := actions.RestackAction(ctx, s.Context, actions.RestackOptions{
			BranchName: "a",
			Scope:      engine.ScopeFull,
		})
		require.ErrorIs(t, err, staxerrors.ErrRebaseConflict)

		// Resolve but leave unstaged; --all stages it
		require.NoError(t, s.Repo.CreateChange("resolved", "conflict", true))

		err = actions.ContinueAction(ctx, s.Context, actions.ContinueOptions{AddAll: true})
		require.NoError(t, err)

		require.False(t, s.Context.Continuations.HasPending())
		require.True(t, s.Engine.IsBranchFixed("a"))
		require.True(t, s.Engine.IsBranchFixed("b"))
	})

	t.Run("unresolved conflict keeps the continuation", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		s.CommitChange("conflict", "base").
			CreateBranch("a").CommitChange("conflict", "a side").
			Checkout("main").
			TrackBranch("a", "main").
			CommitChange("conflict", "trunk side")

		err := actions.RestackAction(ctx, s.Context, actions.RestackOptions{
			BranchName: "a",
			Scope:      engine.ScopeFull,
		})
		require.ErrorIs(t, err, staxerrors.ErrRebaseConflict)

		// Continue without resolving anything
		err = actions.ContinueAction(ctx, s.Context, actions.ContinueOptions{})
		require.Error(t, err)
		require.True(t, s.Context.Continuations.HasPending())
	})

	t.Run("rejects a frame without a payload", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		require.NoError(t, os.WriteFile(s.ContinuationPath(), []byte(`{"kind":"restack"}`), 0o600))

		err := actions.ContinueAction(ctx, s.Context, actions.ContinueOptions{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "malformed continuation state")
	})
}

func TestAbortAction(t *testing.T) {
	t.Run("nothing pending", func(t *testing.T) {
		s := testhelpers.NewScenario(t)

		err := actions.AbortAction(context.Background(), s.Context)
		require.ErrorIs(t, err, staxerrors.ErrNoPendingOperation)
	})

	t.Run("aborts the rebase and discards the chain", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		s.CommitChange("conflict", "base").
			CreateBranch("a").CommitChange("conflict", "a side").
			Checkout("main").
			TrackBranch("a", "main").
			CommitChange("conflict", "trunk side")

		err := actions.RestackAction(ctx, s.Context, actions.RestackOptions{
			BranchName: "a",
			Scope:      engine.ScopeFull,
		})
		require.ErrorIs(t, err, staxerrors.ErrRebaseConflict)

		require.NoError(t, actions.AbortAction(ctx, s.Context))

		require.False(t, s.Context.Continuations.HasPending())

		// The branch was never rewritten, so it still needs a restack
		s.Rebuild()
		require.False(t, s.Engine.IsBranchFixed("a"))
	})
}

func TestSyncAction(t *testing.T) {
	t.Run("restacks every stack root", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		s.CreateBranch("s1").CommitChange("s1", "s1 change").
			Checkout("main").
			CreateBranch("s2").CommitChange("s2", "s2 change").
			Checkout("main").
			TrackBranch("s1", "main").
			TrackBranch("s2", "main").
			CommitChange("trunk", "trunk moved")

		require.NoError(t, actions.SyncAction(ctx, s.Context))

		require.True(t, s.Engine.IsBranchFixed("s1"))
		require.True(t, s.Engine.IsBranchFixed("s2"))
		require.False(t, s.Context.Continuations.HasPending())
	})

	t.Run("pulls trunk while on a stacked branch", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		s.WithBareRemote().Commit("remote change")
		require.NoError(t, s.Repo.RunGitCommand("push", "origin", "main"))
		remoteTip, err := s.Repo.RevParse("main")
		require.NoError(t, err)
		require.NoError(t, s.Repo.RunGitCommand("reset", "--hard", "HEAD~1"))
		staleTip, err := s.Repo.RevParse("main")
		require.NoError(t, err)

		s.Rebuild().
			CreateBranch("s1").CommitChange("s1", "s1 change").
			TrackBranch("s1", "main")

		require.NoError(t, actions.SyncAction(ctx, s.Context))

		// The trunk advanced to the remote tip; the checked out branch was
		// restacked onto it rather than fast-forwarded in its place.
		mainTip, err := s.Repo.RevParse("main")
		require.NoError(t, err)
		require.Equal(t, remoteTip, mainTip)

		s1Tip, err := s.Repo.RevParse("s1")
		require.NoError(t, err)
		require.NotEqual(t, remoteTip, s1Tip)
		require.NotEqual(t, staleTip, s1Tip)

		onto, err := git.IsAncestor("main", "s1")
		require.NoError(t, err)
		require.True(t, onto)
		require.True(t, s.Engine.IsBranchFixed("s1"))
	})

	t.Run("failed trunk pull aborts the sync", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		s.WithBareRemote().Commit("remote change")
		require.NoError(t, s.Repo.RunGitCommand("push", "origin", "main"))
		require.NoError(t, s.Repo.RunGitCommand("reset", "--hard", "HEAD~1"))

		// Diverge local main so the trunk cannot fast-forward
		s.CommitChange("local", "local change").
			CreateBranch("s1").CommitChange("s1", "s1 change").
			Checkout("main").
			TrackBranch("s1", "main")

		err := actions.SyncAction(ctx, s.Context)
		require.Error(t, err)
		require.NotErrorIs(t, err, staxerrors.ErrRebaseConflict)
		require.False(t, s.Context.Continuations.HasPending())
	})

	t.Run("conflict in one stack suspends and continue finishes all of them", func(t *testing.T) {
		s := testhelpers.NewScenario(t)
		ctx := context.Background()

		s.CommitChange("conflict", "base").
			CreateBranch("s1").CommitChange("conflict", "s1 side").
			Checkout("main").
			CreateBranch("s2").CommitChange("s2", "s2 change").
			Checkout("main").
			TrackBranch("s1", "main").
			TrackBranch("s2", "main").
			CommitChange("conflict", "trunk side")

		err := actions.SyncAction(ctx, s.Context)
		require.ErrorIs(t, err, staxerrors.ErrRebaseConflict)

		// Restack frame on top, the sync frame with the untouched roots below
		top, err := s.Context.Continuations.Peek()
		require.NoError(t, err)
		require.Equal(t, config.FrameKindRestack, top.Kind)
		require.Equal(t, "s1", top.Restack.PendingBranch)
		require.NotNil(t, top.Parent)
		require.Equal(t, config.FrameKindSync, top.Parent.Kind)
		require.Equal(t, []string{"s2"}, top.Parent.Sync.RemainingRoots)

		require.NoError(t, s.Repo.CreateChange("resolved", "conflict", false))

		require.NoError(t, actions.ContinueAction(ctx, s.Context, actions.ContinueOptions{}))

		require.False(t, s.Context.Continuations.HasPending())
		require.True(t, s.Engine.IsBranchFixed("s1"))
		require.True(t, s.Engine.IsBranchFixed("s2"))
	})
}
