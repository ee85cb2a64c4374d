// Package engine provides the core branch state management interface and implementation.
// It tracks branch relationships and provides operations for querying and
// manipulating the branch stack, including restack planning and execution.
package engine

import (
	"context"
)

// BranchReader provides read-only access to branch information
// Thread-safe: All methods are safe for concurrent use
type BranchReader interface {
	// State queries
	AllBranchNames() []string
	CurrentBranch() string
	Trunk() string
	GetParent(branchName string) string         // Returns empty string if no parent
	GetParentRevision(branchName string) string // Recorded parent revision, empty if untracked
	GetChildren(branchName string) []string
	GetRelativeStack(branchName string, scope Scope) []string
	IsTrunk(branchName string) bool
	IsBranchTracked(branchName string) bool
	IsBranchFixed(branchName string) bool

	// Commit information
	GetRevision(branchName string) (string, error)
}

// BranchWriter provides write operations for branch management
// Thread-safe: All methods are safe for concurrent use
type BranchWriter interface {
	// Branch tracking
	TrackBranch(branchName string, parentBranchName string) error
	UntrackBranch(branchName string) error
	SetParent(branchName string, parentBranchName string) error
	DeleteBranch(ctx context.Context, branchName string) error

	// Initialization operations
	Reset(newTrunkName string) error
	Rebuild(newTrunkName string) error
}

// RestackManager plans and executes restacks.
// Thread-safe: All methods are safe for concurrent use
type RestackManager interface {
	// PlanRestack computes the ordered rebase steps for a branch and its
	// relatives per scope. Planning is idempotent: a subtree that is already
	// consistent yields an empty plan.
	PlanRestack(branchName string, scope Scope) ([]RestackStep, error)

	// ExecuteRestackStep performs one plan step. The branch's recorded
	// parent revision is only advanced after the rebase fully succeeds.
	ExecuteRestackStep(ctx context.Context, step RestackStep) (RestackStepResult, error)

	// ContinueRestack finishes the in-progress rebase of pendingBranch and,
	// on success, records pendingBase as its parent revision.
	ContinueRestack(ctx context.Context, pendingBranch, pendingBase string) (RestackResult, error)

	// Sync operations
	PullTrunk(ctx context.Context) error
}

// Engine is the core interface for branch state management.
// It composes BranchReader, BranchWriter, and RestackManager.
// Thread-safe: All methods are safe for concurrent use
type Engine interface {
	BranchReader
	BranchWriter
	RestackManager
}
