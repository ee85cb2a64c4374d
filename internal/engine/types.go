package engine

import (
	"stax.dev/stax/internal/config"
)

// RestackStep is one step of a restack plan. It is an alias of the config
// type because the remaining suffix of a plan is exactly what gets
// persisted into a continuation frame.
type RestackStep = config.RestackStep

// Scope specifies the scope for stack operations
type Scope struct {
	RecursiveParents  bool
	IncludeCurrent    bool
	RecursiveChildren bool
}

// ScopeFull covers the whole stack around a branch: ancestors, the branch
// itself, and all descendants.
var ScopeFull = Scope{
	RecursiveParents:  true,
	IncludeCurrent:    true,
	RecursiveChildren: true,
}

// ScopeUpstackInclusive covers a branch and all its descendants.
var ScopeUpstackInclusive = Scope{
	IncludeCurrent:    true,
	RecursiveChildren: true,
}

// RestackResult represents the result of restacking a branch
type RestackResult int

const (
	// RestackDone indicates the restack was successful
	RestackDone RestackResult = iota
	// RestackUnneeded indicates no restack was needed
	RestackUnneeded
	// RestackConflict indicates a conflict occurred during restack
	RestackConflict
)

// RestackStepResult represents the result of executing one plan step
type RestackStepResult struct {
	Result RestackResult
	// NewParentRevision is the base the branch was (or is being) rebased
	// onto. On conflict this is the revision to record once the user
	// resolves and continues.
	NewParentRevision string
}
