// Package runtime provides a context type that holds the engine and logger
// for use throughout the application. This avoids passing multiple parameters.
package runtime

import (
	"fmt"

	"stax.dev/stax/internal/config"
	"stax.dev/stax/internal/engine"
	"stax.dev/stax/internal/git"
	"stax.dev/stax/internal/output"
)

// Context provides access to the engine, output, and continuation store
type Context struct {
	Engine        engine.Engine
	Splog         *output.Splog
	RepoRoot      string
	Continuations *config.ContinuationStore
}

// NewContext creates a new context for the given repository root
func NewContext(eng engine.Engine, repoRoot string) *Context {
	return &Context{
		Engine:        eng,
		Splog:         output.NewSplog(),
		RepoRoot:      repoRoot,
		Continuations: config.NewContinuationStore(repoRoot),
	}
}

// GetContext initializes git, checks the repo is set up, and builds a Context
func GetContext() (*Context, error) {
	if err := git.InitDefaultRepo(); err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to get repo root: %w", err)
	}

	if !config.IsInitialized(repoRoot) {
		return nil, fmt.Errorf("stax not initialized. Run 'stax init' first")
	}

	eng, err := engine.NewEngine(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return NewContext(eng, repoRoot), nil
}
