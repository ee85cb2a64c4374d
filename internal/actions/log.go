package actions

import (
	"stax.dev/stax/internal/output"
	"stax.dev/stax/internal/runtime"
)

// LogAction prints the tracked branch forest rooted at trunk.
func LogAction(rc *runtime.Context) error {
	eng := rc.Engine
	splog := rc.Splog

	renderer := output.NewStackTreeRenderer(
		eng.CurrentBranch(),
		eng.GetChildren,
		eng.IsBranchFixed,
	)

	splog.Info("%s", renderer.RenderForest(eng.Trunk()))

	if pending, err := rc.Continuations.Peek(); err == nil && pending != nil {
		splog.Newline()
		splog.Warn("A restack is paused on conflicts. Run 'stax continue' or 'stax abort'.")
	}
	return nil
}
