package actions

import (
	"context"

	"stax.dev/stax/internal/engine"
	"stax.dev/stax/internal/runtime"
)

// RestackOptions contains options for the restack command
type RestackOptions struct {
	BranchName string
	Scope      engine.Scope
}

// RestackAction plans and executes a restack of the requested stack.
// On conflict the remaining plan is persisted and the returned error tells
// the user to resolve and run continue.
func RestackAction(ctx context.Context, rc *runtime.Context, opts RestackOptions) error {
	eng := rc.Engine
	splog := rc.Splog

	if err := CheckCleanPreconditions(ctx, rc); err != nil {
		return err
	}

	plan, err := eng.PlanRestack(opts.BranchName, opts.Scope)
	if err != nil {
		return err
	}

	if len(plan) == 0 {
		splog.Info("No branches need to be restacked.")
		return nil
	}

	payload, err := ExecuteRestackSteps(ctx, plan, rc)
	if err != nil {
		return err
	}
	if payload != nil {
		return suspendRestack(ctx, rc, payload)
	}

	return nil
}
