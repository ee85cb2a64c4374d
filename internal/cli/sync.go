package cli

import (
	"github.com/spf13/cobra"

	"stax.dev/stax/internal/actions"
	"stax.dev/stax/internal/runtime"
)

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull trunk and restack every tracked stack on top of it",
		Long: `Pull trunk from its remote and restack every tracked stack on top of it.
If a stack hits conflicts, sync pauses; resolve them and run 'stax continue'
to finish that stack and the remaining ones.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := runtime.GetContext()
			if err != nil {
				return err
			}

			return actions.SyncAction(cmd.Context(), rc)
		},
	}

	return cmd
}
