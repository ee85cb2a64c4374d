package cli

import (
	"github.com/spf13/cobra"

	"stax.dev/stax/internal/actions"
	"stax.dev/stax/internal/runtime"
)

// newLogCmd creates the log command
func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"ls"},
		Short:   "Print the tracked branch tree",
		Long: `Print the tracked branch tree rooted at trunk. The current branch is
marked and branches whose parent has moved are flagged as needing a
restack.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			rc, err := runtime.GetContext()
			if err != nil {
				return err
			}

			return actions.LogAction(rc)
		},
	}

	return cmd
}
