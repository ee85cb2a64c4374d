package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stax.dev/stax/internal/cli"
)

func TestNewRootCmd(t *testing.T) {
	root := cli.NewRootCmd("1.2.3", "abcdef", "2026-01-01")

	t.Run("registers all subcommands", func(t *testing.T) {
		want := []string{
			"init", "track", "untrack", "create", "delete",
			"log", "restack", "sync", "continue", "abort",
		}

		names := make(map[string]bool)
		for _, cmd := range root.Commands() {
			names[cmd.Name()] = true
		}

		for _, name := range want {
			require.True(t, names[name], "missing command %s", name)
		}
	})

	t.Run("version string includes the build info", func(t *testing.T) {
		require.Contains(t, root.Version, "1.2.3")
		require.Contains(t, root.Version, "abcdef")
	})

	t.Run("restack scope flags are mutually exclusive", func(t *testing.T) {
		root := cli.NewRootCmd("dev", "none", "unknown")
		root.SetArgs([]string{"restack", "--only", "--upstack"})
		err := root.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "only one of")
	})
}
