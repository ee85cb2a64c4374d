package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testRenderer(current string, children map[string][]string, fixed map[string]bool) *StackTreeRenderer {
	return NewStackTreeRenderer(
		current,
		func(b string) []string { return children[b] },
		func(b string) bool { return fixed[b] },
	)
}

func TestRenderForest(t *testing.T) {
	children := map[string][]string{
		"main": {"a", "c"},
		"a":    {"b"},
	}
	fixed := map[string]bool{"main": true, "a": true, "b": true, "c": false}

	t.Run("trunk renders last", func(t *testing.T) {
		out := testRenderer("b", children, fixed).RenderForest("main")
		lines := strings.Split(out, "\n")

		require.Len(t, lines, 4)
		require.Contains(t, lines[len(lines)-1], "main")
	})

	t.Run("current branch is marked", func(t *testing.T) {
		out := testRenderer("b", children, fixed).RenderForest("main")

		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, "b") && !strings.Contains(line, "needs") {
				require.Contains(t, line, "◉")
				return
			}
		}
		t.Fatal("current branch line not found")
	})

	t.Run("stale branch is annotated", func(t *testing.T) {
		out := testRenderer("main", children, fixed).RenderForest("main")

		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, "c") {
				require.Contains(t, line, "needs restack")
				return
			}
		}
		t.Fatal("stale branch line not found")
	})

	t.Run("children are indented under their parent", func(t *testing.T) {
		out := testRenderer("main", children, fixed).RenderForest("main")
		lines := strings.Split(out, "\n")

		var depthB, depthA int
		for _, line := range lines {
			trimmed := strings.TrimLeft(line, "│ ")
			depth := (len(line) - len(trimmed)) / len("│ ")
			switch {
			case strings.HasSuffix(line, " a"):
				depthA = depth
			case strings.HasSuffix(line, " b"):
				depthB = depth
			}
		}
		require.Equal(t, depthA+1, depthB)
	})
}
