package output

import (
	"strings"
)

// StackTreeRenderer renders the tracked branch forest as indented lines,
// newest branches first within a sibling group reversed so the tree reads
// top-down from the leaves toward trunk.
type StackTreeRenderer struct {
	currentBranch string
	getChildren   func(branchName string) []string
	isBranchFixed func(branchName string) bool
}

// NewStackTreeRenderer creates a new tree renderer
func NewStackTreeRenderer(
	currentBranch string,
	getChildren func(branchName string) []string,
	isBranchFixed func(branchName string) bool,
) *StackTreeRenderer {
	return &StackTreeRenderer{
		currentBranch: currentBranch,
		getChildren:   getChildren,
		isBranchFixed: isBranchFixed,
	}
}

// RenderForest renders the tree rooted at trunk, leaves first
func (r *StackTreeRenderer) RenderForest(trunk string) string {
	var lines []string
	r.renderBranch(trunk, 0, &lines)

	// Leaves first: reverse so trunk ends up at the bottom, matching how
	// the stack is read (newest work on top).
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

func (r *StackTreeRenderer) renderBranch(branchName string, depth int, lines *[]string) {
	marker := "◯"
	if branchName == r.currentBranch {
		marker = "◉"
	}

	line := strings.Repeat("│ ", depth) + marker + " " + ColorBranchName(branchName, branchName == r.currentBranch)
	if !r.isBranchFixed(branchName) {
		line += " " + ColorYellow("(needs restack)")
	}
	*lines = append(*lines, line)

	for _, child := range r.getChildren(branchName) {
		r.renderBranch(child, depth+1, lines)
	}
}
