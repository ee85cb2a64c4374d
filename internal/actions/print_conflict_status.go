package actions

import (
	"context"
	"fmt"

	"stax.dev/stax/internal/git"
	"stax.dev/stax/internal/output"
)

// PrintConflictStatus displays conflict information and instructions to the user
func PrintConflictStatus(ctx context.Context, branchName string, splog *output.Splog) {
	splog.Info("%s", output.ColorRed(fmt.Sprintf("Hit conflict restacking %s", branchName)))
	splog.Newline()

	unmergedFiles, err := git.GetUnmergedFiles(ctx)
	if err == nil && len(unmergedFiles) > 0 {
		splog.Info("%s", output.ColorYellow("Unmerged files:"))
		for _, file := range unmergedFiles {
			splog.Info("%s", output.ColorRed(file))
		}
		splog.Newline()
	}

	if rebaseHead, err := git.GetRebaseHead(); err == nil && len(rebaseHead) > 7 {
		splog.Info("%s", output.ColorYellow(fmt.Sprintf("You are here (resolving %s):", rebaseHead[:7])))
		splog.Newline()
	}

	splog.Info("%s", output.ColorYellow("To fix and continue your previous stax command:"))
	splog.Info("(1) resolve the listed merge conflicts")
	splog.Info("(2) mark them as resolved with %s", output.ColorCyan("git add ."))
	splog.Info("(3) run %s to continue executing your previous stax command", output.ColorCyan("stax continue"))
	splog.Tip("to give up instead, run %s", output.ColorCyan("stax abort"))
}
