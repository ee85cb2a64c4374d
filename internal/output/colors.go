package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// colorsEnabled is decided once at startup: colors only when stdout is a
// real terminal and the terminal actually supports them.
var colorsEnabled = isatty.IsTerminal(os.Stdout.Fd()) &&
	termenv.ColorProfile() != termenv.Ascii

func render(style lipgloss.Style, text string) string {
	if !colorsEnabled {
		return text
	}
	return style.Render(text)
}

var (
	styleRed    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleCyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleBranch = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleHere   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

// ColorRed colors text red
func ColorRed(text string) string {
	return render(styleRed, text)
}

// ColorYellow colors text yellow
func ColorYellow(text string) string {
	return render(styleYellow, text)
}

// ColorCyan colors text cyan
func ColorCyan(text string) string {
	return render(styleCyan, text)
}

// ColorBranchName styles a branch name, highlighting the current branch
func ColorBranchName(branchName string, isCurrent bool) string {
	if isCurrent {
		return render(styleHere, branchName)
	}
	return render(styleBranch, branchName)
}
