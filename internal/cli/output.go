package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	badgeColor   = color.New(color.FgHiYellow, color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
)

// Successf prints a green check line
func Successf(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", args...)
}

// Warnf prints a yellow warning line
func Warnf(w io.Writer, format string, args ...any) {
	warnColor.Fprintf(w, "⚠️  "+format+"\n", args...)
}

// Badgef announces a newly earned badge
func Badgef(w io.Writer, format string, args ...any) {
	badgeColor.Fprintf(w, format+"\n", args...)
}

// Mutedf prints a dim hint line
func Mutedf(w io.Writer, format string, args ...any) {
	mutedColor.Fprintf(w, format+"\n", args...)
}

// Printf writes plain output
func Printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
