// Package colors provides the CLI's output styles with TTY-aware defaults.
//
// Colors are automatically disabled when stdout is not a terminal (piped or
// redirected to a file). Use Init() to override based on CLI flags.
package colors

import "github.com/fatih/color"

// Init allows overriding the auto-detected color setting.
//   - forceColor == nil: keep auto-detected value
//   - forceColor == true: force colors on (--color)
//   - forceColor == false: force colors off (--no-color)
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// Enabled returns true if colors are currently enabled.
func Enabled() bool {
	return !color.NoColor
}

// Key styles field labels in summaries.
func Key() *color.Color { return color.New(color.Bold, color.FgHiBlue) }

// Hash styles map fingerprints.
func Hash() *color.Color { return color.New(color.Bold, color.FgHiGreen) }

// Reject styles rejection codes.
func Reject() *color.Color { return color.New(color.Bold, color.FgHiRed) }

// Faint styles secondary details such as sizes.
func Faint() *color.Color { return color.New(color.Faint) }

var roles = map[string]color.Attribute{
	"manifest":   color.FgHiMagenta,
	"cover":      color.FgHiCyan,
	"audio":      color.FgHiYellow,
	"difficulty": color.FgHiGreen,
}

// Role styles the part a member plays in a map. Unknown roles are faint.
func Role(role string) *color.Color {
	if attr, ok := roles[role]; ok {
		return color.New(color.Bold, attr)
	}
	return Faint()
}
