package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// out receives everything the commands print for the user. Log lines go to
// stderr through the logger instead.
var out io.Writer = os.Stdout

// Palette, in 256-colour codes.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleLink      = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleKey         = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// status marks the leading icon of a one-line message.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorLabel)}
)

func (s status) print(msg string) {
	fmt.Fprintln(out, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { statusOK.print(fmt.Sprintf(format, args...)) }

func printError(format string, args ...any) { statusFail.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	statusWarn.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) { statusInfo.print(fmt.Sprintf(format, args...)) }

// printDetail prints an indented muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printTitle prints a heading followed by optional muted context.
func printTitle(title string, context ...string) {
	line := StyleTitle.Render(title)
	if len(context) > 0 {
		line += " " + StyleDim.Render(strings.Join(context, " "))
	}
	fmt.Fprintln(out, line)
}

func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printRunStats summarises a digest run on one line, e.g.
// "8 panels · 1 failed · 24.3 KB".
func printRunStats(drawn, failed, dropped, size int) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d panels", drawn))}
	if failed > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d failed", failed)))
	}
	if dropped > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d blocks dropped", dropped)))
	}
	parts = append(parts, StyleDim.Render(formatSize(size)))
	fmt.Fprintln(out, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// printInline prints a muted prompt without a newline.
func printInline(format string, args ...any) {
	fmt.Fprint(out, StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printNewline() { fmt.Fprintln(out) }
