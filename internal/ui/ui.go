package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Palette
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
	Water  = color.New(color.FgHiBlue, color.Bold)
)

// Out is where tables and status lines go
var Out io.Writer = os.Stdout

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// width is the number of columns s takes on a terminal, ignoring color codes
func width(s string) int {
	return utf8.RuneCountInString(ansiEscape.ReplaceAllString(s, ""))
}

// pad right-pads s with spaces to n visible columns
func pad(s string, n int) string {
	if w := width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// Table prints a simple aligned table.
func Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && width(cell) > widths[i] {
				widths[i] = width(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += pad(h, widths[i]) + "  "
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(Out, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(Out, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += pad(cell, widths[i]) + "  "
			}
		}
		fmt.Fprintln(Out, strings.TrimRight(line, " "))
	}
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// Route formats node names as an arrow chain, highlighting water nodes
func Route(names []string, waterPrefix string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if waterPrefix != "" && strings.HasPrefix(n, waterPrefix) {
			parts[i] = Water.Sprint(n)
		} else {
			parts[i] = n
		}
	}
	return strings.Join(parts, Subtle.Sprint(" → "))
}

// Vector formats a position
func Vector(x, y, z float64) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", x, y, z)
}
