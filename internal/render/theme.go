// Package render turns matrix snapshots into the live cross-tab table and
// the machine-readable results artifact.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/tmx/internal/matrix"
)

// Theme holds the styles and glyphs for table rendering.
type Theme struct {
	Name    string
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Skip    lipgloss.Style
	Part    lipgloss.Style
	Info    lipgloss.Style
	Glyphs  map[matrix.StatusKind]string
	Divider string
}

// UnicodeTheme is the default styled theme.
func UnicodeTheme() Theme {
	return Theme{
		Name:   "unicode",
		Header: lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Pass:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Skip:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Part:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Info:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Glyphs: map[matrix.StatusKind]string{
			matrix.Pass: "✓",
			matrix.Fail: "✗",
			matrix.Skip: "–",
			matrix.Part: "~",
			matrix.Info: "ℹ",
		},
		Divider: "─",
	}
}

// MonoTheme renders without color or non-ASCII glyphs; used for CI logs
// and when NO_COLOR is set.
func MonoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:   "mono",
		Header: plain,
		Muted:  plain,
		Pass:   plain,
		Fail:   plain,
		Skip:   plain,
		Part:   plain,
		Info:   plain,
		Glyphs: map[matrix.StatusKind]string{
			matrix.Pass: "+",
			matrix.Fail: "x",
			matrix.Skip: "-",
			matrix.Part: "~",
			matrix.Info: "i",
		},
		Divider: "-",
	}
}

// ThemeByName maps a theme name to a theme, defaulting to unicode.
func ThemeByName(name string) Theme {
	if name == "mono" {
		return MonoTheme()
	}
	return UnicodeTheme()
}

func (t Theme) styleFor(s matrix.StatusKind) lipgloss.Style {
	switch s {
	case matrix.Pass:
		return t.Pass
	case matrix.Fail:
		return t.Fail
	case matrix.Skip:
		return t.Skip
	case matrix.Part:
		return t.Part
	case matrix.Info:
		return t.Info
	default:
		return t.Muted
	}
}
