// Package theme defines color themes for the fcast TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Surface       lipgloss.Color // cards and panels
	SurfaceBright lipgloss.Color // selected row
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // focused card

	TextDim     lipgloss.Color // hints
	TextMuted   lipgloss.Color // labels, periods without actuals
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	Favorable   lipgloss.Color // revenue above plan, cost below plan
	Unfavorable lipgloss.Color // the reverse, and errors
	Caution     lipgloss.Color // warnings
	Highlight   lipgloss.Color // key hints, ramp bars

	// Series colors breakdown bars in order; it wraps.
	Series []lipgloss.Color
}

// neutrals run from darkest to lightest: background, surface, selected
// surface, border, dim text, muted text, primary text.
type neutrals [7]string

type signals struct {
	favorable, unfavorable, caution, highlight string
}

func build(name string, n neutrals, accent, accentBright string, s signals, series ...string) Theme {
	t := Theme{
		Name:          name,
		Background:    lipgloss.Color(n[0]),
		Surface:       lipgloss.Color(n[1]),
		SurfaceBright: lipgloss.Color(n[2]),
		Border:        lipgloss.Color(n[3]),
		BorderAccent:  lipgloss.Color(accent),
		TextDim:       lipgloss.Color(n[4]),
		TextMuted:     lipgloss.Color(n[5]),
		TextPrimary:   lipgloss.Color(n[6]),
		Accent:        lipgloss.Color(accent),
		AccentBright:  lipgloss.Color(accentBright),
		Favorable:     lipgloss.Color(s.favorable),
		Unfavorable:   lipgloss.Color(s.unfavorable),
		Caution:       lipgloss.Color(s.caution),
		Highlight:     lipgloss.Color(s.highlight),
	}
	for _, c := range series {
		t.Series = append(t.Series, lipgloss.Color(c))
	}
	return t
}

// FlexokiDark is the default theme.
var FlexokiDark = build("flexoki-dark",
	neutrals{"#100F0F", "#1C1B1A", "#343331", "#403E3C", "#575653", "#878580", "#FFFCF0"},
	"#3AA99F", "#5BC8BE",
	signals{favorable: "#A3B859", unfavorable: "#D14D41", caution: "#DA702C", highlight: "#24837B"},
	"#6BA3D6", "#24837B", "#CE5D97", "#D0A215", "#879A39", "#DA702C",
)

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = build("catppuccin-mocha",
	neutrals{"#1E1E2E", "#313244", "#585B70", "#585B70", "#6C7086", "#A6ADC8", "#CDD6F4"},
	"#89B4FA", "#B4D0FB",
	signals{favorable: "#C6F6C1", unfavorable: "#F38BA8", caution: "#FAB387", highlight: "#94E2D5"},
	"#B4D0FB", "#94E2D5", "#F5C2E7", "#F9E2AF", "#A6E3A1", "#FAB387",
)

// TokyoNight is a cool blue and purple theme.
var TokyoNight = build("tokyo-night",
	neutrals{"#1A1B26", "#24283B", "#414868", "#565F89", "#565F89", "#A9B1D6", "#C0CAF5"},
	"#7AA2F7", "#A9C1FF",
	signals{favorable: "#B9E87A", unfavorable: "#F7768E", caution: "#FF9E64", highlight: "#7DCFFF"},
	"#A9C1FF", "#7DCFFF", "#BB9AF7", "#E0AF68", "#9ECE6A", "#FF9E64",
)

// Terminal sticks to the ANSI 16 colors.
var Terminal = build("terminal",
	neutrals{"0", "0", "8", "8", "8", "7", "15"},
	"6", "14",
	signals{favorable: "10", unfavorable: "1", caution: "3", highlight: "6"},
	"12", "6", "5", "3", "2", "3",
)

// Active is the currently selected theme.
var Active = FlexokiDark

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Names lists all theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// SeriesColor returns the color for the i-th breakdown bar.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Series) == 0 {
		return t.Accent
	}
	return t.Series[i%len(t.Series)]
}

// VarianceColor colors a signed variance. For cost lines a positive variance
// is unfavorable, so callers pass invert.
func (t Theme) VarianceColor(v float64, invert bool) lipgloss.Color {
	if invert {
		v = -v
	}
	switch {
	case v > 0:
		return t.Favorable
	case v < 0:
		return t.Unfavorable
	default:
		return t.TextMuted
	}
}
