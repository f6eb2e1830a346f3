package theme

import "github.com/charmbracelet/lipgloss"

// Theme bundles the terminal palette and the chroma style used for the
// detail pane so both always switch together.
type Theme struct {
	Name   string
	Chroma string

	Accent     lipgloss.Color
	EditAccent lipgloss.Color
	Separator  lipgloss.Color

	Border      lipgloss.Style
	BorderFocus lipgloss.Style
	BorderEdit  lipgloss.Style
	Text        lipgloss.Style
	Title       lipgloss.Style
	TitleAlt    lipgloss.Style
	Muted       lipgloss.Style
	Label       lipgloss.Style
	Active      lipgloss.Style
	Error       lipgloss.Style
	Highlight   lipgloss.Style
	TableHeader lipgloss.Style
	SelectedRow lipgloss.Style
	SparkFilled lipgloss.Style
	Overlay     lipgloss.Style
}

type palette struct {
	accent     lipgloss.Color
	editAccent lipgloss.Color
	text       lipgloss.Color
	titleAlt   lipgloss.Color
	highlight  lipgloss.Color
	label      lipgloss.Color
	muted      lipgloss.Color
	errText    lipgloss.Color
	separator  lipgloss.Color
}

func build(name, chromaStyle string, p palette) Theme {
	border := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder())
	return Theme{
		Name:   name,
		Chroma: chromaStyle,

		Accent:     p.accent,
		EditAccent: p.editAccent,
		Separator:  p.separator,

		Border:      border.BorderForeground(p.separator),
		BorderFocus: border.BorderForeground(p.accent),
		BorderEdit:  border.BorderForeground(p.editAccent),
		Text:        lipgloss.NewStyle().Foreground(p.text),
		Title:       lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		TitleAlt:    lipgloss.NewStyle().Foreground(p.titleAlt).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(p.muted),
		Label:       lipgloss.NewStyle().Foreground(p.label),
		Active:      lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		Error:       lipgloss.NewStyle().Foreground(p.errText).Bold(true),
		Highlight:   lipgloss.NewStyle().Foreground(p.highlight).Bold(true),
		TableHeader: lipgloss.NewStyle().Foreground(p.titleAlt).Bold(true).Underline(true),
		SelectedRow: lipgloss.NewStyle().Foreground(p.text).Background(p.separator).Bold(true),
		SparkFilled: lipgloss.NewStyle().Foreground(p.accent),
		Overlay:     border.BorderForeground(p.accent).Padding(0, 1),
	}
}

func Default() Theme {
	return build("Default", "monokai", palette{
		accent:     lipgloss.Color("2"),
		editAccent: lipgloss.Color("3"),
		text:       lipgloss.Color("15"),
		titleAlt:   lipgloss.Color("6"),
		highlight:  lipgloss.Color("5"),
		label:      lipgloss.Color("6"),
		muted:      lipgloss.Color("8"),
		errText:    lipgloss.Color("1"),
		separator:  lipgloss.Color("8"),
	})
}

func ColorPop() Theme {
	return build("ColorPop", "friendly", palette{
		accent:     lipgloss.Color("6"),
		editAccent: lipgloss.Color("1"),
		text:       lipgloss.Color("15"),
		titleAlt:   lipgloss.Color("2"),
		highlight:  lipgloss.Color("4"),
		label:      lipgloss.Color("2"),
		muted:      lipgloss.Color("7"),
		errText:    lipgloss.Color("1"),
		separator:  lipgloss.Color("7"),
	})
}

func Splunk() Theme {
	return build("Splunk", "dracula", palette{
		accent:     lipgloss.Color("#73A534"),
		editAccent: lipgloss.Color("#F58220"),
		text:       lipgloss.Color("#FFFFFF"),
		titleAlt:   lipgloss.Color("#007AC3"),
		highlight:  lipgloss.Color("#D63D8B"),
		label:      lipgloss.Color("#2D9CDB"),
		muted:      lipgloss.Color("#A4A4A4"),
		errText:    lipgloss.Color("#D0021B"),
		separator:  lipgloss.Color("#505050"),
	})
}

func Neon() Theme {
	return build("Neon", "vim", palette{
		accent:     lipgloss.Color("#00FF00"),
		editAccent: lipgloss.Color("#FF1493"),
		text:       lipgloss.Color("15"),
		titleAlt:   lipgloss.Color("6"),
		highlight:  lipgloss.Color("#FF1493"),
		label:      lipgloss.Color("#00FF00"),
		muted:      lipgloss.Color("8"),
		errText:    lipgloss.Color("1"),
		separator:  lipgloss.Color("8"),
	})
}

// Names lists the selectable themes in display order.
func Names() []string {
	return []string{"Default", "ColorPop", "Splunk", "Neon"}
}

// ByName returns the named theme, falling back to Default for unknown names.
func ByName(name string) Theme {
	switch name {
	case "ColorPop":
		return ColorPop()
	case "Splunk":
		return Splunk()
	case "Neon":
		return Neon()
	default:
		return Default()
	}
}
