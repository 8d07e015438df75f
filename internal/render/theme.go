// Package render draws the fridge page for a terminal using lipgloss.
// It only presents a FridgeState; it never changes one.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/skinfridge/fridge/internal/domain"
)

// Light (pink) and dark (blue) palettes
var (
	LightPrimary    = lipgloss.Color("#FF3EB5")
	LightAccent     = lipgloss.Color("#9c0060")
	LightBackground = lipgloss.Color("#FFDDFA")

	DarkPrimary    = lipgloss.Color("#03045E")
	DarkAccent     = lipgloss.Color("#00028E")
	DarkBackground = lipgloss.Color("#D0F7FF")

	Muted       = lipgloss.Color("#8a8a8a")
	Destructive = lipgloss.Color("#e53935")
)

// Palette holds the colors of one theme
type Palette struct {
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	IsDark     bool
}

// LightPalette returns the pink palette
func LightPalette() Palette {
	return Palette{Primary: LightPrimary, Accent: LightAccent, Background: LightBackground}
}

// DarkPalette returns the blue palette
func DarkPalette() Palette {
	return Palette{Primary: DarkPrimary, Accent: DarkAccent, Background: DarkBackground, IsDark: true}
}

// PaletteFor picks the palette of a theme preference
func PaletteFor(theme domain.Theme) Palette {
	if theme == domain.ThemeDark {
		return DarkPalette()
	}
	return LightPalette()
}

// Styles holds the styled components of the page
type Styles struct {
	Palette Palette

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Cell      lipgloss.Style
	EmptyCell lipgloss.Style
	Card      lipgloss.Style
	Badge     lipgloss.Style
}

// NewStyles creates the styles for a palette
func NewStyles(p Palette) Styles {
	return Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(Muted),

		Error: lipgloss.NewStyle().
			Foreground(Destructive),

		Cell: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Width(cellWidth).
			Height(cellHeight).
			Padding(0, 1),

		EmptyCell: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Foreground(Muted).
			Width(cellWidth).
			Height(cellHeight).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Width(cardWidth).
			Padding(0, 1),

		Badge: lipgloss.NewStyle().
			Background(p.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),
	}
}
