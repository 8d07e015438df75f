package domain

// FridgeCapacity is the number of cells shown in the fridge grid
const FridgeCapacity = 8

// Product represents a skincare product stored in a day partition of the fridge
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Ingredients []string `json:"ingredients"`
}

// SearchResult represents a catalog search hit. URL is the reference used to add it.
type SearchResult struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url"`
}

// Day is the AM/PM partition under which products and rules are stored
type Day string

const (
	DayAM Day = "AM"
	DayPM Day = "PM"
)

// ParseDay converts a stored or user supplied value to a Day, falling back to AM
func ParseDay(s string) Day {
	if Day(s) == DayPM {
		return DayPM
	}
	return DayAM
}

// Valid reports whether d is one of the two partitions
func (d Day) Valid() bool {
	return d == DayAM || d == DayPM
}

// Toggle returns the other partition
func (d Day) Toggle() Day {
	if d == DayPM {
		return DayAM
	}
	return DayPM
}

// Theme is the visual theme of the page
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme converts a stored value to a Theme. Anything but "dark" is light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
