package domain

// DefaultDisplayName is shown when no user name was supplied
const DefaultDisplayName = "there"

// Preferences holds the user choices mirrored to durable storage
type Preferences struct {
	Theme Theme `json:"theme" yaml:"theme"`
	Day   Day   `json:"day" yaml:"day"`
}

// DefaultPreferences returns the light theme and the AM partition
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, Day: DayAM}
}

// Normalize replaces unknown values with defaults
func (p Preferences) Normalize() Preferences {
	return Preferences{
		Theme: ParseTheme(string(p.Theme)),
		Day:   ParseDay(string(p.Day)),
	}
}

// Phase is the data-loading phase of the fridge page
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseReady        Phase = "ready"
)

// Panel names a panel of the fridge page. Search and Detail are mutually
// exclusive; Issues opens independently of them.
type Panel string

const (
	PanelNone   Panel = "none"
	PanelSearch Panel = "search"
	PanelDetail Panel = "detail"
	PanelIssues Panel = "issues"
)

// ParsePanel converts a route parameter to a Panel
func ParsePanel(s string) (Panel, bool) {
	switch Panel(s) {
	case PanelNone, PanelSearch, PanelDetail, PanelIssues:
		return Panel(s), true
	}
	return PanelNone, false
}

// FridgeState is a snapshot of the page state
type FridgeState struct {
	Phase           Phase       `json:"phase"`
	DisplayName     string      `json:"displayName"`
	Preferences     Preferences `json:"preferences"`
	Products        []Product   `json:"products"`
	Issues          RuleSet     `json:"issues"`
	IssueMessages   []string    `json:"issueMessages"`
	SelectedProduct *Product    `json:"selectedProduct,omitempty"`
	Panel           Panel       `json:"panel"`
	IssuesOpen      bool        `json:"issuesOpen"`
	SearchMessage   string      `json:"searchMessage,omitempty"`
	EmptySlots      int         `json:"emptySlots"`
}
