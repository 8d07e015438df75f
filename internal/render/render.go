package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/skinfridge/fridge/internal/domain"
)

const (
	gridColumns = 4
	cellWidth   = 18
	cellHeight  = 3
	cardWidth   = 60
)

// Empty-state texts
const (
	EmptyCellText = "empty"
	NoIssuesText  = "No issues found. Your routine looks good!"
	LoadingText   = "Loading your fridge..."
)

// Page renders the whole page: header, grid and any open panels
func Page(state domain.FridgeState) string {
	s := NewStyles(PaletteFor(state.Preferences.Theme))

	if state.Phase == domain.PhaseInitializing {
		return s.Muted.Render(LoadingText)
	}

	sections := []string{Header(s, state), Grid(s, state)}

	switch state.Panel {
	case domain.PanelDetail:
		if state.SelectedProduct != nil {
			sections = append(sections, Detail(s, *state.SelectedProduct))
		}
	case domain.PanelSearch:
		if state.SearchMessage != "" {
			sections = append(sections, s.Error.Render(state.SearchMessage))
		}
	}

	if state.IssuesOpen {
		sections = append(sections, Issues(s, state.IssueMessages))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Header renders the title and the day badge
func Header(s Styles, state domain.FridgeState) string {
	title := s.Title.Render(fmt.Sprintf("%s's Fridge", state.DisplayName))
	badge := s.Badge.Render(string(state.Preferences.Day))
	count := s.Muted.Render(fmt.Sprintf("%d/%d", len(state.Products), domain.FridgeCapacity))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", badge, " ", count)
}

// Grid renders the fixed grid of fridge cells. Products fill the first
// cells in order; the rest are drawn empty.
func Grid(s Styles, state domain.FridgeState) string {
	cells := make([]string, 0, domain.FridgeCapacity)
	for i, p := range state.Products {
		if i >= domain.FridgeCapacity {
			break
		}
		cells = append(cells, s.Cell.Render(cellLabel(p)))
	}
	for len(cells) < domain.FridgeCapacity {
		cells = append(cells, s.EmptyCell.Render(EmptyCellText))
	}

	rows := make([]string, 0, domain.FridgeCapacity/gridColumns)
	for i := 0; i < len(cells); i += gridColumns {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i:i+gridColumns]...))
	}
	if extra := len(state.Products) - domain.FridgeCapacity; extra > 0 {
		rows = append(rows, s.Muted.Render(fmt.Sprintf("+%d more", extra)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Detail renders the product card
func Detail(s Styles, p domain.Product) string {
	var b strings.Builder
	b.WriteString(s.Subtitle.Render(p.Name))
	b.WriteString("\n")
	if p.Brand != "" {
		fmt.Fprintf(&b, "Brand: %s\n", p.Brand)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	if len(p.Ingredients) > 0 {
		fmt.Fprintf(&b, "Ingredients: %s", strings.Join(p.Ingredients, ", "))
	} else {
		b.WriteString(s.Muted.Render("No ingredients listed"))
	}
	return s.Card.Render(b.String())
}

// Issues renders the issues panel
func Issues(s Styles, messages []string) string {
	var b strings.Builder
	b.WriteString(s.Subtitle.Render("Issues Found"))
	b.WriteString("\n")
	if len(messages) == 0 {
		b.WriteString(s.Muted.Render(NoIssuesText))
	}
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + msg)
	}
	return s.Card.Render(b.String())
}

// SearchResults renders ranked catalog results as a numbered list
func SearchResults(s Styles, results []domain.SearchResult) string {
	if len(results) == 0 {
		return s.Muted.Render("No results")
	}

	lines := make([]string, 0, len(results))
	for i, r := range results {
		label := r.Name
		if r.Brand != "" {
			label = r.Brand + " " + label
		}
		lines = append(lines, fmt.Sprintf("%d. %s\n   %s", i+1, label, s.Muted.Render(r.URL)))
	}
	return strings.Join(lines, "\n")
}

func cellLabel(p domain.Product) string {
	label := p.Name
	if label == "" {
		label = p.ID
	}
	if p.Brand != "" {
		label += "\n" + p.Brand
	}
	return label
}
