package tui

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oguzhankoral/fcrm/pkg/domain"
)

// pageSize is the default number of items fetched per API call.
const pageSize = 50

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 255

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// amount renders a budget/expense amount in its currency.
func amount(v float64, cur string) string {
	return domain.FormatAmount(v, cur)
}

// optionalAmount renders a nullable amount, or a dash when absent.
func optionalAmount(v *float64, cur string) string {
	if v == nil {
		return "—"
	}
	return amount(*v, cur)
}

// franchiseOptions builds huh select options from loaded franchises.
func franchiseOptions(franchises []domain.Franchise) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, len(franchises))
	for _, f := range franchises {
		opts = append(opts, huh.NewOption(f.Name, f.ID))
	}
	return opts
}

// branchOptions builds huh select options from loaded branches, with a
// leading franchise-level (no branch) entry.
func branchOptions(branches []domain.Branch) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, len(branches)+1)
	opts = append(opts, huh.NewOption("Franchise-level (No Branch)", 0))
	for _, b := range branches {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", b.Name, b.City), b.ID))
	}
	return opts
}

// parseAmountField validates a form amount field: numeric and non-negative.
func parseAmountField(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.ErrAmountNotANumber
	}
	return domain.ValidateAmount(v)
}

// formTheme is the huh theme shared by all forms, tuned to the app palette.
func formTheme() *huh.Theme {
	t := huh.ThemeBase()

	blue := lipgloss.Color("#60a5fa")
	gray := lipgloss.Color("#8890a0")
	grayLight := lipgloss.Color("#e4e4ec")
	red := lipgloss.Color("#f87171")

	t.Group.Title = lipgloss.NewStyle().Foreground(blue).Bold(true).MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().Foreground(gray).MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(blue)
	t.Focused.Title = lipgloss.NewStyle().Foreground(blue).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(red).SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(red)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(blue).SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(blue).Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(blue)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(blue)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(grayLight)
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color("#3b82f6")).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(lipgloss.Color("#1e1e2a")).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(gray)

	return t
}
