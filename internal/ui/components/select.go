package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/qgen/internal/ui/theme"
)

// Option is one choice of a Select.
type Option struct {
	Label string
	Value string
}

// Select is a single-line option picker cycled with left/right.
type Select struct {
	Options  []Option
	Selected int
	Focused  bool
}

// NewSelect creates a Select with value preselected when present.
func NewSelect(options []Option, value string) Select {
	s := Select{Options: options}
	for i, o := range options {
		if o.Value == value {
			s.Selected = i
			break
		}
	}
	return s
}

// Value returns the selected option's value.
func (s Select) Value() string {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.Selected].Value
}

// Update handles keyboard navigation.
func (s Select) Update(msg tea.Msg) (Select, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !s.Focused || len(s.Options) == 0 {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h":
		s.Selected = (s.Selected - 1 + len(s.Options)) % len(s.Options)
	case "right", "l", "space", " ":
		s.Selected = (s.Selected + 1) % len(s.Options)
	}

	return s, nil
}

// View renders the options with the selected one highlighted.
func (s Select) View() string {
	var out string
	for i, o := range s.Options {
		if i > 0 {
			out += " "
		}
		switch {
		case i == s.Selected && s.Focused:
			out += theme.Selected.Render("[" + o.Label + "]")
		case i == s.Selected:
			out += lipgloss.NewStyle().Foreground(theme.Text).Underline(true).Render(o.Label)
		default:
			out += lipgloss.NewStyle().Foreground(theme.TextDim).Render(o.Label)
		}
	}
	return out
}
