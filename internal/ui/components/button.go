package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/qgen/internal/ui/theme"
)

// Button is a styled button component. A disabled button ignores Enter.
type Button struct {
	Label    string
	Focused  bool
	Disabled bool
	// Busy replaces the label while an action is pending.
	Busy    string
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		OnPress: onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if b.Disabled || !b.Focused {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Disabled && b.Busy != "" {
		label = b.Busy
	}
	label = " ▸ " + label + " "
	if b.Focused && !b.Disabled {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
