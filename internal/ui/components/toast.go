package components

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/qgen/internal/ui/theme"
)

// ToastDuration is how long a notification stays visible.
const ToastDuration = 3 * time.Second

// ToastKind selects the notification style.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

// NotifyMsg asks the app to show a notification.
type NotifyMsg struct {
	Kind ToastKind
	Text string
}

// Notify returns a command that emits a NotifyMsg.
func Notify(kind ToastKind, text string) tea.Cmd {
	return func() tea.Msg { return NotifyMsg{Kind: kind, Text: text} }
}

// toastExpiredMsg clears the toast with the matching sequence number.
type toastExpiredMsg struct {
	seq int
}

// Toast is a transient notification. A newer message replaces the current
// one and restarts the timer.
type Toast struct {
	Kind    ToastKind
	Message string
	seq     int
}

// Show displays msg and returns the command that hides it again.
func (t *Toast) Show(kind ToastKind, msg string) tea.Cmd {
	t.seq++
	t.Kind = kind
	t.Message = msg
	seq := t.seq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// Success shows a success notification.
func (t *Toast) Success(msg string) tea.Cmd { return t.Show(ToastSuccess, msg) }

// Error shows an error notification.
func (t *Toast) Error(msg string) tea.Cmd { return t.Show(ToastError, msg) }

// Visible reports whether a notification is showing.
func (t Toast) Visible() bool { return t.Message != "" }

// Update clears the toast when its timer fires. It reports whether msg was
// a toast message.
func (t *Toast) Update(msg tea.Msg) bool {
	m, ok := msg.(toastExpiredMsg)
	if !ok {
		return false
	}
	if m.seq == t.seq {
		t.Message = ""
	}
	return true
}

// View renders the notification, or "" when hidden.
func (t Toast) View() string {
	if t.Message == "" {
		return ""
	}
	if t.Kind == ToastError {
		return theme.ToastError.Render("✗ " + t.Message)
	}
	return theme.ToastSuccess.Render("✓ " + t.Message)
}
