package components

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/qgen/internal/document"
	"github.com/abhisek/qgen/internal/ui/theme"
)

// FileSelectedMsg reports a newly accepted file.
type FileSelectedMsg struct {
	File document.File
}

// FileRejectedMsg reports a file the validator refused. The previous
// selection is kept.
type FileRejectedMsg struct {
	Path string
	Err  error
}

// DropZone accepts a file dropped onto the terminal (a bracketed paste of
// its path) or a path typed and confirmed with Enter. The hover highlight is
// tracked separately from the selection.
type DropZone struct {
	Dragging bool
	Disabled bool
	Selected *document.File
	Err      string

	input TextInput
	open  func(string) (document.File, error)
}

// NewDropZone creates an empty drop zone.
func NewDropZone() DropZone {
	return DropZone{
		input: NewTextInput("or type a path to a .pdf and press Enter", false, 0),
		open:  document.Open,
	}
}

// Focus focuses the path input.
func (d *DropZone) Focus() tea.Cmd {
	return d.input.Focus()
}

// Blur removes focus from the path input.
func (d *DropZone) Blur() {
	d.input.Blur()
}

// PathValue returns the path typed so far.
func (d DropZone) PathValue() string {
	return d.input.Value()
}

// Update handles paste and key messages.
func (d DropZone) Update(msg tea.Msg) (DropZone, tea.Cmd) {
	if d.Disabled {
		return d, nil
	}

	switch msg := msg.(type) {
	case tea.PasteStartMsg:
		d.Dragging = true
		return d, nil

	case tea.PasteEndMsg:
		d.Dragging = false
		return d, nil

	case tea.PasteMsg:
		d.Dragging = false
		return d.choose(FirstPath(msg.Content))

	case tea.KeyPressMsg:
		if !d.input.Focused() {
			return d, nil
		}
		if msg.String() == "enter" {
			p := FirstPath(d.input.Value())
			if p == "" {
				return d, nil
			}
			d.input.SetValue("")
			return d.choose(p)
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// choose validates path and selects it. Re-selecting the held file is a
// no-op.
func (d DropZone) choose(path string) (DropZone, tea.Cmd) {
	if path == "" {
		return d, nil
	}

	f, err := d.open(path)
	if err == nil {
		err = document.Validate(f)
	}
	if err != nil {
		d.Err = err.Error()
		return d, func() tea.Msg { return FileRejectedMsg{Path: path, Err: err} }
	}

	if d.Selected != nil && d.Selected.SameAs(f) {
		d.Err = ""
		return d, nil
	}

	d.Selected = &f
	d.Err = ""
	return d, func() tea.Msg { return FileSelectedMsg{File: f} }
}

// View renders the zone at the given width.
func (d DropZone) View(width int) string {
	style := theme.DropIdle
	if d.Dragging {
		style = theme.DropActive
	}
	if width > 4 {
		style = style.Width(width - 2)
	}

	var lines []string
	switch {
	case d.Dragging:
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Drop the file here"))
	case d.Selected != nil:
		lines = append(lines,
			lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("✓ "+d.Selected.Name),
			theme.Hint.Render(HumanSize(d.Selected.Size)),
		)
	default:
		lines = append(lines,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Drag & drop your PDF here"),
			theme.Hint.Render("Supported format: PDF (max 10MB)"),
		)
	}

	lines = append(lines, "", d.input.View())
	if d.Err != "" {
		lines = append(lines, theme.InlineError.Render(d.Err))
	}

	return style.Render(strings.Join(lines, "\n"))
}

// FirstPath extracts the first file path from pasted text. Terminals paste
// dropped files as shell-quoted paths or file:// URLs, one per line or
// space separated when escaped.
func FirstPath(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	first := strings.TrimSpace(strings.SplitN(content, "\n", 2)[0])

	if q := first[0]; q == '\'' || q == '"' {
		if end := strings.IndexByte(first[1:], q); end >= 0 {
			first = first[1 : end+1]
		}
	}

	if strings.HasPrefix(first, "file://") {
		if u, err := url.Parse(first); err == nil {
			first = u.Path
		}
	}

	first = strings.ReplaceAll(first, `\ `, " ")
	return filepath.Clean(first)
}

// HumanSize formats a byte count, e.g. "1.5 MB".
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
