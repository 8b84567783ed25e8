package questions

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/qgen/internal/question"
	"github.com/abhisek/qgen/internal/ui/components"
	"github.com/abhisek/qgen/internal/ui/theme"
)

const maxCardWidth = 100

func (s *QuestionsScreen) View(width, height int) string {
	if s.items == nil {
		return renderEmpty(width, height, "No Questions Found",
			"Upload a document to generate interview questions.")
	}
	if len(s.items) == 0 {
		return renderEmpty(width, height, "No questions generated yet.",
			"Try another document or different settings.")
	}

	w := width - 4
	if w > maxCardWidth {
		w = maxCardWidth
	}

	answered := len(s.items) - len(question.Unanswered(s.items))
	head := components.NewProgressBar("Answered", answered, len(s.items), w).View()

	var lines []string
	selStart, selEnd := 0, 0
	for i, q := range s.items {
		if i == s.selected {
			selStart = len(lines)
		}
		card := s.renderCard(i, q, w)
		lines = append(lines, strings.Split(card, "\n")...)
		if i == s.selected {
			selEnd = len(lines)
		}
	}

	body := scroll(lines, selStart, selEnd, height-2)
	content := head + "\n\n" + strings.Join(body, "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func (s *QuestionsScreen) renderCard(i int, q question.Question, w int) string {
	style := theme.Card
	if i == s.selected {
		style = theme.SelectedCard
	}
	inner := w - 4
	if inner < 10 {
		inner = 10
	}

	number := theme.Selected.Render(fmt.Sprintf("%d.", i+1))
	text := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(inner - 4).Render(q.Question)
	parts := []string{lipgloss.JoinHorizontal(lipgloss.Top, number+" ", text)}

	d := string(q.DisplayDifficulty())
	t := string(q.DisplayType())
	tags := theme.TagColor(d).Render(q.DisplayDifficulty().DisplayName()) + " " +
		theme.TagColor(t).Render(q.DisplayType().DisplayName())

	switch {
	case s.copied == i:
		tags += "  " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓ Copied")
	case s.inFlight[i]:
		tags += "  " + lipgloss.NewStyle().Foreground(theme.Secondary).Render("⟳ Generating answer...")
	case q.HasAnswer():
		tags += "  " + theme.Hint.Render("● answer available")
	}
	parts = append(parts, tags)

	if s.expanded == i {
		if q.HasAnswer() {
			parts = append(parts, "",
				section("Answer", q.Answer, inner),
				"",
				section("Rationale", q.Rationale, inner),
			)
		} else {
			parts = append(parts, "", theme.Hint.Render("No answer yet."))
		}
	}

	return style.Width(w).Render(strings.Join(parts, "\n"))
}

func section(label, body string, width int) string {
	head := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(label)
	text := lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(body)
	return head + "\n" + text
}

// scroll returns the window of lines of the given height that keeps lines
// [start, end) visible, preferring the top of the selection.
func scroll(lines []string, start, end, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	offset := 0
	if end > height {
		offset = end - height
	}
	if start < offset {
		offset = start
	}
	if offset+height > len(lines) {
		offset = len(lines) - height
	}
	return lines[offset : offset+height]
}

func renderEmpty(width, height int, title, hint string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(title),
		"",
		theme.Subtitle.Render(hint),
		"",
		theme.ButtonActive.Render(" ◂ Back to upload "),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
