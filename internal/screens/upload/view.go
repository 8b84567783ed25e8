package upload

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/qgen/internal/ui/theme"
)

const maxFormWidth = 72

func (s *UploadScreen) View(width, height int) string {
	w := width - 4
	if w > maxFormWidth {
		w = maxFormWidth
	}

	var sections []string
	sections = append(sections,
		theme.Title.Width(w).Render("Interview Question Generator"),
		theme.Subtitle.Width(w).Render("Upload a PDF and generate interview questions from it"),
		"",
		s.drop.View(w),
	)

	if s.drop.Selected != nil && s.pages > 0 {
		sections = append(sections, theme.Hint.Render(fmt.Sprintf("  %d pages", s.pages)))
	}

	sections = append(sections,
		"",
		s.row(fieldCount, "Questions", s.count.View()),
		s.row(fieldDifficulty, "Difficulty", s.difficulty.View()),
		s.row(fieldType, "Type", s.qtype.View()),
		"",
	)

	button := s.submit.View()
	if s.inFlight {
		button = s.spinner.View() + " " + button
	}
	sections = append(sections, lipgloss.PlaceHorizontal(w, lipgloss.Center, button))

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *UploadScreen) row(f field, label, value string) string {
	marker := "  "
	style := theme.Label
	if s.focus == f {
		marker = theme.Selected.Render("▸ ")
		style = style.Foreground(theme.Primary)
	}
	return marker + style.Render(label) + value
}
