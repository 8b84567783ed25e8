package upload

import (
	"github.com/abhisek/qgen/internal/document"
	"github.com/abhisek/qgen/internal/question"
)

// generateDoneMsg is sent when POST /generate finished.
type generateDoneMsg struct {
	Questions []question.Question
	Err       error
}

// inspectDoneMsg carries the PDF inspection of a selected file.
type inspectDoneMsg struct {
	File document.File
	Info document.Info
	Err  error
}
