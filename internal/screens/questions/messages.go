package questions

import "github.com/abhisek/qgen/internal/question"

// answerDoneMsg is sent when POST /generate-answer finished for Index.
type answerDoneMsg struct {
	Index  int
	Answer *question.Answer
	Err    error
}

// copyDoneMsg is sent after writing a question to the clipboard.
type copyDoneMsg struct {
	Index int
	Err   error
}

// copiedExpiredMsg clears the copied marker set by copy number Seq.
type copiedExpiredMsg struct {
	Seq int
}

// exportDoneMsg is sent after the PDF was written.
type exportDoneMsg struct {
	Path string
	Err  error
}
