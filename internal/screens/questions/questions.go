package questions

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/qgen/internal/api"
	"github.com/abhisek/qgen/internal/question"
	"github.com/abhisek/qgen/internal/router"
	"github.com/abhisek/qgen/internal/screen"
	"github.com/abhisek/qgen/internal/ui/components"
	"github.com/abhisek/qgen/internal/ui/layout"
)

// Notification texts.
const (
	MsgCopied       = "Copied to clipboard!"
	MsgCopyFailed   = "Failed to copy to clipboard"
	MsgNoContext    = "No context available to generate answer"
	MsgAnswered     = "Answer generated successfully!"
	MsgAnswerFailed = "Failed to generate answer. Please try again."
	MsgExportFailed = "Failed to export PDF"
)

// CopiedFor is how long the copied marker stays on an item.
const CopiedFor = 2 * time.Second

// Exporter writes the question list to a document and returns its path.
type Exporter interface {
	Export(questions []question.Question) (string, error)
}

// Options configures the questions screen.
type Options struct {
	Client   api.Client
	Exporter Exporter
	// Copy writes text to the clipboard. Defaults to the system clipboard.
	Copy func(string) error
	// Context is the document text sent with answer requests. Empty means
	// answers cannot be generated.
	Context string
	Now     func() time.Time
	Log     logrus.FieldLogger
}

// QuestionsScreen lists generated questions.
type QuestionsScreen struct {
	opts Options
	log  logrus.FieldLogger

	// items is nil when the screen was opened without a list.
	items    []question.Question
	inFlight map[int]bool
	selected int
	expanded int

	copied    int
	copiedSeq int
	exporting bool
	date      string
}

var _ screen.Screen = (*QuestionsScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionsScreen)(nil)
var _ screen.StatusProvider = (*QuestionsScreen)(nil)

// New creates a QuestionsScreen for items. A nil slice renders the
// "No Questions Found" state.
func New(items []question.Question, opts Options) *QuestionsScreen {
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	var list []question.Question
	if items != nil {
		list = make([]question.Question, len(items))
		copy(list, items)
	}

	return &QuestionsScreen{
		opts:     opts,
		log:      log,
		items:    list,
		inFlight: make(map[int]bool),
		expanded: -1,
		copied:   -1,
		date:     opts.Now().Format("Jan 2, 2006"),
	}
}

// Items returns the current list.
func (s *QuestionsScreen) Items() []question.Question {
	return s.items
}

// InFlight reports whether an answer request for item k is outstanding.
func (s *QuestionsScreen) InFlight(k int) bool {
	return s.inFlight[k]
}

func (s *QuestionsScreen) Init() tea.Cmd {
	return nil
}

func (s *QuestionsScreen) Title() string {
	return "Questions"
}

func (s *QuestionsScreen) Status() string {
	if s.items == nil {
		return ""
	}
	noun := "questions"
	if len(s.items) == 1 {
		noun = "question"
	}
	return fmt.Sprintf("%d %s · %s", len(s.items), noun, s.date)
}

func (s *QuestionsScreen) KeyHints() []layout.KeyHint {
	if len(s.items) == 0 {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Back to upload"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Show answer"},
		{Key: "c", Description: "Copy"},
	}
	if s.canAnswer(s.selected) {
		hints = append(hints, layout.KeyHint{Key: "a", Description: "Generate answer"})
	}
	return append(hints,
		layout.KeyHint{Key: "e", Description: "Export PDF"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *QuestionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answerDoneMsg:
		return s.handleAnswer(msg)

	case copyDoneMsg:
		return s.handleCopy(msg)

	case copiedExpiredMsg:
		if msg.Seq == s.copiedSeq {
			s.copied = -1
		}
		return s, nil

	case exportDoneMsg:
		s.exporting = false
		if msg.Err != nil {
			s.log.WithError(msg.Err).Warn("export failed")
			return s, components.Notify(components.ToastError, MsgExportFailed)
		}
		return s, components.Notify(components.ToastSuccess, "Exported "+filepath.Base(msg.Path))

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuestionsScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if len(s.items) == 0 {
		if msg.String() == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.items)-1 {
			s.selected++
		}
	case "home", "g":
		s.selected = 0
	case "end", "G":
		s.selected = len(s.items) - 1
	case "enter", "space", " ":
		s.toggle(s.selected)
	case "c", "y":
		return s, s.copyCmd(s.selected)
	case "a":
		return s.requestAnswer(s.selected)
	case "e":
		return s.export()
	}
	return s, nil
}

// toggle expands item k, collapsing any other.
func (s *QuestionsScreen) toggle(k int) {
	if s.expanded == k {
		s.expanded = -1
		return
	}
	s.expanded = k
}

func (s *QuestionsScreen) canAnswer(k int) bool {
	if k < 0 || k >= len(s.items) {
		return false
	}
	return !s.items[k].HasAnswer() && !s.inFlight[k]
}

func (s *QuestionsScreen) requestAnswer(k int) (screen.Screen, tea.Cmd) {
	if !s.canAnswer(k) {
		return s, nil
	}
	if strings.TrimSpace(s.opts.Context) == "" {
		return s, components.Notify(components.ToastError, MsgNoContext)
	}

	s.inFlight[k] = true
	client := s.opts.Client
	req := api.AnswerRequest{Question: s.items[k].Question, Context: s.opts.Context}
	return s, func() tea.Msg {
		ctx := api.WithPurpose(context.Background(), api.PurposeAnswer)
		ans, err := client.GenerateAnswer(ctx, req)
		return answerDoneMsg{Index: k, Answer: ans, Err: err}
	}
}

func (s *QuestionsScreen) handleAnswer(msg answerDoneMsg) (screen.Screen, tea.Cmd) {
	delete(s.inFlight, msg.Index)

	if msg.Err != nil || msg.Answer == nil {
		s.log.WithField("index", msg.Index).WithError(msg.Err).Warn("answer generation failed")
		return s, components.Notify(components.ToastError, MsgAnswerFailed)
	}

	updated, err := question.MergeAnswer(s.items, msg.Index, *msg.Answer)
	if err != nil {
		s.log.WithError(err).Warn("dropping answer")
		return s, nil
	}
	s.items = updated
	s.expanded = msg.Index
	return s, components.Notify(components.ToastSuccess, MsgAnswered)
}

func (s *QuestionsScreen) copyCmd(k int) tea.Cmd {
	if k < 0 || k >= len(s.items) {
		return nil
	}
	write := s.opts.Copy
	text := s.items[k].Question
	return func() tea.Msg {
		return copyDoneMsg{Index: k, Err: write(text)}
	}
}

func (s *QuestionsScreen) handleCopy(msg copyDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.log.WithError(msg.Err).Warn("clipboard write failed")
		return s, components.Notify(components.ToastError, MsgCopyFailed)
	}

	s.copiedSeq++
	s.copied = msg.Index
	seq := s.copiedSeq
	return s, tea.Batch(
		components.Notify(components.ToastSuccess, MsgCopied),
		tea.Tick(CopiedFor, func(time.Time) tea.Msg { return copiedExpiredMsg{Seq: seq} }),
	)
}

func (s *QuestionsScreen) export() (screen.Screen, tea.Cmd) {
	if s.exporting || s.opts.Exporter == nil {
		return s, nil
	}
	s.exporting = true
	exporter := s.opts.Exporter
	items := make([]question.Question, len(s.items))
	copy(items, s.items)
	return s, func() tea.Msg {
		path, err := exporter.Export(items)
		return exportDoneMsg{Path: path, Err: err}
	}
}
