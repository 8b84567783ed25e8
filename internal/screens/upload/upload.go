package upload

import (
	"context"
	"io"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/qgen/internal/api"
	"github.com/abhisek/qgen/internal/document"
	"github.com/abhisek/qgen/internal/question"
	"github.com/abhisek/qgen/internal/router"
	"github.com/abhisek/qgen/internal/screen"
	"github.com/abhisek/qgen/internal/ui/components"
	"github.com/abhisek/qgen/internal/ui/layout"
	"github.com/abhisek/qgen/internal/ui/theme"
)

// Notification texts.
const (
	MsgNoFile         = "Please upload a file first"
	MsgGenerated      = "Questions generated successfully!"
	MsgGenerateFailed = "Failed to generate questions"
)

type field int

const (
	fieldFile field = iota
	fieldCount
	fieldDifficulty
	fieldType
	fieldSubmit
	numFields
)

// ResultsFactory builds the screen that shows generated questions.
type ResultsFactory func(questions []question.Question) screen.Screen

// Options configures the upload screen.
type Options struct {
	Client  api.Client
	Results ResultsFactory
	Params  question.Params
	// File is preselected when set.
	File *document.File
	Log  logrus.FieldLogger
}

// UploadScreen lets the user pick a PDF and generation parameters, then
// requests questions from the API.
type UploadScreen struct {
	client  api.Client
	results ResultsFactory
	log     logrus.FieldLogger

	drop       components.DropZone
	count      components.TextInput
	difficulty components.Select
	qtype      components.Select
	submit     components.Button
	spinner    spinner.Model

	focus    field
	inFlight bool
	pages    int
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)

// New creates an UploadScreen.
func New(opts Options) *UploadScreen {
	params := opts.Params
	if params.Count == 0 {
		params = question.DefaultParams()
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	s := &UploadScreen{
		client:     opts.Client,
		results:    opts.Results,
		log:        log,
		drop:       components.NewDropZone(),
		count:      components.NewTextInput(strconv.Itoa(question.DefaultCount), true, 2),
		difficulty: components.NewSelect(difficultyOptions(), string(params.Difficulty)),
		qtype:      components.NewSelect(typeOptions(), string(params.Type)),
		submit:     components.NewButton("Generate Questions", nil),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary))),
	}
	s.count.SetValue(strconv.Itoa(params.Count))
	s.submit.Busy = "Generating..."
	if opts.File != nil {
		f := *opts.File
		s.drop.Selected = &f
	}
	return s
}

func difficultyOptions() []components.Option {
	opts := make([]components.Option, 0, len(question.Difficulties))
	for _, d := range question.Difficulties {
		opts = append(opts, components.Option{Label: d.DisplayName(), Value: string(d)})
	}
	return opts
}

func typeOptions() []components.Option {
	opts := make([]components.Option, 0, len(question.Types))
	for _, t := range question.Types {
		opts = append(opts, components.Option{Label: t.DisplayName(), Value: string(t)})
	}
	return opts
}

func (s *UploadScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.setFocus(fieldFile)}
	if s.drop.Selected != nil {
		cmds = append(cmds, inspectCmd(*s.drop.Selected))
	}
	return tea.Batch(cmds...)
}

func (s *UploadScreen) Title() string {
	return "Upload"
}

func (s *UploadScreen) KeyHints() []layout.KeyHint {
	if s.inFlight {
		return []layout.KeyHint{
			{Key: "", Description: "Generating questions..."},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
	}
	if s.focus == fieldDifficulty || s.focus == fieldType {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Generate"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

// InFlight reports whether a generation request is outstanding.
func (s *UploadScreen) InFlight() bool {
	return s.inFlight
}

// Selected returns the accepted file, or nil.
func (s *UploadScreen) Selected() *document.File {
	return s.drop.Selected
}

func (s *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generateDoneMsg:
		return s.handleGenerated(msg)

	case inspectDoneMsg:
		if s.drop.Selected != nil && s.drop.Selected.SameAs(msg.File) && msg.Err == nil {
			s.pages = msg.Info.Pages
		}
		return s, nil

	case components.FileSelectedMsg:
		s.pages = 0
		s.log.WithField("file", msg.File.Name).Debug("file selected")
		return s, inspectCmd(msg.File)

	case components.FileRejectedMsg:
		s.log.WithField("path", msg.Path).WithError(msg.Err).Debug("file rejected")
		return s, nil

	case spinner.TickMsg:
		if !s.inFlight {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.PasteStartMsg, tea.PasteEndMsg, tea.PasteMsg:
		// Files dropped on the terminal arrive as pastes whatever is focused.
		var cmd tea.Cmd
		s.drop, cmd = s.drop.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *UploadScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.inFlight {
		return s, nil
	}

	switch msg.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	case "enter":
		if s.focus == fieldFile && strings.TrimSpace(s.drop.PathValue()) != "" {
			return s.forward(msg)
		}
		return s.startGenerate()
	}

	return s.forward(msg)
}

// forward passes msg to the focused field.
func (s *UploadScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldFile:
		s.drop, cmd = s.drop.Update(msg)
	case fieldCount:
		s.count, cmd = s.count.Update(msg)
	case fieldDifficulty:
		s.difficulty, cmd = s.difficulty.Update(msg)
	case fieldType:
		s.qtype, cmd = s.qtype.Update(msg)
	}
	return s, cmd
}

func (s *UploadScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.drop.Blur()
	s.count.Blur()
	s.difficulty.Focused = f == fieldDifficulty
	s.qtype.Focused = f == fieldType
	s.submit.Focused = f == fieldSubmit

	switch f {
	case fieldFile:
		return s.drop.Focus()
	case fieldCount:
		return s.count.Focus()
	}
	return nil
}

// Params returns the parameters currently entered in the form.
func (s *UploadScreen) Params() question.Params {
	n, err := s.count.NumericValue()
	if err != nil {
		n = 0
	}
	return question.Params{
		Count:      n,
		Difficulty: question.Difficulty(s.difficulty.Value()),
		Type:       question.Type(s.qtype.Value()),
	}
}

func (s *UploadScreen) startGenerate() (screen.Screen, tea.Cmd) {
	if s.inFlight {
		return s, nil
	}
	if s.drop.Selected == nil {
		return s, components.Notify(components.ToastError, MsgNoFile)
	}

	params := s.Params()
	if err := params.Validate(); err != nil {
		s.count.Err = err.Error()
		return s, components.Notify(components.ToastError, err.Error())
	}

	s.inFlight = true
	s.drop.Disabled = true
	s.submit.Disabled = true

	return s, tea.Batch(s.spinner.Tick, generateCmd(s.client, *s.drop.Selected, params))
}

func (s *UploadScreen) handleGenerated(msg generateDoneMsg) (screen.Screen, tea.Cmd) {
	s.inFlight = false
	s.drop.Disabled = false
	s.submit.Disabled = false

	if msg.Err != nil {
		s.log.WithError(msg.Err).Warn("question generation failed")
		return s, components.Notify(components.ToastError, api.UserMessage(msg.Err, MsgGenerateFailed))
	}

	questions := msg.Questions
	if questions == nil {
		questions = []question.Question{}
	}
	next := s.results(questions)
	return s, tea.Batch(
		components.Notify(components.ToastSuccess, MsgGenerated),
		func() tea.Msg { return router.PushScreenMsg{Screen: next} },
	)
}

func generateCmd(client api.Client, f document.File, p question.Params) tea.Cmd {
	return func() tea.Msg {
		ctx := api.WithPurpose(context.Background(), api.PurposeGenerate)
		resp, err := client.Generate(ctx, api.GenerateRequest{File: f, Params: p})
		if err != nil {
			return generateDoneMsg{Err: err}
		}
		return generateDoneMsg{Questions: resp.Questions}
	}
}

func inspectCmd(f document.File) tea.Cmd {
	return func() tea.Msg {
		info, err := document.Inspect(f)
		return inspectDoneMsg{File: f, Info: info, Err: err}
	}
}
