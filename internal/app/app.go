package app

import (
	"fmt"
	"io"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/qgen/internal/api"
	"github.com/abhisek/qgen/internal/document"
	"github.com/abhisek/qgen/internal/question"
	"github.com/abhisek/qgen/internal/router"
	"github.com/abhisek/qgen/internal/screen"
	"github.com/abhisek/qgen/internal/screens/questions"
	"github.com/abhisek/qgen/internal/screens/upload"
	"github.com/abhisek/qgen/internal/ui/components"
	"github.com/abhisek/qgen/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Client   api.Client
	Exporter questions.Exporter
	// Copy overrides the system clipboard.
	Copy func(string) error
	// Context is the text sent with answer requests; empty disables them.
	Context string
	Params  question.Params
	// File is preselected on the upload screen.
	File *document.File
	Log  logrus.FieldLogger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	toast  *components.Toast
	log    logrus.FieldLogger
	width  int
	height int
}

// newAppModel creates a new AppModel with the upload screen.
func newAppModel(opts Options) AppModel {
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = l
	}

	results := func(qs []question.Question) screen.Screen {
		return questions.New(qs, questions.Options{
			Client:   opts.Client,
			Exporter: opts.Exporter,
			Copy:     opts.Copy,
			Context:  opts.Context,
			Log:      opts.Log,
		})
	}

	uploadScreen := upload.New(upload.Options{
		Client:  opts.Client,
		Results: results,
		Params:  opts.Params,
		File:    opts.File,
		Log:     opts.Log,
	})

	return AppModel{
		router: router.New(uploadScreen),
		toast:  &components.Toast{},
		log:    opts.Log,
	}
}

func (m AppModel) Init() tea.Cmd {
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case components.NotifyMsg:
		if msg.Kind == components.ToastError {
			m.log.WithField("notice", msg.Text).Debug("error shown")
		}
		return m, m.toast.Show(msg.Kind, msg.Text)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	if m.toast.Update(msg) {
		return m, nil
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if m.toast.Visible() {
		contentHeight--
	}
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	if m.toast.Visible() {
		content = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.toast.View()) + "\n" + content
	}
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
