// Package export renders a question list as a paginated A4 PDF.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/abhisek/qgen/internal/question"
)

// Page geometry in millimetres.
const (
	Title       = "Generated Interview Questions"
	MarginLeft  = 20.0
	AnswerLeft  = 25.0
	AnswerWidth = 170.0

	TitleY     = 20.0
	DateY      = 30.0
	StartY     = 50.0
	NewPageY   = 20.0
	PageBreakY = 270.0

	QuestionStep  = 10.0
	AnswerStep    = 7.0
	AnswerGap     = 5.0
	QuestionGap   = 10.0
	TitleSize     = 22.0
	DateSize      = 12.0
	QuestionSize  = 14.0
	AnswerSize    = 12.0
	fontFamily    = "Helvetica"
	dateLayout    = "January 2, 2006"
	fileNameStamp = "2006-01-02T15:04:05.000Z07:00"
)

// Kind tells what a placed line is.
type Kind int

const (
	KindTitle Kind = iota
	KindDate
	KindQuestion
	KindAnswer
)

// Line is one line of text placed on a page. Page is 1-based.
type Line struct {
	Kind Kind
	Page int
	X, Y float64
	Text string
}

// Layout is the placement of every line of the document.
type Layout struct {
	Pages int
	Lines []Line
}

// LinesOf returns the lines of the given kind, in placement order.
func (l Layout) LinesOf(k Kind) []Line {
	var out []Line
	for _, ln := range l.Lines {
		if ln.Kind == k {
			out = append(out, ln)
		}
	}
	return out
}

// Document is a rendered export.
type Document struct {
	Layout Layout
	Bytes  []byte
}

// Render lays out questions and writes the PDF. now is printed as the
// generation date.
func Render(questions []question.Question, now time.Time) (*Document, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, true)
	pdf.SetCreator("qgen", false)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)

	r := &renderer{pdf: pdf}
	r.newPage()

	pdf.SetFont(fontFamily, "", TitleSize)
	r.place(KindTitle, MarginLeft, TitleY, Title)
	pdf.SetFont(fontFamily, "", DateSize)
	r.place(KindDate, MarginLeft, DateY, "Generated on: "+now.Format(dateLayout))

	y := StartY
	for i, q := range questions {
		pdf.SetFont(fontFamily, "B", QuestionSize)
		for _, text := range r.wrap(fmt.Sprintf("%d. %s", i+1, q.Question), AnswerWidth) {
			y = r.breakIfNeeded(y)
			r.place(KindQuestion, MarginLeft, y, text)
			y += QuestionStep
		}

		if q.HasAnswer() {
			pdf.SetFont(fontFamily, "", AnswerSize)
			for _, text := range r.wrap("Answer: "+q.Answer, AnswerWidth) {
				y = r.breakIfNeeded(y)
				r.place(KindAnswer, AnswerLeft, y, text)
				y += AnswerStep
			}
			y += AnswerGap
		}

		y += QuestionGap
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return &Document{Layout: r.layout, Bytes: buf.Bytes()}, nil
}

type renderer struct {
	pdf    *fpdf.Fpdf
	layout Layout
}

func (r *renderer) newPage() {
	r.pdf.AddPage()
	r.layout.Pages++
}

// breakIfNeeded starts a new page when y has passed the threshold and
// returns the cursor to use.
func (r *renderer) breakIfNeeded(y float64) float64 {
	if y > PageBreakY {
		r.newPage()
		return NewPageY
	}
	return y
}

func (r *renderer) place(k Kind, x, y float64, text string) {
	text = printable(text)
	r.pdf.Text(x, y, codePageBytes(text))
	r.layout.Lines = append(r.layout.Lines, Line{Kind: k, Page: r.layout.Pages, X: x, Y: y, Text: text})
}

// wrap splits text to width using the current font. Hard newlines are kept.
func (r *renderer) wrap(text string, width float64) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		// The core font metrics only cover the code page, so measure the
		// encoded form and decode each line back.
		lines := r.pdf.SplitText(toCodePage(para), width)
		if len(lines) == 0 {
			lines = []string{toCodePage(para)}
		}
		for _, l := range lines {
			out = append(out, fromCodePage(l))
		}
	}
	if len(out) == 0 {
		out = []string{text}
	}
	return out
}

// codePage is the encoding of the built-in PDF fonts.
var codePage = charmap.Windows1252

// toCodePage returns text with one rune per code page byte. Characters the
// code page cannot represent become '?'.
func toCodePage(text string) string {
	var b strings.Builder
	for _, c := range text {
		if c == '\t' {
			c = ' '
		}
		cb, ok := codePage.EncodeRune(c)
		if !ok || (unicode.IsControl(c) && c != '\n') {
			cb = '?'
		}
		b.WriteRune(rune(cb))
	}
	return b.String()
}

// fromCodePage reverses toCodePage.
func fromCodePage(encoded string) string {
	var b strings.Builder
	for _, c := range encoded {
		b.WriteRune(codePage.DecodeByte(byte(c)))
	}
	return b.String()
}

// printable replaces what the fonts cannot draw.
func printable(text string) string {
	return fromCodePage(toCodePage(text))
}

// codePageBytes returns the raw code page bytes of text.
func codePageBytes(text string) string {
	enc := toCodePage(text)
	buf := make([]byte, 0, len(enc))
	for _, c := range enc {
		buf = append(buf, byte(c))
	}
	return string(buf)
}

// FileName returns the export file name for t, e.g.
// interview-questions-2024-03-05T14-07-09-123Z.pdf.
func FileName(t time.Time) string {
	stamp := t.UTC().Format(fileNameStamp)
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return "interview-questions-" + stamp + ".pdf"
}

// Exporter writes rendered documents into Dir.
type Exporter struct {
	Dir string
	Now func() time.Time
}

// NewExporter creates an Exporter writing to dir with the wall clock.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir, Now: time.Now}
}

// Export renders questions and writes the file. It returns the written path.
func (e *Exporter) Export(questions []question.Question) (string, error) {
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}

	doc, err := Render(questions, now)
	if err != nil {
		return "", err
	}

	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, doc.Bytes, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
