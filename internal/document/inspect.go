package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfMagic = []byte("%PDF")

func init() {
	// Keep pdfcpu from creating a config directory under $HOME.
	api.DisableConfigDir()
}

// Info describes the structure of a PDF document.
type Info struct {
	HasHeader bool
	Valid     bool
	Pages     int
	// Problem holds the structural validation failure, if any.
	Problem string
}

// Inspect reads the document and reports its PDF header, structural
// validity and page count. A structurally broken PDF is not an error: the
// problem is reported in Info so callers can decide what to show.
func Inspect(f File) (Info, error) {
	rc, err := f.Reader()
	if err != nil {
		return Info{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxSize+1))
	if err != nil {
		return Info{}, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return InspectBytes(data), nil
}

// InspectBytes is Inspect for an in-memory document. pdfcpu can panic on
// truncated or malformed input; that is reported as a Problem.
func InspectBytes(data []byte) (info Info) {
	info.HasHeader = bytes.HasPrefix(data, pdfMagic)
	defer func() {
		if r := recover(); r != nil {
			info.Valid = false
			info.Pages = 0
			info.Problem = fmt.Sprintf("malformed PDF: %v", r)
		}
	}()

	if !info.HasHeader {
		info.Problem = "missing PDF header"
		return info
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		info.Problem = err.Error()
		return info
	}
	info.Valid = true

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		info.Problem = err.Error()
		return info
	}
	info.Pages = pages
	return info
}
