package document

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxSize is the largest document the API accepts (10 MiB).
	MaxSize = 10 * 1024 * 1024

	// MIMETypePDF is the only accepted declared content type.
	MIMETypePDF = "application/pdf"

	sniffLen = 512
)

// File is a candidate document selected by the user.
type File struct {
	Name     string
	Path     string
	MIMEType string
	Size     int64
}

// Open stats the file at path and derives its declared MIME type from the
// extension, falling back to content sniffing for unknown extensions.
func Open(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	f := File{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
	}

	f.MIMEType = mimeFromExt(filepath.Ext(path))
	if f.MIMEType == "" {
		f.MIMEType, err = sniff(path)
		if err != nil {
			return File{}, err
		}
	}
	return f, nil
}

// Reader opens the file contents for reading.
func (f File) Reader() (io.ReadCloser, error) {
	if f.Path == "" {
		return nil, fmt.Errorf("file %q has no path", f.Name)
	}
	return os.Open(f.Path)
}

// SameAs reports whether f and other are the same selection (name and size).
func (f File) SameAs(other File) bool {
	return f.Name == other.Name && f.Size == other.Size
}

// Ext returns the lower-cased extension without the leading dot.
func (f File) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), ".")
}

func mimeFromExt(ext string) string {
	if ext == "" {
		return ""
	}
	if strings.EqualFold(ext, ".pdf") {
		return MIMETypePDF
	}
	t := mime.TypeByExtension(strings.ToLower(ext))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t
}

func sniff(path string) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(fh, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	t := http.DetectContentType(buf[:n])
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t, nil
}
