package document

// Reason classifies why a file was rejected.
type Reason int

const (
	ReasonNotPDF Reason = iota + 1
	ReasonTooLarge
)

// RejectionError is returned by Validate for files that cannot be uploaded.
// Its message is meant to be shown to the user as is.
type RejectionError struct {
	Reason Reason
	File   File
}

func (e *RejectionError) Error() string {
	switch e.Reason {
	case ReasonNotPDF:
		return "Only PDF files are allowed"
	case ReasonTooLarge:
		return "File is too large. Maximum size is 10MB."
	default:
		return "File rejected"
	}
}

// Validate accepts f when it looks like a PDF (by extension or declared
// MIME type) and is no larger than MaxSize. Type is checked first.
func Validate(f File) error {
	isPDF := f.Ext() == "pdf" || f.MIMEType == MIMETypePDF
	if !isPDF {
		return &RejectionError{Reason: ReasonNotPDF, File: f}
	}
	if f.Size > MaxSize {
		return &RejectionError{Reason: ReasonTooLarge, File: f}
	}
	return nil
}
