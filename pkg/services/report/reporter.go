package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Reporter renders a finalized document to a writer.
type Reporter interface {
	Handle(doc *Document) error
}

// Format identifies a supported artifact format.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatHTML, FormatText, FormatPDF:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// NewReporter returns the renderer for a format.
func NewReporter(format Format, writer io.Writer) (Reporter, error) {
	switch format {
	case FormatHTML:
		return NewHTMLReporter(writer), nil
	case FormatText:
		return NewTextReporter(writer), nil
	case FormatPDF:
		return NewPDFReporter(writer), nil
	}
	return nil, fmt.Errorf("unsupported report format %q", format)
}

// WriteFile renders the document into dir under the given base name and
// returns the absolute artifact path.
func WriteFile(doc *Document, format Format, dir, name string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s.%s", name, format.Extension()))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	reporter, err := NewReporter(format, file)
	if err != nil {
		return "", err
	}
	if err := reporter.Handle(doc); err != nil {
		return "", err
	}
	return filepath.Abs(path)
}
