package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pdf "github.com/ledongthuc/pdf"
)

// UnreadableError indicates the uploaded bytes could not be decoded as any
// supported container. This is a fatal, whole-request error: no rows can be
// attempted against a document we cannot read.
type UnreadableError struct {
	FileName string
	Kind     Kind
	Cause    error
}

func (e *UnreadableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unreadable document %s (detected %s): %v", e.FileName, e.Kind, e.Cause)
	}
	return fmt.Sprintf("unreadable document %s (detected %s)", e.FileName, e.Kind)
}

func (e *UnreadableError) Unwrap() error {
	return e.Cause
}

// ExtractText decodes a PDF, HTML, or plain-text upload into cleaned UTF-8
// text for the document extractor. Workbook uploads are rejected here; the
// caller routes those to the spreadsheet extractor instead.
func ExtractText(fileName string, data []byte) (string, error) {
	kind := DetectKind(data)
	switch kind {
	case KindPDF:
		text, err := extractPDF(data)
		if err != nil {
			return "", &UnreadableError{FileName: fileName, Kind: kind, Cause: err}
		}
		return CleanText(text), nil
	case KindHTML:
		text, err := stripHTML(data)
		if err != nil {
			return "", &UnreadableError{FileName: fileName, Kind: kind, Cause: err}
		}
		return CleanText(text), nil
	case KindText:
		return CleanText(string(data)), nil
	case KindXLSX:
		return "", &UnreadableError{FileName: fileName, Kind: kind,
			Cause: fmt.Errorf("workbook uploads are handled by the spreadsheet extractor")}
	default:
		return "", &UnreadableError{FileName: fileName, Kind: kind}
	}
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return string(b), nil
}

// stripHTML extracts the visible text of an HTML export, dropping script and
// style content. Some analytics portals offer "save as web page" exports.
func stripHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	// Emit one line per block-level element so the line-oriented name
	// heuristics still see label/value pairs. Duplicated text from nested
	// blocks is harmless downstream: theme detection is first-occurrence-wins.
	var sb strings.Builder
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, th, td").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	})
	if sb.Len() == 0 {
		// No block structure at all; take the raw document text.
		sb.WriteString(doc.Text())
	}
	return sb.String(), nil
}
