// Package ingestion decodes uploaded file containers into the shapes the
// extractors consume: PDF and text-like uploads become cleaned UTF-8 text,
// xlsx uploads are routed to the spreadsheet extractor as-is.
package ingestion

import (
	"bytes"
	"strings"
)

// Kind identifies the container format of an uploaded file, detected from
// its bytes rather than its file name. Export tools lie about extensions.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindXLSX    Kind = "xlsx"
	KindHTML    Kind = "html"
	KindText    Kind = "text"
	KindUnknown Kind = "unknown"
)

// DetectKind sniffs the container format by magic bytes first, falling back
// to content heuristics for HTML and plain text.
func DetectKind(data []byte) Kind {
	if len(data) == 0 {
		return KindUnknown
	}
	if isPDF(data) {
		return KindPDF
	}
	if isZip(data) {
		// The only OpenXML container this importer accepts is a workbook.
		return KindXLSX
	}
	if looksLikeHTML(data) {
		return KindHTML
	}
	if isProbablyText(data) {
		return KindText
	}
	return KindUnknown
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

func isZip(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

func looksLikeHTML(data []byte) bool {
	s := strings.ToLower(string(data[:min(len(data), 1024)]))
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "<!doctype html") || strings.HasPrefix(trimmed, "<html") {
		return true
	}
	return strings.Contains(s, "<html")
}

// isProbablyText reports whether the sample looks like printable text:
// no NUL bytes and a high ratio of printable or whitespace characters.
func isProbablyText(data []byte) bool {
	sample := data[:min(len(data), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}
