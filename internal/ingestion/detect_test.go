package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Kind
	}{
		{"PDF magic bytes", []byte("%PDF-1.7\n%...."), KindPDF},
		{"Zip magic bytes", []byte("PK\x03\x04rest-of-archive"), KindXLSX},
		{"HTML doctype", []byte("<!DOCTYPE html><html><body>hi</body></html>"), KindHTML},
		{"HTML tag with leading space", []byte("  <html lang=\"en\"><body></body></html>"), KindHTML},
		{"Plain text", []byte("Strengths Report\nPrepared for: Jane Doe\n"), KindText},
		{"UTF-8 text", []byte("Résumé of thèmes"), KindText},
		{"Empty", nil, KindUnknown},
		{"Binary with NULs", []byte{0x00, 0x01, 0x02, 0xFF, 0x00}, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectKind(tt.data))
		})
	}
}

func TestExtractTextPlain(t *testing.T) {
	text, err := ExtractText("report.txt", []byte("Line one\r\nLine   two\r\n\r\n\r\n\r\nLine three"))
	assert.NoError(t, err)
	assert.Equal(t, "Line one\nLine two\n\nLine three", text)
}

func TestExtractTextHTML(t *testing.T) {
	html := `<!DOCTYPE html><html><head><style>p{color:red}</style></head>
<body><h1>Strengths Report</h1><p>Prepared for: Jane Doe</p><p>1. Achiever</p>
<script>alert("no")</script></body></html>`

	text, err := ExtractText("report.html", []byte(html))
	assert.NoError(t, err)
	assert.Contains(t, text, "Strengths Report")
	assert.Contains(t, text, "Prepared for: Jane Doe")
	assert.Contains(t, text, "Achiever")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color:red")
}

func TestExtractTextRejectsWorkbook(t *testing.T) {
	_, err := ExtractText("export.xlsx", []byte("PK\x03\x04not-really-a-workbook"))
	assert.Error(t, err)

	var unreadable *UnreadableError
	assert.ErrorAs(t, err, &unreadable)
	assert.Equal(t, KindXLSX, unreadable.Kind)
}

func TestExtractTextUnknown(t *testing.T) {
	_, err := ExtractText("blob.bin", []byte{0x00, 0x01, 0x02})
	assert.Error(t, err)

	var unreadable *UnreadableError
	assert.ErrorAs(t, err, &unreadable)
	assert.Equal(t, "blob.bin", unreadable.FileName)
}
