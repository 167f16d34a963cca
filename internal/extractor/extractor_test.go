package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filechat/internal/domain"
)

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Title</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Hello </w:t></w:r><w:r><w:t>world</w:t></w:r></w:p>
<w:p/>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildDOCX(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// buildPDF writes a minimal PDF with one text object per page.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	var kids []string
	for _, text := range pages {
		pageID := len(objects) + 1
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageID+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func newFull() *Extractor {
	return New(ResolvePDF(true), ResolveDOCX(true), nil)
}

func TestFormatOf(t *testing.T) {
	tests := map[string]domain.Format{
		"report.pdf":     domain.FormatPDF,
		"REPORT.PDF":     domain.FormatPDF,
		"notes.Docx":     domain.FormatDOCX,
		"notes.txt":      domain.FormatPlainText,
		"README":         domain.FormatPlainText,
		"archive.pdf.gz": domain.FormatPlainText,
		"old.doc":        domain.FormatPlainText,
	}
	for name, want := range tests {
		assert.Equal(t, want, FormatOf(name), name)
	}
}

func TestExtractPlainUTF8(t *testing.T) {
	got := newFull().Extract("a.txt", []byte("The quick brown fox."))
	assert.Equal(t, "The quick brown fox.", got.Text)
	assert.Equal(t, domain.FormatPlainText, got.Format)
	assert.False(t, got.Degraded)
	assert.NoError(t, got.Err)
}

func TestExtractLatin1Fallback(t *testing.T) {
	got := newFull().Extract("a.txt", []byte{'c', 'a', 'f', 0xE9, ' ', 0xFF})
	assert.Equal(t, "café ÿ", got.Text)
	assert.False(t, got.Degraded)
}

func TestExtractNormalizesToNFC(t *testing.T) {
	got := newFull().Extract("a.txt", []byte("cafe\u0301"))
	assert.Equal(t, "caf\u00e9", got.Text)
}

func TestExtractEmptyTextFallsBackToRaw(t *testing.T) {
	got := newFull().Extract("empty.txt", nil)
	assert.True(t, got.Degraded)
	assert.Equal(t, RenderRaw(nil), got.Text)
	assert.NotEmpty(t, got.Text)
}

func TestExtractMissingBackend(t *testing.T) {
	e := New(nil, nil, nil)
	assert.Equal(t, domain.Capabilities{}, e.Capabilities())

	data := []byte("%PDF-1.4 not really")
	got := e.Extract("scan.pdf", data)
	assert.True(t, got.Degraded)
	assert.Equal(t, RenderRaw(data), got.Text)
	assert.Equal(t, KindBackendUnavailable, KindOf(got.Err))
	assert.True(t, errors.Is(got.Err, ErrBackendUnavailable))

	got = e.Extract("memo.docx", data)
	assert.True(t, got.Degraded)
	assert.Equal(t, domain.FormatDOCX, got.Format)
	assert.Equal(t, KindBackendUnavailable, KindOf(got.Err))
}

func TestNewLogsUnavailableBackends(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	New(ResolvePDF(false), ResolveDOCX(true), logger)
	assert.Contains(t, buf.String(), "format=pdf")
	assert.NotContains(t, buf.String(), "format=docx")
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, domain.Capabilities{PDF: true, DOCX: true}, newFull().Capabilities())
	assert.Equal(t, domain.Capabilities{PDF: true}, New(ResolvePDF(true), ResolveDOCX(false), nil).Capabilities())
}

func TestExtractBrokenPDF(t *testing.T) {
	data := []byte("definitely not a pdf")
	got := newFull().Extract("broken.pdf", data)
	assert.True(t, got.Degraded)
	assert.Equal(t, RenderRaw(data), got.Text)
	assert.Equal(t, KindDecodeFailure, KindOf(got.Err))
}

func TestExtractPDFPagesJoinedByNewline(t *testing.T) {
	data := buildPDF(t, "Hello page one", "Second page fox")
	got := newFull().Extract("Two.PDF", data)
	require.NoError(t, got.Err)
	assert.False(t, got.Degraded)
	assert.Equal(t, domain.FormatPDF, got.Format)
	// Each text object starts on a new line, and pages are joined by one more.
	assert.Equal(t, "\nHello page one\n\nSecond page fox", got.Text)
}

func TestPDFBackendEmptyContent(t *testing.T) {
	_, err := NewPDFBackend().Extract(nil)
	require.Error(t, err)
	assert.Equal(t, KindDecodeFailure, KindOf(err))
}

func TestExtractDOCXParagraphs(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   sampleDocumentXML,
	})
	got := newFull().Extract("memo.docx", data)
	require.NoError(t, got.Err)
	assert.False(t, got.Degraded)
	assert.Equal(t, "Title\nHello world\n\na\tb\nc", got.Text)
}

func TestExtractDOCXTextBoxKeepsOuterRun(t *testing.T) {
	const doc = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape">
<w:body>
<w:p><w:r><w:t xml:space="preserve">before</w:t><w:drawing><wps:txbx><w:txbxContent><w:p><w:r><w:t>boxed</w:t></w:r></w:p></w:txbxContent></wps:txbx></w:drawing><w:t xml:space="preserve"> after</w:t></w:r></w:p>
<w:p><w:r><w:t>next</w:t></w:r></w:p>
</w:body>
</w:document>`
	got := newFull().Extract("memo.docx", buildDOCX(t, map[string]string{"word/document.xml": doc}))
	require.NoError(t, got.Err)
	assert.Equal(t, "before after\nnext", got.Text)
}

func TestExtractDOCXFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain bytes")},
		{"missing document.xml", buildDOCX(t, map[string]string{"word/other.xml": "<x/>"})},
		{"broken xml", buildDOCX(t, map[string]string{"word/document.xml": "<w:document><w:body><w:p>"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newFull().Extract("memo.docx", tt.data)
			assert.True(t, got.Degraded)
			assert.Equal(t, KindDecodeFailure, KindOf(got.Err))
			assert.Equal(t, RenderRaw(tt.data), got.Text)
		})
	}
}

func TestRenderRawHandlesArbitraryBytes(t *testing.T) {
	data := []byte{0x00, 0xFF, 0xFE, '\n', 'x'}
	assert.Equal(t, `"\x00\xff\xfe\nx"`, RenderRaw(data))
}

func TestExtractionErrorMessage(t *testing.T) {
	err := &ExtractionError{Kind: KindDecodeFailure, Format: domain.FormatPDF, Err: errors.New("boom")}
	assert.Equal(t, "extract pdf: decode failure: boom", err.Error())
	assert.Equal(t, Kind(0), KindOf(errors.New("other")))
}
