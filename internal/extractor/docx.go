package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"filechat/internal/domain"
)

var _ Backend = (*DOCXBackend)(nil)

// maxDocumentXMLSize caps the decompressed size of word/document.xml.
const maxDocumentXMLSize = 100 << 20

// DOCXBackend reads the body paragraphs of a WordprocessingML document.
// Paragraphs inside tables and text boxes are not body paragraphs and are
// skipped.
type DOCXBackend struct{}

func NewDOCXBackend() *DOCXBackend { return &DOCXBackend{} }

func (*DOCXBackend) Format() domain.Format { return domain.FormatDOCX }

func (*DOCXBackend) Available() bool { return true }

// Extract returns the text of every body paragraph, one per line.
func (b *DOCXBackend) Extract(content []byte) (string, error) {
	if len(content) == 0 {
		return "", b.fail(errors.New("empty docx content"))
	}
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", b.fail(fmt.Errorf("open zip: %w", err))
	}
	data, err := readDocumentXML(zr)
	if err != nil {
		return "", b.fail(err)
	}
	paragraphs, err := docxParagraphs(data)
	if err != nil {
		return "", b.fail(err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

func (*DOCXBackend) fail(err error) error {
	return &ExtractionError{Kind: KindDecodeFailure, Format: domain.FormatDOCX, Err: err}
}

func readDocumentXML(zr *zip.Reader) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}
		defer rc.Close()
		data, err := io.ReadAll(io.LimitReader(rc, maxDocumentXMLSize+1))
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}
		if len(data) > maxDocumentXMLSize {
			return nil, fmt.Errorf("document.xml exceeds %d bytes", maxDocumentXMLSize)
		}
		return data, nil
	}
	return nil, errors.New("missing word/document.xml")
}

// paragraphScanner tracks where the decoder is while streaming document.xml.
type paragraphScanner struct {
	nested     int // depth inside tables and text boxes
	outerRuns  []bool
	inPara     bool
	inRun      bool
	inText     bool
	current    strings.Builder
	paragraphs []string
}

func docxParagraphs(data []byte) ([]string, error) {
	s := &paragraphScanner{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return s.paragraphs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			s.start(t.Name.Local)
		case xml.EndElement:
			s.end(t.Name.Local)
		case xml.CharData:
			if s.inText {
				s.current.Write(t)
			}
		}
	}
}

func (s *paragraphScanner) start(name string) {
	switch name {
	case "tbl":
		s.nested++
	case "txbxContent":
		// Text boxes sit inside a run of the enclosing paragraph.
		s.outerRuns = append(s.outerRuns, s.inRun)
		s.nested++
	case "p":
		if s.nested == 0 {
			s.inPara = true
			s.current.Reset()
		}
	case "r":
		s.inRun = s.inPara && s.nested == 0
	case "t":
		s.inText = s.inRun
	case "tab":
		if s.inRun {
			s.current.WriteByte('\t')
		}
	case "br", "cr":
		if s.inRun {
			s.current.WriteByte('\n')
		}
	}
}

func (s *paragraphScanner) end(name string) {
	switch name {
	case "tbl":
		s.nested--
	case "txbxContent":
		s.nested--
		if n := len(s.outerRuns); n > 0 {
			s.inRun = s.outerRuns[n-1]
			s.outerRuns = s.outerRuns[:n-1]
		}
	case "p":
		if s.inPara && s.nested == 0 {
			s.paragraphs = append(s.paragraphs, s.current.String())
			s.inPara = false
		}
	case "r":
		s.inRun = false
	case "t":
		s.inText = false
	}
}
