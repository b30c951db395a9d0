package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".docx"}
}

// Normalise extracts plain text from a DOCX file. Body paragraphs come
// first, one per line, followed by table content with cells joined by
// " | " so that row context survives chunking.
func (n *Normaliser) Normalise(_ context.Context, raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", domain.ErrInvalidInput
	}

	// A .docx file is a ZIP archive with the text in word/document.xml.
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.ErrInvalidInput
	}

	return extractDocumentText(reader)
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		return parseDocumentXML(content), nil
	}
	return "", nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type table struct {
	Rows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

// parseDocumentXML extracts text content from the document XML.
// HR policy documents lean heavily on tables for entitlements and
// rates, so table cells are extracted alongside body paragraphs.
func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(paragraphText(para))
	}

	for _, tbl := range doc.Body.Tables {
		if result.Len() > 0 {
			result.WriteString("\n\n")
		}
		for j, row := range tbl.Rows {
			if j > 0 {
				result.WriteString("\n")
			}
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				var cellText strings.Builder
				for k, para := range cell.Paragraphs {
					if k > 0 {
						cellText.WriteString(" ")
					}
					cellText.WriteString(paragraphText(para))
				}
				cells = append(cells, cellText.String())
			}
			result.WriteString(strings.Join(cells, " | "))
		}
	}

	return strings.TrimSpace(result.String())
}

func paragraphText(para paragraph) string {
	var sb strings.Builder
	for _, run := range para.Runs {
		for _, text := range run.Text {
			sb.WriteString(text.Content)
		}
	}
	return sb.String()
}
