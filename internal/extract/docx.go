package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strings"
)

// DOCX files are OPC zip packages; all visible text lives in
// word/document.xml. The wrapper types below mirror the subset of
// WordprocessingML we read: paragraphs with their style (for heading
// levels), runs with text, tabs and breaks, and tables.

type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	// Blocks preserves document order across paragraphs and tables.
	Blocks []docxBlock `xml:",any"`
}

type docxBlock struct {
	XMLName    xml.Name
	Properties docxParaProps `xml:"pPr"`
	Runs       []docxRun     `xml:"r"`
	Rows       []docxRow     `xml:"tr"`
}

type docxParaProps struct {
	Style docxStyle `xml:"pStyle"`
}

type docxStyle struct {
	Val string `xml:"val,attr"`
}

type docxRun struct {
	// Children keeps text, tabs, and breaks in their in-run order, so a
	// page break between two text nodes lands between them in the output.
	Children []docxRunChild `xml:",any"`
}

type docxRunChild struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxBlock `xml:"p"`
}

// extractDOCX reads word/document.xml out of the zip package and renders
// paragraphs and tables in document order. Heading styles become #-prefixed
// markers so the model and the renderer can see structure; table rows are
// emitted as pipe-joined cells.
func extractDOCX(raw []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", &CorruptFileError{Format: "docx", Message: "not a zip package", Cause: err}
	}

	var xmlContent []byte
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", &CorruptFileError{Format: "docx", Message: "cannot open document.xml", Cause: err}
		}
		xmlContent, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", &CorruptFileError{Format: "docx", Message: "cannot read document.xml", Cause: err}
		}
		break
	}
	if xmlContent == nil {
		return "", &CorruptFileError{Format: "docx", Message: "word/document.xml missing"}
	}

	var doc docxDocument
	if err := xml.Unmarshal(stripXMLNamespacePrefixes(xmlContent), &doc); err != nil {
		return "", &CorruptFileError{Format: "docx", Message: "document.xml does not parse", Cause: err}
	}

	var sb strings.Builder
	for _, block := range doc.Body.Blocks {
		switch block.XMLName.Local {
		case "p":
			text := paragraphText(block)
			if text == "" {
				continue
			}
			if level := headingLevel(block.Properties.Style.Val); level > 0 {
				sb.WriteString(strings.Repeat("#", level))
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
			sb.WriteString("\n\n")
		case "tbl":
			for _, row := range block.Rows {
				cells := make([]string, 0, len(row.Cells))
				for _, cell := range row.Cells {
					var cellText strings.Builder
					for _, para := range cell.Paragraphs {
						if cellText.Len() > 0 {
							cellText.WriteByte(' ')
						}
						cellText.WriteString(paragraphText(para))
					}
					cells = append(cells, strings.TrimSpace(cellText.String()))
				}
				sb.WriteString(strings.Join(cells, " | "))
				sb.WriteByte('\n')
			}
			sb.WriteByte('\n')
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &CorruptFileError{Format: "docx", Message: "no text content found"}
	}
	return text, nil
}

// paragraphText joins the run children of one paragraph in document
// order, turning explicit page breaks into the PageBreak marker. Edge
// trimming must not swallow the marker, so it trims blanks only.
func paragraphText(para docxBlock) string {
	var sb strings.Builder
	for _, run := range para.Runs {
		for _, child := range run.Children {
			switch child.XMLName.Local {
			case "t":
				sb.WriteString(child.Content)
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				if child.Type == "page" {
					sb.WriteString(PageBreak)
				} else {
					sb.WriteByte('\n')
				}
			}
		}
	}
	return strings.Trim(sb.String(), " \t\n\r")
}

// headingLevel maps a Word paragraph style to a heading level 1..6,
// or 0 for body text. Word names the built-in styles Heading1..Heading9.
func headingLevel(style string) int {
	s := strings.ToLower(style)
	if !strings.HasPrefix(s, "heading") {
		if s == "title" {
			return 1
		}
		return 0
	}
	switch strings.TrimPrefix(s, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6", "7", "8", "9":
		return 6
	}
	return 0
}

var xmlNamespaceRe = regexp.MustCompile(`(</?)[a-zA-Z0-9]+:`)

// stripXMLNamespacePrefixes drops the w: prefixes so plain encoding/xml
// struct tags match element names.
func stripXMLNamespacePrefixes(content []byte) []byte {
	return xmlNamespaceRe.ReplaceAll(content, []byte("$1"))
}
