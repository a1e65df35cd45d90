package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// maxListDepth is the deepest list nesting DOCX output preserves.
// Deeper items are flattened to this depth with a logged warning.
const maxListDepth = 5

const (
	bulletNumID  = 1
	orderedNumID = 2
)

// renderDOCX walks the Markdown AST and writes a minimal
// WordprocessingML package: headings, paragraphs, emphasis runs, nested
// lists, tables, blockquotes, and code blocks.
func (r *Renderer) renderDOCX(source []byte) ([]byte, error) {
	root := r.md.Parser().Parse(text.NewReader(source))

	w := &docxWriter{src: source}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
	}

	pkg, err := packageDOCX(w.body.String())
	if err != nil {
		return nil, &RenderError{Format: "docx", Message: "cannot assemble package", Cause: err}
	}
	return pkg, nil
}

// runStyle carries inline formatting state down the run tree.
type runStyle struct {
	bold   bool
	italic bool
	strike bool
	code   bool
}

type docxWriter struct {
	src  []byte
	body strings.Builder
}

// block emits one top-level block element.
func (w *docxWriter) block(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		level := node.Level
		if level > 6 {
			level = 6
		}
		w.paragraph(fmt.Sprintf("Heading%d", level), w.runs(node, runStyle{}))
	case *ast.Paragraph, *ast.TextBlock:
		w.paragraph("", w.runs(n, runStyle{}))
	case *ast.List:
		w.list(node, 0)
	case *ast.FencedCodeBlock:
		w.codeLines(node.Lines())
	case *ast.CodeBlock:
		w.codeLines(node.Lines())
	case *ast.Blockquote:
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			w.paragraph("Quote", w.runs(child, runStyle{italic: true}))
		}
	case *ast.ThematicBreak:
		w.body.WriteString(`<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="auto"/></w:pBdr></w:pPr></w:p>`)
	case *extast.Table:
		w.table(node)
	default:
		// Unknown block kinds degrade to a plain paragraph of their text.
		w.paragraph("", w.runs(n, runStyle{}))
	}
}

// list emits the items of one list, tracking nesting depth for the
// numbering level.
func (w *docxWriter) list(node *ast.List, depth int) {
	numID := bulletNumID
	if node.IsOrdered() {
		numID = orderedNumID
	}
	level := depth
	if level >= maxListDepth {
		log.Printf("[render] list nesting exceeds %d levels; flattening", maxListDepth)
		level = maxListDepth - 1
	}

	for item := node.FirstChild(); item != nil; item = item.NextSibling() {
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				w.list(nested, depth+1)
				continue
			}
			props := fmt.Sprintf(`<w:pPr><w:pStyle w:val="ListParagraph"/><w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr></w:pPr>`, level, numID)
			w.body.WriteString("<w:p>")
			w.body.WriteString(props)
			w.body.WriteString(w.runs(child, runStyle{}))
			w.body.WriteString("</w:p>")
		}
	}
}

// codeLines writes each source line of a code block as a monospace
// paragraph.
func (w *docxWriter) codeLines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		line := strings.TrimRight(string(segment.Value(w.src)), "\n")
		w.paragraph("Code", run(line, runStyle{code: true}))
	}
}

// table writes a GFM table; header-row cells are emitted bold.
func (w *docxWriter) table(node *extast.Table) {
	w.body.WriteString(`<w:tbl><w:tblPr><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4"/><w:bottom w:val="single" w:sz="4"/>` +
		`<w:left w:val="single" w:sz="4"/><w:right w:val="single" w:sz="4"/>` +
		`<w:insideH w:val="single" w:sz="4"/><w:insideV w:val="single" w:sz="4"/>` +
		`</w:tblBorders></w:tblPr>`)
	for row := node.FirstChild(); row != nil; row = row.NextSibling() {
		_, isHeader := row.(*extast.TableHeader)
		w.body.WriteString("<w:tr>")
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			w.body.WriteString("<w:tc>")
			w.body.WriteString("<w:p>")
			w.body.WriteString(w.runs(cell, runStyle{bold: isHeader}))
			w.body.WriteString("</w:p>")
			w.body.WriteString("</w:tc>")
		}
		w.body.WriteString("</w:tr>")
	}
	w.body.WriteString("</w:tbl>")
}

// paragraph writes one w:p with an optional paragraph style.
func (w *docxWriter) paragraph(style, runsXML string) {
	w.body.WriteString("<w:p>")
	if style != "" {
		fmt.Fprintf(&w.body, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	}
	w.body.WriteString(runsXML)
	w.body.WriteString("</w:p>")
}

// runs flattens the inline children of a node into formatted w:r runs.
func (w *docxWriter) runs(n ast.Node, style runStyle) string {
	var sb strings.Builder
	w.inline(&sb, n, style)
	return sb.String()
}

func (w *docxWriter) inline(sb *strings.Builder, n ast.Node, style runStyle) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			sb.WriteString(run(string(node.Segment.Value(w.src)), style))
			if node.HardLineBreak() {
				sb.WriteString("<w:r><w:br/></w:r>")
			} else if node.SoftLineBreak() {
				sb.WriteString(run(" ", style))
			}
		case *ast.String:
			sb.WriteString(run(string(node.Value), style))
		case *ast.Emphasis:
			inner := style
			if node.Level >= 2 {
				inner.bold = true
			} else {
				inner.italic = true
			}
			w.inline(sb, node, inner)
		case *extast.Strikethrough:
			inner := style
			inner.strike = true
			w.inline(sb, node, inner)
		case *ast.CodeSpan:
			inner := style
			inner.code = true
			w.inline(sb, node, inner)
		case *ast.Link:
			w.inline(sb, node, style)
		case *ast.AutoLink:
			sb.WriteString(run(string(node.URL(w.src)), style))
		case *ast.Image:
			// Images have no DOCX representation here; keep the alt text.
			w.inline(sb, node, style)
		default:
			w.inline(sb, node, style)
		}
	}
}

// run emits one w:r with run properties for the active style.
func run(textContent string, style runStyle) string {
	if textContent == "" {
		return ""
	}
	var props strings.Builder
	if style.bold {
		props.WriteString("<w:b/>")
	}
	if style.italic {
		props.WriteString("<w:i/>")
	}
	if style.strike {
		props.WriteString("<w:strike/>")
	}
	if style.code {
		props.WriteString(`<w:rFonts w:ascii="Courier New" w:hAnsi="Courier New"/>`)
	}

	var sb strings.Builder
	sb.WriteString("<w:r>")
	if props.Len() > 0 {
		sb.WriteString("<w:rPr>")
		sb.WriteString(props.String())
		sb.WriteString("</w:rPr>")
	}
	sb.WriteString(`<w:t xml:space="preserve">`)
	sb.WriteString(escapeXML(textContent))
	sb.WriteString("</w:t></w:r>")
	return sb.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// packageDOCX wraps the body XML in a complete OPC zip package.
func packageDOCX(bodyXML string) ([]byte, error) {
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		bodyXML +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134"/></w:sectPr></w:body></w:document>`

	files := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", documentXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/numbering.xml", numberingXML},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		entry, err := zw.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := entry.Write([]byte(f.body)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>
</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:sz w:val="22"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="48"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="40"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="2"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading4"><w:name w:val="heading 4"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="3"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading5"><w:name w:val="heading 5"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="4"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading6"><w:name w:val="heading 6"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="5"/></w:pPr><w:rPr><w:b/><w:i/><w:sz w:val="22"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/><w:basedOn w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:rPr><w:i/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Code"><w:name w:val="Code"/><w:basedOn w:val="Normal"/><w:rPr><w:rFonts w:ascii="Courier New" w:hAnsi="Courier New"/></w:rPr></w:style>
</w:styles>`

const numberingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:abstractNum w:abstractNumId="1">
<w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl>
<w:lvl w:ilvl="1"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#9702;"/><w:pPr><w:ind w:left="1440" w:hanging="360"/></w:pPr></w:lvl>
<w:lvl w:ilvl="2"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#9642;"/><w:pPr><w:ind w:left="2160" w:hanging="360"/></w:pPr></w:lvl>
<w:lvl w:ilvl="3"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:pPr><w:ind w:left="2880" w:hanging="360"/></w:pPr></w:lvl>
<w:lvl w:ilvl="4"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#9702;"/><w:pPr><w:ind w:left="3600" w:hanging="360"/></w:pPr></w:lvl>
</w:abstractNum>
<w:abstractNum w:abstractNumId="2">
<w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl>
<w:lvl w:ilvl="1"><w:numFmt w:val="decimal"/><w:lvlText w:val="%2."/><w:pPr><w:ind w:left="1440" w:hanging="360"/></w:pPr></w:lvl>
<w:lvl w:ilvl="2"><w:numFmt w:val="decimal"/><w:lvlText w:val="%3."/><w:pPr><w:ind w:left="2160" w:hanging="360"/></w:pPr></w:lvl>
<w:lvl w:ilvl="3"><w:numFmt w:val="decimal"/><w:lvlText w:val="%4."/><w:pPr><w:ind w:left="2880" w:hanging="360"/></w:pPr></w:lvl>
<w:lvl w:ilvl="4"><w:numFmt w:val="decimal"/><w:lvlText w:val="%5."/><w:pPr><w:ind w:left="3600" w:hanging="360"/></w:pPr></w:lvl>
</w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="1"/></w:num>
<w:num w:numId="2"><w:abstractNumId w:val="2"/></w:num>
</w:numbering>`
