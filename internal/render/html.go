package render

import (
	"bytes"
	"fmt"
	"html"
)

// renderHTML converts Markdown to a sanitized HTML fragment suitable for
// embedding in a preview pane. The output is deterministic for a given
// input.
func (r *Renderer) renderHTML(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, &RenderError{Format: "html", Message: "markdown conversion failed", Cause: err}
	}
	return r.policy.SanitizeBytes(buf.Bytes()), nil
}

// htmlDocument wraps a fragment in a full page with the print stylesheet.
// The PDF renderer prints this page; the preview uses the bare fragment.
func (r *Renderer) htmlDocument(fragment []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body>
`, html.EscapeString(r.opts.DocumentTitle), printCSS)
	buf.Write(fragment)
	buf.WriteString("\n</body>\n</html>\n")
	return buf.Bytes()
}

// printCSS styles the printed page: A4 with 2cm margins, a serif-free
// body, and underlined top-level headings.
const printCSS = `@page {
  size: A4;
  margin: 2cm;
}
body {
  font-family: 'Arial', 'Helvetica', sans-serif;
  font-size: 11pt;
  line-height: 1.6;
  color: #333;
  max-width: 100%;
}
h1, h2, h3, h4, h5, h6 {
  color: #2c3e50;
  margin-top: 1.5em;
  margin-bottom: 0.5em;
  font-weight: bold;
}
h1 {
  font-size: 24pt;
  border-bottom: 2px solid #3498db;
  padding-bottom: 0.3em;
}
h2 {
  font-size: 20pt;
  border-bottom: 1px solid #bdc3c7;
  padding-bottom: 0.2em;
}
h3 { font-size: 16pt; }
h4 { font-size: 14pt; }
p {
  margin-bottom: 1em;
  text-align: justify;
}
ul, ol {
  margin-bottom: 1em;
  padding-left: 2em;
}
li { margin-bottom: 0.3em; }
blockquote {
  border-left: 4px solid #3498db;
  margin: 1em 0;
  padding-left: 1em;
  color: #555;
}
code {
  font-family: 'Courier New', monospace;
  background-color: #f4f4f4;
  padding: 0.1em 0.3em;
  border-radius: 3px;
}
pre {
  background-color: #f4f4f4;
  padding: 1em;
  border-radius: 4px;
  overflow-x: auto;
}
pre code {
  background: none;
  padding: 0;
}
table {
  border-collapse: collapse;
  width: 100%;
  margin-bottom: 1em;
}
th, td {
  border: 1px solid #bdc3c7;
  padding: 0.4em 0.6em;
  text-align: left;
}
th { background-color: #ecf0f1; }
`
