package extract

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/ECNUser/factiva2csv/internal/textutil"
)

// pageBreakLine separates pages the same way the RTF stripper renders \page.
const pageBreakLine = "\n\f\n"

// FromHTML extracts the text of an HTML export. Block elements end lines,
// <hr> and CSS page breaks become form-feed lines, and script, style and
// head content is skipped.
func FromHTML(input []byte, opts Options) (Document, error) {
	enc, name, _ := charset.DetermineEncoding(input, "text/html")
	if name == "utf-8" && !utf8.Valid(input) && !opts.Lossy {
		return Document{}, &DecodeError{Format: FormatHTML, Encoding: name, Err: errInvalidUTF}
	}
	decoded, err := enc.NewDecoder().Bytes(input)
	if err != nil {
		return Document{}, &DecodeError{Format: FormatHTML, Encoding: name, Err: err}
	}
	node, err := html.Parse(bytes.NewReader(decoded))
	if err != nil || node == nil {
		return Document{}, &DecodeError{Format: FormatHTML, Encoding: name, Err: errEmptyHTML}
	}
	var b strings.Builder
	if body := findFirst(node, "body"); body != nil {
		collectText(&b, body, false)
	} else {
		collectText(&b, node, false)
	}
	return Document{Text: normalizeLines(b.String()), Encoding: name, Format: FormatHTML}, nil
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collectText(b *strings.Builder, n *html.Node, inPre bool) {
	var name string
	if n.Type == html.ElementNode {
		name = strings.ToLower(n.Data)
		switch name {
		case "script", "style", "noscript", "head", "title", "iframe", "object":
			return
		case "pre":
			inPre = true
		case "br":
			b.WriteString("\n")
		case "hr":
			b.WriteString(pageBreakLine)
		case "td", "th":
			b.WriteString("\t")
		}
		if pageBreak(n, "page-break-before") || pageBreak(n, "break-before") {
			b.WriteString(pageBreakLine)
		}
		if isBlock(name) {
			b.WriteString("\n")
		}
	}

	if n.Type == html.TextNode {
		data := n.Data
		if !inPre {
			data = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(data)
		}
		b.WriteString(data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c, inPre)
	}

	if n.Type == html.ElementNode {
		if isBlock(name) {
			b.WriteString("\n")
		}
		if name == "p" || strings.HasPrefix(name, "h") && len(name) == 2 {
			b.WriteString("\n")
		}
		if pageBreak(n, "page-break-after") || pageBreak(n, "break-after") {
			b.WriteString(pageBreakLine)
		}
	}
}

func isBlock(name string) bool {
	switch name {
	case "p", "div", "section", "article", "li", "ul", "ol", "tr", "table",
		"h1", "h2", "h3", "h4", "h5", "h6", "pre", "blockquote", "dd", "dt":
		return true
	}
	return false
}

// pageBreak reports an inline style such as "page-break-before: always".
func pageBreak(n *html.Node, prop string) bool {
	for _, a := range n.Attr {
		if !strings.EqualFold(a.Key, "style") {
			continue
		}
		for _, decl := range strings.Split(strings.ToLower(a.Val), ";") {
			k, v, ok := strings.Cut(decl, ":")
			if !ok || strings.TrimSpace(k) != prop {
				continue
			}
			switch strings.TrimSpace(v) {
			case "always", "page", "left", "right":
				return true
			}
		}
	}
	return false
}

// normalizeLines collapses spaces within each line, keeps at most one blank
// line in a row and at most one form-feed line in a row.
func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	last := func() string {
		if len(out) == 0 {
			return "\f"
		}
		return out[len(out)-1]
	}
	for _, line := range lines {
		if strings.ContainsRune(line, '\f') && textutil.IsBlank(line) {
			if last() == "\f" {
				continue
			}
			if last() == "" {
				out = out[:len(out)-1]
			}
			out = append(out, "\f")
			continue
		}
		line = textutil.CollapseSpaces(line)
		if line == "" {
			if l := last(); l == "" || l == "\f" {
				continue
			}
		}
		out = append(out, line)
	}
	for len(out) > 0 && (out[len(out)-1] == "" || out[len(out)-1] == "\f") {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
