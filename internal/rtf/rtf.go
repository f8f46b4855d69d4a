// Package rtf converts RTF byte streams into plain text. It keeps the
// textual payload, decodes escaped characters through the document and font
// code pages, and turns paragraph, line and page markup into line breaks.
// It is not a renderer: fonts, colours, tables and pictures are dropped.
package rtf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// PageBreak is written on its own line wherever the document has \page.
const PageBreak = "\f"

// ErrNotRTF is returned when the input does not start with an {\rtf header.
var ErrNotRTF = errors.New("rtf: missing {\\rtf header")

// CodePageError reports text escaped in a code page that has no decoder.
type CodePageError struct {
	CodePage int
}

func (e *CodePageError) Error() string {
	return fmt.Sprintf("rtf: unsupported code page %d", e.CodePage)
}

// InvalidBytesError reports escaped bytes that are not valid in the active
// code page.
type InvalidBytesError struct {
	Encoding string
	Offset   int
}

func (e *InvalidBytesError) Error() string {
	return fmt.Sprintf("rtf: invalid %s byte sequence near offset %d", e.Encoding, e.Offset)
}

// Options controls decoding.
type Options struct {
	// Lossy falls back to Windows-1252 for unknown code pages and replaces
	// undecodable bytes with U+FFFD instead of failing.
	Lossy bool
}

// Result is the plain text of a document plus the declared encoding.
type Result struct {
	Text     string
	Encoding string
}

// Strip converts raw RTF into plain text with '\n' line boundaries.
// Consecutive boundaries are kept as-is.
func Strip(raw []byte, opts Options) (Result, error) {
	data := bytes.TrimLeft(raw, "\xef\xbb\xbf \t\r\n")
	if !bytes.HasPrefix(data, []byte(`{\rtf`)) {
		return Result{}, ErrNotRTF
	}
	p := &parser{
		data:  data,
		opts:  opts,
		docCP: DefaultCodePage,
		fonts: map[int]int{},
		cur:   groupState{uc: 1, font: -1},
	}
	p.out.Grow(len(data) / 2)
	if err := p.run(); err != nil {
		return Result{}, err
	}
	return Result{Text: p.out.String(), Encoding: CodePageName(p.docCP)}, nil
}

type groupState struct {
	skip      bool
	hidden    bool
	fontTable bool
	uc        int
	font      int
}

type parser struct {
	data []byte
	pos  int
	opts Options

	out   strings.Builder
	stack []groupState
	cur   groupState
	// first is set right after '{' until the first token of the group,
	// which is where destinations are declared.
	first bool

	docCP       int
	defaultFont int
	fonts       map[int]int
	fontDef     int

	pending    []byte
	pendingCP  int
	pendingPos int
	skipChars  int
	highSurr   rune
}

func (p *parser) run() error {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch c {
		case '{':
			if err := p.flush(); err != nil {
				return err
			}
			p.stack = append(p.stack, p.cur)
			p.first = true
			p.pos++
		case '}':
			if err := p.flush(); err != nil {
				return err
			}
			if n := len(p.stack); n > 0 {
				p.cur = p.stack[n-1]
				p.stack = p.stack[:n-1]
			}
			p.first = false
			p.skipChars = 0
			p.pos++
		case '\\':
			if err := p.control(); err != nil {
				return err
			}
		case '\r', '\n':
			p.pos++
		default:
			p.first = false
			p.pos++
			if err := p.text(c); err != nil {
				return err
			}
		}
	}
	return p.flush()
}

// text handles one literal byte of document text.
func (p *parser) text(c byte) error {
	if p.muted() {
		return nil
	}
	if p.skipChars > 0 {
		p.skipChars--
		return nil
	}
	if c < 0x80 {
		if err := p.flush(); err != nil {
			return err
		}
		p.out.WriteByte(c)
		return nil
	}
	return p.queue(c)
}

// queue buffers a byte that needs code page decoding. Runs of escaped bytes
// are decoded together so double-byte code pages work.
func (p *parser) queue(b byte) error {
	cp := p.activeCodePage()
	if len(p.pending) > 0 && cp != p.pendingCP {
		if err := p.flush(); err != nil {
			return err
		}
	}
	if len(p.pending) == 0 {
		p.pendingCP = cp
		p.pendingPos = p.pos
	}
	p.pending = append(p.pending, b)
	return nil
}

func (p *parser) flush() error {
	if len(p.pending) == 0 {
		return nil
	}
	buf := p.pending
	p.pending = p.pending[:0]

	page, ok := lookupCodePage(p.pendingCP)
	if !ok {
		if !p.opts.Lossy {
			return &CodePageError{CodePage: p.pendingCP}
		}
		page, _ = lookupCodePage(DefaultCodePage)
	}
	decoded, err := page.enc.NewDecoder().Bytes(buf)
	if err != nil || (!p.opts.Lossy && bytes.ContainsRune(decoded, utf8.RuneError)) {
		if !p.opts.Lossy {
			return &InvalidBytesError{Encoding: page.name, Offset: p.pendingPos}
		}
		if err != nil {
			decoded = bytes.Repeat([]byte("\uFFFD"), len(buf))
		}
	}
	p.out.Write(decoded)
	return nil
}

func (p *parser) activeCodePage() int {
	if p.cur.font >= 0 {
		if cp := p.fonts[p.cur.font]; cp != 0 {
			return cp
		}
	}
	return p.docCP
}

func (p *parser) control() error {
	p.pos++ // backslash
	if p.pos >= len(p.data) {
		return nil
	}
	c := p.data[p.pos]
	if isLetter(c) {
		word, param, hasParam := p.readWord()
		return p.word(word, param, hasParam)
	}
	p.pos++
	first := p.first
	p.first = false
	switch c {
	case '\'':
		if p.pos+2 > len(p.data) {
			p.pos = len(p.data)
			return nil
		}
		b, ok := unhex(p.data[p.pos], p.data[p.pos+1])
		p.pos += 2
		if !ok || p.muted() {
			return nil
		}
		if p.skipChars > 0 {
			p.skipChars--
			return nil
		}
		return p.queue(b)
	case '*':
		if first {
			p.cur.skip = true
		}
		return nil
	case '\\', '{', '}':
		return p.emit(string(c))
	case '~':
		return p.emit("\u00a0")
	case '_':
		return p.emit("-")
	case '\r', '\n':
		return p.emit("\n")
	}
	// \- optional hyphen, \| \: index markers and unknown symbols.
	return nil
}

// readWord consumes a control word with its optional numeric parameter and
// the single space delimiter that may follow it.
func (p *parser) readWord() (string, int, bool) {
	start := p.pos
	for p.pos < len(p.data) && isLetter(p.data[p.pos]) && p.pos-start < 32 {
		p.pos++
	}
	word := string(p.data[start:p.pos])

	neg := false
	if p.pos < len(p.data) && p.data[p.pos] == '-' && p.pos+1 < len(p.data) && isDigit(p.data[p.pos+1]) {
		neg = true
		p.pos++
	}
	param, hasParam := 0, false
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		if param < 1<<24 {
			param = param*10 + int(p.data[p.pos]-'0')
		}
		hasParam = true
		p.pos++
	}
	if neg {
		param = -param
	}
	if p.pos < len(p.data) && p.data[p.pos] == ' ' {
		p.pos++
	}
	return word, param, hasParam
}

func (p *parser) word(w string, param int, hasParam bool) error {
	first := p.first
	p.first = false

	if first {
		if w == "fonttbl" {
			p.cur.fontTable = true
			p.cur.skip = true
			return nil
		}
		if _, ok := ignorableDestinations[w]; ok {
			p.cur.skip = true
			return nil
		}
	}

	if p.cur.fontTable {
		switch w {
		case "f":
			p.fontDef = param
		case "fcharset":
			// Unknown charsets fall back to the document code page.
			p.fonts[p.fontDef] = charsetCodePages[param]
		case "cpg":
			p.fonts[p.fontDef] = param
		}
		return nil
	}

	switch w {
	case "ansicpg":
		if hasParam {
			p.docCP = param
		}
		return nil
	case "mac":
		p.docCP = 10000
		return nil
	case "pc":
		p.docCP = 437
		return nil
	case "pca":
		p.docCP = 850
		return nil
	case "deff":
		p.defaultFont = param
		return nil
	case "f":
		if err := p.flush(); err != nil {
			return err
		}
		p.cur.font = param
		return nil
	case "plain":
		if err := p.flush(); err != nil {
			return err
		}
		p.cur.font = p.defaultFont
		p.cur.hidden = false
		return nil
	case "v":
		// Hidden text runs until \v0, \plain or the end of the group.
		p.cur.hidden = !hasParam || param != 0
		return nil
	case "uc":
		if hasParam && param >= 0 {
			p.cur.uc = param
		}
		return nil
	case "u":
		return p.unicode(param)
	case "bin":
		if hasParam && param > 0 {
			p.pos += param
			if p.pos > len(p.data) {
				p.pos = len(p.data)
			}
		}
		return nil
	}

	if p.muted() {
		return nil
	}
	if s, ok := wordText[w]; ok {
		return p.emit(s)
	}
	// Unknown and formatting-only control words carry no text.
	return nil
}

func (p *parser) unicode(n int) error {
	if p.muted() {
		return nil
	}
	if err := p.flush(); err != nil {
		return err
	}
	if n < 0 {
		n += 65536
	}
	r := rune(n)
	p.skipChars = p.cur.uc
	switch {
	case utf16.IsSurrogate(r) && r < 0xDC00:
		p.highSurr = r
		return nil
	case utf16.IsSurrogate(r):
		if p.highSurr != 0 {
			r = utf16.DecodeRune(p.highSurr, r)
		} else {
			r = utf8.RuneError
		}
	}
	p.highSurr = 0
	p.out.WriteRune(r)
	return nil
}

// muted reports a group whose text is not part of the document.
func (p *parser) muted() bool {
	return p.cur.skip || p.cur.hidden
}

func (p *parser) emit(s string) error {
	if p.muted() {
		return nil
	}
	if err := p.flush(); err != nil {
		return err
	}
	p.skipChars = 0
	p.out.WriteString(s)
	return nil
}

func unhex(a, b byte) (byte, bool) {
	x, ok1 := hexVal(a)
	y, ok2 := hexVal(b)
	return x<<4 | y, ok1 && ok2
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
