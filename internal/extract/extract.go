// Package extract turns the raw bytes of one Factiva export into plain text.
// RTF goes through the control-sequence stripper; HTML and plain-text
// display formats are handled here.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ECNUser/factiva2csv/internal/rtf"
)

// Format is the container format of an export file.
type Format string

const (
	FormatRTF  Format = "rtf"
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// Document is the decoded text of one export plus what was detected about it.
type Document struct {
	Text     string
	Encoding string
	Format   Format
}

// Options controls decoding.
type Options struct {
	Lossy bool
}

// DecodeError reports a file whose bytes could not be read as text. It is
// scoped to one file; callers keep processing the rest of a batch.
type DecodeError struct {
	Path     string
	Format   Format
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Format != "" {
		fmt.Fprintf(&b, " (%s", e.Format)
		if e.Encoding != "" {
			fmt.Fprintf(&b, ", %s", e.Encoding)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	errBinary     = errors.New("binary content")
	errInvalidUTF = errors.New("invalid UTF-8")
	errEmptyHTML  = errors.New("unparseable HTML")
)

// Detect picks the format from the content first and the file name second.
func Detect(name string, data []byte) Format {
	head := bytes.TrimLeft(data, "\xef\xbb\xbf \t\r\n")
	if bytes.HasPrefix(head, []byte(`{\rtf`)) {
		return FormatRTF
	}
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	if bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html")) ||
		(bytes.HasPrefix(lower, []byte("<")) && bytes.Contains(lower, []byte("<html"))) {
		return FormatHTML
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".rtf", ".doc":
		return FormatRTF
	case ".htm", ".html":
		return FormatHTML
	}
	return FormatText
}

// FromBytes decodes data with the extractor for its detected format. The
// returned error is always a *DecodeError.
func FromBytes(name string, data []byte, opts Options) (Document, error) {
	f := Detect(name, data)
	doc, err := ForFormat(f, opts).Extract(data)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			if de.Path == "" {
				de.Path = name
			}
			return Document{}, de
		}
		return Document{}, &DecodeError{Path: name, Format: f, Err: err}
	}
	return doc, nil
}

// FromRTF strips an RTF export.
func FromRTF(input []byte, opts Options) (Document, error) {
	res, err := rtf.Strip(input, rtf.Options{Lossy: opts.Lossy})
	if err != nil {
		enc := ""
		var ib *rtf.InvalidBytesError
		if errors.As(err, &ib) {
			enc = ib.Encoding
		}
		var cp *rtf.CodePageError
		if errors.As(err, &cp) {
			enc = rtf.CodePageName(cp.CodePage)
		}
		return Document{}, &DecodeError{Format: FormatRTF, Encoding: enc, Err: err}
	}
	return Document{Text: res.Text, Encoding: res.Encoding, Format: FormatRTF}, nil
}

// FromPlainText decodes a text export. A UTF-8 or UTF-16 byte order mark
// selects the encoding; otherwise UTF-8 is assumed, with a Windows-1252
// fallback in lossy mode.
func FromPlainText(input []byte, opts Options) (Document, error) {
	enc := "utf-8"
	switch {
	case bytes.HasPrefix(input, []byte{0xFF, 0xFE}):
		enc = "utf-16le"
	case bytes.HasPrefix(input, []byte{0xFE, 0xFF}):
		enc = "utf-16be"
	}
	decoded := bytes.TrimPrefix(input, []byte("\xef\xbb\xbf"))
	if enc != "utf-8" {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), input)
		if err != nil {
			return Document{}, &DecodeError{Format: FormatText, Encoding: enc, Err: err}
		}
		decoded = out
	}
	if looksBinary(decoded) {
		return Document{}, &DecodeError{Format: FormatText, Encoding: enc, Err: errBinary}
	}
	if !utf8.Valid(decoded) {
		if !opts.Lossy {
			return Document{}, &DecodeError{Format: FormatText, Encoding: enc, Err: errInvalidUTF}
		}
		out, err := charmap.Windows1252.NewDecoder().Bytes(decoded)
		if err != nil {
			return Document{}, &DecodeError{Format: FormatText, Encoding: "windows-1252", Err: err}
		}
		decoded, enc = out, "windows-1252"
	}
	return Document{Text: string(decoded), Encoding: enc, Format: FormatText}, nil
}

// looksBinary reports NUL bytes or more than 10% control bytes other than
// ordinary whitespace and form feeds.
func looksBinary(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if bytes.IndexByte(b, 0) >= 0 {
		return true
	}
	ctl := 0
	for _, c := range b {
		if c < 0x20 && c != '\n' && c != '\r' && c != '\t' && c != '\f' {
			ctl++
		}
	}
	return ctl*10 > len(b)
}
