package rtf

import (
	"errors"
	"strings"
	"testing"
)

func strip(t *testing.T, src string, opts Options) Result {
	t.Helper()
	res, err := Strip([]byte(src), opts)
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	return res
}

func TestStrip_ParagraphsAndPages(t *testing.T) {
	src := `{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss Arial;}}\pard Hello\par World\line Next\page Second\par}`
	got := strip(t, src, Options{}).Text
	want := "Hello\nWorld\nNext\n\f\nSecond\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStrip_EscapesAndTabs(t *testing.T) {
	got := strip(t, `{\rtf1 a\{b\}c\\d\tab e\emdash f}`, Options{}).Text
	if got != "a{b}c\\d\te—f" {
		t.Fatalf("got %q", got)
	}
}

func TestStrip_Windows1252Hex(t *testing.T) {
	res := strip(t, `{\rtf1\ansi\ansicpg1252 caf\'e9 \'93quoted\'94}`, Options{})
	if res.Text != "café “quoted”" {
		t.Fatalf("got %q", res.Text)
	}
	if res.Encoding != "windows-1252" {
		t.Fatalf("encoding = %q", res.Encoding)
	}
}

func TestStrip_UnicodeEscapes(t *testing.T) {
	got := strip(t, `{\rtf1\ansi\uc1\u8364?\u-10179?\u-8704? ok}`, Options{}).Text
	if got != "€😀 ok" {
		t.Fatalf("got %q", got)
	}
}

func TestStrip_UnicodeSkipCount(t *testing.T) {
	got := strip(t, `{\rtf1\uc2\u20013\'d6\'d0 x}`, Options{}).Text
	if got != "中 x" {
		t.Fatalf("got %q", got)
	}
}

func TestStrip_SkipsDestinationsKeepsFieldResult(t *testing.T) {
	src := `{\rtf1{\*\generator Riched20;}{\info{\title T}}{\colortbl;\red0\green0\blue0;}` +
		`{\field{\*\fldinst HYPERLINK "http://example.com"}{\fldrslt Link text}}}`
	got := strip(t, src, Options{}).Text
	if got != "Link text" {
		t.Fatalf("got %q", got)
	}
}

func TestStrip_HiddenTextSuppressed(t *testing.T) {
	cases := [][2]string{
		{`{\rtf1 Shown \v secret\v0 text\par}`, "Shown text\n"},
		{`{\rtf1 Shown {\v secret \'e9\u8364?}text\par}`, "Shown text\n"},
		{`{\rtf1 Shown \v secret\plain  text\par}`, "Shown  text\n"},
		{`{\rtf1 Shown \v1 secret\v0\par}`, "Shown \n"},
	}
	for _, tc := range cases {
		if got := strip(t, tc[0], Options{}).Text; got != tc[1] {
			t.Errorf("Strip(%q) = %q, want %q", tc[0], got, tc[1])
		}
	}
}

func TestStrip_BinarySkipped(t *testing.T) {
	got := strip(t, `{\rtf1 a\bin3 {}}b}`, Options{}).Text
	if got != "ab" {
		t.Fatalf("got %q", got)
	}
}

func TestStrip_DocumentCodePageGBK(t *testing.T) {
	res := strip(t, `{\rtf1\ansi\ansicpg936 \'d6\'d0\'ce\'c4}`, Options{})
	if res.Text != "中文" {
		t.Fatalf("got %q", res.Text)
	}
	if res.Encoding != "gbk" {
		t.Fatalf("encoding = %q", res.Encoding)
	}
}

func TestStrip_FontCharsetOverridesDocumentCodePage(t *testing.T) {
	src := `{\rtf1\ansi\ansicpg1252\deff0{\fonttbl{\f0\fnil Arial;}{\f1\fnil\fcharset134 SimSun;}}` +
		`\f1 \'d6\'d0\f0  caf\'e9}`
	got := strip(t, src, Options{}).Text
	if got != "中 café" {
		t.Fatalf("got %q", got)
	}
}

func TestStrip_InvalidBytes(t *testing.T) {
	src := `{\rtf1\ansi\ansicpg936 \'81\'20}`
	_, err := Strip([]byte(src), Options{})
	var ib *InvalidBytesError
	if !errors.As(err, &ib) {
		t.Fatalf("expected InvalidBytesError, got %v", err)
	}
	if ib.Encoding != "gbk" {
		t.Fatalf("encoding = %q", ib.Encoding)
	}

	res := strip(t, src, Options{Lossy: true})
	if !strings.Contains(res.Text, "�") {
		t.Fatalf("lossy decode should keep a replacement char, got %q", res.Text)
	}
}

func TestStrip_UnknownCodePage(t *testing.T) {
	src := `{\rtf1\ansi\ansicpg99999 caf\'e9}`
	_, err := Strip([]byte(src), Options{})
	var cp *CodePageError
	if !errors.As(err, &cp) || cp.CodePage != 99999 {
		t.Fatalf("expected CodePageError for 99999, got %v", err)
	}
	res := strip(t, src, Options{Lossy: true})
	if res.Text != "café" {
		t.Fatalf("lossy fallback got %q", res.Text)
	}
}

func TestStrip_NotRTF(t *testing.T) {
	if _, err := Strip([]byte("plain text"), Options{}); !errors.Is(err, ErrNotRTF) {
		t.Fatalf("expected ErrNotRTF, got %v", err)
	}
	if _, err := Strip([]byte("\xef\xbb\xbf  {\\rtf1 ok}"), Options{}); err != nil {
		t.Fatalf("BOM before header should be accepted: %v", err)
	}
}

func BenchmarkStrip(b *testing.B) {
	var sb strings.Builder
	sb.WriteString(`{\rtf1\ansi\ansicpg1252\deff0{\fonttbl{\f0 Arial;}}`)
	for i := 0; i < 500; i++ {
		sb.WriteString(`\pard Lorem ipsum dolor sit amet, caf\'e9 \u8364? consectetur.\par`)
	}
	sb.WriteString("}")
	data := []byte(sb.String())
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		if _, err := Strip(data, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}
