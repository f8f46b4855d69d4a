package rtf

import (
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// DefaultCodePage is assumed when a document carries no \ansicpg.
const DefaultCodePage = 1252

type codePage struct {
	name string
	enc  encoding.Encoding
}

var codePages = map[int]codePage{
	437:   {"ibm437", charmap.CodePage437},
	850:   {"ibm850", charmap.CodePage850},
	852:   {"ibm852", charmap.CodePage852},
	855:   {"ibm855", charmap.CodePage855},
	858:   {"ibm00858", charmap.CodePage858},
	860:   {"ibm860", charmap.CodePage860},
	862:   {"ibm862", charmap.CodePage862},
	863:   {"ibm863", charmap.CodePage863},
	865:   {"ibm865", charmap.CodePage865},
	866:   {"ibm866", charmap.CodePage866},
	874:   {"windows-874", charmap.Windows874},
	932:   {"shift_jis", japanese.ShiftJIS},
	936:   {"gbk", simplifiedchinese.GBK},
	949:   {"euc-kr", korean.EUCKR},
	950:   {"big5", traditionalchinese.Big5},
	1250:  {"windows-1250", charmap.Windows1250},
	1251:  {"windows-1251", charmap.Windows1251},
	1252:  {"windows-1252", charmap.Windows1252},
	1253:  {"windows-1253", charmap.Windows1253},
	1254:  {"windows-1254", charmap.Windows1254},
	1255:  {"windows-1255", charmap.Windows1255},
	1256:  {"windows-1256", charmap.Windows1256},
	1257:  {"windows-1257", charmap.Windows1257},
	1258:  {"windows-1258", charmap.Windows1258},
	10000: {"macintosh", charmap.Macintosh},
	10007: {"x-mac-cyrillic", charmap.MacintoshCyrillic},
	20866: {"koi8-r", charmap.KOI8R},
	21866: {"koi8-u", charmap.KOI8U},
	28591: {"iso-8859-1", charmap.ISO8859_1},
	28592: {"iso-8859-2", charmap.ISO8859_2},
	28605: {"iso-8859-15", charmap.ISO8859_15},
	50220: {"iso-2022-jp", japanese.ISO2022JP},
	51932: {"euc-jp", japanese.EUCJP},
	54936: {"gb18030", simplifiedchinese.GB18030},
	65001: {"utf-8", unicode.UTF8},
}

// charsetCodePages maps \fcharset values to Windows code pages. Zero means
// "use the document code page".
var charsetCodePages = map[int]int{
	0:   0,
	1:   0,
	2:   1252,
	77:  10000,
	128: 932,
	129: 949,
	134: 936,
	136: 950,
	161: 1253,
	162: 1254,
	163: 1258,
	177: 1255,
	178: 1256,
	186: 1257,
	204: 1251,
	222: 874,
	238: 1250,
	254: 437,
	255: 850,
}

func lookupCodePage(cp int) (codePage, bool) {
	c, ok := codePages[cp]
	return c, ok
}

// CodePageName returns the encoding name for a Windows code page number.
func CodePageName(cp int) string {
	if c, ok := codePages[cp]; ok {
		return c.name
	}
	return "cp" + strconv.Itoa(cp)
}

