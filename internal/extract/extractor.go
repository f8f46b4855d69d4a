package extract

// Extractor decodes one export format into a Document.
// Implementations are deterministic and keep no state between calls.
type Extractor interface {
	Extract(input []byte) (Document, error)
}

// RTFExtractor runs the RTF control-sequence stripper.
type RTFExtractor struct{ Options Options }

func (e RTFExtractor) Extract(input []byte) (Document, error) {
	return FromRTF(input, e.Options)
}

// HTMLExtractor handles Factiva's HTML display format.
type HTMLExtractor struct{ Options Options }

func (e HTMLExtractor) Extract(input []byte) (Document, error) {
	return FromHTML(input, e.Options)
}

// TextExtractor handles plain-text exports.
type TextExtractor struct{ Options Options }

func (e TextExtractor) Extract(input []byte) (Document, error) {
	return FromPlainText(input, e.Options)
}

// ForFormat returns the extractor for f. Unknown formats are read as text.
func ForFormat(f Format, opts Options) Extractor {
	switch f {
	case FormatRTF:
		return RTFExtractor{Options: opts}
	case FormatHTML:
		return HTMLExtractor{Options: opts}
	default:
		return TextExtractor{Options: opts}
	}
}
