// Package segment splits the plain text of one export into article blocks.
//
// Split first removes noise lines (page counters, field remnants, leaked
// hex dumps) to build a clean buffer, then tries separator strategies in
// order: page breaks, document-id terminators, separator glyph runs and
// word-count anchors. A page or glyph span that does not open with an
// article header is joined to the span before it. The first strategy that
// yields at least two article blocks wins. A stream with no separators at all is a single block.
// Split never fails.
package segment

import (
	"regexp"
	"strings"

	"github.com/ECNUser/factiva2csv/internal/record"
	"github.com/ECNUser/factiva2csv/internal/textutil"
)

// Block is one article span. Start and End are byte offsets into the
// buffer returned by Clean; Text is the substring they delimit.
type Block struct {
	Index int
	Start int
	End   int
	Text  string
}

var (
	pageCounterRe = regexp.MustCompile(`(?i)^\s*(?:page\s+\d+\s+(?:of|/)\s+\d+|第\s*\d+\s*页(?:\s*共\s*\d+\s*页)?)\s*$`)
	fieldLineRe   = regexp.MustCompile(`^\s*(?:PAGE|NUMPAGES)\s*\d*\s*$`)
	fieldInlineRe = regexp.MustCompile(`\b(?:PAGE|NUMPAGES)\d+\b|HYPERLINK\s+"?toc\d+"?`)
	glyphRunRe    = regexp.MustCompile(`^\s*(?:_{5,}|-{5,}|={5,}|\*{5,}|~{5,}|#{5,})\s*$`)
	hdCodeRe      = regexp.MustCompile(`^\s*HD(?:\s|$)`)
)

// boilerplateMarkers identify export banners, search summaries, tables of
// contents and the Factiva copyright footer. Matched case-insensitively.
var boilerplateMarkers = []string{
	"factiva rtf display format",
	"factiva html display format",
	"display format",
	"search summary",
	"results found",
	"table of contents",
	"factiva, inc.",
	"© factiva",
	"搜索摘要",
	"目录",
}

type line struct {
	text       string
	start, end int
}

// splitter holds the clean buffer and its line index.
type splitter struct {
	buf   string
	lines []line
}

// Clean returns the noise-free buffer that block offsets refer to.
func Clean(text string) string {
	return newSplitter(text).buf
}

// Split segments text into ordered, non-overlapping article blocks.
func Split(text string) []Block {
	s := newSplitter(text)
	if textutil.IsBlank(s.buf) {
		return nil
	}

	var fallback []span
	found := false
	// Page breaks and glyph rules also occur inside bodies.
	strategies := []struct {
		split func() ([]span, bool)
		soft  bool
	}{
		{s.byPages, true},
		{s.byDocumentID, false},
		{s.byGlyphRuns, true},
		{s.byAnchors, false},
	}
	for _, st := range strategies {
		spans, ok := st.split()
		if !ok {
			continue
		}
		spans = s.articles(spans)
		if st.soft {
			spans = s.joinContinuations(spans)
		}
		if len(spans) >= 2 {
			return s.blocks(spans)
		}
		if !found {
			fallback, found = spans, true
		}
	}
	if !found {
		fallback = s.articles([]span{{0, len(s.lines)}})
		if len(fallback) == 0 {
			// Everything looked like boilerplate; a stream without
			// separators is still one block.
			fallback = s.trim([]span{{0, len(s.lines)}})
		}
	}
	return s.blocks(fallback)
}

func newSplitter(text string) *splitter {
	raw := textutil.SplitLines(strings.ReplaceAll(text, "\f", "\n\f\n"))
	kept := make([]string, 0, len(raw))
	for _, l := range raw {
		if pageCounterRe.MatchString(l) || fieldLineRe.MatchString(l) || textutil.IsHexDump(l, 120, 0.75) {
			continue
		}
		if strings.Contains(l, "PAGE") || strings.Contains(l, "HYPERLINK") {
			l = fieldInlineRe.ReplaceAllString(l, "")
		}
		if strings.ContainsRune(l, '\f') && textutil.IsBlank(l) {
			l = "\f"
		} else {
			l = strings.TrimRight(l, " \t")
		}
		kept = append(kept, l)
	}
	s := &splitter{buf: strings.Join(kept, "\n"), lines: make([]line, len(kept))}
	off := 0
	for i, l := range kept {
		s.lines[i] = line{text: l, start: off, end: off + len(l)}
		off += len(l) + 1
	}
	return s
}

// span is a half-open range of line indexes.
type span struct{ from, to int }

func (s *splitter) separated(isSep func(string) bool) ([]span, bool) {
	var out []span
	from, found := 0, false
	for i, l := range s.lines {
		if isSep(l.text) {
			found = true
			out = append(out, span{from, i})
			from = i + 1
		}
	}
	out = append(out, span{from, len(s.lines)})
	return out, found
}

func (s *splitter) byPages() ([]span, bool) {
	return s.separated(func(l string) bool { return l == "\f" })
}

func (s *splitter) byGlyphRuns() ([]span, bool) {
	return s.separated(glyphRunRe.MatchString)
}

// byDocumentID ends a block after each "Document <ID>" line.
func (s *splitter) byDocumentID() ([]span, bool) {
	var out []span
	from, found := 0, false
	for i, l := range s.lines {
		if _, ok := record.DocumentIDLine(l.text); ok {
			found = true
			out = append(out, span{from, i + 1})
			from = i + 1
		}
	}
	out = append(out, span{from, len(s.lines)})
	return out, found
}

// byAnchors starts a block at the headline above each word-count line that
// is followed by a date. Text before the first headline is dropped.
func (s *splitter) byAnchors() ([]span, bool) {
	starts := s.anchorStarts()
	if len(starts) == 0 {
		return nil, false
	}
	out := make([]span, len(starts))
	for k, st := range starts {
		end := len(s.lines)
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		out[k] = span{st, end}
	}
	return out, true
}

func (s *splitter) anchorStarts() []int {
	var starts []int
	floor := 0
	for i, l := range s.lines {
		if !record.IsWordCountLine(l.text) || !s.dateFollows(i) {
			continue
		}
		start := s.headlineAbove(i, floor)
		if start < 0 {
			continue
		}
		starts = append(starts, start)
		floor = i + 1
	}
	return starts
}

// joinContinuations folds a span that does not open an article into the
// span before it, so a rule or page break inside a body does not start a new
// block. Splits in which no span opens an article are left alone.
func (s *splitter) joinContinuations(spans []span) []span {
	anchors := map[int]bool{}
	for _, i := range s.anchorStarts() {
		anchors[i] = true
	}
	opens := make([]bool, len(spans))
	led := false
	for i, sp := range spans {
		opens[i] = anchors[sp.from] || s.opensArticle(sp)
		led = led || opens[i]
	}
	if !led {
		return spans
	}
	out := spans[:0:0]
	for i, sp := range spans {
		if len(out) > 0 && !opens[i] {
			out[len(out)-1].to = sp.to
			continue
		}
		out = append(out, sp)
	}
	return out
}

// opensArticle reports a span led by an HD code, or by a line followed
// (past an optional byline) by a word count or a date.
func (s *splitter) opensArticle(sp span) bool {
	if hdCodeRe.MatchString(s.lines[sp.from].text) {
		return true
	}
	bylines := 0
	for i := sp.from + 1; i < sp.to; i++ {
		t := strings.TrimSpace(s.lines[i].text)
		if t == "" || t == "\f" {
			continue
		}
		if record.IsWordCountLine(t) {
			return true
		}
		if _, _, ok := record.ParseDate(t); ok {
			return true
		}
		if !record.IsBylineLine(t) || bylines > 0 {
			return false
		}
		bylines++
	}
	return false
}

func (s *splitter) prevNonBlank(i, floor int) int {
	for j := i - 1; j >= floor; j-- {
		if !textutil.IsBlank(s.lines[j].text) && s.lines[j].text != "\f" {
			return j
		}
	}
	return -1
}

func (s *splitter) headlineAbove(anchor, floor int) int {
	j := s.prevNonBlank(anchor, floor)
	if j >= 0 && record.IsBylineLine(s.lines[j].text) {
		if k := s.prevNonBlank(j, floor); k >= 0 {
			j = k
		}
	}
	return j
}

func (s *splitter) dateFollows(i int) bool {
	seen := 0
	for j := i + 1; j < len(s.lines) && seen < 3; j++ {
		t := strings.TrimSpace(s.lines[j].text)
		if t == "" || t == "\f" {
			continue
		}
		if _, _, ok := record.ParseDate(t); ok {
			return true
		}
		seen++
	}
	return false
}

// trim drops blank lines at the edges of each span and empty spans.
func (s *splitter) trim(spans []span) []span {
	out := spans[:0:0]
	for _, sp := range spans {
		for sp.from < sp.to && s.blank(sp.from) {
			sp.from++
		}
		for sp.to > sp.from && s.blank(sp.to-1) {
			sp.to--
		}
		if sp.from < sp.to {
			out = append(out, sp)
		}
	}
	return out
}

func (s *splitter) blank(i int) bool {
	t := s.lines[i].text
	return t == "\f" || textutil.IsBlank(t)
}

// articles trims spans, drops boilerplate ones and strips banner lines
// heading the first block.
func (s *splitter) articles(spans []span) []span {
	spans = s.trim(spans)
	out := spans[:0:0]
	for _, sp := range spans {
		if s.boilerplate(sp) {
			continue
		}
		out = append(out, sp)
	}
	if len(out) > 0 {
		first := &out[0]
		for first.to-first.from > 1 && (isBanner(s.lines[first.from].text) || s.blank(first.from)) {
			first.from++
		}
	}
	return out
}

func (s *splitter) boilerplate(sp span) bool {
	marked := false
	for i := sp.from; i < sp.to; i++ {
		t := s.lines[i].text
		if record.IsWordCountLine(t) || hdCodeRe.MatchString(t) {
			return false
		}
		if _, ok := record.DocumentIDLine(t); ok {
			return false
		}
		if !marked && isBanner(t) {
			marked = true
		}
	}
	return marked
}

func isBanner(line string) bool {
	l := strings.ToLower(line)
	for _, m := range boilerplateMarkers {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}

func (s *splitter) blocks(spans []span) []Block {
	if len(spans) == 0 {
		return nil
	}
	out := make([]Block, len(spans))
	for i, sp := range spans {
		start, end := s.lines[sp.from].start, s.lines[sp.to-1].end
		out[i] = Block{Index: i, Start: start, End: end, Text: s.buf[start:end]}
	}
	return out
}
