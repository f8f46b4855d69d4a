// Package fields maps the text of one article block to raw record fields.
//
// Labelled lines are recognized first: Factiva field codes (HD, WC, PD, TD,
// ...) when the block uses the coded layout, otherwise "Label: value" lines
// and bare prefixes such as "Document <ID>". A positional pass then fills
// the gaps: the first unclaimed line is the headline, the lines after it are
// classified as header metadata, and the largest unclaimed run after the
// header is the body. Extraction never fails; unrecognized text is left
// out of the result.
package fields

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ECNUser/factiva2csv/internal/record"
	"github.com/ECNUser/factiva2csv/internal/textutil"
)

var (
	copyrightRe  = regexp.MustCompile(`(?i)^(?:\(c\)|©|copyright|版权|版權)|all rights reserved`)
	sourceCodeRe = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)
	tocPrefixRe  = regexp.MustCompile(`^(?:toc\d+)+`)
	leadSymRe    = regexp.MustCompile(`^[\p{S}\s*#>•·▪■□◆●○★☆\-–—]+`)
	hasDigitRe   = regexp.MustCompile(`\d`)
	idShapeRe    = regexp.MustCompile(`^[A-Za-z0-9]{6,}$`)
	codeRe       = regexp.MustCompile(`^([A-Z]{2,3}|[a-z]{2,3})(\t|\s{2,}|\s|$)`)
)

// Extractor holds a label dictionary. It is safe for concurrent use.
type Extractor struct {
	labels *Labels
}

// New returns an extractor using labels, or the built-in dictionary when
// labels is nil.
func New(labels *Labels) *Extractor {
	if labels == nil {
		labels = DefaultLabels()
	}
	return &Extractor{labels: labels}
}

var defaultExtractor = New(nil)

// Extract runs the built-in dictionary over text.
func Extract(text string) record.Fields {
	return defaultExtractor.Extract(text)
}

// block is the per-call state of one extraction.
type block struct {
	lines   []string
	claimed []bool
	out     record.Fields
	// headerDate is set once the header zone itself supplied the date.
	headerDate bool
}

// Extract returns the fields recognized in one article block.
func (e *Extractor) Extract(text string) record.Fields {
	b := &block{lines: textutil.SplitLines(text), out: record.Fields{}}
	b.claimed = make([]bool, len(b.lines))
	if textutil.IsBlank(text) {
		return b.out
	}

	coded := e.isCoded(b.lines)
	if coded {
		e.codedPass(b)
	} else {
		e.labelPass(b)
	}
	hdrEnd := b.headline()
	if !coded {
		hdrEnd = b.header(hdrEnd)
	}
	b.body(hdrEnd)
	b.supplement()
	return b.out
}

// set stores v under k. Body and list values accumulate; other keys keep
// their first value.
func (b *block) set(k record.Key, v string) {
	v = strings.TrimSpace(v)
	if k == "" || v == "" {
		return
	}
	prev, ok := b.out[k]
	switch {
	case !ok:
		b.out[k] = v
	case k == record.Body:
		b.out[k] = prev + "\n\n" + v
	case k.IsList():
		b.out[k] = prev + "\n" + v
	}
}

func (b *block) has(k record.Key) bool {
	return b.out[k] != ""
}

// isCoded reports the Factiva coded layout: the block opens with HD, or at
// least three distinct known codes start lines.
func (e *Extractor) isCoded(lines []string) bool {
	seen := map[string]struct{}{}
	first := true
	for _, ln := range lines {
		if textutil.IsBlank(ln) {
			continue
		}
		code, _, ok := e.code(ln, false)
		if first {
			first = false
			if ok && code == "HD" {
				return true
			}
		}
		if !ok {
			continue
		}
		if _, known := e.labels.Codes[code]; known {
			seen[code] = struct{}{}
			if len(seen) >= 3 {
				return true
			}
		}
	}
	return false
}

// code recognizes a field code at the start of ln. Upper-case known codes
// may be followed by a single space unless strict is set; everything else
// needs a tab, two spaces or the end of the line. Strict mode, used inside
// multi-line sections, only accepts known codes.
func (e *Extractor) code(ln string, strict bool) (string, string, bool) {
	t := strings.TrimLeft(ln, " \t")
	m := codeRe.FindStringSubmatch(t)
	if m == nil {
		return "", "", false
	}
	code := strings.ToUpper(m[1])
	_, known := e.labels.Codes[code]
	if strict && !known {
		return "", "", false
	}
	strong := m[2] == "" || m[2] == "\t" || len(m[2]) >= 2
	if !strong && (strict || !known || m[1] != code) {
		// Lower-case words and unknown capitals followed by a single space
		// are prose.
		return "", "", false
	}
	return code, strings.TrimSpace(t[len(m[0]):]), true
}

func (e *Extractor) codedPass(b *block) {
	var (
		section record.Key
		inMulti bool
		buf     []string
	)
	flush := func() {
		if inMulti {
			v := strings.Join(buf, "\n")
			if section.IsList() {
				v = stripIndexCodes(v)
			}
			b.set(section, v)
		}
		inMulti, section, buf = false, "", nil
	}
	for i, ln := range b.lines {
		if k, v, ok := e.prefix(strings.TrimSpace(ln)); ok && k == record.DocumentID {
			flush()
			b.claimed[i] = true
			b.set(k, v)
			continue
		}
		code, rest, ok := e.code(ln, inMulti)
		if !ok {
			if inMulti {
				b.claimed[i] = true
				buf = append(buf, ln)
			}
			continue
		}
		flush()
		b.claimed[i] = true
		key := e.labels.Codes[code]
		if e.labels.Multiline[code] {
			inMulti, section = true, key
			if rest != "" {
				buf = append(buf, rest)
			}
			continue
		}
		if key == record.Headline {
			rest = cleanTitle(rest)
		}
		b.set(key, rest)
	}
	flush()
}

// labelPass claims labelled lines. Colon labels only count in the header
// zone, which ends at a "Body" label, a copyright line or the first prose
// line after the headline; later look-alikes stay in the body. Bare
// prefixes such as "Document <ID>" count anywhere.
func (e *Extractor) labelPass(b *block) {
	inHeader := true
	var (
		inBody, titled bool
		buf            []string
	)
	flush := func() {
		if inBody {
			b.set(record.Body, strings.Join(buf, "\n"))
		}
		inBody, buf = false, nil
	}
	for i, ln := range b.lines {
		t := strings.TrimSpace(ln)
		if t == "" {
			if inBody {
				b.claimed[i] = true
				buf = append(buf, "")
			}
			continue
		}
		if k, v, ok := e.prefix(t); ok {
			flush()
			b.claimed[i] = true
			b.set(k, v)
			continue
		}
		if inHeader {
			if k, v, ok := e.colonLabel(t); ok {
				b.claimed[i] = true
				switch k {
				case record.Body:
					inHeader = false
					if v == "" {
						inBody = true
						continue
					}
				case record.Headline:
					titled = true
				}
				b.set(k, v)
				continue
			}
			switch {
			case !titled:
				titled = true
			case copyrightRe.MatchString(t), isProse(t):
				inHeader = false
			}
		}
		if inBody {
			b.claimed[i] = true
			buf = append(buf, ln)
		}
	}
	flush()
}

// isProse reports a sentence rather than a header field: several words
// closed by terminal punctuation, or a line too long for metadata.
func isProse(t string) bool {
	words := len(strings.Fields(t))
	runes := utf8.RuneCountInString(t)
	if words > 15 || runes > 120 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(t)
	if !strings.ContainsRune(".!?。！？", r) {
		return false
	}
	return words >= 4 || (words == 1 && runes >= 8)
}

// colonLabel matches "Label: value" and "标签：value" against the
// dictionary. Unknown labels are not matched.
func (e *Extractor) colonLabel(t string) (record.Key, string, bool) {
	i := strings.IndexAny(t, ":：")
	if i <= 0 {
		return "", "", false
	}
	label := t[:i]
	if utf8.RuneCountInString(label) > 40 || len(strings.Fields(label)) > 4 {
		return "", "", false
	}
	k, ok := e.labels.Labels[normLabel(label)]
	if !ok {
		return "", "", false
	}
	_, size := utf8.DecodeRuneInString(t[i:])
	v := strings.TrimSpace(t[i+size:])
	if !valid(k, v) {
		return "", "", false
	}
	return k, v, true
}

// prefix matches a bare prefix label such as "Document J0000...".
func (e *Extractor) prefix(t string) (record.Key, string, bool) {
	lower := strings.ToLower(t)
	for _, p := range e.labels.Prefixes {
		if !strings.HasPrefix(lower, p.Text) {
			continue
		}
		rest := t[len(p.Text):]
		if rest == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsSpace(r) && !isColon(r) {
			continue
		}
		v := strings.TrimLeftFunc(rest, func(r rune) bool { return unicode.IsSpace(r) || isColon(r) })
		if p.Key == record.DocumentID && !idShapeRe.MatchString(v) {
			continue
		}
		if !valid(p.Key, v) {
			continue
		}
		return p.Key, v, true
	}
	return "", "", false
}

func isColon(r rune) bool { return r == ':' || r == '：' }

func valid(k record.Key, v string) bool {
	switch k {
	case record.WordCount:
		return hasDigitRe.MatchString(v)
	case record.DocumentID:
		return v == "" || idShapeRe.MatchString(strings.Fields(v)[len(strings.Fields(v))-1])
	}
	return true
}

// headline assigns the first unclaimed non-blank line when no label did and
// returns the index where header classification starts.
func (b *block) headline() int {
	if b.has(record.Headline) {
		return 0
	}
	for i, ln := range b.lines {
		if b.claimed[i] || textutil.IsBlank(ln) {
			continue
		}
		b.claimed[i] = true
		b.set(record.Headline, cleanTitle(ln))
		return i + 1
	}
	return len(b.lines)
}

type headerKind int

const (
	notHeader headerKind = iota
	headerField
	headerEnd
)

// header classifies the lines following the headline and returns the index
// just past the header zone.
func (b *block) header(start int) int {
	classified := 0
	i := start
	for ; i < len(b.lines); i++ {
		if b.claimed[i] {
			continue
		}
		t := strings.TrimSpace(b.lines[i])
		if t == "" {
			if classified > 0 && !b.headerAhead(i) {
				break
			}
			continue
		}
		switch b.classify(i, t) {
		case headerEnd:
			b.claimed[i] = true
			return i + 1
		case headerField:
			b.claimed[i] = true
			classified++
			continue
		}
		if b.headerAhead(i) {
			// Stray line inside the header, such as a section name.
			b.claimed[i] = true
			continue
		}
		break
	}
	return i
}

// headerAhead reports a language or copyright line within the next three
// non-blank lines.
func (b *block) headerAhead(i int) bool {
	seen := 0
	for j := i + 1; j < len(b.lines) && seen < 3; j++ {
		t := strings.TrimSpace(b.lines[j])
		if t == "" || b.claimed[j] {
			continue
		}
		seen++
		if copyrightRe.MatchString(t) {
			return true
		}
		if _, ok := record.CanonicalLanguage(t); ok && !b.has(record.Language) {
			return true
		}
	}
	return false
}

func (b *block) classify(i int, t string) headerKind {
	switch {
	case !b.has(record.Byline) && isByline(t):
		b.set(record.Byline, t)
	case !b.has(record.WordCount) && record.IsWordCountLine(t):
		b.set(record.WordCount, t)
	case !b.has(record.PublishDate) && isDate(t):
		b.set(record.PublishDate, t)
		b.headerDate = true
	case !b.has(record.PublishTime) && isClock(t):
		b.set(record.PublishTime, t)
	case !b.has(record.Language) && isLanguage(t):
		b.set(record.Language, t)
	case !b.has(record.Copyright) && copyrightRe.MatchString(t):
		b.set(record.Copyright, t)
		return headerEnd
	case b.has(record.SourcePublication) && !b.has(record.SourceCode) && sourceCodeRe.MatchString(t):
		b.set(record.SourceCode, t)
	case b.headerDate && !b.has(record.SourcePublication):
		b.set(record.SourcePublication, t)
	case !b.has(record.Byline) && !b.has(record.WordCount) && !b.has(record.PublishDate) && b.nextIsWordCount(i):
		// Author printed without "By" directly above the word count.
		b.set(record.Byline, t)
	default:
		return notHeader
	}
	return headerField
}

// isByline accepts a "By ..." line that reads as a credit, not a sentence.
func isByline(t string) bool {
	return record.IsBylineLine(t) && !isProse(t) && len(strings.Fields(t)) <= 10
}

func (b *block) nextIsWordCount(i int) bool {
	for j := i + 1; j < len(b.lines); j++ {
		t := strings.TrimSpace(b.lines[j])
		if t == "" {
			continue
		}
		return record.IsWordCountLine(t)
	}
	return false
}

func isDate(t string) bool {
	_, _, ok := record.ParseDate(t)
	return ok
}

func isClock(t string) bool {
	_, ok := record.ParseClock(t)
	return ok
}

func isLanguage(t string) bool {
	_, ok := record.CanonicalLanguage(t)
	return ok
}

// body picks the largest run of unclaimed lines after from, unless a label
// already supplied the body.
func (b *block) body(from int) {
	if b.has(record.Body) {
		return
	}
	bestFrom, bestTo, bestSize := -1, -1, 0
	for i := from; i < len(b.lines); {
		if b.claimed[i] {
			i++
			continue
		}
		j, size := i, 0
		for ; j < len(b.lines) && !b.claimed[j]; j++ {
			if !textutil.IsBlank(b.lines[j]) {
				size++
			}
		}
		if size > bestSize {
			bestFrom, bestTo, bestSize = i, j, size
		}
		i = j
	}
	if bestSize == 0 {
		return
	}
	for k := bestFrom; k < bestTo; k++ {
		b.claimed[k] = true
	}
	b.set(record.Body, strings.Join(b.lines[bestFrom:bestTo], "\n"))
}

func cleanTitle(s string) string {
	t := strings.TrimSpace(s)
	t = tocPrefixRe.ReplaceAllString(t, "")
	t = leadSymRe.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

// stripIndexCodes turns "c11 : Plans/Strategy | ncat : Content Types" into
// one name per line.
func stripIndexCodes(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == '\n' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if _, name, ok := strings.Cut(p, " : "); ok {
			p = name
		}
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
