package record

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ECNUser/factiva2csv/internal/textutil"
)

var (
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
	countRe     = regexp.MustCompile(`^\s*(\d[\d,.' \x{00A0}]*)`)
	docPrefixRe = regexp.MustCompile(`(?i)^(?:document|文件|文档)[\s:：]+`)
	listSplitRe = regexp.MustCompile(`[|;\n]+`)
)

// Normalize turns a raw field mapping into a Record. It never fails: a value
// that cannot be normalized is kept trimmed and reported as a warning.
func Normalize(raw Fields) Record {
	values := make(map[Key]string, len(Schema))
	var warnings []Warning

	for _, k := range Schema {
		v := norm.NFC.String(raw[k])
		switch {
		case k == Body:
			values[k] = NormalizeBody(v)
		case k.IsList():
			values[k] = normalizeList(v)
		default:
			values[k] = textutil.CollapseSpaces(textutil.ReplaceControls(v))
		}
	}

	if v := values[PublishDate]; v != "" {
		if d, clock, ok := ParseDate(v); ok {
			values[PublishDate] = d
			if values[PublishTime] == "" && clock != "" {
				values[PublishTime] = clock
			}
		} else {
			warnings = append(warnings, Warning{Kind: UnparsedField, Field: PublishDate, Value: v, Message: "unrecognized date format"})
		}
	}

	if v := values[PublishTime]; v != "" {
		if c, ok := ParseClock(v); ok {
			values[PublishTime] = c
		} else {
			warnings = append(warnings, Warning{Kind: UnparsedField, Field: PublishTime, Value: v, Message: "unrecognized time format"})
		}
	}

	if v := values[WordCount]; v != "" {
		if n, ok := ParseWordCount(v); ok {
			values[WordCount] = strconv.Itoa(n)
		} else {
			warnings = append(warnings, Warning{Kind: UnparsedField, Field: WordCount, Value: v, Message: "word count is not numeric"})
		}
	} else if values[Body] != "" {
		values[WordCount] = strconv.Itoa(len(strings.Fields(values[Body])))
	}

	if v := values[Language]; v != "" {
		if name, ok := CanonicalLanguage(v); ok {
			values[Language] = name
		}
	}

	if v := values[DocumentID]; v != "" {
		values[DocumentID] = strings.TrimSpace(docPrefixRe.ReplaceAllString(v, ""))
	}

	if v := values[Byline]; v != "" {
		values[Byline] = trimByPrefix(v)
	}

	return New(values, warnings...)
}

// NormalizeBody trims each line, drops control characters and leaked hex
// dumps, and collapses runs of blank lines to a single blank line.
func NormalizeBody(s string) string {
	if s == "" {
		return ""
	}
	lines := textutil.SplitLines(textutil.ReplaceControls(s))
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if textutil.IsHexDump(ln, 80, 0.8) {
			break
		}
		out = append(out, ln)
	}
	text := strings.Join(out, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// ParseWordCount reads the leading number of strings like "1,234 words" or
// "1 234 字".
func ParseWordCount(s string) (int, bool) {
	m := countRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m[1])
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func normalizeList(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	parts := listSplitRe.Split(s, -1)
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = textutil.CollapseSpaces(textutil.ReplaceControls(p))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return strings.Join(out, "; ")
}

// trimByPrefix drops a leading "By " or 作者 credit label.
func trimByPrefix(s string) string {
	if len(s) > 3 && strings.EqualFold(s[:3], "by ") {
		return strings.TrimSpace(s[3:])
	}
	if rest, ok := strings.CutPrefix(s, "作者"); ok && rest != "" {
		return strings.TrimSpace(strings.TrimLeft(rest, " :："))
	}
	return s
}
