package record

import (
	"regexp"
	"strings"
)

var (
	wordCountLineRe = regexp.MustCompile(`(?i)^\s*(\d[\d,.' \x{00A0}]*)\s*(?:words?|字|wörter|mots|palabras|palavras|parole|語|단어)\s*$`)
	docIDLineRe     = regexp.MustCompile(`(?i)^\s*(?:document|文件|文档|文檔)\s*[:：]?\s*([A-Za-z0-9]{10,})\s*$`)
	docIDTokenRe    = regexp.MustCompile(`\b[A-Z]{2,10}\d{8,}[A-Za-z0-9]{3,}\b`)
	docIDNearRe     = regexp.MustCompile(`文件\D{0,15}?([A-Z]{2,10}\d{8,}[A-Za-z0-9]{3,})`)
)

// IsWordCountLine reports whether line is a standalone word count such as
// "1,234 words" or "856 字".
func IsWordCountLine(line string) bool {
	return wordCountLineRe.MatchString(line)
}

// DocumentIDLine returns the id of a Factiva document terminator line
// ("Document J000000020230305ej3500001", "文件 PRN0000002023...").
func DocumentIDLine(line string) (string, bool) {
	m := docIDLineRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FindDocumentID looks for an id-shaped token in free text, preferring one
// near a 文件 label and otherwise taking the last one.
func FindDocumentID(text string) string {
	if m := docIDNearRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	all := docIDTokenRe.FindAllString(text, -1)
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1]
}

// IsBylineLine reports a line that starts with "By" or 作者.
func IsBylineLine(line string) bool {
	l := strings.TrimSpace(line)
	if len(l) > 3 && strings.EqualFold(l[:3], "by ") {
		return true
	}
	return strings.HasPrefix(l, "作者")
}
