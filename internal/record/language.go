package record

import "strings"

// languageNames maps lower-cased language names seen in Factiva exports
// (English names, endonyms and Chinese-interface names) to a canonical
// English name.
var languageNames = map[string]string{
	"english":    "English",
	"英文":         "English",
	"英语":         "English",
	"英語":         "English",
	"anglais":    "English",
	"englisch":   "English",
	"inglés":     "English",
	"chinese":    "Chinese",
	"中文":         "Chinese",
	"中文(简体)":     "Chinese",
	"中文(繁體)":     "Chinese",
	"中文（简体）":     "Chinese",
	"中文（繁體）":     "Chinese",
	"简体中文":       "Chinese",
	"繁體中文":       "Chinese",
	"chinois":    "Chinese",
	"german":     "German",
	"deutsch":    "German",
	"德文":         "German",
	"french":     "French",
	"français":   "French",
	"francais":   "French",
	"法文":         "French",
	"spanish":    "Spanish",
	"español":    "Spanish",
	"西班牙文":       "Spanish",
	"japanese":   "Japanese",
	"日文":         "Japanese",
	"日本語":        "Japanese",
	"korean":     "Korean",
	"韩文":         "Korean",
	"russian":    "Russian",
	"русский":    "Russian",
	"portuguese": "Portuguese",
	"português":  "Portuguese",
	"italian":    "Italian",
	"italiano":   "Italian",
	"dutch":      "Dutch",
	"arabic":     "Arabic",
}

// CanonicalLanguage returns the canonical name for a language label.
func CanonicalLanguage(s string) (string, bool) {
	name, ok := languageNames[strings.ToLower(strings.TrimSpace(s))]
	return name, ok
}
