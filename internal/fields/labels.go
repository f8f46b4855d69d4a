package fields

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ECNUser/factiva2csv/internal/record"
)

//go:embed labels.yaml
var defaultLabelsYAML []byte

// ignored marks a recognized label whose value is not stored.
const ignored = "-"

// Labels maps label spellings to schema keys. A zero Key means the label
// is recognized but its value is dropped.
type Labels struct {
	Codes     map[string]record.Key
	Multiline map[string]bool
	Labels    map[string]record.Key
	// Prefixes are kept longest first so "文件号" wins over "文件".
	Prefixes []Prefix
}

// Prefix is a bare label followed by its value on the same line.
type Prefix struct {
	Text string
	Key  record.Key
}

type labelFile struct {
	Codes     map[string]string `yaml:"codes"`
	Multiline []string          `yaml:"multiline"`
	Labels    map[string]string `yaml:"labels"`
	Prefixes  map[string]string `yaml:"prefixes"`
}

// DefaultLabels returns the built-in dictionary.
func DefaultLabels() *Labels {
	l, err := LoadLabels(bytes.NewReader(defaultLabelsYAML))
	if err != nil {
		panic(fmt.Sprintf("fields: embedded labels.yaml: %v", err))
	}
	return l
}

// LoadLabelsFile reads a dictionary from path.
func LoadLabelsFile(path string) (*Labels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := LoadLabels(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// LoadLabels parses a YAML dictionary. Unknown sections and target keys
// outside the record schema are errors.
func LoadLabels(r io.Reader) (*Labels, error) {
	var lf labelFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&lf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	l := &Labels{
		Codes:     make(map[string]record.Key, len(lf.Codes)),
		Multiline: make(map[string]bool, len(lf.Multiline)),
		Labels:    make(map[string]record.Key, len(lf.Labels)),
	}
	for code, target := range lf.Codes {
		k, err := target2key(target)
		if err != nil {
			return nil, fmt.Errorf("code %q: %w", code, err)
		}
		l.Codes[strings.ToUpper(strings.TrimSpace(code))] = k
	}
	for _, code := range lf.Multiline {
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, ok := l.Codes[code]; !ok {
			return nil, fmt.Errorf("multiline code %q is not listed under codes", code)
		}
		l.Multiline[code] = true
	}
	for label, target := range lf.Labels {
		k, err := target2key(target)
		if err != nil {
			return nil, fmt.Errorf("label %q: %w", label, err)
		}
		l.Labels[normLabel(label)] = k
	}
	for p, target := range lf.Prefixes {
		k, err := target2key(target)
		if err != nil {
			return nil, fmt.Errorf("prefix %q: %w", p, err)
		}
		l.Prefixes = append(l.Prefixes, Prefix{Text: normLabel(p), Key: k})
	}
	l.sortPrefixes()
	return l, nil
}

func target2key(s string) (record.Key, error) {
	s = strings.TrimSpace(s)
	if s == ignored {
		return "", nil
	}
	k, ok := record.ParseKey(s)
	if !ok || k == record.SourceFile {
		return "", fmt.Errorf("unknown record field %q", s)
	}
	return k, nil
}

// Merge returns a dictionary with the entries of other added to l. Entries
// in other win on conflict. Neither input is modified.
func (l *Labels) Merge(other *Labels) *Labels {
	out := &Labels{
		Codes:     make(map[string]record.Key, len(l.Codes)+len(other.Codes)),
		Multiline: make(map[string]bool, len(l.Multiline)+len(other.Multiline)),
		Labels:    make(map[string]record.Key, len(l.Labels)+len(other.Labels)),
	}
	for _, src := range []*Labels{l, other} {
		for k, v := range src.Codes {
			out.Codes[k] = v
		}
		for k, v := range src.Multiline {
			out.Multiline[k] = v
		}
		for k, v := range src.Labels {
			out.Labels[k] = v
		}
	}
	seen := map[string]int{}
	for _, src := range []*Labels{l, other} {
		for _, p := range src.Prefixes {
			if i, ok := seen[p.Text]; ok {
				out.Prefixes[i] = p
				continue
			}
			seen[p.Text] = len(out.Prefixes)
			out.Prefixes = append(out.Prefixes, p)
		}
	}
	out.sortPrefixes()
	return out
}

func (l *Labels) sortPrefixes() {
	sort.SliceStable(l.Prefixes, func(i, j int) bool {
		a, b := utf8.RuneCountInString(l.Prefixes[i].Text), utf8.RuneCountInString(l.Prefixes[j].Text)
		if a != b {
			return a > b
		}
		return l.Prefixes[i].Text < l.Prefixes[j].Text
	})
}

// normLabel lower-cases a label and collapses its whitespace.
func normLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
