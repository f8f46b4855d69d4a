package record

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal problem.
type WarningKind string

const (
	// UnparsedField marks a value that could not be normalized to its type.
	UnparsedField WarningKind = "unparsed_field"
	// NoArticlesFound marks a decoded file that produced zero records.
	NoArticlesFound WarningKind = "no_articles_found"
)

// Warning is surfaced in logs and the run summary, never returned as an error.
type Warning struct {
	Kind    WarningKind
	Field   Key
	Value   string
	Message string
}

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s: %s=%q: %s", w.Kind, w.Field, w.Value, w.Message)
}

// Record is one normalized article. Every schema key is present; values
// never alias the decoded document they were extracted from. A Record is
// immutable: With returns a modified copy.
type Record struct {
	values   map[Key]string
	warnings []Warning
}

// New builds a record from values, filling absent schema keys with "" and
// dropping keys outside the schema.
func New(values map[Key]string, warnings ...Warning) Record {
	r := Record{values: make(map[Key]string, len(Schema))}
	for _, k := range Schema {
		r.values[k] = strings.Clone(values[k])
	}
	if len(warnings) > 0 {
		r.warnings = append([]Warning(nil), warnings...)
	}
	return r
}

// Get returns the value stored under k.
func (r Record) Get(k Key) string {
	return r.values[k]
}

// Values returns the values in schema order.
func (r Record) Values() []string {
	out := make([]string, len(Schema))
	for i, k := range Schema {
		out[i] = r.values[k]
	}
	return out
}

// Map returns a copy of the record keyed by column name.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(Schema))
	for _, k := range Schema {
		out[string(k)] = r.values[k]
	}
	return out
}

// Warnings returns the normalization warnings attached to the record.
func (r Record) Warnings() []Warning {
	return append([]Warning(nil), r.warnings...)
}

// With returns a copy of r with k set to v. Keys outside the schema are
// ignored.
func (r Record) With(k Key, v string) Record {
	if _, ok := schemaIndex[k]; !ok {
		return r
	}
	values := make(map[Key]string, len(Schema))
	for key, val := range r.values {
		values[key] = val
	}
	values[k] = strings.Clone(v)
	return Record{values: values, warnings: r.warnings}
}

// Empty reports whether the record carries neither a headline nor a body.
func (r Record) Empty() bool {
	return r.values[Headline] == "" && r.values[Body] == ""
}
