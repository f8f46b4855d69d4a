// Package record defines the fixed output schema, the immutable Record type
// and the normalizer that turns raw extracted fields into records.
package record

// Key names one column of the output schema.
type Key string

const (
	Headline          Key = "headline"
	Byline            Key = "byline"
	PublishDate       Key = "publish_date"
	PublishTime       Key = "publish_time"
	WordCount         Key = "word_count"
	SourcePublication Key = "source_publication"
	SourceCode        Key = "source_code"
	Language          Key = "language"
	Copyright         Key = "copyright"
	Body              Key = "body"
	DocumentID        Key = "document_id"
	Topics            Key = "topics"
	Regions           Key = "regions"
	Industries        Key = "industries"
	Companies         Key = "companies"
	SourceFile        Key = "source_file"
)

// Schema lists every key in output column order.
var Schema = []Key{
	Headline,
	Byline,
	PublishDate,
	PublishTime,
	WordCount,
	SourcePublication,
	SourceCode,
	Language,
	Copyright,
	Body,
	DocumentID,
	Topics,
	Regions,
	Industries,
	Companies,
	SourceFile,
}

var schemaIndex = func() map[Key]int {
	m := make(map[Key]int, len(Schema))
	for i, k := range Schema {
		m[k] = i
	}
	return m
}()

// ParseKey returns the schema key named s.
func ParseKey(s string) (Key, bool) {
	k := Key(s)
	_, ok := schemaIndex[k]
	return k, ok
}

// Header returns the schema keys as strings, for a CSV header row.
func Header() []string {
	out := make([]string, len(Schema))
	for i, k := range Schema {
		out[i] = string(k)
	}
	return out
}

// IsList reports whether values of k are "; "-joined lists.
func (k Key) IsList() bool {
	switch k {
	case Topics, Regions, Industries, Companies:
		return true
	}
	return false
}

// Fields is a raw, partial mapping produced by the field extractor.
// Only recognized keys are present.
type Fields map[Key]string
