package aggregate

import (
	"path/filepath"

	"github.com/ECNUser/factiva2csv/internal/pipeline"
	"github.com/ECNUser/factiva2csv/internal/record"
)

// Run is the combined output of one invocation.
type Run struct {
	Records []record.Record
	// Sources lists the files that decoded, in input order.
	Sources []string
	// Failed lists the files that did not.
	Failed []pipeline.FileResult
}

// Merge concatenates per-file results in input order, then in-document
// order, tagging every record with the base name of its file. Duplicates
// are kept. Failed files contribute no records.
func Merge(results []pipeline.FileResult) Run {
	n := 0
	for _, r := range results {
		n += len(r.Records)
	}
	run := Run{Records: make([]record.Record, 0, n)}
	for _, r := range results {
		if r.Err != nil {
			run.Failed = append(run.Failed, r)
			continue
		}
		run.Sources = append(run.Sources, r.Path)
		name := SourceName(r.Path)
		for _, rec := range r.Records {
			run.Records = append(run.Records, rec.With(record.SourceFile, name))
		}
	}
	return run
}

// SourceName is the identifier written to source_file.
func SourceName(path string) string {
	return filepath.Base(path)
}
