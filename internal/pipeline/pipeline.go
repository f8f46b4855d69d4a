// Package pipeline runs one export file through decoding, segmentation,
// field extraction and normalization, and fans a batch of files out to a
// bounded worker pool.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/ECNUser/factiva2csv/internal/extract"
	"github.com/ECNUser/factiva2csv/internal/fields"
	"github.com/ECNUser/factiva2csv/internal/record"
	"github.com/ECNUser/factiva2csv/internal/segment"
)

// Options configures a run.
type Options struct {
	// Lossy decodes past unknown code pages and invalid bytes.
	Lossy bool
	// Labels overrides the built-in label dictionary.
	Labels *fields.Labels
	// Workers bounds concurrent files; zero means one per CPU.
	Workers int
}

// FileResult is what one input file produced. Err is set when the file
// could not be read or decoded; such a file has no records.
type FileResult struct {
	Path     string
	Format   extract.Format
	Encoding string
	Digest   string
	Size     int64
	Records  []record.Record
	Warnings []record.Warning
	Err      error
}

// OK reports whether the file was decoded.
func (r FileResult) OK() bool { return r.Err == nil }

func (o Options) extractor() *fields.Extractor {
	if o.Labels == nil {
		return nil
	}
	return fields.New(o.Labels)
}

// ProcessBytes runs the extraction engine over the contents of one file.
// name is used for format detection and error reporting.
func ProcessBytes(name string, data []byte, opts Options) FileResult {
	return process(name, data, opts.extractor(), opts)
}

func process(name string, data []byte, ex *fields.Extractor, opts Options) FileResult {
	sum := sha256.Sum256(data)
	res := FileResult{Path: name, Size: int64(len(data)), Digest: hex.EncodeToString(sum[:])}

	doc, err := extract.FromBytes(name, data, extract.Options{Lossy: opts.Lossy})
	if err != nil {
		res.Err = err
		return res
	}
	res.Format, res.Encoding = doc.Format, doc.Encoding

	blocks := segment.Split(doc.Text)
	for _, b := range blocks {
		var raw record.Fields
		if ex != nil {
			raw = ex.Extract(b.Text)
		} else {
			raw = fields.Extract(b.Text)
		}
		rec := record.Normalize(raw)
		if rec.Empty() {
			continue
		}
		res.Records = append(res.Records, rec)
		res.Warnings = append(res.Warnings, rec.Warnings()...)
	}
	if len(res.Records) == 0 {
		res.Warnings = append(res.Warnings, record.Warning{
			Kind:    record.NoArticlesFound,
			Message: fmt.Sprintf("no articles found in %d block(s)", len(blocks)),
		})
	}
	return res
}

// ProcessFile reads and processes one file.
func ProcessFile(ctx context.Context, path string, opts Options) FileResult {
	return processFile(ctx, path, opts.extractor(), opts)
}

func processFile(ctx context.Context, path string, ex *fields.Extractor, opts Options) FileResult {
	if err := ctx.Err(); err != nil {
		return FileResult{Path: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("read input: %w", err)}
	}
	res := process(path, data, ex, opts)
	ev := log.Debug().Str("file", path).Int("records", len(res.Records)).Str("encoding", res.Encoding)
	if res.Err != nil {
		ev = ev.Err(res.Err)
	}
	ev.Msg("processed file")
	return res
}

// ProcessAll processes paths concurrently and returns one result per path,
// in input order. A failing file never stops the others. Files not started
// before ctx is cancelled carry ctx.Err().
func ProcessAll(ctx context.Context, paths []string, opts Options) []FileResult {
	results := make([]FileResult, len(paths))
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ex := opts.extractor()
	p := pool.New().WithMaxGoroutines(workers)
	for i, path := range paths {
		i, path := i, path
		p.Go(func() {
			results[i] = processFile(ctx, path, ex, opts)
		})
	}
	p.Wait()
	return results
}
