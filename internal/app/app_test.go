package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ECNUser/factiva2csv/internal/record"
)

// rtfExport builds a small export with one page per headline.
func rtfExport(headlines ...string) string {
	var b strings.Builder
	b.WriteString(`{\rtf1\ansi\ansicpg1252\deff0{\fonttbl{\f0 Arial;}}`)
	for i, h := range headlines {
		if i > 0 {
			b.WriteString(`\page `)
		}
		b.WriteString(`\pard ` + h + `\par 120 words\par March 6, 2023\par Other Paper\par\par Body of ` + h + `.\par`)
	}
	b.WriteString("}")
	return b.String()
}

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	if cfg.Extensions == nil {
		cfg.Extensions = defaultExtensions
	}
	cfg.Lossy = true
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Stderr = &bytes.Buffer{}
	return a
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return rows
}

func column(rows [][]string, k record.Key) []string {
	idx := -1
	for i, h := range rows[0] {
		if h == string(k) {
			idx = i
		}
	}
	var out []string
	for _, r := range rows[1:] {
		out = append(out, r[idx])
	}
	return out
}

func csvFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		t.Fatal(err)
	}
	return matches
}

func threeExports(t *testing.T) string {
	t.Helper()
	in := t.TempDir()
	writeTemp(t, in, "A.rtf", rtfExport("Alpha one", "Alpha two"))
	writeTemp(t, in, "B.rtf", rtfExport("Beta one"))
	writeTemp(t, in, "C.rtf", rtfExport("Gamma one"))
	return in
}

func TestRun_MergeWritesOneFileInInputOrder(t *testing.T) {
	in := threeExports(t)
	outDir := t.TempDir()
	out := filepath.Join(outDir, "merged.csv")

	rep, err := newTestApp(t, Config{Input: in, Output: out, Merge: true, BOM: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if files := csvFiles(t, outDir); len(files) != 1 || files[0] != out {
		t.Fatalf("outputs=%v", files)
	}
	if len(csvFiles(t, in)) != 0 {
		t.Fatalf("per-file outputs written in merge mode")
	}
	rows := readCSV(t, out)
	if !reflect.DeepEqual(rows[0], record.Header()) {
		t.Fatalf("header=%v", rows[0])
	}
	if got, want := column(rows, record.Headline), []string{"Alpha one", "Alpha two", "Beta one", "Gamma one"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("headlines=%v, want %v", got, want)
	}
	if got, want := column(rows, record.SourceFile), []string{"A.rtf", "A.rtf", "B.rtf", "C.rtf"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("source_file=%v, want %v", got, want)
	}
	if rep.Records != 4 || len(rep.Outputs) != 1 {
		t.Fatalf("report %+v", rep)
	}
}

func TestRun_WithoutMergeWritesOneFilePerInput(t *testing.T) {
	in := threeExports(t)
	rep, err := newTestApp(t, Config{Input: in}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	files := csvFiles(t, in)
	if len(files) != 3 || len(rep.Outputs) != 3 {
		t.Fatalf("outputs=%v", files)
	}
	rows := readCSV(t, filepath.Join(in, "A.csv"))
	if got := column(rows, record.SourceFile); !reflect.DeepEqual(got, []string{"A.rtf", "A.rtf"}) {
		t.Fatalf("source_file=%v", got)
	}
}

func TestRun_PartialFailureStillSucceeds(t *testing.T) {
	in := t.TempDir()
	writeTemp(t, in, "bad.rtf", "\x00\x01\x02garbage")
	writeTemp(t, in, "good.rtf", rtfExport("Only story"))
	writeTemp(t, in, "empty.htm", "<html><body></body></html>")

	rep, err := newTestApp(t, Config{Input: in}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Failed() != 1 || rep.Results[0].Err == nil {
		t.Fatalf("failed=%d, want only bad.rtf", rep.Failed())
	}
	files := csvFiles(t, in)
	if len(files) != 2 || filepath.Base(files[0]) != "empty.csv" || filepath.Base(files[1]) != "good.csv" {
		t.Fatalf("outputs=%v", files)
	}
}

func TestRun_EmptyDecodedFileGetsHeaderOnlyCSV(t *testing.T) {
	in := t.TempDir()
	writeTemp(t, in, "blank.rtf", `{\rtf1\ansi \par\par}`)
	rep, err := newTestApp(t, Config{Input: in}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Results) != 1 || len(rep.Results[0].Warnings) != 1 || rep.Results[0].Warnings[0].Kind != record.NoArticlesFound {
		t.Fatalf("results %+v", rep.Results)
	}
	rows := readCSV(t, filepath.Join(in, "blank.csv"))
	if len(rows) != 1 {
		t.Fatalf("rows=%d, want header only", len(rows))
	}
}

func TestRun_FatalConditions(t *testing.T) {
	dir := t.TempDir()
	_, err := newTestApp(t, Config{Input: filepath.Join(dir, "nope")}).Run(context.Background())
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("missing input: err=%v", err)
	}

	writeTemp(t, dir, "bad.rtf", "\x00\x00\x00")
	_, err = newTestApp(t, Config{Input: dir}).Run(context.Background())
	if !errors.Is(err, ErrNoFilesProcessed) {
		t.Fatalf("all failed: err=%v", err)
	}

	empty := t.TempDir()
	_, err = newTestApp(t, Config{Input: empty}).Run(context.Background())
	if !errors.Is(err, ErrNoFilesProcessed) {
		t.Fatalf("empty dir: err=%v", err)
	}
}

func TestRun_IdempotentWithManifest(t *testing.T) {
	in := threeExports(t)
	out := filepath.Join(t.TempDir(), "merged.csv")
	cfg := Config{Input: in, Output: out, Merge: true, BOM: true, Manifest: true, Workers: 3}

	var snapshots [2][2][]byte
	for i := range snapshots {
		if _, err := newTestApp(t, cfg).Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		for j, p := range []string{out, deriveManifestSidecarPath(out)} {
			b, err := os.ReadFile(p)
			if err != nil {
				t.Fatalf("read %s: %v", p, err)
			}
			snapshots[i][j] = b
		}
	}
	for j := range snapshots[0] {
		if !bytes.Equal(snapshots[0][j], snapshots[1][j]) {
			t.Fatalf("artifact %d differs between runs", j)
		}
	}
}

func TestRun_SummaryAndPDF(t *testing.T) {
	in := threeExports(t)
	pdfPath := filepath.Join(t.TempDir(), "digest.pdf")
	a := newTestApp(t, Config{Input: in, Merge: true, Summary: true, PDF: pdfPath})
	var summary bytes.Buffer
	a.Stderr = &summary
	if _, err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{"file", "A.rtf", "B.rtf", "C.rtf", "windows-1252"} {
		if !strings.Contains(summary.String(), want) {
			t.Fatalf("summary missing %q:\n%s", want, summary.String())
		}
	}
	b, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatalf("pdf not written: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("not a pdf: %q", b[:8])
	}
}

func TestNew_BadLabelsFile(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "labels.yaml", "labels:\n  kopf: nonsense_key\n")
	if _, err := New(Config{Input: dir, Labels: p, Extensions: defaultExtensions}); err == nil {
		t.Fatalf("expected label error")
	}
}
