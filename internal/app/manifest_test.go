package app

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ECNUser/factiva2csv/internal/extract"
	"github.com/ECNUser/factiva2csv/internal/pipeline"
	"github.com/ECNUser/factiva2csv/internal/record"
)

func TestBuildManifest_CountsAndErrors(t *testing.T) {
	results := []pipeline.FileResult{
		{
			Path: "/data/a.rtf", Digest: "abcd", Size: 10, Format: extract.FormatRTF, Encoding: "windows-1252",
			Records:  []record.Record{record.Normalize(record.Fields{record.Headline: "x"}), record.Normalize(record.Fields{record.Headline: "y"})},
			Warnings: []record.Warning{{Kind: record.UnparsedField, Field: record.PublishDate, Value: "someday", Message: "unrecognized date"}},
		},
		{Path: "/data/b.rtf", Digest: "ef01", Size: 3, Err: errors.New("decode failed")},
	}
	m := buildManifest("/out/merged.csv", results)
	if m.Output != "merged.csv" || m.Records != 2 || len(m.Inputs) != 2 {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if m.Inputs[0].File != "a.rtf" || m.Inputs[0].Format != "rtf" || len(m.Inputs[0].Warnings) != 1 {
		t.Fatalf("first entry %+v", m.Inputs[0])
	}
	if m.Inputs[1].Error != "decode failed" || m.Inputs[1].Format != "" {
		t.Fatalf("second entry %+v", m.Inputs[1])
	}
}

func TestMarshalManifestJSON_HasNoTimestamps(t *testing.T) {
	b, err := marshalManifestJSON(buildManifest("x.csv", nil))
	if err != nil {
		t.Fatal(err)
	}
	var generic map[string]any
	if err := json.Unmarshal(b, &generic); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for key := range generic {
		if strings.Contains(key, "time") || strings.Contains(key, "generated") {
			t.Fatalf("manifest carries a time field %q", key)
		}
	}
	if generic["tool"] != "factiva2csv" {
		t.Fatalf("tool=%v", generic["tool"])
	}
}

func TestDeriveManifestSidecarPath(t *testing.T) {
	if got := deriveManifestSidecarPath("out/a.csv"); got != "out/a.csv.manifest.json" {
		t.Fatalf("got %q", got)
	}
}
