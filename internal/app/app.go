package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ECNUser/factiva2csv/internal/aggregate"
	"github.com/ECNUser/factiva2csv/internal/fields"
	"github.com/ECNUser/factiva2csv/internal/output"
	"github.com/ECNUser/factiva2csv/internal/pipeline"
	"github.com/ECNUser/factiva2csv/internal/record"
)

// ErrNoFilesProcessed is returned when not a single input could be decoded.
// Per the exit code policy this is a non-zero exit.
var ErrNoFilesProcessed = errors.New("no files processed")

type App struct {
	cfg    Config
	labels *fields.Labels
	// Stderr receives the optional summary table.
	Stderr io.Writer
}

// Report describes what a run produced.
type Report struct {
	Results []pipeline.FileResult
	// Outputs lists written CSV files in the order they were written.
	Outputs []string
	Records int
}

// Failed counts inputs that could not be read or decoded.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// New validates cfg and loads the label dictionary.
func New(cfg Config) (*App, error) {
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	labels := fields.DefaultLabels()
	if cfg.Labels != "" {
		custom, err := fields.LoadLabelsFile(cfg.Labels)
		if err != nil {
			return nil, fmt.Errorf("load labels: %w", err)
		}
		labels = labels.Merge(custom)
	}
	return &App{cfg: cfg, labels: labels, Stderr: os.Stderr}, nil
}

// Run discovers inputs, extracts records from each file concurrently and
// writes either one merged CSV or one CSV per decoded input. Files that fail
// to decode are logged and skipped; the run only fails when none succeed.
func (a *App) Run(ctx context.Context) (Report, error) {
	var rep Report
	inputs, isDir, err := Discover(a.cfg.Input, a.cfg.Extensions, a.cfg.Recursive)
	if err != nil {
		return rep, err
	}
	if len(inputs) == 0 {
		log.Warn().Str("input", a.cfg.Input).Strs("extensions", a.cfg.Extensions).Msg("no input files found")
		return rep, fmt.Errorf("%w: no matching files in %s", ErrNoFilesProcessed, a.cfg.Input)
	}
	plan, err := PlanOutputs(a.cfg, a.cfg.Input, inputs, isDir)
	if err != nil {
		return rep, err
	}
	log.Info().Int("files", len(inputs)).Bool("merge", a.cfg.Merge).Msg("processing inputs")

	rep.Results = pipeline.ProcessAll(ctx, inputs, pipeline.Options{
		Lossy:   a.cfg.Lossy,
		Labels:  a.labels,
		Workers: a.cfg.Workers,
	})
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	for _, r := range rep.Results {
		logResult(r)
	}

	run := aggregate.Merge(rep.Results)
	rep.Records = len(run.Records)
	if len(run.Sources) == 0 {
		return rep, fmt.Errorf("%w: all %d file(s) failed", ErrNoFilesProcessed, len(inputs))
	}

	if plan.Merged != "" {
		if err := a.emit(plan.Merged, run.Records, rep.Results); err != nil {
			return rep, err
		}
		rep.Outputs = append(rep.Outputs, plan.Merged)
	} else {
		for _, r := range rep.Results {
			if r.Err != nil {
				continue
			}
			target := plan.Target(r.Path)
			one := aggregate.Merge([]pipeline.FileResult{r})
			if err := a.emit(target, one.Records, []pipeline.FileResult{r}); err != nil {
				return rep, err
			}
			rep.Outputs = append(rep.Outputs, target)
		}
	}

	if a.cfg.PDF != "" {
		if err := writeDigestPDF(run.Records, a.cfg.PDF); err != nil {
			log.Warn().Err(err).Str("out", a.cfg.PDF).Msg("pdf digest failed")
		} else {
			log.Info().Str("out", a.cfg.PDF).Msg("wrote pdf digest")
		}
	}
	if a.cfg.Summary && a.Stderr != nil {
		if err := writeSummary(a.Stderr, rep.Results); err != nil {
			log.Warn().Err(err).Msg("summary failed")
		}
	}
	log.Info().Int("records", rep.Records).Int("files", len(inputs)).Int("failed", rep.Failed()).Msg("done")
	return rep, nil
}

func (a *App) emit(path string, records []record.Record, results []pipeline.FileResult) error {
	if err := output.WriteCSVFile(path, records, output.Options{BOM: a.cfg.BOM}); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", path).Int("records", len(records)).Msg("wrote output")
	if a.cfg.Manifest {
		mp, err := writeManifest(path, results)
		if err != nil {
			return err
		}
		log.Debug().Str("out", mp).Msg("wrote manifest")
	}
	return nil
}

func logResult(r pipeline.FileResult) {
	if r.Err != nil {
		log.Error().Err(r.Err).Str("file", r.Path).Msg("file skipped")
		return
	}
	for _, w := range r.Warnings {
		ev := log.Warn().Str("file", r.Path).Str("kind", string(w.Kind))
		if w.Field != "" {
			ev = ev.Str("field", string(w.Field)).Str("value", w.Value)
		}
		ev.Msg(w.Message)
	}
}
