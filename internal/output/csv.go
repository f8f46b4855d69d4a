// Package output writes records as CSV.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"

	"github.com/ECNUser/factiva2csv/internal/record"
)

// Options controls CSV emission.
type Options struct {
	// BOM prefixes the file with a UTF-8 byte order mark so spreadsheet
	// applications pick the right encoding.
	BOM bool
}

// WriteCSV writes a header row of schema keys followed by one row per
// record. Values are quoted as needed, so multi-line bodies survive.
func WriteCSV(w io.Writer, records []record.Record, opts Options) error {
	var closer io.Closer
	if opts.BOM {
		bw := unicode.UTF8BOM.NewEncoder().Writer(w)
		w, closer = bw, bw.(io.Closer)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(record.Header()); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

// WriteCSVFile writes records to path through a temporary file in the same
// directory, so a failed run never leaves a truncated CSV behind.
func WriteCSVFile(path string, records []record.Record, opts Options) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := WriteCSV(tmp, records, opts); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename csv: %w", err)
	}
	return nil
}
