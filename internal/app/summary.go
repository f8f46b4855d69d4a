package app

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ECNUser/factiva2csv/internal/pipeline"
)

// maxNameWidth truncates long file names in the summary table.
const maxNameWidth = 40

// writeSummary prints one row per input: file, status, encoding, records
// and warnings. Columns are padded by display width so CJK file names line
// up.
func writeSummary(w io.Writer, results []pipeline.FileResult) error {
	rows := [][]string{{"file", "status", "encoding", "records", "warnings"}}
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "failed"
		} else if len(r.Records) == 0 {
			status = "empty"
		}
		rows = append(rows, []string{
			runewidth.Truncate(filepath.Base(r.Path), maxNameWidth, "..."),
			status,
			r.Encoding,
			strconv.Itoa(len(r.Records)),
			strconv.Itoa(len(r.Warnings)),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := runewidth.StringWidth(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder
	for ri, row := range rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i == len(row)-1 {
				sb.WriteString(cell)
				continue
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		sb.WriteByte('\n')
		if ri == 0 {
			total := 2 * (len(widths) - 1)
			for _, n := range widths {
				total += n
			}
			sb.WriteString(strings.Repeat("-", total))
			sb.WriteByte('\n')
		}
	}
	_, err := fmt.Fprint(w, sb.String())
	return err
}
