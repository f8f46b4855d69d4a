package app

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/ECNUser/factiva2csv/internal/record"
)

// writeDigestPDF renders a short listing of the extracted articles: one
// entry per record with headline, date, publication and word count. Core
// fonts only cover windows-1252, so other scripts degrade to '?'.
func writeDigestPDF(records []record.Record, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("factiva2csv digest", true)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.AddPage()
	pdf.CellFormat(0, 8, fmt.Sprintf("Extracted articles (%d)", len(records)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for i, r := range records {
		headline := r.Get(record.Headline)
		if headline == "" {
			headline = "(untitled)"
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, headline)), "", "L", false)

		var meta []string
		for _, k := range []record.Key{record.PublishDate, record.SourcePublication, record.Language} {
			if v := r.Get(k); v != "" {
				meta = append(meta, v)
			}
		}
		if wc := r.Get(record.WordCount); wc != "" {
			meta = append(meta, wc+" words")
		}
		if src := r.Get(record.SourceFile); src != "" {
			meta = append(meta, src)
		}
		pdf.SetFont("Helvetica", "", 9)
		if len(meta) > 0 {
			pdf.MultiCell(0, 4, tr(strings.Join(meta, " | ")), "", "L", false)
		}
		pdf.Ln(3)
	}
	return pdf.OutputFileAndClose(outPath)
}
