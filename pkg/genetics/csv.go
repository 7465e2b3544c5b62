package genetics

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

func WriteCSVHeader(writer *csv.Writer) error {
	header := []string{
		"Generation",
		"Time",

		"Fitness (Mean)", "Fitness (Min)", "Fitness (Max)", "Fitness (StdDev)",
		"Fitness (25th)", "Fitness (Median)", "Fitness (75th)",

		"LowA (Best)", "HighA (Best)", "LowB (Best)", "HighB (Best)", "Direction (Best)",
		"Fitness (Best)",
	}

	if err := writer.Write(header); err != nil {
		return err
	} else {
		writer.Flush()
		return writer.Error()
	}
}

func WriteCSVRow(writer *csv.Writer, now time.Time, s GenerationStats) error {
	row := []string{
		fmt.Sprintf("%d", s.Generation),
		now.Format(time.RFC3339),

		fmt.Sprintf("%0.6f", s.Mean), fmt.Sprintf("%0.6f", s.Min), fmt.Sprintf("%0.6f", s.Max), fmt.Sprintf("%0.6f", s.StdDev),
		fmt.Sprintf("%0.6f", s.P25), fmt.Sprintf("%0.6f", s.Median), fmt.Sprintf("%0.6f", s.P75),

		fmt.Sprintf("%0.6f", s.Best.Genes[GeneLowA]),
		fmt.Sprintf("%0.6f", s.Best.Genes[GeneHighA]),
		fmt.Sprintf("%0.6f", s.Best.Genes[GeneLowB]),
		fmt.Sprintf("%0.6f", s.Best.Genes[GeneHighB]),
		s.Best.Direction().String(),
		fmt.Sprintf("%0.6f", s.Best.Fitness),
	}

	if err := writer.Write(row); err != nil {
		return err
	} else {
		writer.Flush()
		return writer.Error()
	}
}

// CSVReporter appends one row per reported generation. The header is written
// before the first row unless the destination already has content.
type CSVReporter struct {
	writer        *csv.Writer
	headerWritten bool
}

func NewCSVReporter(w io.Writer, hasHeader bool) *CSVReporter {
	return &CSVReporter{writer: csv.NewWriter(w), headerWritten: hasHeader}
}

func (r *CSVReporter) Generation(ctx context.Context, s GenerationStats) error {
	if !r.headerWritten {
		if err := WriteCSVHeader(r.writer); err != nil {
			return err
		}
		r.headerWritten = true
	}
	return WriteCSVRow(r.writer, time.Now(), s)
}

func (r *CSVReporter) Best(ctx context.Context, result Result) error {
	r.writer.Flush()
	return r.writer.Error()
}
