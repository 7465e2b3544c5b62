package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmptyDataset    = errors.New("dataset is empty")
	ErrMalformedRecord = errors.New("malformed record")
)

// Columns is the number of leading columns kept from every row.
const Columns = 3

// A Record is one historical observation: two features and the outcome of
// trading at that point.
type Record [Columns]float64

func (r Record) FeatureA() float64 { return r[0] }
func (r Record) FeatureB() float64 { return r[1] }
func (r Record) Outcome() float64  { return r[2] }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Marshal to an array
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{r[0], r[1], r[2]})
}

// Unmarshal from an array
func (r *Record) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) < Columns {
		return fmt.Errorf("%w: %d columns, need %d", ErrMalformedRecord, len(arr), Columns)
	}
	for i, v := range arr[:Columns] {
		if !finite(v) {
			return fmt.Errorf("%w: column %d is %v", ErrMalformedRecord, i+1, v)
		}
		r[i] = v
	}
	return nil
}

// Dataset is loaded once and shared read-only by every fitness evaluation.
type Dataset []Record

func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r'
	})
}

// Parse reads whitespace or comma separated rows. Lines starting with '#'
// and blank lines are skipped. All rows must share the same width and every
// kept value must be finite.
func Parse(r io.Reader) (Dataset, error) {
	out := Dataset{}
	width := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := splitFields(text)
		if len(fields) == 0 {
			continue
		}

		if len(fields) < Columns {
			return nil, fmt.Errorf("%w: line %d has %d columns, need at least %d", ErrMalformedRecord, line, len(fields), Columns)
		} else if width != 0 && len(fields) != width {
			return nil, fmt.Errorf("%w: line %d has %d columns, expected %d", ErrMalformedRecord, line, len(fields), width)
		}
		width = len(fields)

		var record Record
		for i := range Columns {
			if v, err := strconv.ParseFloat(fields[i], 64); err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %v", ErrMalformedRecord, line, i+1, err)
			} else if !finite(v) {
				return nil, fmt.Errorf("%w: line %d column %d is %v", ErrMalformedRecord, line, i+1, v)
			} else {
				record[i] = v
			}
		}
		out = append(out, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
