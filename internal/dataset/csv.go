// Package dataset imports tabular data into data views and prints them.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MitjaBezensek/chart/internal/model"
)

// ErrNoColumns is returned when a CSV header has fewer than two columns.
var ErrNoColumns = errors.New("csv needs a category and a value column")

// CSVOptions selects the columns to read. Empty names select the first and
// second column.
type CSVOptions struct {
	CategoryColumn string
	ValueColumn    string
}

// ReadCSV reads a CSV document with a header row into a data view. Empty
// value cells are null.
func ReadCSV(r io.Reader, opts CSVOptions) (*model.DataView, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read csv header: %w", ErrNoColumns)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) < 2 {
		return nil, ErrNoColumns
	}
	catIdx, err := columnIndex(header, opts.CategoryColumn, 0)
	if err != nil {
		return nil, err
	}
	valIdx, err := columnIndex(header, opts.ValueColumn, 1)
	if err != nil {
		return nil, err
	}

	categories := model.CategoryColumn{Source: columnMeta(header[catIdx])}
	values := model.ValueColumn{Source: columnMeta(header[valIdx])}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		category := cell(row, catIdx)
		raw := strings.TrimSpace(cell(row, valIdx))
		var value *float64
		if raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value %q on line %d: %w", raw, line, err)
			}
			value = &v
		}
		categories.Values = append(categories.Values, category)
		values.Values = append(values.Values, value)
	}

	return &model.DataView{
		Categorical: &model.Categorical{
			Categories: []model.CategoryColumn{categories},
			Values:     []model.ValueColumn{values},
		},
	}, nil
}

func columnIndex(header []string, name string, fallback int) (int, error) {
	if name == "" {
		return fallback, nil
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in csv header", name)
}

func columnMeta(name string) model.ColumnMeta {
	name = strings.TrimSpace(name)
	return model.ColumnMeta{DisplayName: name, QueryName: name}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
