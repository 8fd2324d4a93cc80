package phrases

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"stdphrase/internal/domain"
)

// DefaultColumn is the header of the phrase column in the standard terms
// spreadsheet export.
const DefaultColumn = "Optimal performance"

// CSVSource reads phrases from one named column of a CSV file with a header
// row. Order and duplicates are preserved; blank cells are skipped.
type CSVSource struct {
	path   string
	column string
}

func NewCSVSource(path, column string) *CSVSource {
	if column == "" {
		column = DefaultColumn
	}
	return &CSVSource{path: path, column: column}
}

func (s *CSVSource) Load(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open phrase file: %w", err)
	}
	defer f.Close()

	phrases, err := ReadCSV(ctx, f, s.column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return phrases, nil
}

// ReadCSV extracts the named column from CSV data.
func ReadCSV(ctx context.Context, r io.Reader, column string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrNoPhrases
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := -1
	for i, name := range header {
		// Spreadsheet exports often prefix the first header with a BOM.
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrColumnNotFound, column)
	}

	var phrases []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if idx >= len(record) {
			continue
		}
		if phrase := strings.TrimSpace(record[idx]); phrase != "" {
			phrases = append(phrases, phrase)
		}
	}

	if len(phrases) == 0 {
		return nil, domain.ErrNoPhrases
	}
	return phrases, nil
}
