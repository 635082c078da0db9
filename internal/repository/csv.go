package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// CSVSource serves the content tree from a local CSV file. Mostly
// used for development and tests; same column layout as the sheet.
type CSVSource struct {
	path string
	log  *zap.Logger
}

func NewCSVSource(path string, log *zap.Logger) *CSVSource {
	return &CSVSource{path: path, log: log}
}

func (s *CSVSource) FetchRows(ctx context.Context) ([][]string, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are allowed, the cache drops short ones

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %s: %w", s.path, err)
	}

	s.log.Info("fetched rows from csv", zap.String("path", s.path), zap.Int("rows", len(records)))
	return records, nil
}

func (s *CSVSource) ReplaceRows(ctx context.Context, rows [][]string) error {
	tmp := s.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("csv: create %s: %w", tmp, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("csv: write %s: %w", tmp, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("csv: flush %s: %w", tmp, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("csv: close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("csv: replace %s: %w", s.path, err)
	}

	s.log.Info("replaced csv contents", zap.String("path", s.path), zap.Int("rows", len(rows)))
	return nil
}
