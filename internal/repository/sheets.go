package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Content lives in columns A..F of the first sheet
const contentRange = "A:F"

// SheetsSource reads the content tree from a Google spreadsheet
// using a service account.
type SheetsSource struct {
	svc     *sheets.Service
	sheetID string
	log     *zap.Logger
}

func NewSheetsSource(ctx context.Context, credsFile, sheetID string, log *zap.Logger) (*SheetsSource, error) {
	if credsFile == "" {
		return nil, fmt.Errorf("sheets: credentials file is required")
	}
	if sheetID == "" {
		return nil, fmt.Errorf("sheets: sheet id is required")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: create client: %w", err)
	}

	return &SheetsSource{svc: svc, sheetID: sheetID, log: log}, nil
}

func (s *SheetsSource) FetchRows(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, contentRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: fetch values: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}

	s.log.Info("fetched rows from sheet", zap.Int("rows", len(rows)))
	return rows, nil
}

func (s *SheetsSource) ReplaceRows(ctx context.Context, rows [][]string) error {
	_, err := s.svc.Spreadsheets.Values.Clear(s.sheetID, contentRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: clear values: %w", err)
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	_, err = s.svc.Spreadsheets.Values.
		Update(s.sheetID, "A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: update values: %w", err)
	}

	s.log.Info("replaced sheet contents", zap.Int("rows", len(rows)))
	return nil
}
