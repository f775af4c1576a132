package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"outlet-sales/models"
)

// PredictionSheet is the worksheet predictions are exported to.
const PredictionSheet = "Predictions"

var xlsxHeader = []string{
	"Item Identifier",
	"Outlet Identifier",
	"Predicted Sales",
	"Model ID",
	"Created At",
}

// XLSXWriter buffers predictions into a workbook that is saved to disk on
// Close.
type XLSXWriter struct {
	mu   sync.Mutex
	path string
	file *excelize.File
	row  int
}

var _ PredictionWriter = (*XLSXWriter)(nil)

// NewXLSXWriter prepares a workbook with a header row. Nothing is written to
// path until Close.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), PredictionSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: create sheet: %w", err)
	}

	for i, h := range xlsxHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(PredictionSheet, cell, h); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("xlsx: write header: %w", err)
		}
	}
	_ = f.SetColWidth(PredictionSheet, "A", "B", 18)
	_ = f.SetColWidth(PredictionSheet, "C", "C", 16)
	_ = f.SetColWidth(PredictionSheet, "D", "D", 38)
	_ = f.SetColWidth(PredictionSheet, "E", "E", 22)

	return &XLSXWriter{path: path, file: f, row: 2}, nil
}

// WritePredictions appends one row per prediction.
func (x *XLSXWriter) WritePredictions(predictions []*models.Prediction) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, p := range predictions {
		values := []any{
			p.ItemIdentifier,
			p.OutletIdentifier,
			p.PredictedSales,
			p.ModelID,
			p.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, x.row)
		if err := x.file.SetSheetRow(PredictionSheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", x.row, err)
		}
		x.row++
	}
	return nil
}

// Close saves the workbook to disk.
func (x *XLSXWriter) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	defer x.file.Close()
	if err := os.MkdirAll(filepath.Dir(x.path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}
	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}
