package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"outlet-sales/models"
)

const (
	colItemIdentifier          = "Item_Identifier"
	colItemWeight              = "Item_Weight"
	colItemFatContent          = "Item_Fat_Content"
	colItemVisibility          = "Item_Visibility"
	colItemType                = "Item_Type"
	colItemMRP                 = "Item_MRP"
	colOutletIdentifier        = "Outlet_Identifier"
	colOutletEstablishmentYear = "Outlet_Establishment_Year"
	colOutletSize              = "Outlet_Size"
	colOutletLocationType      = "Outlet_Location_Type"
	colOutletType              = "Outlet_Type"
	colItemOutletSales         = "Item_Outlet_Sales"
)

var requiredCSVColumns = []string{
	colItemIdentifier,
	colItemWeight,
	colItemFatContent,
	colItemVisibility,
	colItemType,
	colItemMRP,
	colOutletIdentifier,
	colOutletEstablishmentYear,
	colOutletSize,
	colOutletLocationType,
	colOutletType,
}

// CSVReader reads Train.csv / Test.csv shaped files. Columns are located by
// header name, so their order does not matter. Item_Outlet_Sales is optional.
type CSVReader struct {
	file   io.Closer
	reader *csv.Reader
}

var _ RawRowReader = (*CSVReader)(nil)

// NewCSVReader opens the CSV file at path.
func NewCSVReader(path string) (*CSVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}
	return newCSVReader(f, f), nil
}

// NewCSVReaderFrom reads CSV data from r. Close is a no-op.
func NewCSVReaderFrom(r io.Reader) *CSVReader {
	return newCSVReader(r, nopCloser{})
}

func newCSVReader(r io.Reader, c io.Closer) *CSVReader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	return &CSVReader{file: c, reader: cr}
}

// ReadAll reads every data row. Cells are kept as raw strings; parsing and
// validation happen in the ingester.
func (c *CSVReader) ReadAll() ([]*models.RawSalesRow, error) {
	header, err := c.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: empty file, missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	for _, name := range requiredCSVColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", name)
		}
	}
	c.reader.FieldsPerRecord = len(header)

	cell := func(rec []string, name string) string {
		i, ok := index[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []*models.RawSalesRow
	for line := 2; ; line++ {
		rec, err := c.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		rows = append(rows, &models.RawSalesRow{
			Line:                    line,
			ItemIdentifier:          cell(rec, colItemIdentifier),
			ItemWeight:              cell(rec, colItemWeight),
			ItemFatContent:          cell(rec, colItemFatContent),
			ItemVisibility:          cell(rec, colItemVisibility),
			ItemType:                cell(rec, colItemType),
			ItemMRP:                 cell(rec, colItemMRP),
			OutletIdentifier:        cell(rec, colOutletIdentifier),
			OutletEstablishmentYear: cell(rec, colOutletEstablishmentYear),
			OutletSize:              cell(rec, colOutletSize),
			OutletLocationType:      cell(rec, colOutletLocationType),
			OutletType:              cell(rec, colOutletType),
			ItemOutletSales:         cell(rec, colItemOutletSales),
		})
	}
	return rows, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Close closes the underlying file.
func (c *CSVReader) Close() error {
	return c.file.Close()
}
