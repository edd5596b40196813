package tradelog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"crypto-dashboard-go/internal/models"
	"github.com/xuri/excelize/v2"
)

// exportColumns is the fixed persisted row shape shared by both export
// formats. Reordering or renaming a column breaks round-tripping of
// previously exported files.
var exportColumns = []string{
	"date", "coin", "side", "entry_price", "take_profit", "stop_loss",
	"capital", "gain_pct", "net_pnl", "balance", "status",
}

const xlsxSheet = "Trade Log"

func entryToRow(e models.TradeLogEntry) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		e.Date.Format(time.RFC3339Nano),
		e.Coin,
		e.Side,
		f(e.EntryPrice),
		f(e.TakeProfit),
		f(e.StopLoss),
		f(e.Capital),
		f(e.GainPct),
		f(e.NetPnL),
		f(e.Balance),
		e.Status,
	}
}

func rowToEntry(row []string) (models.TradeLogEntry, error) {
	var entry models.TradeLogEntry
	if len(row) != len(exportColumns) {
		return entry, fmt.Errorf("expected %d columns, got %d", len(exportColumns), len(row))
	}

	date, err := time.Parse(time.RFC3339Nano, row[0])
	if err != nil {
		return entry, fmt.Errorf("invalid date %q: %w", row[0], err)
	}

	floats := make([]float64, 7)
	for i, cell := range row[3:10] {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return entry, fmt.Errorf("invalid number %q in column %s: %w", cell, exportColumns[i+3], err)
		}
		floats[i] = v
	}

	entry = models.TradeLogEntry{
		Date:       date,
		Coin:       row[1],
		Side:       row[2],
		EntryPrice: floats[0],
		TakeProfit: floats[1],
		StopLoss:   floats[2],
		Capital:    floats[3],
		GainPct:    floats[4],
		NetPnL:     floats[5],
		Balance:    floats[6],
		Status:     row[10],
	}
	return entry, nil
}

// ExportCSV renders entries as delimited text with a header row. Floats
// use the shortest representation that parses back to the identical value,
// so an export/import cycle is lossless.
func ExportCSV(entries []models.TradeLogEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, &PersistenceError{Op: "export csv", Err: err}
	}
	for _, e := range entries {
		if err := w.Write(entryToRow(e)); err != nil {
			return nil, &PersistenceError{Op: "export csv", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, &PersistenceError{Op: "export csv", Err: err}
	}
	return buf.Bytes(), nil
}

// ImportCSV parses a previous CSV export back into entries, preserving
// order. Malformed input surfaces as a PersistenceError.
func ImportCSV(data []byte) ([]models.TradeLogEntry, error) {
	r := csv.NewReader(bytes.NewReader(data))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, &PersistenceError{Op: "import csv", Err: err}
	}
	if len(rows) == 0 {
		return nil, &PersistenceError{Op: "import csv", Err: fmt.Errorf("missing header row")}
	}

	entries := make([]models.TradeLogEntry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		entry, err := rowToEntry(row)
		if err != nil {
			return nil, &PersistenceError{Op: "import csv", Err: fmt.Errorf("row %d: %w", i+1, err)}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ExportXLSX renders entries as a spreadsheet with the same column layout
// as the CSV export. Numeric cells are written at full precision so the
// round trip is lossless here too.
func ExportXLSX(entries []models.TradeLogEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, &PersistenceError{Op: "export xlsx", Err: err}
	}

	for col, name := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, &PersistenceError{Op: "export xlsx", Err: err}
		}
		if err := f.SetCellValue(xlsxSheet, cell, name); err != nil {
			return nil, &PersistenceError{Op: "export xlsx", Err: err}
		}
	}

	for i, e := range entries {
		row := entryToRow(e)
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, &PersistenceError{Op: "export xlsx", Err: err}
			}
			if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
				return nil, &PersistenceError{Op: "export xlsx", Err: err}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &PersistenceError{Op: "export xlsx", Err: err}
	}
	return buf.Bytes(), nil
}

// ImportXLSX parses a previous spreadsheet export back into entries.
func ImportXLSX(data []byte) ([]models.TradeLogEntry, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &PersistenceError{Op: "import xlsx", Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		return nil, &PersistenceError{Op: "import xlsx", Err: err}
	}
	if len(rows) == 0 {
		return nil, &PersistenceError{Op: "import xlsx", Err: fmt.Errorf("missing header row")}
	}

	entries := make([]models.TradeLogEntry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		// GetRows drops trailing empty cells, so a row ending in an empty
		// status cell comes back short. Pad it before parsing.
		if len(row) < len(exportColumns) {
			padded := make([]string, len(exportColumns))
			copy(padded, row)
			row = padded
		}
		entry, err := rowToEntry(row)
		if err != nil {
			return nil, &PersistenceError{Op: "import xlsx", Err: fmt.Errorf("row %d: %w", i+1, err)}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
