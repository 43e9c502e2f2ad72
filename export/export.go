// Package export renders the per-author monthly report as an xlsx workbook.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"dedup-telegram-bot/engine"
)

const sheetName = "Monthly Report"

var header = []interface{}{"Chat ID", "Author ID", "Display Name", "Phones This Month", "Handles This Month"}

// Workbook builds an xlsx file from snapshot rows and returns its bytes.
func Workbook(rows []engine.SnapshotRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{row.ChatID, row.AuthorID, row.DisplayName, row.PhonesMonth, row.HandlesMonth}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
