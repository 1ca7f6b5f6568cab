package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

// WriteXLSX writes a workbook with a Transactions sheet and a Summary sheet.
func (s *Service) WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := setRow(f, transactionsSheet, 1, headers); err != nil {
		return err
	}

	for i, row := range r.Rows {
		if err := setRow(f, transactionsSheet, i+2, s.cells(row)); err != nil {
			return err
		}
	}

	if err := setRow(f, summarySheet, 1, []string{"Summary", "Amount"}); err != nil {
		return err
	}

	for i, line := range s.summary(r) {
		if err := setRow(f, summarySheet, i+2, line); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(transactionsSheet, "A1", "E1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	if err := f.SetCellStyle(summarySheet, "A1", "B1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	if err := f.SetColWidth(transactionsSheet, "A", "D", 14); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err := f.SetColWidth(transactionsSheet, "E", "E", 40); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err := f.SetColWidth(summarySheet, "A", "B", 18); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolving cell: %w", err)
	}

	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}

	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}

	return nil
}

// WriteCSV writes the transaction rows, a blank line, then the summary block.
func (s *Service) WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range r.Rows {
		if err := cw.Write(s.cells(row)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	if err := cw.Write([]string{"Summary", "Amount"}); err != nil {
		return fmt.Errorf("writing summary header: %w", err)
	}

	for _, line := range s.summary(r) {
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}
