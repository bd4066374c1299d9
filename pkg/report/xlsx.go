package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/apiforge/apiforge/pkg/models"
)

const (
	xlsxMinColumn     = 'A'
	xlsxColumnWidth   = 18
	failedBgColor     = "FF5900"
	slowBgColor       = "FFEB9C"
	slowCaseThreshold = 3000
)

var xlsxHeaders = []string{
	"Case ID", "Title", "Method", "Endpoint", "Status",
	"Response Status", "Time (ms)", "Failed Assertions", "Error",
}

// WriteXLSX writes one worksheet per suite plus a summary block, with
// failed rows highlighted red and slow rows yellow.
func WriteXLSX(path string, results []*models.SuiteResult) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	failedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{failedBgColor}},
	})
	if err != nil {
		return fmt.Errorf("failed to create cell style: %w", err)
	}
	slowStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{slowBgColor}},
	})
	if err != nil {
		return fmt.Errorf("failed to create cell style: %w", err)
	}

	for i, sr := range results {
		sheet := sheetName(sr.SuiteName, i)
		index, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("failed to create worksheet %q: %w", sheet, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}

		for col := 0; col < len(xlsxHeaders); col++ {
			name := string(rune(xlsxMinColumn + col))
			if err := f.SetColWidth(sheet, name, name, xlsxColumnWidth); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
			cell := fmt.Sprintf("%c1", xlsxMinColumn+col)
			if err := f.SetCellValue(sheet, cell, xlsxHeaders[col]); err != nil {
				return fmt.Errorf("failed to write header: %w", err)
			}
		}

		for row, r := range sr.Results {
			if err := writeCaseRow(f, sheet, row+2, r, failedStyle, slowStyle); err != nil {
				return err
			}
		}

		summaryRow := len(sr.Results) + 3
		writeSuiteSummary(f, sheet, summaryRow, sr)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default worksheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report to %q: %w", path, err)
	}
	return nil
}

func writeCaseRow(f *excelize.File, sheet string, row int, r models.CaseResult, failedStyle, slowStyle int) error {
	failedAssertions := ""
	for _, a := range r.Assertions {
		if a.Passed {
			continue
		}
		if failedAssertions != "" {
			failedAssertions += "\n"
		}
		failedAssertions += a.Message
	}

	cells := []any{
		r.CaseID,
		r.CaseTitle,
		r.Method,
		r.Endpoint,
		string(r.Status),
		r.ResponseStatus,
		r.ResponseTimeMS,
		failedAssertions,
		r.ErrorMessage,
	}

	for col, val := range cells {
		cell := fmt.Sprintf("%c%d", xlsxMinColumn+col, row)
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
		if r.Status == models.StatusFailed || r.Status == models.StatusError {
			if err := f.SetCellStyle(sheet, cell, cell, failedStyle); err != nil {
				return fmt.Errorf("failed to style cell %s: %w", cell, err)
			}
		} else if r.ResponseTimeMS > slowCaseThreshold {
			if err := f.SetCellStyle(sheet, cell, cell, slowStyle); err != nil {
				return fmt.Errorf("failed to style cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func writeSuiteSummary(f *excelize.File, sheet string, startRow int, sr *models.SuiteResult) {
	lines := []string{
		"Summary",
		fmt.Sprintf("Total cases: %d", sr.Total),
		fmt.Sprintf("Passed: %d", sr.Passed),
		fmt.Sprintf("Failed: %d", sr.Failed),
		fmt.Sprintf("Errors: %d", sr.Error),
		fmt.Sprintf("Pass rate: %.2f%%", sr.PassRate),
		fmt.Sprintf("Total time: %.1fms", sr.TotalTimeMS),
	}
	for i, line := range lines {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", startRow+i), line)
	}
}

// sheetName keeps worksheet names inside excelize's 31 character limit
// and unique across suites.
func sheetName(name string, idx int) string {
	if name == "" {
		name = fmt.Sprintf("suite_%d", idx+1)
	}
	if len(name) > 28 {
		name = name[:28]
	}
	return fmt.Sprintf("%s_%d", name, idx+1)
}
