// Package report writes the results of a test run as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dayax/webtest/framework"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"

	statusPassed  = "passed"
	statusFailed  = "failed"
	statusSkipped = "skipped"

	patternType    = "pattern"
	patternValue   = 1
	failedBgColor  = "FFC7CE"
	skippedBgColor = "FFEB9C"
)

var headers = []interface{}{"Test", "Status", "Duration (ms)", "Errors"}

// Write writes the workbook to w.
func Write(w io.Writer, results framework.Results, elapsed time.Duration) error {
	f, err := build(results, elapsed)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Save writes the workbook to a file.
func Save(path string, results framework.Results, elapsed time.Duration) error {
	f, err := build(results, elapsed)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("unable to save report: %w", err)
	}
	return nil
}

func build(results framework.Results, elapsed time.Duration) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, err
	}
	if err := writeResults(f, results); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeSummary(f, results, elapsed); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func writeResults(f *excelize.File, results framework.Results) error {
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	failedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{failedBgColor}},
	})
	if err != nil {
		return err
	}
	skippedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{skippedBgColor}},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(resultsSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(resultsSheet, "A1", "D1", headerStyle); err != nil {
		return err
	}
	_ = f.SetColWidth(resultsSheet, "A", "A", 50)
	_ = f.SetColWidth(resultsSheet, "B", "C", 14)
	_ = f.SetColWidth(resultsSheet, "D", "D", 100)

	row := 2
	write := func(r framework.TestResult) error {
		status, style := statusPassed, 0
		switch {
		case r.Skipped:
			status, style = statusSkipped, skippedStyle
		case r.Failed():
			status, style = statusFailed, failedStyle
		}
		messages := make([]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			messages = append(messages, e.Error())
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.TestID.String(),
			status,
			float64(r.Duration.Microseconds()) / 1000,
			strings.Join(messages, "\n"),
		}
		if err := f.SetSheetRow(resultsSheet, cell, &values); err != nil {
			return err
		}
		if style != 0 {
			last, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(resultsSheet, cell, last, style); err != nil {
				return err
			}
		}
		row++
		return nil
	}
	for _, r := range results.Tests {
		if err := write(r); err != nil {
			return err
		}
	}
	for _, r := range results.Skipped {
		if err := write(r); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, results framework.Results, elapsed time.Duration) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Total", len(results.Tests)},
		{"Passed", len(results.Tests) - len(results.Failures)},
		{"Failed", len(results.Failures)},
		{"Skipped", len(results.Skipped)},
		{"Elapsed (ms)", float64(elapsed.Microseconds()) / 1000},
	}
	for i, values := range rows {
		values := values
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &values); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 16)
	return nil
}
