// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/company-dns/pkg/types"
)

// Sheet is a header row plus data rows ready for export.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// IndustrySheet lays out industry codes one per row. Attribute columns are
// the union of attribute names across the records, sorted.
func IndustrySheet(codes []types.IndustryCode) Sheet {
	seen := make(map[string]bool)
	var attrs []string
	for _, c := range codes {
		for _, k := range c.AdditionalData.Keys() {
			if !seen[k] {
				seen[k] = true
				attrs = append(attrs, k)
			}
		}
	}
	sort.Strings(attrs)

	header := append([]string{"Source Type", "Code", "Description"}, attrs...)
	rows := make([][]any, 0, len(codes))
	for _, c := range codes {
		row := []any{string(c.SourceType), c.Code, c.Description}
		for _, k := range attrs {
			row = append(row, c.AdditionalData[k])
		}
		rows = append(rows, row)
	}
	return Sheet{Name: "Industry Codes", Header: header, Rows: rows}
}

// FilingSheet lays out EDGAR filings one per row.
func FilingSheet(filings []types.Filing) Sheet {
	header := []string{
		"Filing Date", "Form", "Company", "CIK", "Ticker", "SIC", "SIC Description",
		"Division", "Fiscal Year End", "State", "Latest 10-K", "Latest 10-Q", "Accession", "URL",
	}
	rows := make([][]any, 0, len(filings))
	for _, f := range filings {
		var k, q string
		if f.Latest10K != nil {
			k = f.Latest10K.Date
		}
		if f.Latest10Q != nil {
			q = f.Latest10Q.Date
		}
		rows = append(rows, []any{
			f.FilingDate, f.FilingType, f.CompanyName, f.CIK, f.Ticker, f.SIC.Code, f.SIC.Description,
			f.SIC.Division, types.FiscalYearEndLabel(f.FiscalYearEnd), f.Location.StateProvince,
			k, q, f.AccessionNumber, f.DocumentURL,
		})
	}
	return Sheet{Name: "Filings", Header: header, Rows: rows}
}

// WriteXLSX writes sheet as a single-sheet workbook with a bold header row.
func WriteXLSX(sheet Sheet, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = "Results"
	}
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, row := range sheet.Rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(name, cellName, &r); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// ExportXLSX writes sheet to path.
func ExportXLSX(sheet Sheet, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteXLSX(sheet, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
