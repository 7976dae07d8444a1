package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cafepos/internal/models"
	"cafepos/pkg/utils"

	"github.com/xuri/excelize/v2"
)

// Export formats accepted by Write.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const sheetName = "Bericht"

// rows lays the summary out as a table: the totals first, then top products and
// employee performance, each block headed by its column names.
func rows(summary models.ReportSummary) [][]string {
	out := [][]string{
		{"Kategorie", "Wert"},
		{"Umsatz", utils.FormatAmount(summary.TotalRevenue)},
		{"Mehrwertsteuer", utils.FormatAmount(summary.TotalVat)},
		{"Rabatte", utils.FormatAmount(summary.TotalDiscounts)},
		{},
		{"Produkt", "Menge", "Umsatz"},
	}
	for _, stat := range summary.TopProducts {
		out = append(out, []string{stat.Product.Name, strconv.Itoa(stat.QuantitySold), utils.FormatAmount(stat.Revenue)})
	}
	out = append(out, []string{}, []string{"Mitarbeiter", "Verkäufe", "Umsatz"})
	for _, stat := range summary.EmployeePerformance {
		out = append(out, []string{stat.Employee.Name, strconv.Itoa(stat.SalesCount), utils.FormatAmount(stat.Revenue)})
	}
	return out
}

// Write renders summary in the given format.
func Write(w io.Writer, format string, summary models.ReportSummary) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, summary)
	case FormatXLSX:
		return WriteXLSX(w, summary)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

func WriteCSV(w io.Writer, summary models.ReportSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows(summary)); err != nil {
		return fmt.Errorf("writing csv report: %w", err)
	}
	return nil
}

func WriteXLSX(w io.Writer, summary models.ReportSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("preparing xlsx sheet: %w", err)
	}
	for i, row := range rows(summary) {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing xlsx row %d: %w", i+1, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			if n, err := strconv.ParseFloat(v, 64); err == nil && j > 0 {
				values[j] = n
			} else {
				values[j] = v
			}
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing xlsx row %d: %w", i+1, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx report: %w", err)
	}
	return nil
}
