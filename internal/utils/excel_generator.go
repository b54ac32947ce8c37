package utils

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"cavea/internal/models"
)

const sheetName = "Cellar"

// CreateCellarExcel writes a cellar inventory report to filepath.
func CreateCellarExcel(filepath string, items []models.CellarItem) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{"Bottle", "Domain", "Colour", "Region", "Vintage", "Appellation", "Stock", "Rating", "Price", "Added"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, item := range items {
		rowNum := rowIdx + 2 // header occupies the first row

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), bottleName(item))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), domainName(item))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), colourName(item))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), regionName(item))
		if item.Vintage != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), item.Vintage.Year)
		}
		if item.Appellation != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), item.Appellation.Name)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), item.Stock)
		if item.Rating != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowNum), *item.Rating)
		}
		if item.Price != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("I%d", rowNum), *item.Price)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", rowNum),
			item.CreatedAt.Format("2006-01-02"))
	}

	for i := 1; i <= len(headers); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheetName, colName, colName, 18)
	}

	// Highlight empty holdings
	emptyRule := []excelize.ConditionalFormatOptions{
		{
			Type:     "cell",
			Criteria: "==",
			Value:    "0",
			Format:   getFillStyle(f, "#FFCCCC"),
		},
	}
	if err := f.SetConditionalFormat(sheetName, "G2:G10000", emptyRule); err != nil {
		return err
	}

	createSummarySheet(f, items)
	f.SetActiveSheet(index)

	return f.SaveAs(filepath)
}

func createSummarySheet(f *excelize.File, items []models.CellarItem) {
	f.NewSheet("Summary")

	total := 0
	byColour := map[string]int{}
	for _, item := range items {
		total += item.Stock
		byColour[colourName(item)] += item.Stock
	}

	f.SetCellValue("Summary", "A1", "Report Generated")
	f.SetCellValue("Summary", "B1", time.Now().Format("2006-01-02 15:04:05"))
	f.SetCellValue("Summary", "A2", "Distinct Items")
	f.SetCellValue("Summary", "B2", len(items))
	f.SetCellValue("Summary", "A3", "Total Bottles")
	f.SetCellValue("Summary", "B3", total)

	row := 5
	f.SetCellValue("Summary", fmt.Sprintf("A%d", row), "Stock by Colour")
	for colour, stock := range byColour {
		row++
		f.SetCellValue("Summary", fmt.Sprintf("A%d", row), colour)
		f.SetCellValue("Summary", fmt.Sprintf("B%d", row), stock)
	}
}

func bottleName(item models.CellarItem) string {
	if item.Bottle == nil {
		return ""
	}
	return item.Bottle.Name
}

func domainName(item models.CellarItem) string {
	if item.Bottle == nil || item.Bottle.WineDomain == nil {
		return ""
	}
	return item.Bottle.WineDomain.Name
}

func colourName(item models.CellarItem) string {
	if item.Bottle == nil || item.Bottle.Colour == nil {
		return ""
	}
	return item.Bottle.Colour.Name
}

func regionName(item models.CellarItem) string {
	if item.Bottle == nil || item.Bottle.Region == nil {
		return ""
	}
	return item.Bottle.Region.Name
}

func getFillStyle(f *excelize.File, color string) *int {
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil
	}
	return &style
}
