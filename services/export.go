package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"social-publisher-platform/models"
)

var historyHeaders = []string{
	"Created", "Status", "Platform", "Post ID", "Category", "Prompt", "Content", "Image URL",
}

// BuildHistoryWorkbook renders the user's content history as an Excel
// workbook, one row per record, newest first as supplied.
func BuildHistoryWorkbook(items []models.GeneratedContent) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheetName = "Content History"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for i, header := range historyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, item := range items {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), item.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), item.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), item.Platform)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), item.PostID)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), item.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), item.Prompt)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), item.GeneratedContent)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), item.GeneratedImageURL)
	}

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "F", "G", 60)
	f.SetColWidth(sheetName, "H", "H", 40)

	return f, nil
}
