package utils

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/quanghuy/intelliquiz-backend/models"
)

// ExportResultsXLSX renders quiz results as an .xlsx workbook for lecturers.
func ExportResultsXLSX(quiz models.Quiz, results []models.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Student", "Email", "Reg No", "Score", "Total", "Percentage", "Passed", "Submitted At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, r := range results {
		regNo := ""
		if r.Student.RegNo != nil {
			regNo = *r.Student.RegNo
		}
		values := []interface{}{
			r.Student.FirstName + " " + r.Student.LastName,
			r.Student.Email,
			regNo,
			r.Score,
			r.TotalQuestions,
			fmt.Sprintf("%.2f", r.Percentage),
			r.PassingStatus,
			r.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
