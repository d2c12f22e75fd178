package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/quanghuy/intelliquiz-backend/models"
)

func TestExportResultsXLSX(t *testing.T) {
	regNo := "B19DCCN123"
	results := []models.Result{
		{
			Student: models.User{
				FirstName: "An",
				LastName:  "Nguyen",
				Email:     "an@uni.edu",
				RegNo:     &regNo,
			},
			Score:          7,
			TotalQuestions: 10,
			Percentage:     70,
			PassingStatus:  true,
			SubmittedAt:    time.Date(2026, 5, 12, 9, 30, 0, 0, time.UTC),
		},
	}

	data, err := ExportResultsXLSX(models.Quiz{Title: "Final"}, results)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Results")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header plus one result", len(rows))
	}
	if rows[0][0] != "Student" || rows[0][3] != "Score" {
		t.Fatalf("header row = %v", rows[0])
	}
	if rows[1][0] != "An Nguyen" || rows[1][2] != "B19DCCN123" {
		t.Fatalf("data row = %v", rows[1])
	}
	if rows[1][5] != "70.00" {
		t.Fatalf("percentage cell = %q, want 70.00", rows[1][5])
	}
}
