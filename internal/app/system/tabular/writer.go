// internal/app/system/tabular/writer.go
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/learnloop/learnloop/internal/app/system/analytics"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// WriteImportTemplate produces an empty .xlsx workbook carrying the
// import header row plus one example row, for admins to download and
// fill in.
func WriteImportTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Users"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	widths := []float64{22, 30, 16, 14, 18, 10}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	for i, h := range ImportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	example := []string{"Jane Doe", "jane.doe@company.com", "555-0100", "E1001", "Springfield", "false"}
	for i, v := range example {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, v)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}

// ResponseReport bundles a question with its answers for export.
type ResponseReport struct {
	Message   models.Message
	Payload   models.MCQPayload
	Responses []models.Response
}

// WriteResponseReportXLSX renders per-question response sheets. Each
// question gets a summary block followed by one row per respondent.
func WriteResponseReportXLSX(reports []ResponseReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})

	for qi, rep := range reports {
		sheet := fmt.Sprintf("Q%d", qi+1)
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
		if qi == 0 {
			f.SetActiveSheet(idx)
			f.DeleteSheet("Sheet1")
		}

		f.SetColWidth(sheet, "A", "A", 28)
		f.SetColWidth(sheet, "B", "D", 24)

		stats := analytics.StatsForMessage(rep.Responses)
		f.SetCellValue(sheet, "A1", "Question")
		f.SetCellValue(sheet, "B1", rep.Payload.Question)
		f.SetCellValue(sheet, "A2", "Correct answer")
		f.SetCellValue(sheet, "B2", rep.Payload.CorrectAnswer)
		f.SetCellValue(sheet, "A3", "Responses")
		f.SetCellValue(sheet, "B3", stats.Total)
		f.SetCellValue(sheet, "A4", "Accuracy %")
		f.SetCellValue(sheet, "B4", stats.AccuracyPct)

		row := 6
		headers := []string{"Name", "Email", "Answer", "Correct"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, h)
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
		for _, r := range rep.Responses {
			row++
			vals := []any{r.UserName, r.UserEmail, r.SelectedAnswer, r.IsCorrect}
			for i, v := range vals {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}

// WriteResponseReportCSV renders the same report as a flat CSV with
// one row per response.
func WriteResponseReportCSV(w io.Writer, reports []ResponseReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Question", "Correct Answer", "Name", "Email", "Answer", "Correct"}); err != nil {
		return err
	}
	for _, rep := range reports {
		for _, r := range rep.Responses {
			rec := []string{
				rep.Payload.Question,
				rep.Payload.CorrectAnswer,
				r.UserName,
				r.UserEmail,
				r.SelectedAnswer,
				strconv.FormatBool(r.IsCorrect),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
