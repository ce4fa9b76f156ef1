package importexport

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Wide text columns get extra room in XLSX output so editors can actually
// work in the sheet. Everything else falls back to defaultColWidth.
var xlsxColWidths = map[string]float64{
	"web_body":         80,
	"whatsapp_body":    80,
	"variation_body":   80,
	"sms_body":         60,
	"ussd_body":        60,
	"messenger_body":   60,
	"viber_body":       60,
	"body":             80,
	"question":         60,
	"explainer":        60,
	"answers":          60,
	"answer_responses": 60,
	"generic_error":    40,
	"buttons":          40,
	"related_pages":    40,
	"slug":             30,
	"parent":           30,
	"web_title":        30,
	"whatsapp_title":   30,
	"name":             30,
	"title":            30,
}

const defaultColWidth = 18

// WriteCSV renders rows under headers. Cell quoting is left to encoding/csv,
// which keeps the output readable by the import parser as is.
func WriteCSV(headers []string, rows []ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, err
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX renders rows to a single-sheet workbook with a bold, frozen
// header row and wrapped text cells.
func WriteXLSX(headers []string, rows []ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerCells := make([]interface{}, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return nil, err
	}

	record := make([]interface{}, len(headers))
	for r, row := range rows {
		for i, h := range headers {
			record[i] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{
			Vertical: "center",
		},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", fmt.Sprintf("%s1", lastCol), headerStyle); err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		bodyStyle, err := f.NewStyle(&excelize.Style{
			Alignment: &excelize.Alignment{
				WrapText: true,
				Vertical: "top",
			},
		})
		if err != nil {
			return nil, err
		}
		lastCell := fmt.Sprintf("%s%d", lastCol, len(rows)+1)
		if err := f.SetCellStyle(sheet, "A2", lastCell, bodyStyle); err != nil {
			return nil, err
		}
	}

	for i, h := range headers {
		width, ok := xlsxColWidths[h]
		if !ok {
			width = defaultColWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, err
		}
	}

	// Keep the header visible and the identity columns pinned while
	// scrolling.
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
