package importexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", v)
	}
}

// Row is one source data row: normalized header name to trimmed cell value.
// Empty cells are absent from the mapping. Rows are never mutated after the
// parser returns them.
type Row struct {
	// Number is the 1-based file row number; the header is row 1, so data
	// rows start at 2.
	Number  int
	headers []string
	values  map[string]string
}

func (r Row) Get(name string) string { return r.values[name] }

func (r Row) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

func (r Row) Headers() []string { return r.headers }

// normalizeHeader trims, casefolds and snake-cases one header cell.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

// ParseFile reads CSV or XLSX bytes into an ordered sequence of Rows.
func ParseFile(data []byte, format Format) ([]Row, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(data)
	case FormatXLSX:
		records, err = readXLSX(data)
	default:
		return nil, formatError(0, "unsupported format: %q", format)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, formatError(0, "missing header row")
	}

	headers := make([]string, len(records[0]))
	seen := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		n := normalizeHeader(h)
		headers[i] = n
		if n == "" {
			continue
		}
		if prev, dup := seen[n]; dup {
			return nil, formatError(1, "duplicate header %q (columns %d and %d)", n, prev+1, i+1)
		}
		seen[n] = i
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		values := make(map[string]string, len(rec))
		for j, cell := range rec {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			v := strings.TrimSpace(cell)
			if v == "" {
				continue
			}
			values[headers[j]] = v
		}
		if len(values) == 0 {
			continue
		}
		rows = append(rows, Row{Number: i + 2, headers: headers, values: values})
	}
	if len(rows) == 0 {
		return nil, formatError(0, "no data rows found")
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		// legacy exports are sometimes Latin-1 encoded
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return nil, formatError(0, "undecodable file contents: %v", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, formatError(line, "malformed csv: %v", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, formatError(0, "unreadable xlsx file: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, formatError(0, "xlsx file has no worksheets")
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, formatError(0, "unreadable worksheet %q: %v", sheets[0], err)
	}

	records := make([][]string, 0, len(raw))
	for _, rec := range raw {
		// drop trailing empty cells so ragged sheets map onto headers cleanly
		end := len(rec)
		for end > 0 && strings.TrimSpace(rec[end-1]) == "" {
			end--
		}
		rec = rec[:end]
		for i, cell := range rec {
			rec[i] = stripExcelArtifacts(cell)
		}
		records = append(records, rec)
	}
	return records, nil
}

// stripExcelArtifacts removes the literal "_x000D_" carriage-return escapes
// Excel injects into multi-line cell values.
func stripExcelArtifacts(v string) string {
	v = strings.ReplaceAll(v, "_x000D_", "")
	return strings.ReplaceAll(v, "_x000D", "")
}
