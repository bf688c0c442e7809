package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// MaxUploadBytes is the largest upload the HTTP layer accepts.
const MaxUploadBytes = 10 << 20

// Format identifies the decoder used for an upload
type Format string

const (
	FormatCSV         Format = "csv"
	FormatSpreadsheet Format = "spreadsheet"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat picks the decoder from the file extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xls":
		return FormatSpreadsheet, nil
	default:
		return "", &ParseError{
			Filename: filename,
			Reason:   "unsupported file type, expected .xlsx, .xls or .csv",
		}
	}
}

// IsUnsupportedType reports whether err is the ParseError DetectFormat returns
// for an unknown extension.
func IsUnsupportedType(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && strings.HasPrefix(pe.Reason, "unsupported file type")
}

// Parse decodes an uploaded file into data rows, selecting CSV or
// spreadsheet decoding by extension.
func Parse(data []byte, filename string) ([]Row, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	var rows []Row
	switch format {
	case FormatCSV:
		rows, err = ParseCSV(data)
	default:
		rows, err = ParseSpreadsheet(data)
	}
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Filename = filename
		}
		return nil, err
	}
	return rows, nil
}

// ParseCSV splits the buffer on newlines and then on commas. The first
// non-blank line is the header. Cells are trimmed and one pair of surrounding
// double quotes is removed; quoted commas are NOT supported and split the cell.
func ParseCSV(data []byte) ([]Row, error) {
	text := decodeText(data)

	lines := strings.Split(text, "\n")
	type numbered struct {
		no   int
		text string
	}
	var content []numbered
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		content = append(content, numbered{no: i + 1, text: line})
	}

	if len(content) < 2 {
		return nil, &ParseError{Reason: "csv needs a header line and at least one data line"}
	}

	header := splitCSVLine(content[0].text)
	rows := make([]Row, 0, len(content)-1)
	for i, line := range content[1:] {
		rows = append(rows, NewRow(i+1, line.no, header, splitCSVLine(line.text)))
	}
	return rows, nil
}

// ParseSpreadsheet reads the first sheet of an XLSX workbook. The first row
// is the header; fully blank rows are skipped.
func ParseSpreadsheet(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Reason: "unreadable workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Reason: "workbook has no sheets"}
	}

	grid, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("cannot read sheet %q", sheets[0]), Err: err}
	}

	headerAt := -1
	for i, cells := range grid {
		if !blankCells(cells) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, &ParseError{Reason: fmt.Sprintf("sheet %q is empty", sheets[0])}
	}

	header := make([]string, len(grid[headerAt]))
	for i, c := range grid[headerAt] {
		header[i] = cleanCell(c)
	}

	var rows []Row
	for i := headerAt + 1; i < len(grid); i++ {
		if blankCells(grid[i]) {
			continue
		}
		cells := make([]string, len(grid[i]))
		for j, c := range grid[i] {
			cells[j] = cleanCell(c)
		}
		rows = append(rows, NewRow(len(rows)+1, i+1, header, cells))
	}

	if len(rows) == 0 {
		return nil, &ParseError{Reason: fmt.Sprintf("sheet %q has no data rows", sheets[0])}
	}
	return rows, nil
}

// decodeText strips a UTF-8 BOM and falls back to Windows-1252 when the bytes
// are not valid UTF-8 (Excel "CSV" exports on es-CO machines).
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

func splitCSVLine(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = cleanCell(p)
	}
	return parts
}

func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func blankCells(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
