package tabulation

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/extrame/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const maxXLSRows = 100000

var maxCount = decimal.NewFromInt(math.MaxInt64)

var (
	xlsxMagic = []byte("PK\x03\x04")
	xlsMagic  = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

func Parse(data []byte) ([]WorkRow, error) {
	records, err := readRecords(data)
	if err != nil {
		return nil, err
	}

	headerAt := -1
	for i, record := range records {
		if !blankRecord(record) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrEmptyFile
	}

	index, err := resolveColumns(records[headerAt])
	if err != nil {
		return nil, err
	}
	_, hasLogs := index[FieldLogCount]
	var logsTotal int64

	rows := make([]WorkRow, 0, len(records)-headerAt-1)
	for i := headerAt + 1; i < len(records); i++ {
		record := records[i]
		if blankRecord(record) {
			continue
		}
		rowNumber := i + 1

		bonus, err := parseMoney(cell(record, index[FieldBonus]))
		if err != nil {
			return nil, &FormatError{Field: FieldBonus, Row: rowNumber, Reason: err.Error()}
		}
		row := WorkRow{
			Role:        cell(record, index[FieldRole]),
			BonusAmount: bonus,
		}
		if hasLogs {
			count, err := parseCount(cell(record, index[FieldLogCount]))
			if err != nil {
				return nil, &FormatError{Field: FieldLogCount, Row: rowNumber, Reason: err.Error()}
			}
			if count > math.MaxInt64-logsTotal {
				return nil, &FormatError{Field: FieldLogCount, Row: rowNumber, Reason: "log total is too large"}
			}
			logsTotal += count
			row.LogCount = &count
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readRecords(data []byte) ([][]string, error) {
	switch {
	case bytes.HasPrefix(data, xlsxMagic):
		return readXLSX(data)
	case bytes.HasPrefix(data, xlsMagic):
		return readXLS(data)
	default:
		return readCSV(data)
	}
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fileError("unreadable xlsx: %v", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrEmptyFile
	}
	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fileError("unreadable sheet %s: %v", sheetName, err)
	}
	return rows, nil
}

// readXLS recovers from panics inside the xls decoder, which it raises on
// truncated or malformed workbooks.
func readXLS(data []byte) (records [][]string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			records, err = nil, fileError("unreadable xls: %v", rec)
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fileError("unreadable xls: %v", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, ErrEmptyFile
	}
	if workbook.NumSheets() > 1 {
		return nil, fileError("multiple worksheets found; upload a file with a single sheet")
	}
	return workbook.ReadAllCells(maxXLSRows), nil
}

func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &FormatError{Field: FieldFile, Row: parseErr.Line, Reason: "invalid csv: " + parseErr.Err.Error()}
			}
			return nil, fileError("invalid csv: %v", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func blankRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func parseMoney(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	if cleaned == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", raw)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%q is negative", raw)
	}
	return value, nil
}

func parseCount(raw string) (int64, error) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	if cleaned == "" {
		return 0, nil
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil || !value.IsInteger() {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	if value.IsNegative() {
		return 0, fmt.Errorf("%q is negative", raw)
	}
	if value.GreaterThan(maxCount) {
		return 0, fmt.Errorf("%q is too large", raw)
	}
	return value.IntPart(), nil
}
