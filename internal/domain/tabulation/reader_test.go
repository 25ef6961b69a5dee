package tabulation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	data := []byte("Name,ROLE,Bonuses,Log Count\nalex,Worker,10.50,400\nkim,manager,\"$1,200.00\",0\nsam,worker,4.50,600\n")

	rows, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1].Role != "manager" || !rows[1].BonusAmount.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("unexpected row: %+v", rows[1])
	}
	if rows[2].LogCount == nil || *rows[2].LogCount != 600 {
		t.Fatalf("expected log count 600, got %+v", rows[2].LogCount)
	}

	agg := Aggregate(rows)
	if !agg.BonusesTotal.Equal(decimal.RequireFromString("1215")) {
		t.Fatalf("unexpected bonuses total %s", agg.BonusesTotal)
	}
	if !agg.WorkerBonusesTotal.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("unexpected worker bonuses %s", agg.WorkerBonusesTotal)
	}
	if agg.Logs != 1000 {
		t.Fatalf("expected 1000 logs, got %d", agg.Logs)
	}
}

func TestParseWithoutLogColumnCountsRows(t *testing.T) {
	rows, err := Parse([]byte("role,bonus\nworker,1\nworker,\n\nsquad,3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	agg := Aggregate(rows)
	if agg.Logs != 3 || agg.RowCount != 3 {
		t.Fatalf("expected logs to equal row count 3, got %+v", agg)
	}
	if rows[0].LogCount != nil {
		t.Fatal("expected no log count without the column")
	}
	if !agg.WorkerBonusesTotal.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected empty bonus to count as zero, got %s", agg.WorkerBonusesTotal)
	}
}

func TestParseColumnResolution(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantField string
	}{
		{name: "singular and plural", data: "Roles,Bonus_Amount\nworker,1\n"},
		{name: "header after blank lines", data: "\n,\nrole,BONUS\nworker,1\n"},
		{name: "missing bonus", data: "role,amount\nworker,1\n", wantField: FieldBonus},
		{name: "missing role", data: "position,bonus\nworker,1\n", wantField: FieldRole},
		{name: "prefix is not a match", data: "role,bonus_note\nworker,1\n", wantField: FieldBonus},
		{name: "ambiguous bonus", data: "role,bonus,bonuses\nworker,1,2\n", wantField: FieldBonus},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("expected format error, got %v", err)
			}
			if formatErr.Field != tc.wantField {
				t.Fatalf("expected field %s, got %s", tc.wantField, formatErr.Field)
			}
		})
	}
}

func TestParseRejectsBadCells(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantField string
		wantRow   int
	}{
		{name: "text bonus", data: "role,bonus\nworker,lots\n", wantField: FieldBonus, wantRow: 2},
		{name: "fractional logs", data: "role,bonus,logs\nworker,1,2.5\n", wantField: FieldLogCount, wantRow: 2},
		{name: "negative logs", data: "role,bonus,logs\nworker,1,3\nworker,1,-3\n", wantField: FieldLogCount, wantRow: 3},
		{name: "negative bonus", data: "Role,Bonus\nworker,10\nlead,-50\n", wantField: FieldBonus, wantRow: 3},
		{name: "logs beyond int64", data: "role,bonus,logs\nworker,1,9223372036854775808\n", wantField: FieldLogCount, wantRow: 2},
		{name: "log total overflows", data: "role,bonus,logs\nworker,1,9223372036854775807\nworker,1,1\n", wantField: FieldLogCount, wantRow: 3},
		{name: "broken csv quote", data: "Role,Bonus\nworker,\"20\n", wantField: FieldFile, wantRow: 2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("expected format error, got %v", err)
			}
			if formatErr.Field != tc.wantField || formatErr.Row != tc.wantRow {
				t.Fatalf("expected %s row %d, got %+v", tc.wantField, tc.wantRow, formatErr)
			}
		})
	}
}

func TestParseRejectsUnreadableFiles(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "truncated xlsx", data: []byte("PK\x03\x04not really a zip")},
		{name: "truncated xls", data: []byte{0xD0, 0xCF, 0x11, 0xE0, 0x00, 0x01}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.data)
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("expected format error, got %v", err)
			}
			if formatErr.Field != FieldFile {
				t.Fatalf("expected file-level error, got %+v", formatErr)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse([]byte("\n\n")); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestParseXLSX(t *testing.T) {
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	values := [][]any{
		{"Role", "Bonus", "LogCount"},
		{"worker", 12.5, 500},
		{"lead", 30, 500},
	}
	for i, row := range values {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := file.SetSheetRow(sheet, cellName, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := file.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	agg := Aggregate(rows)
	if !agg.BonusesTotal.Equal(decimal.RequireFromString("42.5")) {
		t.Fatalf("unexpected bonuses total %s", agg.BonusesTotal)
	}
	if !agg.WorkerBonusesTotal.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected worker bonuses %s", agg.WorkerBonusesTotal)
	}
	if agg.Logs != 1000 {
		t.Fatalf("expected 1000 logs, got %d", agg.Logs)
	}
}
