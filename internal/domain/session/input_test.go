package session

import (
	"errors"
	"testing"
)

func TestParsePenalties(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    map[string]string
		count   int
		wantErr bool
	}{
		{name: "none", text: "None", count: 0},
		{name: "none any case", text: "  nOnE \n", count: 0},
		{name: "single", text: "alex 5", want: map[string]string{"alex": "5"}, count: 1},
		{name: "dollar and spaces in name", text: "Mary Ann $2.50\n\nbob 1", want: map[string]string{"Mary Ann": "2.5", "bob": "1"}, count: 2},
		{name: "same worker twice", text: "alex 1\nalex 2", count: 2},
		{name: "empty", text: "  \n ", wantErr: true},
		{name: "missing amount", text: "alex", wantErr: true},
		{name: "bad amount", text: "alex 5\nsam five", wantErr: true},
		{name: "zero amount", text: "alex 0", wantErr: true},
		{name: "negative amount", text: "alex -3", wantErr: true},
		{name: "none with others", text: "None\nalex 3", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			penalties, err := ParsePenalties(tc.text)
			if tc.wantErr {
				var inputErr *InputError
				if !errors.As(err, &inputErr) {
					t.Fatalf("expected input error, got %v", err)
				}
				if penalties != nil {
					t.Fatalf("expected no partial penalties, got %v", penalties)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(penalties) != tc.count {
				t.Fatalf("expected %d penalties, got %v", tc.count, penalties)
			}
			for _, penalty := range penalties {
				if want, ok := tc.want[penalty.Worker]; ok && penalty.Amount.String() != want {
					t.Fatalf("expected %s for %s, got %s", want, penalty.Worker, penalty.Amount)
				}
			}
		})
	}
}

func TestParseCrossCheckerCount(t *testing.T) {
	tests := []struct {
		text    string
		want    int64
		wantErr bool
	}{
		{text: "0", want: 0},
		{text: " 12 \n", want: 12},
		{text: "-1", wantErr: true},
		{text: "ten", wantErr: true},
		{text: "1.5", wantErr: true},
		{text: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.text, func(t *testing.T) {
			got, err := ParseCrossCheckerCount(tc.text)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
