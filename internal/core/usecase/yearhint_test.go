package usecase

import "testing"

func TestExtractYearRange(t *testing.T) {
	tests := []struct {
		query    string
		from, to int
		ok       bool
	}{
		{"steam generator 1985-1990 inspection", 1985, 1990, true},
		{"reports 1992 to 1994", 1992, 1994, true},
		{"incident from 1998", 1998, 1998, true},
		{"reversed 1990-1985 range", 1985, 1990, true},
		{"no years here", 0, 0, false},
		{"serial 12345 is not a year", 0, 0, false},
	}
	for _, tt := range tests {
		from, to, ok := extractYearRange(tt.query)
		if ok != tt.ok || from != tt.from || to != tt.to {
			t.Fatalf("%q: expected (%d,%d,%v), got (%d,%d,%v)", tt.query, tt.from, tt.to, tt.ok, from, to, ok)
		}
	}
}

func TestQueryImpliesPre1999(t *testing.T) {
	if !queryImpliesPre1999("inspection reports 1985-1990") {
		t.Fatal("expected pre-1999 range to imply the legacy library")
	}
	if queryImpliesPre1999("inspection reports 2015-2020") {
		t.Fatal("expected modern range not to imply the legacy library")
	}
	if queryImpliesPre1999("steam generator tubes") {
		t.Fatal("expected a year-free query not to imply the legacy library")
	}
}

func TestYearRangeToDates(t *testing.T) {
	from, to := yearRangeToDates(1985, 1990)
	if from != "1985-01-01" || to != "1990-12-31" {
		t.Fatalf("expected full calendar bounds, got %s / %s", from, to)
	}
}
