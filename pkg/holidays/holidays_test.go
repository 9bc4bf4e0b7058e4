package holidays

import (
	"strings"
	"testing"
)

const sampleDoc = `{
	"year": 2025,
	"months": [
		{"month": 1, "days": "1", "name": "Confraternização Universal"},
		{"month": 3, "days": "3*,4*", "name": "Carnaval"},
		{"month": 4, "days": "18,21", "name": "Feriados de abril"},
		{"month": 12, "days": "25", "name": "Natal"}
	]
}`

func TestParse(t *testing.T) {
	t.Parallel()

	got, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 holidays, got %d", len(got))
	}

	first := got[0]
	if first.Year != 2025 || first.Month != 1 || first.Day != 1 {
		t.Errorf("first holiday = %+v", first)
	}
	if first.Description != "Confraternização Universal" {
		t.Errorf("first description = %q", first.Description)
	}
	if first.Date() != "2025-01-01" {
		t.Errorf("Date() = %q", first.Date())
	}

	carnaval := got[1]
	if carnaval.Month != 3 || carnaval.Day != 3 {
		t.Errorf("carnaval = %+v", carnaval)
	}
	if !strings.HasSuffix(carnaval.Description, "(facultativo)") {
		t.Errorf("optional marker missing from %q", carnaval.Description)
	}

	natal := got[5]
	if natal.Month != 12 || natal.Day != 25 || natal.Description != "Natal" {
		t.Errorf("natal = %+v", natal)
	}
}

func TestParse_SkipsEmptyDayEntries(t *testing.T) {
	t.Parallel()

	got, err := Parse([]byte(`{"year": 2025, "months": [{"month": 6, "days": "12,,19", "name": "Junho"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 holidays, got %d", len(got))
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  string
	}{
		{"malformed json", `{"year": 2025,`},
		{"year out of range", `{"year": 1800, "months": []}`},
		{"invalid month", `{"year": 2025, "months": [{"month": 13, "days": "1", "name": "x"}]}`},
		{"non-numeric day", `{"year": 2025, "months": [{"month": 1, "days": "abc", "name": "x"}]}`},
		{"day out of range", `{"year": 2025, "months": [{"month": 2, "days": "30", "name": "x"}]}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse([]byte(tc.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := ParseFile("testdata/does-not-exist.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
