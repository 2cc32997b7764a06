package services

import (
	"encoding/csv"
	"strings"
	"testing"
)

type stubExportStore struct {
	rows []ExportRow
}

func (s *stubExportStore) ExportRows() []ExportRow { return s.rows }

func TestBuildCSV(t *testing.T) {
	store := &stubExportStore{rows: []ExportRow{
		{QuestionID: 1, Category: "nourriture", Question: "Fast food ?", Answer: "mcdo", Count: 10},
		{QuestionID: 1, Category: "nourriture", Question: "Fast food ?", Answer: "macdo", Count: 3},
		{QuestionID: 1, Category: "nourriture", Question: "Fast food ?", Answer: "quick", Count: 7},
		{QuestionID: 2, Category: "vacances", Question: "Pays ?", Answer: "japon", Count: 4},
	}}
	b, err := NewExportService(store).BuildCSV()
	if err != nil {
		t.Fatalf("build csv: %v", err)
	}

	out := string(b)
	if !strings.HasPrefix(out, "\ufeff") {
		t.Fatal("missing UTF-8 BOM")
	}

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff")))
	r.Comma = ';'
	recs, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if got := strings.Join(recs[0], ";"); got != "Catégorie;Question;Réponse;Nombre;Pourcentage" {
		t.Fatalf("bad header: %s", got)
	}
	// mcdo and macdo collapse into one cluster of 13; quick stays apart.
	want := [][]string{
		{"nourriture", "Fast food ?", "mcdo", "13", "65%"},
		{"nourriture", "Fast food ?", "quick", "7", "35%"},
		{"vacances", "Pays ?", "japon", "4", "100%"},
	}
	if len(recs) != 1+len(want) {
		t.Fatalf("got %d data rows, want %d", len(recs)-1, len(want))
	}
	for i, w := range want {
		if got := strings.Join(recs[i+1], ";"); got != strings.Join(w, ";") {
			t.Errorf("row %d = %s, want %s", i, got, strings.Join(w, ";"))
		}
	}
}

func TestBuildCSVEmpty(t *testing.T) {
	b, err := NewExportService(&stubExportStore{}).BuildCSV()
	if err != nil {
		t.Fatalf("build csv: %v", err)
	}
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(b), "\ufeff")))
	r.Comma = ';'
	recs, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d rows, want header only", len(recs))
	}
}
