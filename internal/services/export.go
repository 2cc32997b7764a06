package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// ExportStore provides the grouped answer rows for the full report,
// ordered by question then descending count.
type ExportStore interface {
	ExportRows() []ExportRow
}

type ExportService struct {
	store ExportStore
}

func NewExportService(store ExportStore) *ExportService {
	return &ExportService{store: store}
}

// BuildCSV renders the full survey report. Per question, the grouped answers
// run through the permissive export clustering before percentages are
// computed, so near-duplicate spellings collapse into one line. Output is
// semicolon-separated with a UTF-8 BOM so spreadsheet tools open the French
// text correctly.
func (s *ExportService) BuildCSV() ([]byte, error) {
	rows := s.store.ExportRows()

	buf := &bytes.Buffer{}
	buf.WriteString("\ufeff")
	w := csv.NewWriter(buf)
	w.Comma = ';'
	if err := w.Write([]string{"Catégorie", "Question", "Réponse", "Nombre", "Pourcentage"}); err != nil {
		return nil, err
	}

	for start := 0; start < len(rows); {
		end := start
		for end < len(rows) && rows[end].QuestionID == rows[start].QuestionID {
			end++
		}
		group := rows[start:end]

		items := make([]AnswerCount, 0, len(group))
		for _, r := range group {
			items = append(items, AnswerCount{Text: r.Answer, Count: r.Count})
		}
		clusters := ClusterAnswers(items)

		total := 0
		for _, c := range clusters {
			total += c.Count
		}
		for _, c := range clusters {
			pct := 0
			if total > 0 {
				pct = roundPct(c.Count, total)
			}
			rec := []string{
				group[0].Category,
				group[0].Question,
				c.Text,
				strconv.Itoa(c.Count),
				strconv.Itoa(pct) + "%",
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
		start = end
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
