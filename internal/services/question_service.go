package services

import "strings"

// QuestionStore abstracts persistence for question/category administration.
type QuestionStore interface {
	GetQuestion(id int64) *Question
	ListQuestions() []*Question
	AddQuestion(categoryID int64, text string) *Question
	UpdateQuestion(id, categoryID int64, text string) bool
	DeleteQuestion(id int64) bool
	ListCategories() []*Category
	AddCategory(name string) *Category
	ListAnswerCounts(questionID int64) []AnswerCount
	MergeAnswers(questionID int64, texts []string, canonical string) int
	TotalAnswers() int
	CompleteQuestions(threshold int) int
	ActiveQuestions() int
}

type Stats struct {
	TotalAnswers      int `json:"totalAnswers"`
	CompleteQuestions int `json:"completeQuestions"`
	TotalQuestions    int `json:"totalQuestions"`
	Threshold         int `json:"threshold"`
}

// AnswerEntry is one grouped answer row in the admin view.
type AnswerEntry struct {
	Text       string `json:"text"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// QuestionAnswers is the per-question curation view: grouped answers plus a
// coverage verdict on the top five buckets.
type QuestionAnswers struct {
	Question   *Question     `json:"question"`
	Answers    []AnswerEntry `json:"answers"`
	TotalCount int           `json:"totalCount"`
	Top5Pct    int           `json:"top5Pct"`
	Top5Status string        `json:"top5Status"`
}

type QuestionService struct {
	store QuestionStore
}

func NewQuestionService(store QuestionStore) *QuestionService {
	return &QuestionService{store: store}
}

func (s *QuestionService) Stats(threshold int) Stats {
	return Stats{
		TotalAnswers:      s.store.TotalAnswers(),
		CompleteQuestions: s.store.CompleteQuestions(threshold),
		TotalQuestions:    s.store.ActiveQuestions(),
		Threshold:         threshold,
	}
}

func (s *QuestionService) Categories() []*Category { return s.store.ListCategories() }

func (s *QuestionService) CreateCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidError("nom requis")
	}
	return s.store.AddCategory(name), nil
}

func (s *QuestionService) Questions() []*Question { return s.store.ListQuestions() }

func (s *QuestionService) CreateQuestion(categoryID int64, text string) (*Question, error) {
	text = strings.TrimSpace(text)
	if categoryID <= 0 || text == "" {
		return nil, NewInvalidError("catégorie et texte requis")
	}
	return s.store.AddQuestion(categoryID, text), nil
}

func (s *QuestionService) UpdateQuestion(id, categoryID int64, text string) error {
	text = strings.TrimSpace(text)
	if categoryID <= 0 || text == "" {
		return NewInvalidError("catégorie et texte requis")
	}
	if !s.store.UpdateQuestion(id, categoryID, text) {
		return NewNotFoundError("question introuvable")
	}
	return nil
}

func (s *QuestionService) DeleteQuestion(id int64) error {
	if !s.store.DeleteQuestion(id) {
		return NewNotFoundError("question introuvable")
	}
	return nil
}

// AnswersOverview builds the grouped answer list with percentages and the
// top-5 coverage verdict. Under 20 answers the verdict stays neutral; 60-85%
// coverage reads as a healthy spread for the game, above is too concentrated,
// below too scattered.
func (s *QuestionService) AnswersOverview(id int64) (*QuestionAnswers, error) {
	q := s.store.GetQuestion(id)
	if q == nil {
		return nil, NewNotFoundError("question introuvable")
	}
	counts := s.store.ListAnswerCounts(id)
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	entries := make([]AnswerEntry, 0, len(counts))
	for _, c := range counts {
		pct := 0
		if total > 0 {
			pct = roundPct(c.Count, total)
		}
		entries = append(entries, AnswerEntry{Text: c.Text, Count: c.Count, Percentage: pct})
	}

	top5Count := 0
	for i, c := range counts {
		if i >= 5 {
			break
		}
		top5Count += c.Count
	}
	top5Pct := 0
	if total > 0 {
		top5Pct = roundPct(top5Count, total)
	}
	status := "neutral"
	if total >= 20 {
		switch {
		case top5Pct >= 60 && top5Pct <= 85:
			status = "good"
		case top5Pct > 85:
			status = "concentrated"
		default:
			status = "scattered"
		}
	}
	return &QuestionAnswers{Question: q, Answers: entries, TotalCount: total, Top5Pct: top5Pct, Top5Status: status}, nil
}

// Merge rewrites every answer whose text matches one of the sources to the
// canonical text. This is the explicit admin-triggered bulk update; the live
// pipeline never mutates stored answers.
func (s *QuestionService) Merge(questionID int64, texts []string, canonical string) (int, error) {
	canonical = strings.TrimSpace(canonical)
	if questionID <= 0 || len(texts) == 0 || canonical == "" {
		return 0, NewInvalidError("données invalides")
	}
	lowered := make([]string, 0, len(texts))
	for _, t := range texts {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			lowered = append(lowered, t)
		}
	}
	if len(lowered) == 0 {
		return 0, NewInvalidError("données invalides")
	}
	return s.store.MergeAnswers(questionID, lowered, canonical), nil
}

func roundPct(part, total int) int {
	return (part*100 + total/2) / total
}
