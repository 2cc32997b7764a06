package api

import (
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/clubsoiree/sondage/internal/services"
)

type answerRec struct {
	questionID   int64
	text         string
	responseTime int
}

// MemoryStore is an in-memory Store used by unit tests and local runs
// without a database file.
type MemoryStore struct {
	mu          sync.RWMutex
	categories  []*services.Category
	questions   []*services.Question
	answers     []answerRec
	banned      []*services.BannedWord
	corrections []*services.CorrectionRule
	settings    map[string]string
	nextID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: map[string]string{}}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) nextSeq() int64 {
	s.nextID++
	return s.nextID
}

// --- Questions & categories ---

func (s *MemoryStore) categoryName(id int64) string {
	for _, c := range s.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func (s *MemoryStore) answerStats(questionID int64) (count, avgTime int) {
	sum, timed := 0, 0
	for _, a := range s.answers {
		if a.questionID != questionID {
			continue
		}
		count++
		if a.responseTime > 0 {
			sum += a.responseTime
			timed++
		}
	}
	if timed > 0 {
		avgTime = (sum + timed/2) / timed
	}
	return count, avgTime
}

func (s *MemoryStore) viewQuestion(q *services.Question) *services.Question {
	out := *q
	out.CategoryName = s.categoryName(q.CategoryID)
	out.AnswerCount, out.AvgTime = s.answerStats(q.ID)
	return &out
}

func (s *MemoryStore) RandomOpenQuestion(exclude []int64, threshold int) *services.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	excluded := map[int64]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}
	open := []*services.Question{}
	for _, q := range s.questions {
		if !q.Active || excluded[q.ID] {
			continue
		}
		if count, _ := s.answerStats(q.ID); threshold > 0 && count >= threshold {
			continue
		}
		open = append(open, q)
	}
	if len(open) == 0 {
		return nil
	}
	return s.viewQuestion(open[rand.Intn(len(open))])
}

func (s *MemoryStore) GetQuestion(id int64) *services.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.questions {
		if q.ID == id {
			return s.viewQuestion(q)
		}
	}
	return nil
}

func (s *MemoryStore) ListQuestions() []*services.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, s.viewQuestion(q))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CategoryName != out[j].CategoryName {
			return out[i].CategoryName < out[j].CategoryName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) AddQuestion(categoryID int64, text string) *services.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := &services.Question{ID: s.nextSeq(), CategoryID: categoryID, Text: text, Active: true}
	s.questions = append(s.questions, q)
	return s.viewQuestion(q)
}

func (s *MemoryStore) UpdateQuestion(id, categoryID int64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if q.ID == id {
			q.CategoryID = categoryID
			q.Text = text
			return true
		}
	}
	return false
}

func (s *MemoryStore) DeleteQuestion(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.questions {
		if q.ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			kept := s.answers[:0]
			for _, a := range s.answers {
				if a.questionID != id {
					kept = append(kept, a)
				}
			}
			s.answers = kept
			return true
		}
	}
	return false
}

func (s *MemoryStore) IncrementSkip(questionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if q.ID == questionID {
			q.SkipCount++
			return
		}
	}
}

func (s *MemoryStore) IncrementRejected(questionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if q.ID == questionID {
			q.RejectedCount++
			return
		}
	}
}

func (s *MemoryStore) ListCategories() []*services.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.Category, len(s.categories))
	copy(out, s.categories)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *MemoryStore) AddCategory(name string) *services.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Name == name {
			return c
		}
	}
	c := &services.Category{ID: s.nextSeq(), Name: name}
	s.categories = append(s.categories, c)
	return c
}

// --- Answers ---

func (s *MemoryStore) AddAnswer(questionID int64, text string, responseTime int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answerRec{questionID: questionID, text: text, responseTime: responseTime})
}

func (s *MemoryStore) AnswerCount(questionID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count, _ := s.answerStats(questionID)
	return count
}

func (s *MemoryStore) answerCountsLocked(questionID int64) []services.AnswerCount {
	byText := map[string]int{}
	for _, a := range s.answers {
		if a.questionID == questionID {
			byText[a.text]++
		}
	}
	out := make([]services.AnswerCount, 0, len(byText))
	for text, count := range byText {
		out = append(out, services.AnswerCount{Text: text, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// ListAnswerCounts returns grouped answers in frequency-descending order;
// the dedup matcher relies on that ordering.
func (s *MemoryStore) ListAnswerCounts(questionID int64) []services.AnswerCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answerCountsLocked(questionID)
}

func (s *MemoryStore) MergeAnswers(questionID int64, texts []string, canonical string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	lowered := map[string]bool{}
	for _, t := range texts {
		lowered[strings.ToLower(strings.TrimSpace(t))] = true
	}
	changed := 0
	for i := range s.answers {
		if s.answers[i].questionID != questionID {
			continue
		}
		if lowered[strings.ToLower(strings.TrimSpace(s.answers[i].text))] {
			s.answers[i].text = canonical
			changed++
		}
	}
	return changed
}

func (s *MemoryStore) DeleteAllAnswers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = nil
}

func (s *MemoryStore) TotalAnswers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}

func (s *MemoryStore) CompleteQuestions(threshold int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, q := range s.questions {
		if count, _ := s.answerStats(q.ID); count >= threshold {
			n++
		}
	}
	return n
}

func (s *MemoryStore) ActiveQuestions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, q := range s.questions {
		if q.Active {
			n++
		}
	}
	return n
}

func (s *MemoryStore) ExportRows() []services.ExportRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]*services.Question, len(s.questions))
	copy(questions, s.questions)
	sort.SliceStable(questions, func(i, j int) bool {
		ci, cj := s.categoryName(questions[i].CategoryID), s.categoryName(questions[j].CategoryID)
		if ci != cj {
			return ci < cj
		}
		return questions[i].ID < questions[j].ID
	})
	rows := []services.ExportRow{}
	for _, q := range questions {
		for _, ac := range s.answerCountsLocked(q.ID) {
			rows = append(rows, services.ExportRow{
				QuestionID: q.ID,
				Category:   s.categoryName(q.CategoryID),
				Question:   q.Text,
				Answer:     ac.Text,
				Count:      ac.Count,
			})
		}
	}
	return rows
}

// --- Moderation configuration ---

func (s *MemoryStore) ListBannedWords() []*services.BannedWord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.BannedWord, len(s.banned))
	copy(out, s.banned)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

func (s *MemoryStore) AddBannedWord(word string) *services.BannedWord {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.banned {
		if b.Word == word {
			return b
		}
	}
	b := &services.BannedWord{ID: s.nextSeq(), Word: word}
	s.banned = append(s.banned, b)
	return b
}

func (s *MemoryStore) DeleteBannedWord(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.banned {
		if b.ID == id {
			s.banned = append(s.banned[:i], s.banned[i+1:]...)
			return true
		}
	}
	return false
}

func (s *MemoryStore) ListCorrections() []*services.CorrectionRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.CorrectionRule, len(s.corrections))
	copy(out, s.corrections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Wrong < out[j].Wrong })
	return out
}

func (s *MemoryStore) AddCorrection(wrong, correct string) *services.CorrectionRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.corrections {
		if c.Wrong == wrong {
			c.Correct = correct
			return c
		}
	}
	c := &services.CorrectionRule{ID: s.nextSeq(), Wrong: wrong, Correct: correct}
	s.corrections = append(s.corrections, c)
	return c
}

func (s *MemoryStore) DeleteCorrection(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.corrections {
		if c.ID == id {
			s.corrections = append(s.corrections[:i], s.corrections[i+1:]...)
			return true
		}
	}
	return false
}

func (s *MemoryStore) GetSetting(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings[key]
}

func (s *MemoryStore) SetSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
}
