package services

import "testing"

type stubQuestionStore struct {
	questions map[int64]*Question
	counts    map[int64][]AnswerCount
	nextID    int64

	merged struct {
		questionID int64
		texts      []string
		canonical  string
	}
	mergeResult int
}

func newStubQuestionStore() *stubQuestionStore {
	return &stubQuestionStore{
		questions: map[int64]*Question{},
		counts:    map[int64][]AnswerCount{},
		nextID:    1,
	}
}

func (s *stubQuestionStore) GetQuestion(id int64) *Question {
	if q, ok := s.questions[id]; ok {
		copy := *q
		return &copy
	}
	return nil
}

func (s *stubQuestionStore) ListQuestions() []*Question {
	out := []*Question{}
	for _, q := range s.questions {
		copy := *q
		out = append(out, &copy)
	}
	return out
}

func (s *stubQuestionStore) AddQuestion(categoryID int64, text string) *Question {
	q := &Question{ID: s.nextID, CategoryID: categoryID, Text: text, Active: true}
	s.questions[q.ID] = q
	s.nextID++
	copy := *q
	return &copy
}

func (s *stubQuestionStore) UpdateQuestion(id, categoryID int64, text string) bool {
	q, ok := s.questions[id]
	if !ok {
		return false
	}
	q.CategoryID = categoryID
	q.Text = text
	return true
}

func (s *stubQuestionStore) DeleteQuestion(id int64) bool {
	if _, ok := s.questions[id]; !ok {
		return false
	}
	delete(s.questions, id)
	return true
}

func (s *stubQuestionStore) ListCategories() []*Category { return nil }

func (s *stubQuestionStore) AddCategory(name string) *Category {
	return &Category{ID: 1, Name: name}
}

func (s *stubQuestionStore) ListAnswerCounts(questionID int64) []AnswerCount {
	return s.counts[questionID]
}

func (s *stubQuestionStore) MergeAnswers(questionID int64, texts []string, canonical string) int {
	s.merged.questionID = questionID
	s.merged.texts = texts
	s.merged.canonical = canonical
	return s.mergeResult
}

func (s *stubQuestionStore) TotalAnswers() int         { return 42 }
func (s *stubQuestionStore) CompleteQuestions(int) int { return 2 }
func (s *stubQuestionStore) ActiveQuestions() int      { return 7 }

func TestStats(t *testing.T) {
	svc := NewQuestionService(newStubQuestionStore())
	got := svc.Stats(100)
	want := Stats{TotalAnswers: 42, CompleteQuestions: 2, TotalQuestions: 7, Threshold: 100}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCreateQuestionValidates(t *testing.T) {
	svc := NewQuestionService(newStubQuestionStore())
	if _, err := svc.CreateQuestion(0, "quoi ?"); err == nil {
		t.Fatal("missing category should fail")
	}
	if _, err := svc.CreateQuestion(1, "   "); err == nil {
		t.Fatal("blank text should fail")
	}
	q, err := svc.CreateQuestion(1, "  Quel est ton plat préféré ?  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.Text != "Quel est ton plat préféré ?" {
		t.Fatalf("text = %q, want trimmed", q.Text)
	}
}

func TestCreateCategoryValidates(t *testing.T) {
	svc := NewQuestionService(newStubQuestionStore())
	if _, err := svc.CreateCategory(" "); err == nil {
		t.Fatal("blank name should fail")
	}
	c, err := svc.CreateCategory(" sport ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Name != "sport" {
		t.Fatalf("name = %q, want sport", c.Name)
	}
}

func TestUpdateAndDeleteQuestionNotFound(t *testing.T) {
	svc := NewQuestionService(newStubQuestionStore())
	if err := svc.UpdateQuestion(99, 1, "texte"); err == nil {
		t.Fatal("update of missing question should fail")
	}
	if err := svc.DeleteQuestion(99); err == nil {
		t.Fatal("delete of missing question should fail")
	}
}

func TestAnswersOverviewNotFound(t *testing.T) {
	svc := NewQuestionService(newStubQuestionStore())
	if _, err := svc.AnswersOverview(5); err == nil {
		t.Fatal("missing question should fail")
	}
}

func TestAnswersOverviewNeutralUnderTwenty(t *testing.T) {
	store := newStubQuestionStore()
	store.questions[1] = &Question{ID: 1, Text: "q"}
	store.counts[1] = []AnswerCount{{Text: "pizza", Count: 10}, {Text: "sushi", Count: 5}}

	svc := NewQuestionService(store)
	ov, err := svc.AnswersOverview(1)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if ov.TotalCount != 15 || ov.Top5Status != "neutral" {
		t.Fatalf("got total %d status %s, want 15 neutral", ov.TotalCount, ov.Top5Status)
	}
	if ov.Answers[0].Percentage != 67 {
		t.Fatalf("pct = %d, want 67", ov.Answers[0].Percentage)
	}
}

func TestAnswersOverviewStatuses(t *testing.T) {
	cases := []struct {
		name   string
		counts []AnswerCount
		want   string
	}{
		{
			name: "good",
			counts: []AnswerCount{
				{Text: "a", Count: 8}, {Text: "b", Count: 4}, {Text: "c", Count: 2},
				{Text: "d", Count: 1}, {Text: "e", Count: 1}, {Text: "f", Count: 4},
			},
			want: "good", // top5 = 16/20 = 80%
		},
		{
			name:   "concentrated",
			counts: []AnswerCount{{Text: "a", Count: 15}, {Text: "b", Count: 5}},
			want:   "concentrated", // top5 = 100%
		},
		{
			name: "scattered",
			counts: []AnswerCount{
				{Text: "a", Count: 2}, {Text: "b", Count: 2}, {Text: "c", Count: 2},
				{Text: "d", Count: 2}, {Text: "e", Count: 2}, {Text: "f", Count: 2},
				{Text: "g", Count: 2}, {Text: "h", Count: 2}, {Text: "i", Count: 2},
				{Text: "j", Count: 2},
			},
			want: "scattered", // top5 = 10/20 = 50%
		},
	}
	for _, c := range cases {
		store := newStubQuestionStore()
		store.questions[1] = &Question{ID: 1, Text: "q"}
		store.counts[1] = c.counts
		svc := NewQuestionService(store)
		ov, err := svc.AnswersOverview(1)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if ov.Top5Status != c.want {
			t.Errorf("%s: status = %s (top5 %d%%), want %s", c.name, ov.Top5Status, ov.Top5Pct, c.want)
		}
	}
}

func TestMergeLowersSources(t *testing.T) {
	store := newStubQuestionStore()
	store.mergeResult = 3
	svc := NewQuestionService(store)

	n, err := svc.Merge(1, []string{" McDo ", "MACDO"}, "mcdo")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if n != 3 {
		t.Fatalf("changed = %d, want 3", n)
	}
	if store.merged.texts[0] != "mcdo" || store.merged.texts[1] != "macdo" {
		t.Fatalf("sources = %v, want lowercased trimmed", store.merged.texts)
	}
}

func TestMergeValidates(t *testing.T) {
	svc := NewQuestionService(newStubQuestionStore())
	if _, err := svc.Merge(0, []string{"a"}, "b"); err == nil {
		t.Fatal("missing question id should fail")
	}
	if _, err := svc.Merge(1, nil, "b"); err == nil {
		t.Fatal("empty source list should fail")
	}
	if _, err := svc.Merge(1, []string{"a"}, "  "); err == nil {
		t.Fatal("blank canonical should fail")
	}
	if _, err := svc.Merge(1, []string{"  "}, "b"); err == nil {
		t.Fatal("all-blank sources should fail")
	}
}
