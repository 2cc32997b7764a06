package api

import "github.com/clubsoiree/sondage/internal/services"

// Store is the full persistence surface of the application. It satisfies the
// narrower per-service interfaces in the services package.
type Store interface {
	// Questions & categories
	RandomOpenQuestion(exclude []int64, threshold int) *services.Question
	GetQuestion(id int64) *services.Question
	ListQuestions() []*services.Question
	AddQuestion(categoryID int64, text string) *services.Question
	UpdateQuestion(id, categoryID int64, text string) bool
	DeleteQuestion(id int64) bool
	IncrementSkip(questionID int64)
	IncrementRejected(questionID int64)
	ListCategories() []*services.Category
	AddCategory(name string) *services.Category

	// Answers
	AddAnswer(questionID int64, text string, responseTime int)
	AnswerCount(questionID int64) int
	ListAnswerCounts(questionID int64) []services.AnswerCount
	MergeAnswers(questionID int64, texts []string, canonical string) int
	DeleteAllAnswers()
	TotalAnswers() int
	CompleteQuestions(threshold int) int
	ActiveQuestions() int
	ExportRows() []services.ExportRow

	// Moderation configuration
	ListBannedWords() []*services.BannedWord
	AddBannedWord(word string) *services.BannedWord
	DeleteBannedWord(id int64) bool
	ListCorrections() []*services.CorrectionRule
	AddCorrection(wrong, correct string) *services.CorrectionRule
	DeleteCorrection(id int64) bool
	GetSetting(key string) string
	SetSetting(key, value string)
}

var _ services.AnswerStore = (Store)(nil)
var _ services.QuestionStore = (Store)(nil)
var _ services.ExportStore = (Store)(nil)
