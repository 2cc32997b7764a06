package services

import (
	"unicode/utf8"
)

const (
	// MinAnswerLen and MaxAnswerLen bound the normalized answer length.
	MinAnswerLen = 2
	MaxAnswerLen = 50

	// MaxResponseTime caps the optional seconds-to-answer measurement.
	MaxResponseTime = 30
)

// AnswerStore abstracts the persistence operations the submission pipeline
// needs. The answer list it returns must be a point-in-time snapshot; the
// pipeline never refreshes or locks it.
type AnswerStore interface {
	AnswerCount(questionID int64) int
	ListAnswerCounts(questionID int64) []AnswerCount
	AddAnswer(questionID int64, text string, responseTime int)
	IncrementRejected(questionID int64)
}

// SubmitRequest carries one inbound answer plus the moderation snapshot
// resolved by the caller.
type SubmitRequest struct {
	QuestionID   int64
	Text         string
	ResponseTime int
	Config       ModerationConfig
}

// SubmitResult reports what was persisted.
type SubmitResult struct {
	StoredText string
	Merged     bool
}

// AnswerService runs the normalization / moderation / dedup pipeline for
// inbound survey answers.
type AnswerService struct {
	store AnswerStore
}

func NewAnswerService(store AnswerStore) *AnswerService {
	return &AnswerService{store: store}
}

// Submit validates, normalizes and persists one answer. Refusals come back
// as ServiceError rejection codes, never as panics; nothing is persisted on
// rejection beyond the per-question rejected counter.
func (s *AnswerService) Submit(req SubmitRequest) (*SubmitResult, error) {
	if req.QuestionID <= 0 {
		return nil, NewInvalidError("question id required")
	}

	if req.Config.Threshold > 0 && s.store.AnswerCount(req.QuestionID) >= req.Config.Threshold {
		return nil, NewRejection(ErrorQuestionFull, "question has enough answers")
	}

	normalized := NormalizeLight(req.Text)
	if n := utf8.RuneCountInString(normalized); n < MinAnswerLen || n > MaxAnswerLen {
		return nil, NewRejection(ErrorEmptyOrOversize, "answer empty or oversize")
	}

	// Banned outranks gibberish: a blocklisted answer reports as banned even
	// when it would also fail the noise checks.
	if ContainsBannedWord(normalized, req.Config.BannedWords) {
		s.store.IncrementRejected(req.QuestionID)
		return nil, NewRejection(ErrorBanned, "answer is banned")
	}
	if IsGibberish(normalized) {
		s.store.IncrementRejected(req.QuestionID)
		return nil, NewRejection(ErrorGibberish, "answer looks like noise")
	}

	text := ApplyCorrections(normalized, req.Config.Corrections)
	if text == "" {
		return nil, NewRejection(ErrorEmptyOrOversize, "answer empty after correction")
	}

	merged := false
	if req.Config.AutoMerge {
		existing := s.store.ListAnswerCounts(req.QuestionID)
		if match := FindMatchingAnswer(text, existing); match != "" {
			text = match
			merged = true
		}
	}

	rt := req.ResponseTime
	if rt < 0 || rt > MaxResponseTime {
		rt = 0
	}
	s.store.AddAnswer(req.QuestionID, text, rt)
	return &SubmitResult{StoredText: text, Merged: merged}, nil
}
