package services

// AnswerCount is one recorded answer text with its frequency for a question.
type AnswerCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// Correction is a rewrite rule applied to normalized answers.
type Correction struct {
	Wrong   string `json:"wrong"`
	Correct string `json:"correct"`
}

// Category groups questions by theme.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Question is a survey prompt together with its admin-facing counters.
type Question struct {
	ID            int64  `json:"id"`
	CategoryID    int64  `json:"category_id"`
	CategoryName  string `json:"category_name,omitempty"`
	Text          string `json:"text"`
	Active        bool   `json:"active"`
	SkipCount     int    `json:"skip_count"`
	RejectedCount int    `json:"rejected_count"`
	AnswerCount   int    `json:"answer_count"`
	AvgTime       int    `json:"avg_time,omitempty"`
}

// BannedWord is a stored reject-list entry.
type BannedWord struct {
	ID   int64  `json:"id"`
	Word string `json:"word"`
}

// CorrectionRule is a stored Correction with its row id.
type CorrectionRule struct {
	ID      int64  `json:"id"`
	Wrong   string `json:"wrong"`
	Correct string `json:"correct"`
}

// ExportRow is one grouped answer line as read back for the report,
// ordered by question then descending count.
type ExportRow struct {
	QuestionID int64
	Category   string
	Question   string
	Answer     string
	Count      int
}

// ModerationConfig is a point-in-time snapshot of the moderation state the
// submission pipeline runs against. The caller owns caching and refresh; the
// pipeline never reloads it mid-flight.
type ModerationConfig struct {
	BannedWords []string
	Corrections []Correction
	AutoMerge   bool
	Threshold   int
}
