package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/clubsoiree/sondage/internal/api"
	"github.com/clubsoiree/sondage/internal/services"
)

// SQLiteStore backs the API with a single SQLite file. All query errors are
// logged and surfaced as empty results; the HTTP layer treats a missing row
// and a failed read the same way.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

const questionColumns = `q.id, q.category_id, c.name, q.text, q.active, q.skip_count, q.rejected_count,
	(SELECT COUNT(*) FROM answers a WHERE a.question_id = q.id),
	(SELECT CAST(COALESCE(ROUND(AVG(a.response_time)), 0) AS INTEGER) FROM answers a WHERE a.question_id = q.id AND a.response_time IS NOT NULL)`

func (s *SQLiteStore) scanQuestion(row interface{ Scan(...any) error }) *services.Question {
	var q services.Question
	var active int
	err := row.Scan(&q.ID, &q.CategoryID, &q.CategoryName, &q.Text, &active, &q.SkipCount, &q.RejectedCount, &q.AnswerCount, &q.AvgTime)
	if err != nil {
		s.logErr("scan question", err)
		return nil
	}
	q.Active = active != 0
	return &q
}

// --- Questions & categories ---

func (s *SQLiteStore) RandomOpenQuestion(exclude []int64, threshold int) *services.Question {
	query := `SELECT ` + questionColumns + `
		FROM questions q JOIN categories c ON c.id = q.category_id
		WHERE q.active = 1
		  AND (SELECT COUNT(*) FROM answers a WHERE a.question_id = q.id) < ?`
	args := []any{threshold}
	if len(exclude) > 0 {
		query += " AND q.id NOT IN (?" + strings.Repeat(",?", len(exclude)-1) + ")"
		for _, id := range exclude {
			args = append(args, id)
		}
	}
	query += " ORDER BY RANDOM() LIMIT 1"
	return s.scanQuestion(s.db.QueryRow(query, args...))
}

func (s *SQLiteStore) GetQuestion(id int64) *services.Question {
	query := `SELECT ` + questionColumns + `
		FROM questions q JOIN categories c ON c.id = q.category_id WHERE q.id = ?`
	return s.scanQuestion(s.db.QueryRow(query, id))
}

func (s *SQLiteStore) ListQuestions() []*services.Question {
	query := `SELECT ` + questionColumns + `
		FROM questions q JOIN categories c ON c.id = q.category_id
		ORDER BY c.name, q.id`
	rows, err := s.db.Query(query)
	if err != nil {
		s.logErr("list questions", err)
		return nil
	}
	defer func() { s.logErr("close rows", rows.Close()) }()
	out := []*services.Question{}
	for rows.Next() {
		if q := s.scanQuestion(rows); q != nil {
			out = append(out, q)
		}
	}
	s.logErr("list questions", rows.Err())
	return out
}

func (s *SQLiteStore) AddQuestion(categoryID int64, text string) *services.Question {
	res, err := s.db.Exec("INSERT INTO questions (category_id, text) VALUES (?, ?)", categoryID, text)
	if err != nil {
		s.logErr("add question", err)
		return nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		s.logErr("add question id", err)
		return nil
	}
	return s.GetQuestion(id)
}

func (s *SQLiteStore) UpdateQuestion(id, categoryID int64, text string) bool {
	res, err := s.db.Exec("UPDATE questions SET category_id = ?, text = ? WHERE id = ?", categoryID, text, id)
	if err != nil {
		s.logErr("update question", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) DeleteQuestion(id int64) bool {
	if _, err := s.db.Exec("DELETE FROM answers WHERE question_id = ?", id); err != nil {
		s.logErr("delete question answers", err)
		return false
	}
	res, err := s.db.Exec("DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		s.logErr("delete question", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) IncrementSkip(questionID int64) {
	_, err := s.db.Exec("UPDATE questions SET skip_count = skip_count + 1 WHERE id = ?", questionID)
	s.logErr("increment skip", err)
}

func (s *SQLiteStore) IncrementRejected(questionID int64) {
	_, err := s.db.Exec("UPDATE questions SET rejected_count = rejected_count + 1 WHERE id = ?", questionID)
	s.logErr("increment rejected", err)
}

func (s *SQLiteStore) ListCategories() []*services.Category {
	rows, err := s.db.Query("SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		s.logErr("list categories", err)
		return nil
	}
	defer func() { s.logErr("close rows", rows.Close()) }()
	out := []*services.Category{}
	for rows.Next() {
		var c services.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			s.logErr("scan category", err)
			continue
		}
		out = append(out, &c)
	}
	s.logErr("list categories", rows.Err())
	return out
}

func (s *SQLiteStore) AddCategory(name string) *services.Category {
	res, err := s.db.Exec("INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		s.logErr("add category", err)
		return nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		s.logErr("add category id", err)
		return nil
	}
	return &services.Category{ID: id, Name: name}
}

// --- Answers ---

func (s *SQLiteStore) AddAnswer(questionID int64, text string, responseTime int) {
	var rt any
	if responseTime > 0 {
		rt = responseTime
	}
	_, err := s.db.Exec("INSERT INTO answers (question_id, text, response_time) VALUES (?, ?, ?)", questionID, text, rt)
	s.logErr("add answer", err)
}

func (s *SQLiteStore) AnswerCount(questionID int64) int {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM answers WHERE question_id = ?", questionID).Scan(&n)
	s.logErr("answer count", err)
	return n
}

func (s *SQLiteStore) ListAnswerCounts(questionID int64) []services.AnswerCount {
	rows, err := s.db.Query(`SELECT text, COUNT(*) AS n FROM answers
		WHERE question_id = ? GROUP BY text ORDER BY n DESC, text ASC`, questionID)
	if err != nil {
		s.logErr("list answer counts", err)
		return nil
	}
	defer func() { s.logErr("close rows", rows.Close()) }()
	out := []services.AnswerCount{}
	for rows.Next() {
		var a services.AnswerCount
		if err := rows.Scan(&a.Text, &a.Count); err != nil {
			s.logErr("scan answer count", err)
			continue
		}
		out = append(out, a)
	}
	s.logErr("list answer counts", rows.Err())
	return out
}

func (s *SQLiteStore) MergeAnswers(questionID int64, texts []string, canonical string) int {
	if len(texts) == 0 {
		return 0
	}
	query := "UPDATE answers SET text = ? WHERE question_id = ? AND LOWER(text) IN (?" +
		strings.Repeat(",?", len(texts)-1) + ")"
	args := []any{canonical, questionID}
	for _, t := range texts {
		args = append(args, strings.ToLower(t))
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		s.logErr("merge answers", err)
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}

func (s *SQLiteStore) DeleteAllAnswers() {
	_, err := s.db.Exec("DELETE FROM answers")
	s.logErr("delete all answers", err)
}

func (s *SQLiteStore) TotalAnswers() int {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM answers").Scan(&n)
	s.logErr("total answers", err)
	return n
}

func (s *SQLiteStore) CompleteQuestions(threshold int) int {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions q
		WHERE (SELECT COUNT(*) FROM answers a WHERE a.question_id = q.id) >= ?`, threshold).Scan(&n)
	s.logErr("complete questions", err)
	return n
}

func (s *SQLiteStore) ActiveQuestions() int {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM questions WHERE active = 1").Scan(&n)
	s.logErr("active questions", err)
	return n
}

func (s *SQLiteStore) ExportRows() []services.ExportRow {
	rows, err := s.db.Query(`SELECT q.id, c.name, q.text, a.text, COUNT(*) AS n
		FROM answers a
		JOIN questions q ON q.id = a.question_id
		JOIN categories c ON c.id = q.category_id
		GROUP BY q.id, a.text
		ORDER BY c.name, q.id, n DESC, a.text ASC`)
	if err != nil {
		s.logErr("export rows", err)
		return nil
	}
	defer func() { s.logErr("close rows", rows.Close()) }()
	out := []services.ExportRow{}
	for rows.Next() {
		var r services.ExportRow
		if err := rows.Scan(&r.QuestionID, &r.Category, &r.Question, &r.Answer, &r.Count); err != nil {
			s.logErr("scan export row", err)
			continue
		}
		out = append(out, r)
	}
	s.logErr("export rows", rows.Err())
	return out
}

// --- Moderation configuration ---

func (s *SQLiteStore) ListBannedWords() []*services.BannedWord {
	rows, err := s.db.Query("SELECT id, word FROM banned_words ORDER BY word")
	if err != nil {
		s.logErr("list banned words", err)
		return nil
	}
	defer func() { s.logErr("close rows", rows.Close()) }()
	out := []*services.BannedWord{}
	for rows.Next() {
		var b services.BannedWord
		if err := rows.Scan(&b.ID, &b.Word); err != nil {
			s.logErr("scan banned word", err)
			continue
		}
		out = append(out, &b)
	}
	s.logErr("list banned words", rows.Err())
	return out
}

func (s *SQLiteStore) AddBannedWord(word string) *services.BannedWord {
	if _, err := s.db.Exec("INSERT OR IGNORE INTO banned_words (word) VALUES (?)", word); err != nil {
		s.logErr("add banned word", err)
		return nil
	}
	var b services.BannedWord
	err := s.db.QueryRow("SELECT id, word FROM banned_words WHERE word = ?", word).Scan(&b.ID, &b.Word)
	if err != nil {
		s.logErr("add banned word", err)
		return nil
	}
	return &b
}

func (s *SQLiteStore) DeleteBannedWord(id int64) bool {
	res, err := s.db.Exec("DELETE FROM banned_words WHERE id = ?", id)
	if err != nil {
		s.logErr("delete banned word", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) ListCorrections() []*services.CorrectionRule {
	rows, err := s.db.Query("SELECT id, wrong, correct FROM corrections ORDER BY wrong")
	if err != nil {
		s.logErr("list corrections", err)
		return nil
	}
	defer func() { s.logErr("close rows", rows.Close()) }()
	out := []*services.CorrectionRule{}
	for rows.Next() {
		var c services.CorrectionRule
		if err := rows.Scan(&c.ID, &c.Wrong, &c.Correct); err != nil {
			s.logErr("scan correction", err)
			continue
		}
		out = append(out, &c)
	}
	s.logErr("list corrections", rows.Err())
	return out
}

func (s *SQLiteStore) AddCorrection(wrong, correct string) *services.CorrectionRule {
	if _, err := s.db.Exec("INSERT OR REPLACE INTO corrections (wrong, correct) VALUES (?, ?)", wrong, correct); err != nil {
		s.logErr("add correction", err)
		return nil
	}
	var c services.CorrectionRule
	err := s.db.QueryRow("SELECT id, wrong, correct FROM corrections WHERE wrong = ?", wrong).Scan(&c.ID, &c.Wrong, &c.Correct)
	if err != nil {
		s.logErr("add correction", err)
		return nil
	}
	return &c
}

func (s *SQLiteStore) DeleteCorrection(id int64) bool {
	res, err := s.db.Exec("DELETE FROM corrections WHERE id = ?", id)
	if err != nil {
		s.logErr("delete correction", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) GetSetting(key string) string {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	s.logErr("get setting", err)
	return value
}

func (s *SQLiteStore) SetSetting(key, value string) {
	_, err := s.db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	s.logErr("set setting", err)
}
