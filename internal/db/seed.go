package db

import (
	"database/sql"
	"fmt"
)

var seedCategories = []string{"vacances", "nourriture", "cinéma"}

var seedQuestions = []struct {
	category string
	text     string
}{
	{"vacances", "Tu es au bar en vacances, qu'est-ce que tu commandes ?"},
	{"vacances", "Quel est LE pays où tu rêves d'aller ?"},
	{"vacances", "Quel est LE truc que tu oublies toujours dans ta valise ?"},
	{"vacances", "Quel est LE truc le plus énervant en avion ?"},
	{"nourriture", "Quel est L'aliment que tu manges en cachette dans le frigo ?"},
	{"nourriture", "Qu'est ce que tu commandes en livraison quand t'as la flemme de faire a manger ?"},
	{"nourriture", "Quel est LE truc que tu grignotes devant la télé ?"},
	{"cinéma", "Quel est LE méchant de film que tout le monde connaît ?"},
	{"cinéma", "Quel est ton genre de film préféré ? (horreur, comédie, science fiction, etc...)"},
	{"cinéma", "Quel est LE Disney que tu préfères ?"},
}

var seedBannedWords = []string{
	"jsp", "je sais pas", "aucune idée", "j'étais pas né", "pas née",
	"caca", "hitler", "pornhub", "n'importe quoi",
}

var seedCorrections = [][2]string{
	{"fesbook", "facebook"}, {"face book", "facebook"}, {"youtybe", "youtube"},
	{"youtunes", "youtube"}, {"googel", "google"}, {"formage", "fromage"},
	{"chocolay", "chocolat"}, {"saucision", "saucisson"}, {"sky blog", "skyblog"},
	{"slyblog", "skyblog"},
}

// Seed fills an empty database with the starter categories, questions and
// moderation lists. It is idempotent: existing rows are left alone.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count == 0 {
		for _, name := range seedCategories {
			if _, err := db.Exec("INSERT INTO categories (name) VALUES (?)", name); err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
		}
	}

	catIDs := map[string]int64{}
	rows, err := db.Query("SELECT id, name FROM categories")
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan category: %w", err)
		}
		catIDs[name] = id
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("close categories: %w", err)
	}

	for _, q := range seedQuestions {
		catID, ok := catIDs[q.category]
		if !ok {
			continue
		}
		var exists int
		err := db.QueryRow("SELECT COUNT(*) FROM questions WHERE text = ?", q.text).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check question: %w", err)
		}
		if exists == 0 {
			if _, err := db.Exec("INSERT INTO questions (category_id, text) VALUES (?, ?)", catID, q.text); err != nil {
				return fmt.Errorf("seed question: %w", err)
			}
		}
	}

	for _, w := range seedBannedWords {
		if _, err := db.Exec("INSERT OR IGNORE INTO banned_words (word) VALUES (?)", w); err != nil {
			return fmt.Errorf("seed banned word %q: %w", w, err)
		}
	}

	for _, c := range seedCorrections {
		if _, err := db.Exec("INSERT OR IGNORE INTO corrections (wrong, correct) VALUES (?, ?)", c[0], c[1]); err != nil {
			return fmt.Errorf("seed correction %q: %w", c[0], err)
		}
	}

	if _, err := db.Exec("INSERT OR IGNORE INTO settings (key, value) VALUES ('auto_merge', '1')"); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}
