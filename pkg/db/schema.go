package db

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS empty_word_action (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	empty_word TEXT NOT NULL,
	part_of_speech TEXT NOT NULL,
	action TEXT NOT NULL,
	translation TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS example_sentence (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sentence TEXT NOT NULL,
	refs TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	empty_word TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sentence_action (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sentence_id INTEGER NOT NULL REFERENCES example_sentence(id),
	action_id INTEGER NOT NULL REFERENCES empty_word_action(id),
	UNIQUE(sentence_id, action_id)
);

CREATE TABLE IF NOT EXISTS paper (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	question_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS question (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	paper_id INTEGER NOT NULL REFERENCES paper(id),
	sentence_id INTEGER NOT NULL REFERENCES example_sentence(id),
	action_id INTEGER NOT NULL REFERENCES empty_word_action(id),
	question_order INTEGER NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS question_option (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question_id INTEGER NOT NULL REFERENCES question(id),
	action_id INTEGER NOT NULL REFERENCES empty_word_action(id),
	is_correct INTEGER NOT NULL DEFAULT 0,
	option_order INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_action_word ON empty_word_action(empty_word);
CREATE INDEX IF NOT EXISTS idx_sentence_word ON example_sentence(empty_word);
CREATE INDEX IF NOT EXISTS idx_link_sentence ON sentence_action(sentence_id);
CREATE INDEX IF NOT EXISTS idx_link_action ON sentence_action(action_id);
CREATE INDEX IF NOT EXISTS idx_question_paper ON question(paper_id);
CREATE INDEX IF NOT EXISTS idx_option_question ON question_option(question_id)
`

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
