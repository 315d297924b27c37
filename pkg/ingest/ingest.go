// Package ingest persists parsed study-note data and bulk sentence input.
package ingest

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minyue/xuci/pkg/db"
	"github.com/minyue/xuci/pkg/notes"
)

// Stats reports how many rows an import touched.
type Stats struct {
	Actions   int
	Sentences int
}

// ImportDocument stores a parsed notes document in one transaction,
// keeping the document's explicit ids. Existing rows with the same id are
// left untouched so the import can be re-run.
func ImportDocument(conn *sql.DB, doc *notes.Document) (Stats, error) {
	var st Stats
	err := db.WithTx(conn, func(tx *sql.Tx) error {
		for _, a := range doc.Actions {
			res, err := tx.Exec(
				`INSERT OR IGNORE INTO empty_word_action (id, empty_word, part_of_speech, action, translation) VALUES (?, ?, ?, ?, ?)`,
				a.ID, a.Word, a.PartOfSpeech, a.Action, a.Translation,
			)
			if err != nil {
				return fmt.Errorf("import action %d: %w", a.ID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			st.Actions += int(n)
		}
		for _, s := range doc.Sentences {
			res, err := tx.Exec(
				`INSERT OR IGNORE INTO example_sentence (id, sentence, empty_word) VALUES (?, ?, ?)`,
				s.ID, s.Text, s.Word,
			)
			if err != nil {
				return fmt.Errorf("import sentence %d: %w", s.ID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			st.Sentences += int(n)
			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO sentence_action (sentence_id, action_id) VALUES (?, ?)`,
				s.ID, s.ActionID,
			); err != nil {
				return fmt.Errorf("link sentence %d: %w", s.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}

// BulkSentences adds sentences from pasted or numbered input. Each line is
// scanned for known function words; for every detected word that has at
// least one recorded action the line is stored once, linked to that word's
// first action and tagged with the batch date. Lines with no detected word
// (or whose words have no actions yet) are skipped with a warning.
func BulkSentences(conn *sql.DB, lines []notes.NumberedSentence, cfg notes.Config) (int, error) {
	batchTag := "batch_" + time.Now().Format("20060102")

	added := 0
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		words := notes.DetectWords(text, cfg.Words)
		if len(words) == 0 {
			slog.Warn("no function word detected, skipping", "sentence", text)
			continue
		}
		for _, word := range words {
			actions, err := db.ListWordActions(conn, word)
			if err != nil {
				return added, fmt.Errorf("list actions for %s: %w", word, err)
			}
			if len(actions) == 0 {
				slog.Warn("word has no recorded actions, skipping", "word", word, "sentence", text)
				continue
			}
			s := db.Sentence{
				Text: text,
				Tags: []string{batchTag},
				Word: word,
			}
			if line.Ref != "" {
				s.Refs = []string{line.Ref}
			}
			if _, err := db.CreateSentence(conn, s, []int64{actions[0].ID}); err != nil {
				slog.Warn("could not add sentence", "sentence", text, "err", err)
				continue
			}
			added++
		}
	}
	return added, nil
}
