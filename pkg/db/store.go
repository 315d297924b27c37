package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// WithTx runs fn inside a transaction, committing on success and rolling
// back on any error. The error from fn is surfaced unchanged.
func WithTx(conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CreateWordAction inserts a new word action and returns its id.
func CreateWordAction(db DBExecutor, a WordAction) (int64, error) {
	if strings.TrimSpace(a.Word) == "" {
		return 0, fmt.Errorf("word must be non-empty")
	}
	if strings.TrimSpace(a.PartOfSpeech) == "" {
		return 0, fmt.Errorf("part of speech must be non-empty")
	}
	if strings.TrimSpace(a.Action) == "" {
		return 0, fmt.Errorf("action must be non-empty")
	}
	res, err := db.Exec(
		`INSERT INTO empty_word_action (empty_word, part_of_speech, action, translation) VALUES (?, ?, ?, ?)`,
		a.Word, a.PartOfSpeech, a.Action, a.Translation,
	)
	if err != nil {
		return 0, fmt.Errorf("insert word action: %w", err)
	}
	return res.LastInsertId()
}

// GetWordAction returns a single word action by id.
func GetWordAction(db DBExecutor, id int64) (WordAction, error) {
	var a WordAction
	err := db.QueryRow(
		`SELECT id, empty_word, part_of_speech, action, translation, created_at FROM empty_word_action WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.Word, &a.PartOfSpeech, &a.Action, &a.Translation, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return WordAction{}, ErrNotFound
	}
	if err != nil {
		return WordAction{}, err
	}
	return a, nil
}

// ListWordActions returns word actions, optionally filtered by word.
func ListWordActions(db DBExecutor, word string) ([]WordAction, error) {
	query := `SELECT id, empty_word, part_of_speech, action, translation, created_at FROM empty_word_action`
	args := []interface{}{}
	if word != "" {
		query += ` WHERE empty_word = ?`
		args = append(args, word)
	}
	query += ` ORDER BY empty_word, id`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WordAction
	for rows.Next() {
		var a WordAction
		if err := rows.Scan(&a.ID, &a.Word, &a.PartOfSpeech, &a.Action, &a.Translation, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateWordAction overwrites all editable fields of a word action.
func UpdateWordAction(db DBExecutor, a WordAction) error {
	if strings.TrimSpace(a.Action) == "" {
		return fmt.Errorf("action must be non-empty")
	}
	res, err := db.Exec(
		`UPDATE empty_word_action SET empty_word = ?, part_of_speech = ?, action = ?, translation = ? WHERE id = ?`,
		a.Word, a.PartOfSpeech, a.Action, a.Translation, a.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWordAction removes a word action by id.
func DeleteWordAction(db DBExecutor, id int64) error {
	_, err := db.Exec(`DELETE FROM empty_word_action WHERE id = ?`, id)
	return err
}

// checkActionsShareWord verifies every action id exists and records the
// same empty word as the sentence.
func checkActionsShareWord(db DBExecutor, word string, actionIDs []int64) error {
	for _, id := range actionIDs {
		var actionWord string
		err := db.QueryRow(`SELECT empty_word FROM empty_word_action WHERE id = ?`, id).Scan(&actionWord)
		if err == sql.ErrNoRows {
			return fmt.Errorf("action %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if actionWord != word {
			return fmt.Errorf("action %d belongs to word %q, sentence has word %q", id, actionWord, word)
		}
	}
	return nil
}

// CreateSentence inserts a sentence and its action links in one transaction.
func CreateSentence(conn *sql.DB, s Sentence, actionIDs []int64) (int64, error) {
	if strings.TrimSpace(s.Text) == "" {
		return 0, fmt.Errorf("sentence must be non-empty")
	}
	if strings.TrimSpace(s.Word) == "" {
		return 0, fmt.Errorf("sentence word must be non-empty")
	}
	var id int64
	err := WithTx(conn, func(tx *sql.Tx) error {
		if err := checkActionsShareWord(tx, s.Word, actionIDs); err != nil {
			return err
		}
		res, err := tx.Exec(
			`INSERT INTO example_sentence (sentence, refs, tags, empty_word) VALUES (?, ?, ?, ?)`,
			s.Text, joinList(s.Refs), joinList(s.Tags), s.Word,
		)
		if err != nil {
			return fmt.Errorf("insert sentence: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertLinks(tx, id, actionIDs)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func insertLinks(tx DBExecutor, sentenceID int64, actionIDs []int64) error {
	for _, actionID := range actionIDs {
		if _, err := tx.Exec(
			`INSERT INTO sentence_action (sentence_id, action_id) VALUES (?, ?)`,
			sentenceID, actionID,
		); err != nil {
			return fmt.Errorf("link sentence %d to action %d: %w", sentenceID, actionID, err)
		}
	}
	return nil
}

// UpdateSentence rewrites a sentence and replaces its action links in one transaction.
func UpdateSentence(conn *sql.DB, s Sentence, actionIDs []int64) error {
	if strings.TrimSpace(s.Text) == "" {
		return fmt.Errorf("sentence must be non-empty")
	}
	return WithTx(conn, func(tx *sql.Tx) error {
		if err := checkActionsShareWord(tx, s.Word, actionIDs); err != nil {
			return err
		}
		res, err := tx.Exec(
			`UPDATE example_sentence SET sentence = ?, refs = ?, tags = ?, empty_word = ? WHERE id = ?`,
			s.Text, joinList(s.Refs), joinList(s.Tags), s.Word, s.ID,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(`DELETE FROM sentence_action WHERE sentence_id = ?`, s.ID); err != nil {
			return err
		}
		return insertLinks(tx, s.ID, actionIDs)
	})
}

// DeleteSentence removes a sentence and all of its link rows in one transaction.
func DeleteSentence(conn *sql.DB, id int64) error {
	return WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM sentence_action WHERE sentence_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM example_sentence WHERE id = ?`, id)
		return err
	})
}

// ListSentences returns sentences, optionally filtered by word and/or linked
// action id, with linked action ids and descriptions aggregated in link order.
func ListSentences(db DBExecutor, word string, actionID int64) ([]Sentence, error) {
	query := `SELECT DISTINCT es.id, es.sentence, es.refs, es.tags, es.empty_word, es.created_at
		FROM example_sentence es`
	var conditions []string
	var args []interface{}

	if actionID != 0 {
		query += ` JOIN sentence_action sa ON es.id = sa.sentence_id`
		conditions = append(conditions, "sa.action_id = ?")
		args = append(args, actionID)
	}
	if word != "" {
		conditions = append(conditions, "es.empty_word = ?")
		args = append(args, word)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY es.id DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sentence
	index := map[int64]int{}
	for rows.Next() {
		var s Sentence
		var refs, tags string
		if err := rows.Scan(&s.ID, &s.Text, &refs, &tags, &s.Word, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Refs = splitList(refs)
		s.Tags = splitList(tags)
		index[s.ID] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	// Attach linked actions for the listed sentences only, ordered by link
	// id so the "first linked usage" is stable across queries.
	placeholders := make([]string, len(out))
	linkArgs := make([]interface{}, len(out))
	for i, s := range out {
		placeholders[i] = "?"
		linkArgs[i] = s.ID
	}
	linkRows, err := db.Query(`SELECT sa.sentence_id, ewa.id, ewa.action
		FROM sentence_action sa
		JOIN empty_word_action ewa ON sa.action_id = ewa.id
		WHERE sa.sentence_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY sa.sentence_id, sa.id`, linkArgs...)
	if err != nil {
		return nil, err
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var sentenceID, aID int64
		var action string
		if err := linkRows.Scan(&sentenceID, &aID, &action); err != nil {
			return nil, err
		}
		i, ok := index[sentenceID]
		if !ok {
			continue
		}
		out[i].ActionIDs = append(out[i].ActionIDs, aID)
		out[i].Actions = append(out[i].Actions, action)
	}
	return out, linkRows.Err()
}

// GetSentence returns a single sentence with its linked actions.
func GetSentence(db DBExecutor, id int64) (Sentence, error) {
	var s Sentence
	var refs, tags string
	err := db.QueryRow(
		`SELECT id, sentence, refs, tags, empty_word, created_at FROM example_sentence WHERE id = ?`, id,
	).Scan(&s.ID, &s.Text, &refs, &tags, &s.Word, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return Sentence{}, ErrNotFound
	}
	if err != nil {
		return Sentence{}, err
	}
	s.Refs = splitList(refs)
	s.Tags = splitList(tags)

	rows, err := db.Query(`SELECT ewa.id, ewa.action
		FROM sentence_action sa
		JOIN empty_word_action ewa ON sa.action_id = ewa.id
		WHERE sa.sentence_id = ?
		ORDER BY sa.id`, id)
	if err != nil {
		return Sentence{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var aID int64
		var action string
		if err := rows.Scan(&aID, &action); err != nil {
			return Sentence{}, err
		}
		s.ActionIDs = append(s.ActionIDs, aID)
		s.Actions = append(s.Actions, action)
	}
	return s, rows.Err()
}
