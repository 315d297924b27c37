package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// OptionDraft is one answer choice of a question being created.
type OptionDraft struct {
	ActionID int64
	Correct  bool
}

// QuestionDraft is a question being created as part of a new paper.
type QuestionDraft struct {
	SentenceID int64
	ActionID   int64
	Options    []OptionDraft
}

// Validate checks the option invariants: between 1 and 4 options, and
// exactly one flagged correct, matching the question's action.
func (d QuestionDraft) Validate() error {
	if len(d.Options) < 1 || len(d.Options) > 4 {
		return fmt.Errorf("question for sentence %d has %d options, want 1 to 4", d.SentenceID, len(d.Options))
	}
	correct := 0
	for _, o := range d.Options {
		if o.Correct {
			correct++
			if o.ActionID != d.ActionID {
				return fmt.Errorf("question for sentence %d: correct option action %d does not match question action %d",
					d.SentenceID, o.ActionID, d.ActionID)
			}
		}
	}
	if correct != 1 {
		return fmt.Errorf("question for sentence %d has %d correct options, want exactly 1", d.SentenceID, correct)
	}
	return nil
}

// CreatePaper stores a paper with its questions and options in one
// transaction and returns the paper id. Question and option order follow
// slice order, starting at 1.
func CreatePaper(conn *sql.DB, title string, drafts []QuestionDraft) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("paper title must be non-empty")
	}
	for _, d := range drafts {
		if err := d.Validate(); err != nil {
			return 0, err
		}
	}

	var paperID int64
	err := WithTx(conn, func(tx *sql.Tx) error {
		res, err := tx.Exec(`INSERT INTO paper (title, question_count) VALUES (?, ?)`, title, len(drafts))
		if err != nil {
			return fmt.Errorf("insert paper: %w", err)
		}
		if paperID, err = res.LastInsertId(); err != nil {
			return err
		}
		for order, d := range drafts {
			res, err := tx.Exec(
				`INSERT INTO question (paper_id, sentence_id, action_id, question_order) VALUES (?, ?, ?, ?)`,
				paperID, d.SentenceID, d.ActionID, order+1,
			)
			if err != nil {
				return fmt.Errorf("insert question %d: %w", order+1, err)
			}
			questionID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for optOrder, o := range d.Options {
				if _, err := tx.Exec(
					`INSERT INTO question_option (question_id, action_id, is_correct, option_order) VALUES (?, ?, ?, ?)`,
					questionID, o.ActionID, o.Correct, optOrder+1,
				); err != nil {
					return fmt.Errorf("insert option %d of question %d: %w", optOrder+1, order+1, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return paperID, nil
}

// ListPapers returns all papers without their questions, newest first.
func ListPapers(db DBExecutor) ([]Paper, error) {
	rows, err := db.Query(`SELECT id, title, question_count, created_at FROM paper ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Paper
	for rows.Next() {
		var p Paper
		if err := rows.Scan(&p.ID, &p.Title, &p.QuestionCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPaper assembles a full paper: questions joined to their sentences,
// options joined to their actions, both in stored order.
func GetPaper(db DBExecutor, id int64) (Paper, error) {
	var p Paper
	err := db.QueryRow(`SELECT id, title, question_count, created_at FROM paper WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.QuestionCount, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return Paper{}, ErrNotFound
	}
	if err != nil {
		return Paper{}, err
	}

	rows, err := db.Query(`SELECT q.id, q.sentence_id, q.action_id, q.question_order, es.sentence, es.empty_word
		FROM question q
		JOIN example_sentence es ON q.sentence_id = es.id
		WHERE q.paper_id = ?
		ORDER BY q.question_order`, id)
	if err != nil {
		return Paper{}, err
	}
	defer rows.Close()

	index := map[int64]int{}
	for rows.Next() {
		q := Question{PaperID: id}
		if err := rows.Scan(&q.ID, &q.SentenceID, &q.ActionID, &q.Order, &q.Sentence, &q.Word); err != nil {
			return Paper{}, err
		}
		index[q.ID] = len(p.Questions)
		p.Questions = append(p.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return Paper{}, err
	}

	optRows, err := db.Query(`SELECT qo.id, qo.question_id, qo.action_id, qo.is_correct, qo.option_order, ewa.action, ewa.translation
		FROM question_option qo
		JOIN question q ON qo.question_id = q.id
		JOIN empty_word_action ewa ON qo.action_id = ewa.id
		WHERE q.paper_id = ?
		ORDER BY qo.question_id, qo.option_order`, id)
	if err != nil {
		return Paper{}, err
	}
	defer optRows.Close()

	for optRows.Next() {
		var o Option
		if err := optRows.Scan(&o.ID, &o.QuestionID, &o.ActionID, &o.IsCorrect, &o.Order, &o.Action, &o.Translation); err != nil {
			return Paper{}, err
		}
		i, ok := index[o.QuestionID]
		if !ok {
			continue
		}
		p.Questions[i].Options = append(p.Questions[i].Options, o)
	}
	return p, optRows.Err()
}

// DeletePaper removes a paper with its questions and options in one transaction.
func DeletePaper(conn *sql.DB, id int64) error {
	return WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`DELETE FROM question_option WHERE question_id IN (SELECT id FROM question WHERE paper_id = ?)`, id,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM question WHERE paper_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM paper WHERE id = ?`, id)
		return err
	})
}
