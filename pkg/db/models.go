package db

import "time"

// WordAction is one documented grammatical function of an empty word,
// together with its translation gloss.
type WordAction struct {
	ID           int64
	Word         string
	PartOfSpeech string
	Action       string
	Translation  string
	CreatedAt    time.Time
}

// Sentence is an example sentence illustrating one or more word actions.
// ActionIDs and Actions are filled by list/get queries with the linked
// actions in link order; the first entry is the primary usage.
type Sentence struct {
	ID        int64
	Text      string
	Refs      []string
	Tags      []string
	Word      string
	CreatedAt time.Time
	ActionIDs []int64
	Actions   []string
}

// Paper is a generated quiz with an ordered list of questions.
type Paper struct {
	ID            int64
	Title         string
	QuestionCount int
	CreatedAt     time.Time
	Questions     []Question
}

// Question references a sentence and its correct action, plus ordered options.
type Question struct {
	ID         int64
	PaperID    int64
	SentenceID int64
	ActionID   int64
	Order      int
	Sentence   string
	Word       string
	Options    []Option
}

// Option is one answer choice of a question.
type Option struct {
	ID          int64
	QuestionID  int64
	ActionID    int64
	IsCorrect   bool
	Order       int
	Action      string
	Translation string
}
