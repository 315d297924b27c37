// Package quiz builds multiple-choice papers from stored example sentences.
package quiz

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/minyue/xuci/pkg/db"
)

// ErrNoSentences is returned when no stored sentence matches the request
// filters (or none of the matches has a linked usage).
var ErrNoSentences = errors.New("no matching sentences")

// Request describes the paper to generate. Empty Words or PartsOfSpeech
// mean "no filter".
type Request struct {
	Words         []string
	PartsOfSpeech []string
	Count         int
	Title         string
}

// Generator samples sentences and builds papers. Rand is the randomness
// source for sampling and option shuffling; a time-seeded source is used
// when nil so repeated runs produce different papers.
type Generator struct {
	DB   *sql.DB
	Rand *rand.Rand
}

// NewGenerator returns a Generator over conn with a time-seeded source.
func NewGenerator(conn *sql.DB) *Generator {
	return &Generator{
		DB:   conn,
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate builds and stores a paper for the request, returning its id.
//
// It selects up to Count sentences without replacement from those matching
// the filters. Each selected sentence becomes one question whose correct
// answer is the sentence's first linked usage, with up to 3 distractor
// usages of the same word (any part of speech). Sentences without a linked
// usage are skipped. If fewer sentences match than Count, one question per
// available sentence is emitted.
func (g *Generator) Generate(req Request) (int64, error) {
	if g.Rand == nil {
		g.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if req.Count < 1 {
		return 0, fmt.Errorf("question count must be at least 1, got %d", req.Count)
	}
	if strings.TrimSpace(req.Title) == "" {
		return 0, fmt.Errorf("paper title must be non-empty")
	}

	sentences, err := db.ListSentences(g.DB, "", 0)
	if err != nil {
		return 0, fmt.Errorf("list sentences: %w", err)
	}
	actions, err := db.ListWordActions(g.DB, "")
	if err != nil {
		return 0, fmt.Errorf("list word actions: %w", err)
	}
	actionsByWord := make(map[string][]db.WordAction)
	for _, a := range actions {
		actionsByWord[a.Word] = append(actionsByWord[a.Word], a)
	}

	pool := filterSentences(sentences, actionsByWord, req)
	if len(pool) == 0 {
		return 0, ErrNoSentences
	}

	g.Rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	var drafts []db.QuestionDraft
	for _, s := range pool {
		if len(drafts) == req.Count {
			break
		}
		d, ok := g.buildQuestion(s, actionsByWord[s.Word])
		if !ok {
			continue
		}
		drafts = append(drafts, d)
	}
	if len(drafts) == 0 {
		return 0, ErrNoSentences
	}

	return db.CreatePaper(g.DB, req.Title, drafts)
}

// filterSentences keeps sentences whose word is in the allowed set and
// whose word has at least one action in the allowed part-of-speech set.
func filterSentences(sentences []db.Sentence, actionsByWord map[string][]db.WordAction, req Request) []db.Sentence {
	allowedWords := toSet(req.Words)
	allowedPos := toSet(req.PartsOfSpeech)

	var pool []db.Sentence
	for _, s := range sentences {
		if len(allowedWords) > 0 && !allowedWords[s.Word] {
			continue
		}
		if len(allowedPos) > 0 {
			match := false
			for _, a := range actionsByWord[s.Word] {
				if allowedPos[a.PartOfSpeech] {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		pool = append(pool, s)
	}
	return pool
}

// buildQuestion makes a draft for one sentence: correct answer is the
// first linked usage, distractors are other usages of the same word.
func (g *Generator) buildQuestion(s db.Sentence, wordActions []db.WordAction) (db.QuestionDraft, bool) {
	if len(s.ActionIDs) == 0 {
		return db.QuestionDraft{}, false
	}
	correctID := s.ActionIDs[0]

	var wrong []int64
	for _, a := range wordActions {
		if a.ID != correctID {
			wrong = append(wrong, a.ID)
		}
	}
	g.Rand.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	if len(wrong) > 3 {
		wrong = wrong[:3]
	}

	options := make([]db.OptionDraft, 0, len(wrong)+1)
	for _, id := range wrong {
		options = append(options, db.OptionDraft{ActionID: id})
	}
	options = append(options, db.OptionDraft{ActionID: correctID, Correct: true})
	g.Rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return db.QuestionDraft{
		SentenceID: s.ID,
		ActionID:   correctID,
		Options:    options,
	}, true
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
