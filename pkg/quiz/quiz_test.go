package quiz

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minyue/xuci/pkg/db"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.InitDB(conn))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newTestGenerator(conn *sql.DB) *Generator {
	return &Generator{DB: conn, Rand: rand.New(rand.NewSource(1))}
}

// seedZhi inserts 4 usages for 之 and n sentences linked to the first usage.
func seedZhi(t *testing.T, conn *sql.DB, n int) []int64 {
	t.Helper()
	var actionIDs []int64
	for _, a := range []db.WordAction{
		{Word: "之", PartOfSpeech: "AUXILIARY", Action: "结构助词", Translation: "的"},
		{Word: "之", PartOfSpeech: "PRONOUN", Action: "代指人或物", Translation: "他/它"},
		{Word: "之", PartOfSpeech: "VERB", Action: "动词", Translation: "到……去"},
		{Word: "之", PartOfSpeech: "AUXILIARY", Action: "取消句子独立性", Translation: ""},
	} {
		id, err := db.CreateWordAction(conn, a)
		require.NoError(t, err)
		actionIDs = append(actionIDs, id)
	}
	for i := 0; i < n; i++ {
		_, err := db.CreateSentence(conn, db.Sentence{
			Text: fmt.Sprintf("之字例句第%d句", i+1),
			Word: "之",
		}, []int64{actionIDs[0]})
		require.NoError(t, err)
	}
	return actionIDs
}

func TestGenerateScenario(t *testing.T) {
	conn := setupTestDB(t)
	seedZhi(t, conn, 5)

	gen := newTestGenerator(conn)
	paperID, err := gen.Generate(Request{Words: []string{"之"}, Count: 2, Title: "之字练习"})
	require.NoError(t, err)

	p, err := db.GetPaper(conn, paperID)
	require.NoError(t, err)
	require.Equal(t, 2, p.QuestionCount)
	require.Len(t, p.Questions, 2)

	for _, q := range p.Questions {
		require.GreaterOrEqual(t, len(q.Options), 2)
		require.LessOrEqual(t, len(q.Options), 4)
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
				require.Equal(t, q.ActionID, o.ActionID)
			}
		}
		require.Equal(t, 1, correct, "question %d", q.Order)
	}
}

func TestGenerateFewerMatchesThanCount(t *testing.T) {
	conn := setupTestDB(t)
	seedZhi(t, conn, 3)

	gen := newTestGenerator(conn)
	paperID, err := gen.Generate(Request{Count: 10, Title: "t"})
	require.NoError(t, err)

	p, err := db.GetPaper(conn, paperID)
	require.NoError(t, err)
	require.Equal(t, 3, p.QuestionCount)
}

func TestGenerateSkipsUnlinkedSentences(t *testing.T) {
	conn := setupTestDB(t)
	seedZhi(t, conn, 2)

	// A sentence with no linked usage must never become a question.
	_, err := db.CreateSentence(conn, db.Sentence{Text: "之二虫又何知", Word: "之"}, nil)
	require.NoError(t, err)

	gen := newTestGenerator(conn)
	paperID, err := gen.Generate(Request{Count: 10, Title: "t"})
	require.NoError(t, err)

	p, err := db.GetPaper(conn, paperID)
	require.NoError(t, err)
	require.Equal(t, 2, p.QuestionCount)
	for _, q := range p.Questions {
		require.NotEqual(t, "之二虫又何知", q.Sentence)
	}
}

func TestGenerateWordFilter(t *testing.T) {
	conn := setupTestDB(t)
	seedZhi(t, conn, 2)

	erID, err := db.CreateWordAction(conn, db.WordAction{Word: "而", PartOfSpeech: "CONJUNCTION", Action: "并列", Translation: "又"})
	require.NoError(t, err)
	_, err = db.CreateSentence(conn, db.Sentence{Text: "蟹六跪而二螯", Word: "而"}, []int64{erID})
	require.NoError(t, err)

	gen := newTestGenerator(conn)
	paperID, err := gen.Generate(Request{Words: []string{"而"}, Count: 10, Title: "t"})
	require.NoError(t, err)

	p, err := db.GetPaper(conn, paperID)
	require.NoError(t, err)
	require.Equal(t, 1, p.QuestionCount)
	require.Equal(t, "而", p.Questions[0].Word)
	// 而 has a single usage, so the question has only the correct option.
	require.Len(t, p.Questions[0].Options, 1)
	require.True(t, p.Questions[0].Options[0].IsCorrect)
}

func TestGeneratePartOfSpeechFilter(t *testing.T) {
	conn := setupTestDB(t)
	seedZhi(t, conn, 2)

	erID, err := db.CreateWordAction(conn, db.WordAction{Word: "而", PartOfSpeech: "CONJUNCTION", Action: "并列"})
	require.NoError(t, err)
	_, err = db.CreateSentence(conn, db.Sentence{Text: "蟹六跪而二螯", Word: "而"}, []int64{erID})
	require.NoError(t, err)

	gen := newTestGenerator(conn)
	paperID, err := gen.Generate(Request{PartsOfSpeech: []string{"CONJUNCTION"}, Count: 10, Title: "t"})
	require.NoError(t, err)

	p, err := db.GetPaper(conn, paperID)
	require.NoError(t, err)
	require.Equal(t, 1, p.QuestionCount)
	require.Equal(t, "而", p.Questions[0].Word)
}

func TestGenerateValidation(t *testing.T) {
	conn := setupTestDB(t)
	seedZhi(t, conn, 1)
	gen := newTestGenerator(conn)

	_, err := gen.Generate(Request{Count: 0, Title: "t"})
	require.Error(t, err)

	_, err = gen.Generate(Request{Count: 1, Title: "   "})
	require.Error(t, err)

	// No partial state after rejected requests.
	papers, err := db.ListPapers(conn)
	require.NoError(t, err)
	require.Empty(t, papers)
}

func TestGenerateNoMatches(t *testing.T) {
	conn := setupTestDB(t)
	seedZhi(t, conn, 2)
	gen := newTestGenerator(conn)

	_, err := gen.Generate(Request{Words: []string{"焉"}, Count: 5, Title: "t"})
	require.True(t, errors.Is(err, ErrNoSentences), "got %v", err)
}

func TestGenerateZeroValueRand(t *testing.T) {
	conn := setupTestDB(t)
	seedZhi(t, conn, 3)

	gen := &Generator{DB: conn}
	paperID, err := gen.Generate(Request{Count: 2, Title: "t"})
	require.NoError(t, err)

	p, err := db.GetPaper(conn, paperID)
	require.NoError(t, err)
	require.Equal(t, 2, p.QuestionCount)
}

func TestGenerateSamplesWithoutReplacement(t *testing.T) {
	conn := setupTestDB(t)
	seedZhi(t, conn, 5)

	gen := newTestGenerator(conn)
	paperID, err := gen.Generate(Request{Count: 5, Title: "t"})
	require.NoError(t, err)

	p, err := db.GetPaper(conn, paperID)
	require.NoError(t, err)
	require.Equal(t, 5, p.QuestionCount)

	seen := map[int64]bool{}
	for _, q := range p.Questions {
		require.False(t, seen[q.SentenceID], "sentence %d sampled twice", q.SentenceID)
		seen[q.SentenceID] = true
	}
}
