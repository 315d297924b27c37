package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minyue/xuci/pkg/db"
)

func samplePaper() db.Paper {
	return db.Paper{
		ID:            1,
		Title:         "虚词练习 2024-06-01",
		QuestionCount: 2,
		Questions: []db.Question{
			{
				ID: 1, Order: 1, Sentence: "蟹六跪而二螯", Word: "而", ActionID: 1,
				Options: []db.Option{
					{ActionID: 2, Order: 1, Action: "转折", Translation: "但是"},
					{ActionID: 1, Order: 2, Action: "并列", Translation: "又", IsCorrect: true},
				},
			},
			{
				ID: 2, Order: 2, Sentence: "石之铿然有声者", Word: "之", ActionID: 3,
				Options: []db.Option{
					{ActionID: 3, Order: 1, Action: "结构助词", Translation: "的", IsCorrect: true},
					{ActionID: 4, Order: 2, Action: "动词", Translation: ""},
				},
			},
		},
	}
}

func TestRenderBare(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samplePaper(), Options{}))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "虚词练习 2024-06-01\n"), "title first: %q", out)
	require.Contains(t, out, "1. 蟹六跪而二螯")
	require.Contains(t, out, "2. 石之铿然有声者")
	require.NotContains(t, out, "a.")
	require.NotContains(t, out, "答案")
}

func TestRenderWithOptionsAndAnswer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samplePaper(), Options{ShowOptions: true, ShowAnswer: true}))
	out := buf.String()

	require.Contains(t, out, "a. 转折（但是）")
	require.Contains(t, out, "b. 并列（又）")
	require.Contains(t, out, "答案: 并列（又）")
	// Option without a translation is rendered without the gloss parens.
	require.Contains(t, out, "b. 动词\n")
	require.Contains(t, out, "答案: 结构助词（的）")
}

func TestRenderHighlight(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samplePaper(), Options{HighlightWord: true}))
	out := buf.String()

	require.Contains(t, out, "1. 蟹六跪【而】二螯")
	require.Contains(t, out, "2. 石【之】铿然有声者")
}

// TestRenderRoundTrip re-parses the rendered document and checks the
// sentence and option text survive export unchanged.
func TestRenderRoundTrip(t *testing.T) {
	p := samplePaper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p, Options{ShowOptions: true}))

	var sentences, options []string
	for _, line := range strings.Split(buf.String(), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || line == p.Title:
		case line[0] >= '1' && line[0] <= '9':
			_, text, ok := strings.Cut(line, ". ")
			require.True(t, ok, "question line %q", line)
			sentences = append(sentences, text)
		case line[0] >= 'a' && line[0] <= 'd':
			_, text, ok := strings.Cut(line, ". ")
			require.True(t, ok, "option line %q", line)
			options = append(options, text)
		}
	}

	require.Equal(t, []string{"蟹六跪而二螯", "石之铿然有声者"}, sentences)
	require.Equal(t, []string{"转折（但是）", "并列（又）", "结构助词（的）", "动词"}, options)
}
