// Package export renders an assembled paper as a plain-text exam document.
package export

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/minyue/xuci/pkg/db"
)

// Options control which parts of a question block are rendered.
type Options struct {
	ShowOptions   bool
	ShowAnswer    bool
	HighlightWord bool
}

const paperTmpl = `{{.Title}}
{{range .Questions}}
{{.Number}}. {{.Sentence}}
{{- range .Options}}
   {{.Letter}}. {{.Text}}
{{- end}}
{{- if .Answer}}
   答案: {{.Answer}}
{{- end}}
{{end}}`

type optionView struct {
	Letter string
	Text   string
}

type questionView struct {
	Number   int
	Sentence string
	Options  []optionView
	Answer   string
}

type paperView struct {
	Title     string
	Questions []questionView
}

var tmpl = template.Must(template.New("paper").Parse(paperTmpl))

// Render writes the paper to w: a title line followed by one numbered block
// per question with optional lettered options and answer line. This is a
// pure rendering pass over already-assembled data.
func Render(w io.Writer, p db.Paper, opts Options) error {
	view := paperView{Title: p.Title}
	for i, q := range p.Questions {
		qv := questionView{
			Number:   i + 1,
			Sentence: q.Sentence,
		}
		if opts.HighlightWord {
			qv.Sentence = highlight(q.Sentence, q.Word)
		}
		if opts.ShowOptions {
			for j, o := range q.Options {
				qv.Options = append(qv.Options, optionView{
					Letter: letter(j),
					Text:   optionText(o),
				})
			}
		}
		if opts.ShowAnswer {
			for _, o := range q.Options {
				if o.IsCorrect {
					qv.Answer = optionText(o)
					break
				}
			}
		}
		view.Questions = append(view.Questions, qv)
	}
	return tmpl.Execute(w, view)
}

// highlight marks the first occurrence of the function word in the sentence.
func highlight(sentence, word string) string {
	if word == "" {
		return sentence
	}
	return strings.Replace(sentence, word, "【"+word+"】", 1)
}

// optionText joins a usage with its translation gloss, e.g. "并列（又）".
func optionText(o db.Option) string {
	if o.Translation != "" {
		return o.Action + "（" + o.Translation + "）"
	}
	return o.Action
}

// letter returns the option label: a, b, c, d.
func letter(i int) string {
	return fmt.Sprintf("%c", 'a'+i)
}
