// Command xuci manages a local database of Classical Chinese function
// words, their usages and example sentences, and generates multiple-choice
// quiz papers from them.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/minyue/xuci/pkg/app"
	"github.com/minyue/xuci/pkg/config"
	"github.com/minyue/xuci/pkg/db"
	"github.com/minyue/xuci/pkg/export"
	"github.com/minyue/xuci/pkg/ingest"
	"github.com/minyue/xuci/pkg/notes"
	"github.com/minyue/xuci/pkg/quiz"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	configFlag := pflag.String("config", "", "Path to yaml config file")
	dbFlag := pflag.String("db", "", "Path to SQLite database (overrides config)")

	importJSON := pflag.String("import-json", "", "Import actions and sentences from a JSON file")
	importNotes := pflag.String("import-notes", "", "Import a markdown study-notes file")
	importSentences := pflag.String("import-sentences", "", "Bulk add sentences from a numbered-lines file")
	urlFlag := pflag.String("url", "", "Bulk add sentences extracted from a web page")

	addAction := pflag.String("add-action", "", "Add a word action as word|pos|action|translation")
	deleteAction := pflag.Int64("delete-action", 0, "Delete a word action by id")
	listActions := pflag.Bool("list-actions", false, "List word actions")
	listSentences := pflag.Bool("list-sentences", false, "List example sentences")
	deleteSentence := pflag.Int64("delete-sentence", 0, "Delete a sentence by id")
	wordFlag := pflag.String("word", "", "Word filter for list operations")

	generate := pflag.Bool("generate", false, "Generate a new paper")
	words := pflag.StringSlice("words", nil, "Allowed words for generation")
	pos := pflag.StringSlice("pos", nil, "Allowed part-of-speech codes for generation")
	count := pflag.Int("count", 0, "Question count for generation (0 uses the configured default)")
	title := pflag.String("title", "", "Paper title (empty derives one from the date)")

	listPapers := pflag.Bool("list-papers", false, "List stored papers")
	exportPaper := pflag.Int64("export", 0, "Export a paper by id")
	outFlag := pflag.String("out", "", "Output file for export (default stdout)")
	showOptions := pflag.Bool("show-options", false, "Include options in the export")
	showAnswer := pflag.Bool("show-answer", false, "Include answer lines in the export")
	highlight := pflag.Bool("highlight", false, "Highlight the function word in each sentence")
	deletePaper := pflag.Int64("delete-paper", 0, "Delete a paper by id")

	pflag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log)

	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		fatal(logger, "open database", err)
	}
	defer conn.Close()

	if err := db.InitDB(conn); err != nil {
		fatal(logger, "initialize database", err)
	}

	parserCfg := notes.DefaultConfig()

	switch {
	case *importJSON != "":
		f, err := os.Open(*importJSON)
		if err != nil {
			fatal(logger, "open import file", err)
		}
		defer f.Close()
		doc, err := notes.ReadJSON(f)
		if err != nil {
			fatal(logger, "decode import file", err)
		}
		st, err := ingest.ImportDocument(conn, doc)
		if err != nil {
			fatal(logger, "import", err)
		}
		fmt.Printf("Imported %d word actions, %d example sentences\n", st.Actions, st.Sentences)

	case *importNotes != "":
		content, err := os.ReadFile(*importNotes)
		if err != nil {
			fatal(logger, "read notes file", err)
		}
		doc := notes.Parse(string(content), parserCfg)
		for _, sk := range doc.Skipped {
			logger.Warn("unparsed line", "line", sk.Line, "text", sk.Text)
		}
		st, err := ingest.ImportDocument(conn, doc)
		if err != nil {
			fatal(logger, "import", err)
		}
		fmt.Printf("Parsed %d word actions, %d example sentences (%d lines skipped)\n",
			len(doc.Actions), len(doc.Sentences), len(doc.Skipped))
		fmt.Printf("Imported %d word actions, %d example sentences\n", st.Actions, st.Sentences)

	case *importSentences != "":
		content, err := os.ReadFile(*importSentences)
		if err != nil {
			fatal(logger, "read sentences file", err)
		}
		lines := notes.ParseNumberedSentences(string(content))
		added, err := ingest.BulkSentences(conn, lines, parserCfg)
		if err != nil {
			fatal(logger, "bulk add", err)
		}
		fmt.Printf("Added %d example sentences\n", added)

	case *urlFlag != "":
		added, err := ingest.Article(ctx, conn, *urlFlag, parserCfg)
		if err != nil {
			fatal(logger, "import from url", err)
		}
		fmt.Printf("Added %d example sentences from %s\n", added, *urlFlag)

	case *addAction != "":
		parts := strings.SplitN(*addAction, "|", 4)
		if len(parts) < 3 {
			fatal(logger, "add action", fmt.Errorf("want word|pos|action|translation, got %q", *addAction))
		}
		a := db.WordAction{Word: parts[0], PartOfSpeech: parts[1], Action: parts[2]}
		if len(parts) == 4 {
			a.Translation = parts[3]
		}
		id, err := db.CreateWordAction(conn, a)
		if err != nil {
			fatal(logger, "add action", err)
		}
		fmt.Printf("Added word action %d\n", id)

	case *deleteAction != 0:
		if err := db.DeleteWordAction(conn, *deleteAction); err != nil {
			fatal(logger, "delete action", err)
		}
		fmt.Printf("Deleted word action %d\n", *deleteAction)

	case *listActions:
		actions, err := db.ListWordActions(conn, *wordFlag)
		if err != nil {
			fatal(logger, "list actions", err)
		}
		for _, a := range actions {
			fmt.Printf("%4d  %s  %-12s  %s（%s）\n", a.ID, a.Word, a.PartOfSpeech, a.Action, a.Translation)
		}
		fmt.Printf("%d word actions\n", len(actions))

	case *listSentences:
		sentences, err := db.ListSentences(conn, *wordFlag, 0)
		if err != nil {
			fatal(logger, "list sentences", err)
		}
		for _, s := range sentences {
			fmt.Printf("%4d  [%s]  %s", s.ID, s.Word, s.Text)
			if len(s.Actions) > 0 {
				fmt.Printf("  (%s)", strings.Join(s.Actions, ", "))
			}
			fmt.Println()
		}
		fmt.Printf("%d example sentences\n", len(sentences))

	case *deleteSentence != 0:
		if err := db.DeleteSentence(conn, *deleteSentence); err != nil {
			fatal(logger, "delete sentence", err)
		}
		fmt.Printf("Deleted sentence %d\n", *deleteSentence)

	case *generate:
		req := quiz.Request{
			Words:         *words,
			PartsOfSpeech: *pos,
			Count:         *count,
			Title:         *title,
		}
		if req.Count == 0 {
			req.Count = cfg.Quiz.DefaultCount
		}
		if req.Title == "" {
			req.Title = cfg.Quiz.TitlePrefix + " " + time.Now().Format("2006-01-02")
		}
		gen := quiz.NewGenerator(conn)
		paperID, err := gen.Generate(req)
		if err != nil {
			fatal(logger, "generate paper", err)
		}
		p, err := db.GetPaper(conn, paperID)
		if err != nil {
			fatal(logger, "load paper", err)
		}
		fmt.Printf("Created paper %d %q with %d questions\n", p.ID, p.Title, p.QuestionCount)

	case *listPapers:
		papers, err := db.ListPapers(conn)
		if err != nil {
			fatal(logger, "list papers", err)
		}
		for _, p := range papers {
			fmt.Printf("%4d  %s  (%d questions, %s)\n", p.ID, p.Title, p.QuestionCount, p.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Printf("%d papers\n", len(papers))

	case *exportPaper != 0:
		p, err := db.GetPaper(conn, *exportPaper)
		if err != nil {
			fatal(logger, "load paper", err)
		}
		out := os.Stdout
		if *outFlag != "" {
			f, err := os.Create(*outFlag)
			if err != nil {
				fatal(logger, "create output file", err)
			}
			defer f.Close()
			out = f
		}
		opts := export.Options{
			ShowOptions:   *showOptions,
			ShowAnswer:    *showAnswer,
			HighlightWord: *highlight,
		}
		if err := export.Render(out, p, opts); err != nil {
			fatal(logger, "render paper", err)
		}

	case *deletePaper != 0:
		if err := db.DeletePaper(conn, *deletePaper); err != nil {
			fatal(logger, "delete paper", err)
		}
		fmt.Printf("Deleted paper %d\n", *deletePaper)

	default:
		pflag.Usage()
		os.Exit(2)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}
