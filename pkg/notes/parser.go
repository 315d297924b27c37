package notes

import (
	"bufio"
	"regexp"
	"strings"
)

var usageRe = regexp.MustCompile(`^(\d+)[.、．]\s*(.*)$`)

// cutColon splits s at the first ASCII or fullwidth colon.
func cutColon(s string) (before, after string, found bool) {
	for i, r := range s {
		if r == ':' || r == '：' {
			return s[:i], s[i+len(string(r)):], true
		}
	}
	return s, "", false
}

// Parse scans study-note markdown and returns the actions and example
// sentences it contains, with sequential ids starting at 1.
//
// The expected shape is two heading levels and numbered usage lines:
//
//	## 一、而
//	### 连词
//	1. 并列：又
//	   - 蟹六跪而二螯
//
// Sections whose sequence is not in cfg.WordBySeq are skipped; every other
// non-blank line that fails to match is recorded in Document.Skipped
// instead of being dropped silently.
func Parse(content string, cfg Config) *Document {
	doc := &Document{}

	var word, pos string
	var currentAction int64
	skipSection := false
	lineNo := 0

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "### "):
			if skipSection {
				continue
			}
			name := strings.TrimSpace(strings.TrimPrefix(line, "### "))
			if word == "" {
				doc.Skipped = append(doc.Skipped, Skipped{Line: lineNo, Text: line})
				continue
			}
			if code, ok := cfg.PosByName[name]; ok {
				pos = code
			} else {
				pos = strings.ToUpper(name)
			}
			currentAction = 0

		case strings.HasPrefix(line, "## "):
			title := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			seq, _, ok := strings.Cut(title, "、")
			word = ""
			pos = ""
			currentAction = 0
			if !ok {
				skipSection = true
				doc.Skipped = append(doc.Skipped, Skipped{Line: lineNo, Text: line})
				continue
			}
			if w, known := cfg.WordBySeq[seq]; known {
				word = w
				skipSection = false
			} else {
				// Unknown section heading; swallow its body without
				// recording every line.
				skipSection = true
				doc.Skipped = append(doc.Skipped, Skipped{Line: lineNo, Text: line})
			}

		case strings.HasPrefix(line, "# "):
			// Document title.

		case skipSection:

		case strings.HasPrefix(line, "- "):
			text := strings.TrimSpace(strings.TrimPrefix(line, "- "))
			if currentAction == 0 || text == "" {
				doc.Skipped = append(doc.Skipped, Skipped{Line: lineNo, Text: line})
				continue
			}
			doc.Sentences = append(doc.Sentences, Sentence{
				ID:       int64(len(doc.Sentences) + 1),
				Text:     text,
				Word:     word,
				ActionID: currentAction,
			})

		case usageRe.MatchString(line):
			m := usageRe.FindStringSubmatch(line)
			action, translation, found := cutColon(m[2])
			if !found || word == "" || pos == "" {
				doc.Skipped = append(doc.Skipped, Skipped{Line: lineNo, Text: line})
				currentAction = 0
				continue
			}
			id := int64(len(doc.Actions) + 1)
			doc.Actions = append(doc.Actions, Action{
				ID:           id,
				Word:         word,
				PartOfSpeech: pos,
				Action:       strings.TrimSpace(action),
				Translation:  strings.TrimSpace(translation),
			})
			currentAction = id

		default:
			doc.Skipped = append(doc.Skipped, Skipped{Line: lineNo, Text: line})
		}
	}
	return doc
}

var numberedRe = regexp.MustCompile(`^(\d+)[.、．]\s*(.+)$`)

// NumberedSentence is one line of the bulk sentence import format.
type NumberedSentence struct {
	Ref  string
	Text string
}

// ParseNumberedSentences reads the bulk import format of one numbered
// sentence per line ("N. sentence text"). Unnumbered non-blank lines are
// kept as sentences without a reference number, matching pasted input.
func ParseNumberedSentences(content string) []NumberedSentence {
	var out []NumberedSentence
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if m := numberedRe.FindStringSubmatch(line); m != nil {
			out = append(out, NumberedSentence{Ref: m[1], Text: strings.TrimSpace(m[2])})
			continue
		}
		out = append(out, NumberedSentence{Text: line})
	}
	return out
}
