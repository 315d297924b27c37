// Package notes parses semi-structured study notes on Classical Chinese
// function words into normalized action and sentence records.
package notes

import (
	"encoding/json"
	"io"
	"strings"
)

// Action is one parsed word usage, keyed camelCase to match the JSON
// interchange format.
type Action struct {
	ID           int64  `json:"id"`
	Word         string `json:"emptyWord"`
	PartOfSpeech string `json:"partOfSpeech"`
	Action       string `json:"action"`
	Translation  string `json:"translation"`
}

// Sentence is one parsed example sentence tied to an action.
type Sentence struct {
	ID       int64  `json:"id"`
	Text     string `json:"sentence"`
	Word     string `json:"emptyWord"`
	ActionID int64  `json:"actionId"`
}

// Skipped records a non-blank input line the parser could not place.
type Skipped struct {
	Line int    `json:"-"`
	Text string `json:"-"`
}

// Document is the parser output and the JSON interchange format.
type Document struct {
	Actions   []Action   `json:"emptyWordActions"`
	Sentences []Sentence `json:"exampleSentences"`
	Skipped   []Skipped  `json:"-"`
}

// Config carries the lookup tables the parser needs. The maps are treated
// as immutable.
type Config struct {
	// WordBySeq maps a Chinese numeral section sequence to the word it
	// introduces, e.g. "一" -> "而".
	WordBySeq map[string]string
	// PosByName maps a part-of-speech display name to its stored code,
	// e.g. "连词" -> "CONJUNCTION".
	PosByName map[string]string
	// Words lists the known function words in section order.
	Words []string
}

// DefaultConfig returns the standard 18-word lookup tables.
func DefaultConfig() Config {
	return Config{
		WordBySeq: map[string]string{
			"一": "而", "二": "何", "三": "乎", "四": "乃", "五": "其",
			"六": "且", "七": "若", "八": "所", "九": "为", "十": "焉",
			"十一": "也", "十二": "以", "十三": "因", "十四": "于", "十五": "与",
			"十六": "则", "十七": "者", "十八": "之",
		},
		PosByName: map[string]string{
			"连词":     "CONJUNCTION",
			"副词":     "ADVERB",
			"介词":     "PREPOSITION",
			"代词":     "PRONOUN",
			"疑问代词":   "PRONOUN",
			"疑问副词":   "ADVERB",
			"动词":     "VERB",
			"名词":     "NOUN",
			"语气助词":   "PARTICLE",
			"句末语气词":  "PARTICLE",
			"句中语气词":  "PARTICLE",
			"语气词":    "PARTICLE",
			"形容词":    "ADJECTIVE",
			"助词":     "AUXILIARY",
			"复音虚词":   "AUXILIARY",
			"副音虚词":   "AUXILIARY",
			"兼词":     "PRONOUN",
			"指示代词":   "PRONOUN",
			"第三人称代词": "PRONOUN",
			"形容词词尾":  "PARTICLE",
		},
		Words: []string{
			"而", "何", "乎", "乃", "其", "且", "若", "所", "为",
			"焉", "也", "以", "因", "于", "与", "则", "者", "之",
		},
	}
}

// DetectWords returns the known function words contained in text, in the
// order they appear in words.
func DetectWords(text string, words []string) []string {
	var found []string
	for _, w := range words {
		if strings.Contains(text, w) {
			found = append(found, w)
		}
	}
	return found
}

// ReadJSON decodes a document from its JSON interchange form.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
