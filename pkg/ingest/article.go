package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/minyue/xuci/pkg/notes"
)

const maxBodySize = 10 * 1024 * 1024 // limit for fetched HTML

// FetchArticleText downloads a page and extracts its readable text.
func FetchArticleText(ctx context.Context, pageURL string) (title, text string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	// Some text archives block default Go user agents.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}
	if len(body) >= maxBodySize {
		return "", "", fmt.Errorf("page exceeds %d byte limit", maxBodySize)
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", "", fmt.Errorf("parse url: %w", err)
	}
	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		return "", "", fmt.Errorf("extract article: %w", err)
	}
	return article.Title, article.TextContent, nil
}

// SplitSentences breaks Chinese running text on sentence-final punctuation.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		current.Reset()
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	for _, r := range text {
		current.WriteRune(r)
		// 。(3002), ！(FF01), ？(FF1F), ；(FF1B)
		if r == '。' || r == '！' || r == '？' || r == '；' || r == '\n' {
			flush()
		}
	}
	flush()
	return sentences
}

// Article fetches a web page, extracts its readable text, splits it into
// sentences and runs the same detect-and-link bulk add as pasted input.
func Article(ctx context.Context, conn *sql.DB, pageURL string, cfg notes.Config) (int, error) {
	_, text, err := FetchArticleText(ctx, pageURL)
	if err != nil {
		return 0, err
	}
	var lines []notes.NumberedSentence
	for _, s := range SplitSentences(text) {
		lines = append(lines, notes.NumberedSentence{Text: s})
	}
	return BulkSentences(conn, lines, cfg)
}
