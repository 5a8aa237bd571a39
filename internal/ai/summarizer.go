package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// The article body is capped by word count before it is sent to the
	// completion API to bound request size.
	maxArticleWords = 2500
	// Summaries are capped at 500 characters. 125 output tokens is the
	// matching budget at ~4 characters per token.
	maxSummaryChars    = 500
	summaryTokenBudget = 125
	summaryTemperature = 0.4
)

var markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)]\(([^)]+)\)`)

// ChatCompleter is the slice of the OpenAI client the summarizer needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Summarizer struct {
	client ChatCompleter
	model  string
	http   *http.Client
}

func NewSummarizer(client ChatCompleter, model string) *Summarizer {
	return &Summarizer{
		client: client,
		model:  model,
		http:   &http.Client{},
	}
}

// Summarize fetches the readable article at rawURL and produces a summary
// of at most 500 characters. Retrieval problems surface as *FetchError and
// completion problems as *SummarizationError so the caller can fall back
// to the page's own metadata description.
func (s *Summarizer) Summarize(ctx context.Context, rawURL string) (string, error) {
	if s.client == nil {
		return "", ErrNoClient
	}

	content, err := s.fetchArticleContent(ctx, rawURL)
	if err != nil {
		return "", err
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful assistant."},
			{Role: openai.ChatMessageRoleUser, Content: "Can you help create a summary under 500 character of the following webpage?"},
			{Role: openai.ChatMessageRoleUser, Content: "The article is formatted as markdown."},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("The article is as follows: \n%s", content)},
		},
		Temperature: summaryTemperature,
		MaxTokens:   summaryTokenBudget,
	})
	if err != nil {
		return "", &SummarizationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &SummarizationError{Err: fmt.Errorf("completion returned no choices")}
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	return TruncateChars(summary, maxSummaryChars), nil
}

func (s *Summarizer) fetchArticleContent(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	res, err := s.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("status code %d", res.StatusCode)}
	}

	article, err := readability.FromReader(res.Body, pageURL)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("no article content found")}
	}

	markdown, err := htmlToMarkdown(article.Content)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	return TruncateWords(StripMarkdownLinks(markdown), maxArticleWords), nil
}

// htmlToMarkdown flattens the extracted article HTML into plain text with
// anchors rendered as [text](href) markdown links.
func htmlToMarkdown(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		text := strings.TrimSpace(sel.Text())
		if !ok || text == "" {
			return
		}
		sel.SetText(fmt.Sprintf("[%s](%s)", text, href))
	})
	return doc.Text(), nil
}

// StripMarkdownLinks replaces every [text](url) occurrence with just the
// link text. Text without links passes through unchanged.
func StripMarkdownLinks(text string) string {
	return markdownLinkPattern.ReplaceAllString(text, "$1")
}

// TruncateWords keeps the first n whitespace-separated words, joined by a
// single space.
func TruncateWords(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// TruncateChars hard-truncates to max characters, ending in "..." when
// anything was cut. Characters, not bytes: multibyte text is never split
// mid-rune.
func TruncateChars(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max-3]) + "..."
}
