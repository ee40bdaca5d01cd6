// Package importer seeds draft postings from existing vacancy pages on the
// web: fetch the page, reduce it to text, and let the model extract the
// posting fields from it.
package importer

import (
	"context"
	"net/http"
	"unicode/utf8"

	"github.com/recrutaai/recruta-backend/internal/chat"
	"github.com/recrutaai/recruta-backend/internal/llm"
	"github.com/recrutaai/recruta-backend/internal/prompts"
)

const (
	extractionTemperature     = 0.1
	extractionMaxOutputTokens = 2048

	// maxContentChars bounds how much page text goes into the prompt.
	maxContentChars = 20000
)

// Extraction is the outcome of importing one vacancy page.
type Extraction struct {
	SourceURL string
	Summary   string
	Fields    map[string]any
}

// Importer extracts posting fields from vacancy pages.
type Importer struct {
	model      llm.Client
	httpClient *http.Client
}

// New creates an importer backed by the given model.
func New(model llm.Client) *Importer {
	return &Importer{
		model:      model,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// ExtractFromURL fetches a vacancy page and extracts posting fields from its
// text. The extracted values still go through the regular coercion path, so a
// hallucinated value degrades to a dropped field, never a bad record.
func (i *Importer) ExtractFromURL(ctx context.Context, url string) (*Extraction, error) {
	html, err := fetchPage(ctx, i.httpClient, url)
	if err != nil {
		return nil, err
	}

	text, err := extractMainText(html)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, &FetchError{URL: url, Message: "page has no extractable text"}
	}
	if len(text) > maxContentChars {
		cut := maxContentChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	prompt := prompts.Format(prompts.MustGet("chat.json", "vacancy-import-extraction"), map[string]string{
		"Content": text,
	})

	completion, err := i.model.Complete(ctx, []llm.ChatMessage{
		{Role: llm.RoleUser, Text: prompt},
	}, llm.CompleteOptions{
		ResponseFormat:  "json",
		Temperature:     extractionTemperature,
		MaxOutputTokens: extractionMaxOutputTokens,
	})
	if err != nil {
		return nil, &chat.ErrUpstreamUnavailable{Cause: err}
	}

	reply := chat.ParseAssistantReply(completion.Text)
	return &Extraction{
		SourceURL: url,
		Summary:   reply.Message,
		Fields:    reply.ExtractedFields,
	}, nil
}
