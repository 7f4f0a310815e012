package textparse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// ChatCompleter is the part of the OpenAI client the parser needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMParser asks an OpenAI-compatible chat endpoint for a JSON guess.
type LLMParser struct {
	client  ChatCompleter
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// NewLLMParser builds a parser against baseURL (empty means OpenAI).
func NewLLMParser(apiKey, baseURL, model string, timeout time.Duration, log zerolog.Logger) *LLMParser {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewLLMParserWithClient(openai.NewClientWithConfig(cfg), model, timeout, log)
}

// NewLLMParserWithClient uses an existing client.
func NewLLMParserWithClient(client ChatCompleter, model string, timeout time.Duration, log zerolog.Logger) *LLMParser {
	return &LLMParser{
		client:  client,
		model:   model,
		timeout: timeout,
		log:     log.With().Str("component", "textparse").Logger(),
	}
}

const systemPrompt = `You extract spending transactions from short notes.
Reply with one JSON object and nothing else:
{"description": string, "amount": number, "category": string}
- description: a clean name of the item or store
- amount: the amount spent, or 0 if none is mentioned
- category: exactly one of: %s
If the text is only a store or item name, predict the most likely category.`

func prompt() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return fmt.Sprintf(systemPrompt, strings.Join(names, ", "))
}

type reply struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
}

// Parse returns an error only when the endpoint fails. A reply that is not
// the expected JSON yields Fallback(text).
func (p *LLMParser) Parse(ctx context.Context, text string) (Guess, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt()},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Analyze this spending transaction: %q", text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return Guess{}, fmt.Errorf("text parser request: %w", err)
	}
	if len(resp.Choices) == 0 {
		p.log.Warn().Msg("empty completion, using fallback guess")
		return Fallback(text), nil
	}

	content := stripFence(resp.Choices[0].Message.Content)
	var r reply
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		p.log.Warn().Err(err).Str("raw", content).Msg("unparseable completion, using fallback guess")
		return Fallback(text), nil
	}

	return sanitize(Guess{
		Description: r.Description,
		Amount:      r.Amount,
		Category:    model.ParseCategory(r.Category),
	}, text), nil
}

// stripFence removes a ```json ... ``` wrapper some models add anyway.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
