package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"github.com/melodex/melodex/internal/config"
)

// Client wraps the Anthropic SDK for single-shot translation and analysis
// calls. Unlike an agent loop there is no tool use: each call sends one
// prompt and reads back one text response.
type Client struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewClient creates a client backed by Anthropic Claude or a compatible
// provider behind a custom base URL. Every call is bounded by timeout;
// zero or negative falls back to the configured default.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if model == "" {
		model = "claude-sonnet-4-6"
	}
	if timeout <= 0 {
		timeout = config.DefaultLLMTimeout * time.Second
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		client:    client,
		model:     model,
		maxTokens: 1024,
		timeout:   timeout,
	}
}

// TextToSQL translates a natural-language question into one SQL statement
// against the supplied schema. The returned SQL is a bare statement with
// any markdown fencing stripped; it has NOT been validated.
func (c *Client) TextToSQL(ctx context.Context, question, schemaText string) (string, error) {
	text, err := c.complete(ctx, sqlPrompt(schemaText), question)
	if err != nil {
		return "", classifyError(err)
	}

	sqlText := stripCodeFence(text)
	if strings.TrimSpace(sqlText) == "" {
		return "", &Error{
			Kind:        KindTranslationFailed,
			Message:     "model returned an empty translation",
			Remediation: "rephrase the question with a concrete table or column reference",
		}
	}

	log.Debug().
		Str("question", question).
		Str("sql", sqlText).
		Msg("question translated")

	return sqlText, nil
}

// AnalyzeResults asks the model for a prose summary of a query result.
// Callers pass a small textual preview, never the full result set.
func (c *Client) AnalyzeResults(ctx context.Context, question, sqlText, preview string) (string, error) {
	user := fmt.Sprintf(analysisUserPrompt, question, sqlText, preview)

	text, err := c.complete(ctx, analysisSystemPrompt, user)
	if err != nil {
		return "", classifyError(err)
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(c.model)),
		MaxTokens: anthropic.F(int64(c.maxTokens)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		}),
	}
	if system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(system),
		})
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var text string
	for _, block := range resp.Content {
		if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}
	return text, nil
}

// callContext bounds one provider call with the client's timeout.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// stripCodeFence removes a surrounding markdown code fence, if present,
// tolerating an optional language tag on the opening fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line ("sql", "SQL", or empty)
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
