package proofing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/workproof/jobsvc/internal/job"
)

// DefaultModel is the chat model used when none is configured
const DefaultModel = "gpt-4o-mini"

const defaultMaxTokens = 1500

const proofingInstructions = "You are a meticulous proofreader. " +
	"Correct spelling, grammar and clarity only, with no extra commentary or re-structuring. " +
	"Ensure each sentence ends with a full stop unless it already ends with appropriate punctuation (e.g. '.', '!', '?')."

// OpenAIConfig configures the OpenAI-backed proofreader
type OpenAIConfig struct {
	// APIKey for OpenAI (defaults to the OPENAI_API_KEY env var)
	APIKey    string
	Model     string
	MaxTokens int
}

// OpenAIProofreader corrects content through the OpenAI chat completions API
type OpenAIProofreader struct {
	client    *openai.Client
	model     string
	maxTokens int64
	logger    *slog.Logger
}

// NewOpenAIProofreader creates an OpenAI proofreader
func NewOpenAIProofreader(config OpenAIConfig, logger *slog.Logger) (*OpenAIProofreader, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	maxTokens := int64(config.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIProofreader{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProofreader) Name() string {
	return "openai"
}

// Proof sends text to the chat completions API and returns the corrected
// version. Empty completions fall back to the original text.
func (p *OpenAIProofreader) Proof(ctx context.Context, recordID, text string) (string, error) {
	p.logger.Debug("Proofing record",
		slog.String("record_id", recordID),
		slog.String("model", p.model),
	)

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(p.model),
		MaxTokens: openai.Int(p.maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(proofingInstructions),
			openai.UserMessage(proofingPrompt(text)),
		},
	})
	if err != nil {
		return "", job.NewDependencyError("openai chat completion", err)
	}

	if len(resp.Choices) == 0 {
		p.logger.Warn("Completion returned no choices", slog.String("record_id", recordID))
		return text, nil
	}

	proofed := strings.TrimSpace(resp.Choices[0].Message.Content)
	if proofed == "" {
		return text, nil
	}

	return proofed, nil
}

func proofingPrompt(text string) string {
	return "Proofread the following text according to these strict guidelines:\n" +
		"- Do NOT add any introductory or explanatory sentences before or after the original content.\n" +
		"- Spelling and grammar are corrected in British English, and spacing is corrected.\n" +
		"- Headings, section titles, and structure remain unchanged.\n" +
		"- Do NOT remove any words or phrases from the original content.\n" +
		"- Do NOT split, merge, or add any new sentences or content.\n" +
		"- Ensure that lists, bullet points, and standalone words remain intact.\n" +
		"- Ensure only to proofread once, never repeat the same text twice in the output.\n\n" +
		"Text to proofread: " + text
}
