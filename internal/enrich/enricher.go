// Package enrich asks a chat model for header fields the locators could not find.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/os-extractor/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrNoChoices is returned when the model answers with no completion
var ErrNoChoices = errors.New("no response from OpenAI")

const maxPromptRunes = 12000

// ChatCompleter is the part of *openai.Client the enricher needs
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds the model settings
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Enricher fills absent header fields from the document text
type Enricher struct {
	client ChatCompleter
	cfg    Config
	logger *zap.Logger
}

// NewEnricher creates an enricher backed by the OpenAI API
func NewEnricher(apiKey string, cfg Config, logger *zap.Logger) *Enricher {
	return NewEnricherWithClient(openai.NewClient(apiKey), cfg, logger)
}

// NewEnricherWithClient creates an enricher over any chat completer
func NewEnricherWithClient(client ChatCompleter, cfg Config, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

type field struct {
	key string
	ptr **string
}

func absentFields(r *models.ExtractionResult) []field {
	all := []field{
		{"order_number", &r.OrderNumber},
		{"issue_date", &r.IssueDate},
		{"client_code", &r.Client.Code},
		{"client_name", &r.Client.Name},
		{"client_email", &r.Client.Email},
		{"client_tax_id", &r.Client.TaxID},
		{"client_registration_id", &r.Client.RegistrationID},
		{"client_address", &r.Client.Address},
		{"client_phones", &r.Client.Phones},
		{"vehicle_fleet", &r.Vehicle.Fleet},
		{"vehicle_plate", &r.Vehicle.Plate},
		{"vehicle_odometer", &r.Vehicle.Odometer},
		{"remarks", &r.Remarks},
	}

	var absent []field
	for _, f := range all {
		if *f.ptr == nil {
			absent = append(absent, f)
		}
	}
	return absent
}

// Enrich fills header fields of result that are nil, using fullText as context.
// Items and totals are never touched. Returns the number of fields filled.
func (e *Enricher) Enrich(ctx context.Context, result *models.ExtractionResult, fullText string) (int, error) {
	absent := absentFields(result)
	if len(absent) == 0 {
		return 0, nil
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	keys := make([]string, len(absent))
	for i, f := range absent {
		keys[i] = f.key
	}

	e.logger.Debug("Sending enrichment request to OpenAI",
		zap.String("source_file", result.SourceFile),
		zap.Strings("fields", keys))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You extract header fields from Brazilian vehicle service orders (ordem de serviço). " +
					"Copy values exactly as they appear in the text. Use null when a field is not present. Always respond with valid JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(keys, fullText),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, ErrNoChoices
	}

	content := resp.Choices[0].Message.Content
	var answer map[string]any
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(&answer); err != nil {
		e.logger.Debug("Unparseable enrichment response", zap.String("content", content))
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	filled := 0
	for _, f := range absent {
		s, ok := scalarString(answer[f.key])
		if !ok {
			continue
		}
		*f.ptr = &s
		filled++
	}

	e.logger.Info("Enriched extraction",
		zap.String("source_file", result.SourceFile),
		zap.Int("requested", len(absent)),
		zap.Int("filled", filled))

	return filled, nil
}

// scalarString renders a JSON scalar as text. Null, empty strings, objects
// and arrays are rejected.
func scalarString(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number, bool:
		s = fmt.Sprint(t)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func buildPrompt(keys []string, fullText string) string {
	if r := []rune(fullText); len(r) > maxPromptRunes {
		fullText = string(r[:maxPromptRunes])
	}

	return fmt.Sprintf(`Service order text:
---
%s
---

Return a JSON object with exactly these keys: %s.
Each value is the string found in the text or null.`,
		fullText, strings.Join(keys, ", "))
}
