package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/morethan-log/core/internal/config"
	"github.com/morethan-log/core/internal/models"
	"github.com/morethan-log/core/internal/pkg/language"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
	"go.uber.org/zap"
)

const (
	defaultBatchSize    = 60
	defaultModelID      = "gpt-4o-mini"
	maxCompletionTokens = 8192
)

// Creator produces a finished translation record from a source post and its
// block tree. The sync orchestrator depends on this interface so tests can
// substitute a canned implementation.
type Creator interface {
	Model() string
	CreateTranslation(ctx context.Context, post models.PostRecord, tree *models.RecordMap) (*models.TranslationRecord, error)
}

// Translator talks to the configured AI provider.
type Translator struct {
	provider  config.AIProvider
	batchSize int
	logger    *zap.Logger
}

func NewTranslator(cfg config.TranslationConfig, logger *zap.Logger) *Translator {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Translator{provider: cfg.Provider, batchSize: batch, logger: logger}
}

// Model returns the configured model id, or the provider default.
func (t *Translator) Model() string {
	if model := strings.TrimSpace(t.provider.Model); model != "" {
		return model
	}
	return defaultModelID
}

// CreateTranslation extracts the post's text, translates it and assembles
// the stored record: a translated post variant plus the patched block tree.
func (t *Translator) CreateTranslation(ctx context.Context, post models.PostRecord, tree *models.RecordMap) (*models.TranslationRecord, error) {
	segments := CollectSegments(tree)
	texts := UniqueTexts(segments, post.Title, post.Summary)

	translated := map[string]string{}
	if len(texts) > 0 {
		var err error
		translated, err = t.TranslateTexts(ctx, texts)
		if err != nil {
			return nil, err
		}
	}

	patched, fallbacks := ApplySegments(tree, segments, translated)

	variant := post.WithoutTranslations()
	variant.ID = post.ID + "-" + language.Target
	variant.Language = []string{language.Target}
	variant.IsAITranslation = true
	if title := translated[post.Title]; title != "" {
		variant.Title = title
	}
	if summary := translated[post.Summary]; summary != "" {
		variant.Summary = summary
	}

	return &models.TranslationRecord{
		Slug:         post.Slug,
		SourcePostID: post.ID,
		GeneratedAt:  time.Now().UTC(),
		Model:        t.Model(),
		Translation:  variant,
		RecordMap:    patched,
		Fallbacks:    fallbacks,
	}, nil
}

// TranslateTexts translates every input string and returns source→translated.
// Texts the provider could not translate are left out of the map, so callers
// fall back to the source text. A batch response of the wrong length is
// discarded whole and every text in the chunk goes through the single-text
// retry: a short array gives no way to tell which entry went missing, so the
// positional mapping cannot be trusted for any of them.
func (t *Translator) TranslateTexts(ctx context.Context, texts []string) (map[string]string, error) {
	out := make(map[string]string, len(texts))
	for start := 0; start < len(texts); start += t.batchSize {
		end := start + t.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk := texts[start:end]

		translations, err := t.translateBatch(ctx, chunk)
		if err != nil {
			return nil, err
		}
		if len(translations) != len(chunk) {
			translations = make([]string, len(chunk))
		}
		for i, src := range chunk {
			got := strings.TrimSpace(translations[i])
			if got == "" {
				got = t.retryOne(ctx, src)
			}
			if got != "" {
				out[src] = got
			}
		}
	}
	return out, nil
}

func (t *Translator) translateBatch(ctx context.Context, texts []string) ([]string, error) {
	prompt, err := buildTranslatePrompt(texts)
	if err != nil {
		return nil, err
	}
	raw, err := t.callProvider(ctx, translateSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := unmarshalProviderJSON(raw, &out); err != nil {
		return nil, err
	}
	if len(out) != len(texts) {
		t.logger.Warn("provider returned mismatched batch length",
			zap.Int("want", len(texts)), zap.Int("got", len(out)))
	}
	return out, nil
}

// retryOne re-requests a single text; a failure here is absorbed so the
// caller keeps the source string instead.
func (t *Translator) retryOne(ctx context.Context, text string) string {
	out, err := t.translateBatch(ctx, []string{text})
	if err != nil {
		t.logger.Warn("single-text retry failed", zap.Error(err))
		return ""
	}
	if len(out) == 0 {
		return ""
	}
	return strings.TrimSpace(out[0])
}

func (t *Translator) callProvider(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if isOpenAICompatibleType(t.provider.Type) {
		return t.callOpenAICompatible(ctx, systemPrompt, prompt)
	}

	model, err := t.languageModel()
	if err != nil {
		return "", err
	}
	resp, err := jetai.GenerateText(
		ctx,
		buildPromptMessages(systemPrompt, prompt),
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(maxCompletionTokens),
	)
	if err != nil {
		return "", err
	}
	return extractResponseText(resp)
}

func (t *Translator) languageModel() (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(t.provider.APIKey)
	if apiKey == "" {
		return nil, errors.New("AI provider api key is empty")
	}

	modelID := t.Model()
	endpoint := strings.TrimSpace(t.provider.Endpoint)

	if isAnthropicType(t.provider.Type) {
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func (t *Translator) callOpenAICompatible(ctx context.Context, systemPrompt, prompt string) (string, error) {
	apiKey := strings.TrimSpace(t.provider.APIKey)
	if apiKey == "" {
		return "", errors.New("AI provider api key is empty")
	}

	endpoint := normalizeCompatibleEndpoint(t.provider.Endpoint)

	messages := make([]map[string]string, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, map[string]string{"role": "system", "content": systemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	body, _ := json.Marshal(map[string]interface{}{
		"model":       t.Model(),
		"messages":    messages,
		"max_tokens":  maxCompletionTokens,
		"temperature": 0,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("openai-compatible error: %s", strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("openai-compatible error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("empty response from AI")
	}
	return result.Choices[0].Message.Content, nil
}

func isOpenAICompatibleType(raw string) bool {
	t := normalizeProviderType(raw)
	return t == "openai-compatible" || t == "openaicompatible"
}

func isAnthropicType(raw string) bool {
	return normalizeProviderType(raw) == "anthropic"
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

func buildPromptMessages(systemPrompt, prompt string) []jetapi.Message {
	messages := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: systemPrompt})
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)})
	return messages
}

func extractResponseText(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from AI")
	}
	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}
	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from AI")
	}
	return text, nil
}

// unmarshalProviderJSON tolerates markdown fences and leading prose around
// the JSON array the prompt demands.
func unmarshalProviderJSON(raw string, out interface{}) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}
	return errors.New("invalid JSON response from AI")
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}
	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeCompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimSuffix(strings.TrimRight(base, "/"), "/v1")
	}
	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
