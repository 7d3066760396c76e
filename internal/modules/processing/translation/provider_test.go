package translation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/morethan-log/core/internal/config"
	"github.com/morethan-log/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider serves the OpenAI-compatible chat completions shape, handing
// each decoded input batch to translate.
func fakeProvider(t *testing.T, translate func(texts []string) []string) (*httptest.Server, *int) {
	t.Helper()
	calls := new(int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)

		prompt := req.Messages[len(req.Messages)-1].Content
		start := strings.Index(prompt, "[")
		end := strings.LastIndex(prompt, "]")
		require.True(t, start >= 0 && end > start, "prompt carries no JSON array: %q", prompt)

		var texts []string
		require.NoError(t, json.Unmarshal([]byte(prompt[start:end+1]), &texts))

		content, err := json.Marshal(translate(texts))
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": string(content)}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func testTranslator(endpoint string, batchSize int) *Translator {
	return NewTranslator(config.TranslationConfig{
		BatchSize: batchSize,
		Provider: config.AIProvider{
			Type:     "OpenAI-Compatible",
			APIKey:   "test-key",
			Endpoint: endpoint,
			Model:    "test-model",
		},
	}, zap.NewNop())
}

func prefixed(texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = "EN: " + text
	}
	return out
}

func TestTranslateTextsMapsEveryInput(t *testing.T) {
	server, calls := fakeProvider(t, prefixed)
	tr := testTranslator(server.URL, 60)

	out, err := tr.TranslateTexts(t.Context(), []string{"하나", "둘"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"하나": "EN: 하나", "둘": "EN: 둘"}, out)
	assert.Equal(t, 1, *calls)
}

func TestTranslateTextsChunksByBatchSize(t *testing.T) {
	server, calls := fakeProvider(t, prefixed)
	tr := testTranslator(server.URL, 2)

	out, err := tr.TranslateTexts(t.Context(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Len(t, out, 5)
	assert.Equal(t, 3, *calls)
}

func TestTranslateTextsRetriesShortBatch(t *testing.T) {
	server, calls := fakeProvider(t, func(texts []string) []string {
		if len(texts) > 1 {
			// drop the last element to force the mismatch path
			return prefixed(texts)[:len(texts)-1]
		}
		return prefixed(texts)
	})
	tr := testTranslator(server.URL, 60)

	out, err := tr.TranslateTexts(t.Context(), []string{"하나", "둘", "셋"})
	require.NoError(t, err)
	// the whole short batch is distrusted, so every text is retried alone
	assert.Equal(t, map[string]string{"하나": "EN: 하나", "둘": "EN: 둘", "셋": "EN: 셋"}, out)
	assert.Equal(t, 4, *calls)
}

func TestTranslateTextsNeverMisalignsOnDroppedEntry(t *testing.T) {
	server, _ := fakeProvider(t, func(texts []string) []string {
		out := prefixed(texts)
		if len(out) > 2 {
			// remove the middle element, shifting later entries left
			out = append(out[:1:1], out[2:]...)
		}
		return out
	})
	tr := testTranslator(server.URL, 60)

	out, err := tr.TranslateTexts(t.Context(), []string{"하나", "둘", "셋"})
	require.NoError(t, err)
	// positional trust in the shifted array would hand "둘" the
	// translation of "셋"
	assert.Equal(t, "EN: 둘", out["둘"])
	assert.Equal(t, "EN: 셋", out["셋"])
}

func TestTranslateTextsRejectsWhitespaceEntries(t *testing.T) {
	server, _ := fakeProvider(t, func(texts []string) []string {
		out := make([]string, len(texts))
		for i, text := range texts {
			if text == "공백" {
				out[i] = "   "
				continue
			}
			out[i] = "EN: " + text
		}
		return out
	})
	tr := testTranslator(server.URL, 60)

	out, err := tr.TranslateTexts(t.Context(), []string{"하나", "공백"})
	require.NoError(t, err)
	assert.Equal(t, "EN: 하나", out["하나"])
	// a blank answer is no answer, the text keeps its source fallback
	_, ok := out["공백"]
	assert.False(t, ok)
}

func TestTranslateTextsDropsUntranslatableEntries(t *testing.T) {
	server, _ := fakeProvider(t, func(texts []string) []string {
		out := make([]string, len(texts))
		for i, text := range texts {
			if text == "실패" {
				out[i] = ""
				continue
			}
			out[i] = "EN: " + text
		}
		return out
	})
	tr := testTranslator(server.URL, 60)

	out, err := tr.TranslateTexts(t.Context(), []string{"성공", "실패"})
	require.NoError(t, err)
	assert.Equal(t, "EN: 성공", out["성공"])
	// the failed text stays out of the map so callers keep the source
	_, ok := out["실패"]
	assert.False(t, ok)
}

func TestTranslateTextsSurfacesProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)
	tr := testTranslator(server.URL, 60)

	_, err := tr.TranslateTexts(t.Context(), []string{"하나"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestCreateTranslationBuildsRecord(t *testing.T) {
	server, _ := fakeProvider(t, prefixed)
	tr := testTranslator(server.URL, 60)

	post := models.PostRecord{
		ID:       "page-1",
		Slug:     "hello",
		Title:    "안녕하세요",
		Summary:  "요약",
		Language: []string{"ko"},
		Tags:     []string{"golang"},
	}
	record, err := tr.CreateTranslation(t.Context(), post, buildTree())
	require.NoError(t, err)

	assert.Equal(t, "hello", record.Slug)
	assert.Equal(t, "page-1", record.SourcePostID)
	assert.Equal(t, "test-model", record.Model)
	assert.Empty(t, record.Fallbacks)

	variant := record.Translation
	assert.Equal(t, "page-1-en", variant.ID)
	assert.Equal(t, []string{"en"}, variant.Language)
	assert.True(t, variant.IsAITranslation)
	assert.Equal(t, "EN: 안녕하세요", variant.Title)
	assert.Equal(t, "EN: 요약", variant.Summary)
	assert.Equal(t, []string{"golang"}, variant.Tags)
	assert.Nil(t, variant.Translations)

	require.NotNil(t, record.RecordMap)
	assert.Equal(t, "EN: 첫 문단", record.RecordMap.Block["a-paragraph"].Value.Properties["title"][0].Text())
}

func TestUnmarshalProviderJSONStripsFences(t *testing.T) {
	var out []string
	raw := "```json\n[\"one\",\"two\"]\n```"
	require.NoError(t, unmarshalProviderJSON(raw, &out))
	assert.Equal(t, []string{"one", "two"}, out)

	require.NoError(t, unmarshalProviderJSON("Sure! Here it is: [\"a\"] hope that helps", &out))
	assert.Equal(t, []string{"a"}, out)

	assert.Error(t, unmarshalProviderJSON("no json here", &out))
}

func TestNormalizeCompatibleEndpoint(t *testing.T) {
	cases := map[string]string{
		"":                             "https://api.openai.com",
		"https://proxy.example/v1":     "https://proxy.example",
		"https://proxy.example/v1/":    "https://proxy.example",
		"https://proxy.example":        "https://proxy.example",
		"https://proxy.example/sub/v1": "https://proxy.example/sub",
	}
	for input, want := range cases {
		assert.Equal(t, want, normalizeCompatibleEndpoint(input), "input %q", input)
	}
}

func TestModelFallsBackToDefault(t *testing.T) {
	tr := NewTranslator(config.TranslationConfig{}, zap.NewNop())
	assert.Equal(t, defaultModelID, tr.Model())

	tr = NewTranslator(config.TranslationConfig{
		Provider: config.AIProvider{Model: "gpt-4o"},
	}, zap.NewNop())
	assert.Equal(t, "gpt-4o", tr.Model())
}
