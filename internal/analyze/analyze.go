// Package analyze submits the built prompt to a chat-completion endpoint
// and turns the untrusted response into validated JSON. One attempt per
// run: no retry, no backoff, no fallback model. The raw response text is
// persisted to a sidecar file before any parsing so malformed output can be
// inspected after the fact.
package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/fieldlift/fieldlift/internal/llm"
	"github.com/fieldlift/fieldlift/internal/prompt"
	"github.com/fieldlift/fieldlift/internal/schema"
)

var (
	// ErrModelRefused means the model answered with the escape token
	// instead of JSON.
	ErrModelRefused = errors.New("model returned the escape token")
	// ErrNotJSON means the trimmed response failed strict JSON decoding.
	ErrNotJSON = errors.New("response is not valid JSON")
	// ErrSchemaMismatch means the response parsed as JSON but does not
	// match the variant's schema.
	ErrSchemaMismatch = errors.New("response does not match the expected schema")
	// ErrNoChoices means the API returned an empty completion list.
	ErrNoChoices = errors.New("no choices in completion response")
)

// Analyzer performs the single LLM round-trip of a run.
type Analyzer struct {
	Client  llm.Client
	Model   string
	RawPath string // sidecar file for the raw response text
}

// Analyze prompts the model with the extracted document text and returns
// the schema-validated JSON payload. Every failure mode maps to one of the
// package sentinels or a wrapped transport error; nothing panics on model
// misbehavior.
func (a *Analyzer) Analyze(ctx context.Context, v schema.Variant, documentText string) (json.RawMessage, error) {
	if a.Client == nil || strings.TrimSpace(a.Model) == "" {
		return nil, errors.New("analyzer not configured")
	}

	rid := uuid.New().String()
	user := prompt.Build(v, documentText)

	if prompt.Oversized(documentText) {
		log.Warn().Str("req_id", rid).Int("chars", len(documentText)).
			Int("threshold", prompt.OversizeThreshold).
			Msg("document text likely exceeds the model context budget; expect truncation")
	}
	log.Debug().Str("req_id", rid).Str("model", a.Model).Str("variant", string(v)).
		Int("max_tokens", v.MaxTokens()).Int("prompt_len", len(user)).
		Msg("submitting completion request")

	start := time.Now()
	resp, err := a.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		// go-openai tags Temperature with omitempty, so a plain 0 never
		// reaches the wire and the server default applies. The smallest
		// nonzero float32 survives serialization and still requests
		// deterministic decoding.
		Temperature: math.SmallestNonzeroFloat32,
		MaxTokens:   v.MaxTokens(),
		N:           1,
	})
	if err != nil {
		return nil, fmt.Errorf("completion call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	a.saveRaw(rid, content)

	if content == schema.EscapeToken {
		log.Error().Str("req_id", rid).Msg("model could not comply and returned the escape token")
		return nil, ErrModelRefused
	}

	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		log.Error().Str("req_id", rid).Str("content", content).Err(err).Msg("response failed strict JSON decoding")
		return nil, ErrNotJSON
	}
	if err := schema.Validate(v.JSONSchema(), []byte(content)); err != nil {
		log.Error().Str("req_id", rid).Str("content", content).Err(err).Msg("response violates the variant schema")
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	log.Info().Str("req_id", rid).Int("response_len", len(content)).
		Dur("elapsed", time.Since(start)).Msg("structured response accepted")
	return json.RawMessage(content), nil
}

// saveRaw writes the raw response before parsing. A write failure only
// costs the diagnostic artifact, never the run.
func (a *Analyzer) saveRaw(rid, content string) {
	if strings.TrimSpace(a.RawPath) == "" {
		return
	}
	if err := os.WriteFile(a.RawPath, []byte(content), 0o644); err != nil {
		log.Warn().Str("req_id", rid).Str("path", a.RawPath).Err(err).Msg("could not save raw response")
		return
	}
	log.Debug().Str("req_id", rid).Str("path", a.RawPath).Msg("raw response saved")
}
