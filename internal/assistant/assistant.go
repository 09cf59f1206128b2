// Package assistant wraps the conversational collaborator. Failures are
// opaque to the rest of the system: Respond falls back to a fixed
// apology string and Speak is simply absent, never an error.
package assistant

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mfalves/plantledger/internal/reliability/circuitbreaker"
)

// Apology is the fixed fallback answer when generation fails.
const Apology = "Sorry, I could not process that request right now. Please try again later."

const requestTimeout = 20 * time.Second

const systemPrompt = "You are a farm-management assistant for plantation staff. " +
	"Answer briefly and practically, using the workspace context you are given."

// Responder is the collaborator contract. Context carries at least the
// acting username and the current record counts.
type Responder interface {
	Respond(ctx context.Context, prompt, context string) string
	Speak(ctx context.Context, text string) ([]byte, bool)
}

// OpenAIResponder implements Responder against the OpenAI API. A
// circuit breaker guards the upstream: once it trips, prompts get the
// apology immediately instead of waiting out the request timeout.
type OpenAIResponder struct {
	client  *openai.Client
	model   string
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewOpenAIResponder builds the live assistant, or a disabled one when
// no API key is configured.
func NewOpenAIResponder(apiKey, model string, logger *slog.Logger) Responder {
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey == "" {
		logger.Info("assistant disabled: no API key configured")
		return Disabled{}
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	breaker := circuitbreaker.NewCircuitBreaker(3, 2, 30*time.Second)
	breaker.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Info("assistant circuit state changed",
			slog.Int("from", int(from)),
			slog.Int("to", int(to)),
		)
	})
	return &OpenAIResponder{
		client:  openai.NewClient(apiKey),
		model:   model,
		breaker: breaker,
		logger:  logger,
	}
}

// Respond generates an answer for the prompt, grounded on the workspace
// context string. Any failure yields the apology.
func (r *OpenAIResponder) Respond(ctx context.Context, prompt, workspace string) string {
	if !r.breaker.AllowRequest() {
		r.logger.Debug("assistant circuit open, skipping request")
		return Apology
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleSystem, Content: "Workspace context: " + workspace},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		if err != nil {
			r.logger.Warn("assistant request failed", slog.String("error", err.Error()))
		}
		r.breaker.RecordFailure()
		return Apology
	}
	r.breaker.RecordSuccess()
	return resp.Choices[0].Message.Content
}

// Speak synthesizes audio for the text, best effort.
func (r *OpenAIResponder) Speak(ctx context.Context, text string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := r.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: openai.VoiceAlloy,
	})
	if err != nil {
		r.logger.Warn("speech synthesis failed", slog.String("error", err.Error()))
		return nil, false
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		r.logger.Warn("failed to read speech stream", slog.String("error", err.Error()))
		return nil, false
	}
	return audio, true
}

// Disabled is the assistant when no provider is configured.
type Disabled struct{}

// Respond always apologizes.
func (Disabled) Respond(context.Context, string, string) string { return Apology }

// Speak is always absent.
func (Disabled) Speak(context.Context, string) ([]byte, bool) { return nil, false }

// WorkspaceContext renders the context string handed to the assistant:
// the acting username plus current record counts of the scoped view.
func WorkspaceContext(username string, activities, sales, movements int) string {
	return fmt.Sprintf("user=%s activities=%d sales=%d cashMovements=%d",
		username, activities, sales, movements)
}
