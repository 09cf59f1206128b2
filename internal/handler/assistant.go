package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/mfalves/plantledger/internal/assistant"
	"github.com/mfalves/plantledger/internal/state"
	"github.com/mfalves/plantledger/pkg/cache"
)

// AssistantRequest is a question for the conversational assistant.
type AssistantRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Speak  bool   `json:"speak"`
}

// AssistantResponse carries the generated answer and, when requested
// and available, its synthesized audio.
type AssistantResponse struct {
	Answer string `json:"answer"`
	Audio  string `json:"audio,omitempty"` // base64 mp3, best effort
}

// AssistantHandler bridges the workspace to the assistant collaborator.
// Failures never surface as errors; the contract substitutes a fixed
// apology and audio is silently absent.
type AssistantHandler struct {
	container *state.Container
	responder assistant.Responder
	answers   *cache.Cache
	logger    *slog.Logger
}

// answerTTL bounds how long a generated answer is reused for an
// identical prompt from the same user.
const answerTTL = 5 * time.Minute

func NewAssistantHandler(c *state.Container, responder assistant.Responder, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{container: c, responder: responder, answers: cache.New(), logger: logger}
}

func (h *AssistantHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req AssistantRequest
	if !readJSON(w, r, h.logger, &req) {
		return
	}

	scoped := h.container.Scoped(session)
	workspace := assistant.WorkspaceContext(session.Username,
		len(scoped.Activities), len(scoped.Sales), len(scoped.CashMovements))

	var answer string
	key := "assistant:" + session.ID + ":" + req.Prompt
	if cached, ok := h.answers.Get(key); ok {
		answer = cached.(string)
	} else {
		answer = h.responder.Respond(r.Context(), req.Prompt, workspace)
		if answer != assistant.Apology {
			h.answers.Set(key, answer, answerTTL)
		}
	}

	out := AssistantResponse{Answer: answer}
	if req.Speak {
		if audio, ok := h.responder.Speak(r.Context(), out.Answer); ok {
			out.Audio = base64.StdEncoding.EncodeToString(audio)
		}
	}
	writeJSON(w, http.StatusOK, out)
}
