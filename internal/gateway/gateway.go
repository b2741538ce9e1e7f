// Package gateway talks to the language model provider. Its one exported
// operation, Chat, never fails: transport and provider errors are converted
// into an apology string so callers can always show the user something.
package gateway

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"mock-interview-api/internal/config"
	"mock-interview-api/internal/metrics"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client turns an ordered list of messages into reply text. Implementations
// must always return a string, even when generation fails.
type Client interface {
	Chat(ctx context.Context, messages []Message) string
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// LLM is the production Client. It speaks either the OpenAI-compatible
// chat-completions protocol or the Gemini generateContent protocol, selected
// by configuration.
type LLM struct {
	cfg     config.LLMConfig
	client  *http.Client
	metrics *metrics.Metrics
	log     *zap.Logger
}

func New(cfg config.LLMConfig, m *metrics.Metrics, log *zap.Logger) *LLM {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLM{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		metrics: m,
		log:     log,
	}
}

// Chat sends the messages to the configured provider. Any failure degrades to
// an apology string; the error never reaches the caller.
func (g *LLM) Chat(ctx context.Context, messages []Message) string {
	reply, err := g.generate(ctx, messages)
	if g.metrics != nil {
		g.metrics.IncrementGatewayCall(err == nil)
	}
	if err != nil {
		g.log.Warn("generation failed",
			zap.String("provider", g.cfg.Provider),
			zap.Error(err))
		return fmt.Sprintf("I'm sorry, I couldn't generate a response: %v", err)
	}
	return reply
}

func (g *LLM) generate(ctx context.Context, messages []Message) (string, error) {
	if g.cfg.Provider == ProviderGemini {
		return g.callGemini(ctx, messages)
	}
	return g.callOpenAI(ctx, messages)
}
