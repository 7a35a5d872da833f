// Package chat talks to an OpenAI-compatible chat completions endpoint on behalf of the
// companion page that sits on top of the backdrop.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

const (
	// DefaultEndpoint is the chat completions URL used when none is configured.
	DefaultEndpoint = "https://api.deepseek.com/v1/chat/completions"
	// DefaultModel is the model requested when none is configured.
	DefaultModel = "deepseek-chat"
	// APIKeyEnv names the environment variable the API key is read from.
	APIKeyEnv = "OXY_CHAT_API_KEY"

	// DefaultHistoryWindow is the number of trailing history messages sent with a prompt.
	DefaultHistoryWindow = 10
	// DefaultFallbackWindow is the smaller window used for the single retry after a 4xx.
	DefaultFallbackWindow = 5

	// FallbackText is a placeholder callers may show when Reply fails. Reply never returns it.
	FallbackText = "(something went wrong, please try again later)"

	// DefaultSystemPrompt keeps the companion in character.
	DefaultSystemPrompt = "You are a cheerful companion who answers briefly and plainly, " +
		"stays in character for the whole conversation and never uses HTML tags."

	temperature = 0.7
	maxTokens   = 300
	topP        = 0.9

	maxErrorBody = 512
)

var (
	// ErrEmptyReply is returned when the endpoint answers without any message content.
	ErrEmptyReply = errors.New("chat: empty reply")
	// ErrNoAPIKey is returned when no API key was configured or found in the environment.
	ErrNoAPIKey = errors.New("chat: no API key, set " + APIKeyEnv)
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("chat: status %d", e.Code)
	}
	return fmt.Sprintf("chat: status %d: %s", e.Code, e.Body)
}

// ClientError reports whether the status is in the 4xx range.
func (e *StatusError) ClientError() bool {
	return e.Code >= 400 && e.Code < 500
}

// Role identifies who wrote a history message.
type Role int

const (
	RoleUser Role = iota
	RoleBot
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleBot:
		return "bot"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// wire maps the role onto the completions API roles.
func (r Role) wire() string {
	if r == RoleUser {
		return "user"
	}
	return "assistant"
}

// Message is one entry of the conversation history.
type Message struct {
	Role Role
	Text string
}

// Client produces replies to chat prompts.
type Client interface {
	// Reply sends the prompt together with the tail of the history and returns the reply text.
	// A 4xx response is retried exactly once with the smaller fallback window. Every failure is
	// returned as an error; the reply is never replaced by placeholder text.
	//
	// Parameters:
	//   - ctx: the request context
	//   - prompt: the new user message
	//   - history: earlier messages, oldest first
	//
	// Returns:
	//   - string: the reply text
	//   - error: a *StatusError, ErrEmptyReply, ErrNoAPIKey or a transport error
	Reply(ctx context.Context, prompt string, history []Message) (string, error)
}

// client is the implementation of the Client interface.
type client struct {
	endpoint       string
	apiKey         string
	model          string
	systemPrompt   string
	httpClient     *http.Client
	historyWindow  int
	fallbackWindow int
	logger         common.Logger
}

var _ Client = &client{}

// NewClient creates a chat client. Without WithAPIKey the key is read from OXY_CHAT_API_KEY.
//
// Parameters:
//   - options: variadic list of ClientBuilderOption functions
//
// Returns:
//   - Client: the client
func NewClient(options ...ClientBuilderOption) Client {
	c := &client{
		endpoint:       DefaultEndpoint,
		apiKey:         os.Getenv(APIKeyEnv),
		model:          DefaultModel,
		systemPrompt:   DefaultSystemPrompt,
		httpClient:     http.DefaultClient,
		historyWindow:  DefaultHistoryWindow,
		fallbackWindow: DefaultFallbackWindow,
		logger:         common.NopLogger(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type completionResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
}

func (c *client) Reply(ctx context.Context, prompt string, history []Message) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	reply, err := c.send(ctx, prompt, tail(history, c.historyWindow))
	var status *StatusError
	if errors.As(err, &status) && status.ClientError() {
		c.logger.Warnf("chat: status %d, retrying with the last %d messages", status.Code, c.fallbackWindow)
		reply, err = c.send(ctx, prompt, tail(history, c.fallbackWindow))
	}
	if err != nil {
		c.logger.Errorf("chat: %v", err)
		return "", err
	}
	return reply, nil
}

func (c *client) send(ctx context.Context, prompt string, history []Message) (string, error) {
	messages := make([]wireMessage, 0, len(history)+2)
	if c.systemPrompt != "" {
		messages = append(messages, wireMessage{Role: "system", Content: c.systemPrompt})
	}
	for _, m := range history {
		messages = append(messages, wireMessage{Role: m.Role.wire(), Content: m.Text})
	}
	messages = append(messages, wireMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        topP,
	})
	if err != nil {
		return "", fmt.Errorf("chat: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("chat: decode response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyReply
	}
	return out.Choices[0].Message.Content, nil
}

// tail returns the last n messages, or none when n is not positive.
func tail(history []Message, n int) []Message {
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}
