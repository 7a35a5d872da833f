package chat

import (
	"net/http"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// ClientBuilderOption is a functional option for configuring a Client.
type ClientBuilderOption func(*client)

// WithEndpoint sets the chat completions URL.
func WithEndpoint(endpoint string) ClientBuilderOption {
	return func(c *client) {
		c.endpoint = endpoint
	}
}

// WithAPIKey sets the bearer token, overriding OXY_CHAT_API_KEY.
//
// Parameters:
//   - key: the API key
//
// Returns:
//   - ClientBuilderOption: option function to apply
func WithAPIKey(key string) ClientBuilderOption {
	return func(c *client) {
		c.apiKey = key
	}
}

// WithModel sets the requested model.
func WithModel(model string) ClientBuilderOption {
	return func(c *client) {
		c.model = model
	}
}

// WithSystemPrompt replaces the system message sent first with every request. An empty
// prompt sends no system message.
func WithSystemPrompt(prompt string) ClientBuilderOption {
	return func(c *client) {
		c.systemPrompt = prompt
	}
}

// WithHTTPClient sets the HTTP client requests go through.
//
// Parameters:
//   - hc: the client, ignored when nil
//
// Returns:
//   - ClientBuilderOption: option function to apply
func WithHTTPClient(hc *http.Client) ClientBuilderOption {
	return func(c *client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithHistoryWindow sets how many trailing history messages are sent.
func WithHistoryWindow(n int) ClientBuilderOption {
	return func(c *client) {
		c.historyWindow = max(0, n)
	}
}

// WithFallbackWindow sets how many trailing history messages the retry after a 4xx sends.
func WithFallbackWindow(n int) ClientBuilderOption {
	return func(c *client) {
		c.fallbackWindow = max(0, n)
	}
}

// WithLogger sets the logger retries and failures are reported to.
func WithLogger(logger common.Logger) ClientBuilderOption {
	return func(c *client) {
		if logger != nil {
			c.logger = logger
		}
	}
}
