package llm

import (
	"context"
	"errors"
)

// Chat roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrNotConfigured is returned when no provider credentials are available.
	ErrNotConfigured = errors.New("llm client not configured")
	// ErrEmptyResponse is returned when the provider answers with no content.
	ErrEmptyResponse = errors.New("llm response empty")
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string
	Content string
}

// Client abstracts text-completion providers: (messages) -> text.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	// Configured reports whether Complete can reach a provider at all.
	Configured() bool
}

// Unconfigured is the Client used when no provider is set up.
type Unconfigured struct{}

// Complete returns ErrNotConfigured without any network call.
func (Unconfigured) Complete(ctx context.Context, messages []Message) (string, error) {
	_ = ctx
	_ = messages
	return "", ErrNotConfigured
}

// Configured always reports false.
func (Unconfigured) Configured() bool { return false }

// Available reports whether c is non-nil and configured.
func Available(c Client) bool {
	return c != nil && c.Configured()
}
