package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a model reply carries no usable text.
var ErrEmptyResponse = errors.New("llm: empty response from model")

// Client is a minimal text-generation client. Deliberation modes consume
// plain text and parse structure out of it themselves.
type Client interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close() error
}
