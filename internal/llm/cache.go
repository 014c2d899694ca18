package llm

import (
	"context"
	"time"

	"council/internal/cache/memory"
)

// WithCache memoizes responses per (client, prompt) for ttl. Deliberation
// modes frequently re-issue the same prompt (e.g. fact-check reruns), and a
// cached reply costs no provider quota.
func WithCache(maxEntries int, ttl time.Duration) Middleware {
	return func(next Client) Client {
		return &cached{
			next:  next,
			store: memory.NewLRUTTL[string, string](maxEntries, ttl),
		}
	}
}

type cached struct {
	next  Client
	store *memory.LRUTTL[string, string]
}

func (c *cached) Name() string { return c.next.Name() }
func (c *cached) Close() error { return c.next.Close() }
func (c *cached) GenerateText(ctx context.Context, prompt string) (string, error) {
	key := c.next.Name() + "\x00" + prompt
	if out, ok := c.store.Get(key); ok {
		return out, nil
	}
	out, err := c.next.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.store.Set(key, out)
	return out, nil
}
