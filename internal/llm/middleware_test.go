package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"council/internal/tester"
)

type flakyClient struct {
	failures int32
	calls    int32
}

func (c *flakyClient) Name() string { return "flaky" }
func (c *flakyClient) Close() error { return nil }
func (c *flakyClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	n := atomic.AddInt32(&c.calls, 1)
	if n <= atomic.LoadInt32(&c.failures) {
		return "", errors.New("transient")
	}
	return "ok:" + prompt, nil
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	inner := &flakyClient{failures: 2}
	c := Wrap(inner, Retry(3, time.Millisecond))
	out, err := c.GenerateText(context.Background(), "p")
	tester.NoErr(t, err)
	tester.Eq(t, out, "ok:p")
	tester.Eq(t, inner.calls, int32(3))
}

func TestRetryExhaustsAttempts(t *testing.T) {
	inner := &flakyClient{failures: 10}
	c := Wrap(inner, Retry(2, time.Millisecond))
	_, err := c.GenerateText(context.Background(), "p")
	if err == nil {
		t.Fatalf("expected error after exhausted retries")
	}
	tester.Eq(t, inner.calls, int32(2))
}

func TestRetryStopsOnCanceledContext(t *testing.T) {
	inner := &flakyClient{failures: 10}
	c := Wrap(inner, Retry(5, time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GenerateText(ctx, "p")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWithCacheMemoizesPerPrompt(t *testing.T) {
	inner := &flakyClient{}
	c := Wrap(inner, WithCache(8, time.Minute))
	for i := 0; i < 3; i++ {
		out, err := c.GenerateText(context.Background(), "same")
		tester.NoErr(t, err)
		tester.Eq(t, out, "ok:same")
	}
	tester.Eq(t, inner.calls, int32(1))

	_, err := c.GenerateText(context.Background(), "other")
	tester.NoErr(t, err)
	tester.Eq(t, inner.calls, int32(2))
}

func TestRateLimitPrefersReservedCredits(t *testing.T) {
	inner := &flakyClient{}
	c := Wrap(inner, RateLimit(0.001, 1)) // effectively one token, then stalls
	ctx := WithCredits(context.Background(), 2)
	for i := 0; i < 2; i++ {
		_, err := c.GenerateText(ctx, "p")
		tester.NoErr(t, err)
	}
	tester.Eq(t, inner.calls, int32(2))
}

func TestFakeClientProducesParsablePlan(t *testing.T) {
	f := NewFakeClient("")
	ctx := WithStage(context.Background(), "plan")
	out, err := f.GenerateText(ctx, "plan please")
	tester.NoErr(t, err)
	tester.True(t, len(out) > 0)
	tester.Eq(t, f.Name(), "FakeLLM")
	tester.Eq(t, f.Calls(), int64(1))
}
