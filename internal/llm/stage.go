package llm

import "context"

type ctxKeyStage struct{}

// WithStage tags the context with the deliberation stage making the call
// (e.g. "plan", "task:task_3", "assemble"). Used by logging middleware.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, ctxKeyStage{}, stage)
}

// StageFrom returns the stage stored in the context, or "unknown".
func StageFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyStage{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
