package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemorySessionRoundTrip(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	err := s.Put(ctx, Session{ID: "run-1", Mode: "decompose", Prompt: "q", Status: StatusRunning})
	require.NoError(t, err)

	got, ok, err := s.Get(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, StatusRunning, got.Status)
	require.False(t, got.CreatedAt.IsZero())

	require.NoError(t, s.SetStatus(ctx, "run-1", StatusCompleted, "answer"))
	got, ok, err = s.Get(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, StatusCompleted, got.Status)
	require.Equal(t, "answer", got.Answer)
}

func TestMemorySessionGetMissing(t *testing.T) {
	s := NewMemory()
	_, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemorySessionListNewestFirst(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(ctx, Session{
			ID: id, Mode: "vote", Prompt: "q", Status: StatusRunning,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	out, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "c", out[0].ID)
	require.Equal(t, "b", out[1].ID)
}
