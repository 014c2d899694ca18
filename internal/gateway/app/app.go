package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"council/internal/config"
	"council/internal/council"
	"council/internal/gateway/handler"
	"council/internal/gateway/middleware"
	"council/internal/gateway/run"
	"council/internal/gateway/server"
	"council/internal/llm"
	"council/internal/store"
)

type App struct {
	server   *server.Server
	sessions *store.SessionStore
	client   llm.Client
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := buildClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build llm client: %w", err)
	}

	sessions, err := buildSessions(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	engine := council.NewEngine(client, cfg.Models,
		council.WithBroker(llm.NewBroker(llm.NewLimiter(4, 8))),
		council.WithMaxTasks(cfg.MaxTasks),
		council.WithTaskTimeout(cfg.TaskTimeout),
	)

	h := handler.New(engine, sessions, run.NewBroker())
	if cfg.Transcript.Enabled {
		transcripts, err := store.NewTranscriptStore(cfg.Transcript.TranscriptConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to init transcript store: %w", err)
		}
		h.Transcripts = transcripts
	}

	mux := http.NewServeMux()
	h.Routes(mux)
	srv := server.New(cfg.Port, middleware.CORS(mux))

	return &App{
		server:   srv,
		sessions: sessions,
		client:   client,
	}, nil
}

// buildClient assembles the default model client behind the middleware chain.
// Without an API key the app runs against the deterministic offline client.
func buildClient(cfg *config.Config) (llm.Client, error) {
	var base llm.Client
	if cfg.GeminiAPIKey != "" {
		gc, err := llm.NewGeminiClient(context.Background(), cfg.Models[0])
		if err != nil {
			return nil, err
		}
		base = gc
	} else {
		log.Printf("GEMINI_API_KEY is not set; using the offline fake client")
		base = llm.NewFakeClient("FakeLLM")
	}
	return llm.Wrap(base,
		llm.WithLogging(nil),
		llm.WithCache(256, 10*time.Minute),
		llm.Retry(3, 500*time.Millisecond),
		llm.RateLimit(4, 8),
	), nil
}

func buildSessions(cfg *config.Config) (*store.SessionStore, error) {
	if cfg.DatabaseURL == "" {
		return store.NewMemory(), nil
	}
	return store.NewPostgres(cfg.DatabaseURL)
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.client.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if serr := a.sessions.Close(); serr != nil && err == nil {
		err = serr
	}
	return err
}
