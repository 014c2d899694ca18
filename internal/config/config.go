package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"council/internal/store"
)

type Config struct {
	Port        string
	Env         string
	Models      []string
	MaxTasks    int
	TaskTimeout time.Duration

	GeminiAPIKey string
	DatabaseURL  string

	Transcript TranscriptConfig
}

type TranscriptConfig struct {
	Enabled bool
	store.TranscriptConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:         *port,
		Env:          env,
		Models:       parseModels(os.Getenv("COUNCIL_MODELS")),
		MaxTasks:     envInt("COUNCIL_MAX_TASKS", 8),
		TaskTimeout:  time.Duration(envInt("COUNCIL_TASK_TIMEOUT_MS", 120000)) * time.Millisecond,
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		DatabaseURL:  strings.TrimSpace(os.Getenv("COUNCIL_PG_DSN")),
		Transcript:   loadTranscriptConfig(env),
	}, nil
}

// parseModels splits the worker pool list. Order is preserved; assignment
// round-robins over it.
func parseModels(raw string) []string {
	var models []string
	for _, part := range strings.Split(raw, ",") {
		if m := strings.TrimSpace(part); m != "" {
			models = append(models, m)
		}
	}
	if len(models) == 0 {
		models = []string{"gemini-2.0-flash", "gemini-2.5-flash"}
	}
	return models
}

func loadTranscriptConfig(env string) TranscriptConfig {
	endpoint := resolveTranscriptEndpoint(env)
	return TranscriptConfig{
		Enabled: endpoint != "",
		TranscriptConfig: store.TranscriptConfig{
			Endpoint:  endpoint,
			Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_REGION")), "us-east-1"),
			AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
			SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
			Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_BUCKET")), "council-transcripts"),
			UseSSL:    resolveTranscriptUseSSL(env),
		},
	}
}

func resolveTranscriptEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("TRANSCRIPT_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_ENDPOINT"))
}

func resolveTranscriptUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
