package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"council/internal/council"
	"council/internal/gateway/run"
	"council/internal/store"
)

// Handler exposes the deliberation REST surface plus the SSE and websocket
// event streams.
type Handler struct {
	Engine      *council.Engine
	Sessions    *store.SessionStore
	Broker      *run.Broker
	Transcripts *store.TranscriptStore // optional

	// RunTimeout bounds a whole deliberation run.
	RunTimeout time.Duration
}

func New(engine *council.Engine, sessions *store.SessionStore, broker *run.Broker) *Handler {
	return &Handler{
		Engine:     engine,
		Sessions:   sessions,
		Broker:     broker,
		RunTimeout: 10 * time.Minute,
	}
}

func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/modes", h.listModes)
	mux.HandleFunc("/api/deliberations", h.deliberations)
	mux.HandleFunc("/api/deliberations/", h.deliberationSubtree)
	mux.HandleFunc("/ws/deliberations/", h.watchSocket)
}

func (h *Handler) listModes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	type modeView struct {
		Name        string `json:"name"`
		MinModels   int    `json:"min_models"`
		Rounds      int    `json:"rounds"`
		Description string `json:"description"`
	}
	modes := council.Modes()
	out := make([]modeView, 0, len(modes))
	for _, m := range modes {
		out = append(out, modeView{m.Name, m.MinModels, m.Rounds, m.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deliberations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.startDeliberation(w, r)
	case http.MethodGet:
		sessions, err := h.Sessions.List(r.Context(), 50)
		if err != nil {
			http.Error(w, "list sessions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sessions)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) startDeliberation(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Mode   string `json:"mode"`
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	mode, ok := council.LookupMode(in.Mode)
	if !ok {
		http.Error(w, "unknown mode", http.StatusBadRequest)
		return
	}
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	runID := newRunID()
	h.Broker.Allocate(runID, 64)
	if err := h.Sessions.Put(r.Context(), store.Session{
		ID:     runID,
		Mode:   mode.Name,
		Prompt: prompt,
		Status: store.StatusRunning,
	}); err != nil {
		http.Error(w, "persist session", http.StatusInternalServerError)
		return
	}

	go h.execute(runID, mode, prompt)
	writeJSON(w, http.StatusAccepted, map[string]string{"id": runID, "mode": mode.Name})
}

// execute runs the deliberation off the request goroutine. The engine copy
// carries a per-run publisher; everything else is shared.
func (h *Handler) execute(runID string, mode council.Mode, prompt string) {
	ctx, cancel := context.WithTimeout(context.Background(), h.RunTimeout)
	defer cancel()
	defer h.Broker.ScheduleCleanup(runID)

	eng := *h.Engine
	eng.Events = h.Broker.Publisher(runID)

	var answer string
	var err error
	if mode.Name == "decompose" {
		var res *council.DecomposeResult
		res, err = eng.RunDecompose(ctx, runID, prompt)
		if err == nil {
			answer = res.FinalAnswer
			h.saveDecomposeTranscript(ctx, runID, res)
		}
	} else {
		var res *council.PanelResult
		res, err = eng.RunPanel(ctx, runID, mode, prompt)
		if err == nil {
			answer = lastRoundSummary(res)
			h.savePanelTranscript(ctx, runID, res)
		}
	}

	status := store.StatusCompleted
	if err != nil {
		status = store.StatusFailed
		answer = err.Error()
		log.Printf("run %s (%s) failed: %v", runID, mode.Name, err)
	}
	if serr := h.Sessions.SetStatus(context.Background(), runID, status, answer); serr != nil {
		log.Printf("run %s: persist status: %v", runID, serr)
	}
}

func (h *Handler) saveDecomposeTranscript(ctx context.Context, runID string, res *council.DecomposeResult) {
	if h.Transcripts == nil {
		return
	}
	for id, out := range res.TaskOutputs {
		if err := h.Transcripts.Put(ctx, runID, "tasks/"+id+".txt", []byte(out)); err != nil {
			log.Printf("run %s: store transcript: %v", runID, err)
			return
		}
	}
	if err := h.Transcripts.Put(ctx, runID, "answer.txt", []byte(res.FinalAnswer)); err != nil {
		log.Printf("run %s: store transcript: %v", runID, err)
	}
}

func (h *Handler) savePanelTranscript(ctx context.Context, runID string, res *council.PanelResult) {
	if h.Transcripts == nil {
		return
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return
	}
	if err := h.Transcripts.Put(ctx, runID, "rounds.json", data); err != nil {
		log.Printf("run %s: store transcript: %v", runID, err)
	}
}

func (h *Handler) deliberationSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/deliberations/")
	if id, ok := strings.CutSuffix(rest, "/events"); ok {
		h.watchEvents(w, r, strings.Trim(id, "/"))
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.Trim(rest, "/")
	sess, ok, err := h.Sessions.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "load session", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// watchEvents streams a run's stage events as server-sent events until a
// terminal stage or client disconnect.
func (h *Handler) watchEvents(w http.ResponseWriter, r *http.Request, runID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ch, ok := h.Broker.Get(runID)
	if !ok {
		http.Error(w, "no active run", http.StatusNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()
			if run.IsTerminal(ev.Stage) {
				return
			}
		}
	}
}

// lastRoundSummary joins the final round's outputs into one answer body.
func lastRoundSummary(res *council.PanelResult) string {
	if len(res.Rounds) == 0 {
		return ""
	}
	last := res.Rounds[len(res.Rounds)-1]
	var b strings.Builder
	for i, out := range last {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("## " + out.Model + "\n")
		b.WriteString(out.Output)
	}
	return b.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func newRunID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "run-" + hex.EncodeToString([]byte(time.Now().Format("150405.000")))
	}
	return "run-" + hex.EncodeToString(b[:])
}
