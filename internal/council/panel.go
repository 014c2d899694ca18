package council

import (
	"context"
	"fmt"

	"council/internal/llm"
)

// ModelOutput is one model's contribution to a panel round.
type ModelOutput struct {
	Model  string `json:"model"`
	Output string `json:"output"`
	Failed bool   `json:"failed,omitempty"`
}

// PanelResult holds raw per-model outputs for the fan-out modes. Modes other
// than decompose carry no mode-specific statistics here; callers aggregate
// the raw rounds themselves.
type PanelResult struct {
	Mode   string          `json:"mode"`
	Rounds [][]ModelOutput `json:"rounds"`
}

// RunPanel fans the question out to every model for the mode's round count.
// Each round sees the previous round's outputs. Per-model failures are
// recorded inline, never aborting the round.
func (e *Engine) RunPanel(ctx context.Context, runID string, mode Mode, question string) (*PanelResult, error) {
	if len(e.Models) == 0 {
		e.publish(runID, "failed", map[string]any{"error": ErrNoWorkers.Error()})
		return nil, ErrNoWorkers
	}
	if len(e.Models) < mode.MinModels {
		err := fmt.Errorf("council: mode %s needs at least %d models, have %d",
			mode.Name, mode.MinModels, len(e.Models))
		e.publish(runID, "failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	rounds := mode.Rounds
	if rounds < 1 {
		rounds = 1
	}
	result := &PanelResult{Mode: mode.Name, Rounds: make([][]ModelOutput, 0, rounds)}

	var prior []ModelOutput
	for round := 1; round <= rounds; round++ {
		if err := ctx.Err(); err != nil {
			e.publish(runID, "failed", map[string]any{"error": err.Error()})
			return nil, err
		}
		e.publish(runID, "round_started", map[string]any{"mode": mode.Name, "round": round})

		prompt := buildPanelPrompt(mode, question, round, prior)
		type indexed struct {
			i   int
			out ModelOutput
		}
		ch := make(chan indexed, len(e.Models))
		for i, model := range e.Models {
			go func(i int, model string) {
				callCtx := llm.WithStage(ctx, fmt.Sprintf("%s:round_%d:%s", mode.Name, round, model))
				if e.TaskTimeout > 0 {
					var cancel context.CancelFunc
					callCtx, cancel = context.WithTimeout(callCtx, e.TaskTimeout)
					defer cancel()
				}
				out, err := e.clientFor(model).GenerateText(callCtx, prompt)
				if err != nil {
					ch <- indexed{i, ModelOutput{Model: model, Output: "[FAILED] " + err.Error(), Failed: true}}
					return
				}
				ch <- indexed{i, ModelOutput{Model: model, Output: out}}
			}(i, model)
		}

		outs := make([]ModelOutput, len(e.Models))
		for range e.Models {
			res := <-ch
			outs[res.i] = res.out
		}
		result.Rounds = append(result.Rounds, outs)
		prior = outs
		e.publish(runID, "round_completed", map[string]any{"mode": mode.Name, "round": round})
	}
	e.publish(runID, "completed", map[string]any{"mode": mode.Name, "rounds": rounds})
	return result, nil
}
