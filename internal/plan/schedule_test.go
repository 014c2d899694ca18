package plan

import (
	"testing"

	"council/internal/tester"
)

func TestTopologicalSortLinearChain(t *testing.T) {
	tasks := []*Task{
		mkTask("task_1"),
		mkTask("task_2", "task_1"),
		mkTask("task_3", "task_2"),
	}
	res := TopologicalSort(tasks)
	tester.False(t, res.HasCycle)
	tester.Eq(t, res.Waves, [][]string{{"task_1"}, {"task_2"}, {"task_3"}})
	tester.Eq(t, res.CriticalPath, []string{"task_1", "task_2", "task_3"})
	tester.Eq(t, tasks[0].WaveNumber, 1)
	tester.Eq(t, tasks[1].WaveNumber, 2)
	tester.Eq(t, tasks[2].WaveNumber, 3)
}

func TestTopologicalSortDiamond(t *testing.T) {
	tasks := []*Task{
		mkTask("task_1"),
		mkTask("task_2", "task_1"),
		mkTask("task_3", "task_1"),
		mkTask("task_4", "task_2", "task_3"),
	}
	res := TopologicalSort(tasks)
	tester.False(t, res.HasCycle)
	tester.Len(t, res.Waves, 3)
	tester.Eq(t, res.Waves[1], []string{"task_2", "task_3"}, "wave 2 keeps declaration order")
	tester.Len(t, res.CriticalPath, 3)
	tester.Eq(t, res.CriticalPath[2], "task_4")
}

func TestTopologicalSortIndependentTasksSingleWave(t *testing.T) {
	tasks := []*Task{mkTask("a"), mkTask("b"), mkTask("c")}
	res := TopologicalSort(tasks)
	tester.False(t, res.HasCycle)
	tester.Eq(t, res.Waves, [][]string{{"a", "b", "c"}})
}

func TestTopologicalSortDetectsMutualCycle(t *testing.T) {
	tasks := []*Task{
		mkTask("task_1", "task_2"),
		mkTask("task_2", "task_1"),
	}
	res := TopologicalSort(tasks)
	tester.True(t, res.HasCycle)
	tester.Len(t, res.Waves, 0)
	tester.Len(t, res.CriticalPath, 0)
}

func TestTopologicalSortPartialWavesBeforeCycle(t *testing.T) {
	tasks := []*Task{
		mkTask("task_1"),
		mkTask("task_2", "task_3"),
		mkTask("task_3", "task_2"),
	}
	res := TopologicalSort(tasks)
	tester.True(t, res.HasCycle)
	tester.Eq(t, res.Waves, [][]string{{"task_1"}}, "waves formed before the stall are reported")
}

func TestTopologicalSortEmptyInput(t *testing.T) {
	res := TopologicalSort(nil)
	tester.False(t, res.HasCycle)
	tester.Len(t, res.Waves, 0)
	tester.Len(t, res.CriticalPath, 0)
}

// Every dependency must land in a strictly earlier wave, and the waves must
// partition the task set exactly.
func TestTopologicalSortValidOrderAndPartition(t *testing.T) {
	tasks := []*Task{
		mkTask("a"),
		mkTask("b", "a"),
		mkTask("c", "a"),
		mkTask("d", "b", "c"),
		mkTask("e"),
		mkTask("f", "e", "d"),
	}
	res := TopologicalSort(tasks)
	tester.False(t, res.HasCycle)

	waveOf := make(map[string]int)
	total := 0
	for wi, wave := range res.Waves {
		for _, id := range wave {
			if _, dup := waveOf[id]; dup {
				t.Fatalf("task %s appears in more than one wave", id)
			}
			waveOf[id] = wi + 1
			total++
		}
	}
	tester.Eq(t, total, len(tasks), "waves cover all tasks exactly once")

	for _, task := range tasks {
		tester.Eq(t, waveOf[task.ID], task.WaveNumber, "WaveNumber side effect")
		for _, dep := range task.Dependencies {
			if waveOf[dep] >= waveOf[task.ID] {
				t.Fatalf("dependency %s (wave %d) not strictly before %s (wave %d)",
					dep, waveOf[dep], task.ID, waveOf[task.ID])
			}
		}
	}
}
