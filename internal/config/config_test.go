package config

import (
	"testing"

	"council/internal/tester"
)

func TestParseModels(t *testing.T) {
	tester.Eq(t, []string{"m_a", "m_b"}, parseModels(" m_a , m_b ,"))
	tester.Len(t, parseModels(""), 2, "empty list falls back to defaults")
}

func TestEnvInt(t *testing.T) {
	t.Setenv("COUNCIL_MAX_TASKS", "12")
	tester.Eq(t, 12, envInt("COUNCIL_MAX_TASKS", 8))

	t.Setenv("COUNCIL_MAX_TASKS", "not-a-number")
	tester.Eq(t, 8, envInt("COUNCIL_MAX_TASKS", 8))

	t.Setenv("COUNCIL_MAX_TASKS", "-3")
	tester.Eq(t, 8, envInt("COUNCIL_MAX_TASKS", 8))
}

func TestFirstNonEmpty(t *testing.T) {
	tester.Eq(t, "b", firstNonEmpty("", "  ", "b", "c"))
	tester.Eq(t, "", firstNonEmpty("", "  "))
}
