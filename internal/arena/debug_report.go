package arena

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// AgentDebugReport renders an agent's recent log timeline plus its current
// state, for pasting into bug reports.
func AgentDebugReport(h *SimHarness, label string, lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 120
	}
	fromTick := h.CurrentTick() - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- ArenaSense debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick_range=[%d..%d]\n", h.Seed(), fromTick, h.CurrentTick())

	var subject *Agent
	for _, a := range h.Coord.Agents() {
		if a.Label() == label {
			subject = a
			break
		}
	}
	if subject == nil && h.Player() != nil && h.Player().Label() == label {
		subject = h.Player()
	}
	if subject == nil {
		fmt.Fprintf(&b, "agent %q not found\n", label)
		return b.String()
	}

	fmt.Fprintf(&b, "agent=%s team=%s mode=%s hp=%.0f/%.0f pos=(%.1f,%.1f)\n\n",
		subject.Label(), subject.Team(), subject.Mode(),
		subject.Health(), subject.MaxHealth(),
		subject.Position().X, subject.Position().Z)

	n := 0
	for _, e := range h.Log.FilterAgent(label) {
		if e.Tick < fromTick {
			continue
		}
		b.WriteString(e.String())
		b.WriteByte('\n')
		n++
	}
	if n == 0 {
		b.WriteString("(no events in range)\n")
	}
	return b.String()
}

// CopyDebugReport places a debug report on the system clipboard.
// Clipboard failure is reported, not fatal; the report is also returned.
func CopyDebugReport(h *SimHarness, label string, lastTicks int) (string, error) {
	report := AgentDebugReport(h, label, lastTicks)
	if err := clipboard.WriteAll(report); err != nil {
		return report, fmt.Errorf("copy debug report: %w", err)
	}
	return report, nil
}
