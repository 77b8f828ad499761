package domain

// ActionLog is the append-only record of outcomes in arrival order.
// It is owned by the drop surface and only mutated from its update loop.
type ActionLog struct {
	entries []Outcome
}

// Append adds outcomes to the end of the log, preserving their order
func (l *ActionLog) Append(outcomes ...Outcome) {
	l.entries = append(l.entries, outcomes...)
}

// Len returns the number of entries
func (l *ActionLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the log
func (l *ActionLog) Entries() []Outcome {
	out := make([]Outcome, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines returns the rendered text of every entry
func (l *ActionLog) Lines() []string {
	lines := make([]string, len(l.entries))
	for i, e := range l.entries {
		lines[i] = e.String()
	}
	return lines
}

// Counts tallies entries per kind
func (l *ActionLog) Counts() map[OutcomeKind]int {
	counts := make(map[OutcomeKind]int)
	for _, e := range l.entries {
		counts[e.Kind]++
	}
	return counts
}
