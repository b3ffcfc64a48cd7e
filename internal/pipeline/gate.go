package pipeline

// Verdict is the gate's decision for one data line.
type Verdict int

const (
	// VerdictEmit lets the line through.
	VerdictEmit Verdict = iota
	// VerdictSkip suppresses the line but keeps streaming.
	VerdictSkip
	// VerdictStop terminates the whole stream.
	VerdictStop
)

// Gate windows the stream to a 1-based [from,to] range of data lines.
// Comment lines never advance the counter. When an external filter is
// active the gate is not used at all; the filter process is contracted to
// apply the same window.
type Gate struct {
	from  int64
	to    int64 // 0 is unbounded
	count int64
}

// NewGate creates a gate for the given window.
func NewGate(from, to int64) *Gate {
	return &Gate{from: from, to: to}
}

// Next advances the data-line counter and returns the verdict for the
// current line.
func (g *Gate) Next() Verdict {
	g.count++
	if g.to > 0 && g.count > g.to {
		return VerdictStop
	}
	if g.count < g.from {
		return VerdictSkip
	}
	return VerdictEmit
}
