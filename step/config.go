package step

import (
	"time"

	"github.com/go-logr/logr"

	"github.com/xDarkicex/hmsolve/internal/obslog"
)

// Config holds the driver's configuration knobs, spec.md §6. It follows
// the teacher's convention of a plain struct with a constructor rather
// than functional options.
type Config struct {
	// RetainAllSolutions suppresses inter-step filtering for diagnostics.
	RetainAllSolutions bool
	// MaxSteps is a hard cap on driver iterations; zero means unlimited.
	MaxSteps uint64
	// Deadline is a wall-clock cutoff; zero means no deadline.
	Deadline time.Time
	// LiteralDefaultEarlyExit enables the §4.4 step-2 pruning. Default true.
	LiteralDefaultEarlyExit bool
	// DisjunctionShortCircuit enables the §4.5 step-2 pruning. Default true.
	DisjunctionShortCircuit bool
	// Log receives structured trace events; defaults to a discard logger.
	Log logr.Logger
	// Trace, when true, records a flat ordered trace of step transitions
	// retrievable from Driver.Trace() after the solve completes.
	Trace bool
}

// DefaultConfig returns the knob defaults spec.md §6 documents.
func DefaultConfig() Config {
	return Config{
		LiteralDefaultEarlyExit: true,
		DisjunctionShortCircuit: true,
		Log:                     obslog.Discard(),
	}
}

func (c Config) hasDeadline() bool {
	return !c.Deadline.IsZero()
}
