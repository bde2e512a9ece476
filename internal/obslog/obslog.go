// Package obslog wires the driver's structured logging to a logr.Logger
// without committing the rest of the module to a concrete backend.
package obslog

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// New returns a logr.Logger writing to stderr through funcr, the way the
// pack's operator-tooling examples construct their default logger. verbosity
// controls which V(n) calls are enabled; the driver logs suspend/resume at
// V(1) and contradictions at V(0).
func New(verbosity int) logr.Logger {
	return NewTo(os.Stderr, verbosity)
}

// NewTo is New with an explicit writer, so tests can capture output.
func NewTo(w io.Writer, verbosity int) logr.Logger {
	return funcr.NewJSON(func(obj string) {
		_, _ = io.WriteString(w, obj+"\n")
	}, funcr.Options{Verbosity: verbosity})
}

// Discard is a logger that drops everything, used where the caller hasn't
// configured logging (e.g. library callers of step.Solve that pass no
// logger in Config).
func Discard() logr.Logger {
	return logr.Discard()
}
