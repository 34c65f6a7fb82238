package reactor

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// NewLogger returns a JSON logger writing one line per event to w, suitable
// for WithLogger. Events more verbose than level are dropped.
func NewLogger(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}

// reactorLogger scopes logger to a single reactor. It returns nil (logging
// disabled) if logger is nil.
func reactorLogger(logger *logiface.Logger[logiface.Event], id string) *logiface.Logger[logiface.Event] {
	return logger.Clone().
		Str("reactor", id).
		Logger()
}
