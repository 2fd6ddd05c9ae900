package core

import (
	"fmt"
	"io"
	"log/slog"
)

// SimRouter logs router events and reports tables as rounds complete
type SimRouter struct {
	Logger *slog.Logger
	Out    io.Writer
	// Quiet suppresses the per round report
	Quiet bool
}

func (r *SimRouter) Log(event RouterEvent, desc string, args ...any) {
	r.Logger.Debug(fmt.Sprintf("%s %s", event.String(), desc), args...)
}

func (r *SimRouter) RoundComplete(round int, net *Network) error {
	if r.Quiet || r.Out == nil {
		return nil
	}
	return WriteRound(r.Out, round, net)
}
