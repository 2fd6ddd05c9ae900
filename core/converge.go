package core

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/encodeous/dvsim/perf"
	"golang.org/x/sync/errgroup"
)

type Result struct {
	Rounds  int  // rounds executed
	Changes int  // routing entries changed across all rounds
	Stable  bool // the last round changed nothing
}

type roundFunc func(ctx context.Context, net *Network, r Router) (int, error)

// Converge runs a fixed number of synchronous rounds. rounds <= 0 runs one round per node.
// Within a round every node receives a fresh snapshot from every other node, receivers and senders in network order.
func Converge(ctx context.Context, net *Network, rounds int, r Router) (Result, error) {
	if rounds <= 0 {
		rounds = net.Len()
	}
	return converge(ctx, net, rounds, false, r, runRound)
}

// ConvergeUntilStable runs rounds until one of them changes no entry, or maxRounds have run.
// maxRounds <= 0 allows n*n rounds for n nodes.
func ConvergeUntilStable(ctx context.Context, net *Network, maxRounds int, r Router) (Result, error) {
	if maxRounds <= 0 {
		maxRounds = net.Len() * net.Len()
	}
	return converge(ctx, net, maxRounds, true, r, runRound)
}

// ConvergeConcurrent is Converge (or ConvergeUntilStable) with every receiver merging in its own goroutine.
// Rounds are still separated by a barrier.
func ConvergeConcurrent(ctx context.Context, net *Network, rounds int, untilStable bool, r Router) (Result, error) {
	if rounds <= 0 {
		if untilStable {
			rounds = net.Len() * net.Len()
		} else {
			rounds = net.Len()
		}
	}
	return converge(ctx, net, rounds, untilStable, r, runRoundConcurrent)
}

func converge(ctx context.Context, net *Network, rounds int, untilStable bool, r Router, step roundFunc) (Result, error) {
	res := Result{}
	for round := 1; round <= rounds; round++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := time.Now()
		changed, err := step(ctx, net, r)
		if err != nil {
			return res, err
		}
		perf.RoundLatency.Add(float64(time.Since(start).Microseconds()))
		perf.RouteChanges.Add(float64(changed))

		res.Rounds = round
		res.Changes += changed
		res.Stable = changed == 0
		r.Log(RoundDone, "round complete", "round", round, "changes", changed)

		if err := r.RoundComplete(round, net); err != nil {
			return res, err
		}
		if untilStable && res.Stable {
			break
		}
	}
	return res, nil
}

func runRound(ctx context.Context, net *Network, r Router) (int, error) {
	changed := 0
	for _, recv := range net.nodes {
		for _, send := range net.nodes {
			if recv == send {
				continue
			}
			changed += recv.Receive(send.Snapshot(), send.Id, r)
		}
	}
	return changed, nil
}

func runRoundConcurrent(ctx context.Context, net *Network, r Router) (int, error) {
	var changed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for _, recv := range net.nodes {
		g.Go(func() error {
			for _, send := range net.nodes {
				if recv == send {
					continue
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				// the snapshot is taken under the sender's lock, the merge under the receiver's
				changed.Add(int64(recv.Receive(send.Snapshot(), send.Id, r)))
			}
			return nil
		})
	}
	err := g.Wait()
	return int(changed.Load()), err
}
