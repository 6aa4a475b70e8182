// Package failover chains a primary and a secondary provider behind the
// llm.Provider contract. The fallback policy is an explicit state machine so
// it can be tested in isolation from the HTTP clients.
package failover

import (
	"context"
	"fmt"

	"pilotpro/pkg/llm"
)

// State of one chat turn through the chain.
type State int

const (
	TryPrimary State = iota
	TrySecondary
	Done
	BothFailed
)

func (s State) String() string {
	switch s {
	case TryPrimary:
		return "try_primary"
	case TrySecondary:
		return "try_secondary"
	case Done:
		return "done"
	case BothFailed:
		return "both_failed"
	default:
		return "unknown"
	}
}

// Result describes how a turn resolved: which provider answered (or empty on
// total failure) and the per-provider errors collected along the way.
type Result struct {
	Reply  string
	Source string
	State  State
	Errors []error
}

type Chain struct {
	primary   llm.Provider
	secondary llm.Provider
}

func NewChain(primary, secondary llm.Provider) *Chain {
	return &Chain{primary: primary, secondary: secondary}
}

// Send drives the machine: TryPrimary → (success: Done) | (fail:
// TrySecondary) → (success: Done) | (fail: BothFailed). An empty reply
// counts as a failure.
func (c *Chain) Send(ctx context.Context, req llm.Request) Result {
	res := Result{State: TryPrimary}

	for {
		switch res.State {
		case TryPrimary:
			reply, err := c.primary.Send(ctx, req)
			if err == nil && reply != "" {
				res.Reply, res.Source, res.State = reply, c.primary.Name(), Done
				return res
			}
			if err == nil {
				err = fmt.Errorf("%s: empty reply", c.primary.Name())
			}
			res.Errors = append(res.Errors, err)
			res.State = TrySecondary

		case TrySecondary:
			reply, err := c.secondary.Send(ctx, req)
			if err == nil && reply != "" {
				res.Reply, res.Source, res.State = reply, c.secondary.Name(), Done
				return res
			}
			if err == nil {
				err = fmt.Errorf("%s: empty reply", c.secondary.Name())
			}
			res.Errors = append(res.Errors, err)
			res.State = BothFailed
			return res
		}
	}
}
