package strategy

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names an execution strategy.
type Kind string

// Supported strategies.
const (
	KindSequential Kind = "sequential"
	KindFanOut     Kind = "fanout"
	KindPool       Kind = "pool"
)

// Kinds lists every strategy in comparison order.
var Kinds = []Kind{KindSequential, KindFanOut, KindPool}

// ErrUnknownStrategy is returned by ParseKind for unrecognised names.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ParseKind maps a user supplied name to a Kind. Matching is case-insensitive
// and accepts a few common aliases.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sequential", "single", "single_thread", "seq":
		return KindSequential, nil
	case "fanout", "fan-out", "fan_out", "fork_join", "forkjoin":
		return KindFanOut, nil
	case "pool", "worker_pool", "workerpool":
		return KindPool, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
	}
}
