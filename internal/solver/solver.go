// Package solver is the boundary to the external Newton-Krylov tools.
// The residual/Jacobian module and the time-series reducer are opaque
// programs: given named input artifacts in the working directory they
// either produce the named outputs or exit non-zero. This package only
// builds their argv vectors and child environments.
package solver

import (
	"context"
	"os"
	"strings"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/artifact"
)

// Module is the external residual/Jacobian solver, invoked as three
// sub-commands. Implementations must be synchronous: a call returns only
// once the named output artifacts exist or the tool has failed.
type Module interface {
	// CompFcn evaluates the residual function on the iteration's input
	// iterate, emitting the history and function-evaluation artifacts.
	CompFcn(ctx context.Context, set artifact.Set) error

	// GenPrecondJacobian builds the preconditioner artifact from the
	// iterate and its history.
	GenPrecondJacobian(ctx context.Context, set artifact.Set) error

	// ApplyPrecondJacobian applies the preconditioner to the function
	// evaluation, emitting the correction artifact.
	ApplyPrecondJacobian(ctx context.Context, set artifact.Set) error
}

// Reducer derives the next iterate from a history artifact by selecting
// its final record along the time dimension.
type Reducer interface {
	LastTimeSlice(ctx context.Context, histPath, outPath string) error
}

// ExecContext is the environment handed to external tools. The module
// search path is explicit configuration rather than inherited process
// state; the harness's own environment is never mutated.
type ExecContext struct {
	// PathVar is the search-path variable the solver module reads
	// (PYTHONPATH for the reference implementation).
	PathVar string

	// Paths are prepended to any value of PathVar already present.
	Paths []string

	// Extra entries override or extend the base environment.
	Extra map[string]string

	// Base is the starting environment. Nil means os.Environ().
	Base []string
}

// Environ builds the child environment.
func (c ExecContext) Environ() []string {
	base := c.Base
	if base == nil {
		base = os.Environ()
	}

	env := make([]string, 0, len(base)+len(c.Extra)+1)
	seen := make(map[string]bool, len(base))

	valueOf := func(key string) (string, bool) {
		if v, ok := c.Extra[key]; ok {
			return v, true
		}
		for _, entry := range base {
			if k, v, ok := cutEnv(entry); ok && k == key {
				return v, true
			}
		}
		return "", false
	}

	pathValue := func() string {
		joined := strings.Join(c.Paths, string(os.PathListSeparator))
		if existing, ok := valueOf(c.PathVar); ok && existing != "" {
			if joined == "" {
				return existing
			}
			return joined + string(os.PathListSeparator) + existing
		}
		return joined
	}

	for _, entry := range base {
		key, _, ok := cutEnv(entry)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true

		switch {
		case key == c.PathVar && c.PathVar != "":
			env = append(env, key+"="+pathValue())
		default:
			if v, ok := c.Extra[key]; ok {
				env = append(env, key+"="+v)
			} else {
				env = append(env, entry)
			}
		}
	}

	for key, v := range c.Extra {
		if seen[key] {
			continue
		}
		seen[key] = true
		if key == c.PathVar && c.PathVar != "" {
			env = append(env, key+"="+pathValue())
		} else {
			env = append(env, key+"="+v)
		}
	}

	if c.PathVar != "" && !seen[c.PathVar] && len(c.Paths) > 0 {
		env = append(env, c.PathVar+"="+pathValue())
	}

	return env
}

func cutEnv(entry string) (key, value string, ok bool) {
	idx := strings.Index(entry, "=")
	if idx <= 0 {
		return "", "", false
	}
	return entry[:idx], entry[idx+1:], true
}
