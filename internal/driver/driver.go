package driver

import (
	"context"
	"fmt"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/artifact"
	"github.com/HesslerY/Newton-Krylov-OOC/internal/journal"
	"github.com/HesslerY/Newton-Krylov-OOC/internal/logging"
	"github.com/HesslerY/Newton-Krylov-OOC/internal/solver"
	"github.com/HesslerY/Newton-Krylov-OOC/internal/workspace"
)

// Step names as they appear in the journal. The solver sub-commands
// reuse their own names.
const (
	StepSeed   = "seed"
	StepReduce = "reduce"
	StepExport = "export"
)

// StepError reports the step that aborted a run.
type StepError struct {
	Ind  int
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("fp_ind %d: %s: %v", e.Ind, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Result contains the outcome of a fixed-point run.
type Result struct {
	RunID      string
	Iterations int // completed iterations
	Error      error
}

// Options holds the dependencies of a Driver. Module and Reducer are
// interfaces so tests can substitute in-process fakes for the external
// tools.
type Options struct {
	Module    solver.Module
	Reducer   solver.Reducer
	Layout    artifact.Layout
	FPCnt     int
	SeedFname string
	OutFname  string
	Logger    *logging.Logger // optional
}

// Driver owns one fixed-point run.
type Driver struct {
	module    solver.Module
	reducer   solver.Reducer
	layout    artifact.Layout
	fpCnt     int
	seedFname string
	outFname  string
	log       *logging.Logger
	jnl       *journal.Journal
}

// New creates a Driver.
func New(opts Options) *Driver {
	log := opts.Logger
	if log == nil {
		log = logging.New()
	}
	return &Driver{
		module:    opts.Module,
		reducer:   opts.Reducer,
		layout:    opts.Layout,
		fpCnt:     opts.FPCnt,
		seedFname: opts.SeedFname,
		outFname:  opts.OutFname,
		log:       log,
	}
}

// Run executes the fixed-point loop. The working directory is reset
// first, so nothing from a previous run survives into this one.
func (d *Driver) Run(ctx context.Context) Result {
	if err := workspace.Reset(d.layout.Dir); err != nil {
		return Result{Error: err}
	}

	// The journal lives in the fresh working directory.
	d.jnl = journal.New(d.layout.Dir, d.layout.Model, d.fpCnt)
	d.log = d.log.With("run", d.jnl.RunID())
	d.log.Info("run started", "workdir", d.layout.Dir, "fp_cnt", d.fpCnt)

	result := Result{RunID: d.jnl.RunID()}

	if err := d.step(ctx, 0, StepSeed, func(context.Context) error {
		return workspace.Seed(d.seedFname, d.layout)
	}); err != nil {
		return d.finish(result, err)
	}

	for ind := 0; ind < d.fpCnt; ind++ {
		if err := d.runIteration(ctx, ind); err != nil {
			result.Iterations = ind
			return d.finish(result, err)
		}
		result.Iterations = ind + 1
	}

	if err := d.step(ctx, d.fpCnt, StepExport, func(context.Context) error {
		return workspace.Export(d.layout, d.fpCnt, d.outFname)
	}); err != nil {
		return d.finish(result, err)
	}

	d.log.Info("run finished", "out_fname", d.outFname)
	return d.finish(result, nil)
}

// runIteration executes the three solver calls and the derivation step
// for one fixed-point index. Order matters: every call consumes outputs
// of the previous one.
func (d *Driver) runIteration(ctx context.Context, ind int) error {
	set := d.layout.ForInd(ind)

	if err := d.step(ctx, ind, solver.SubCompFcn, func(ctx context.Context) error {
		return d.module.CompFcn(ctx, set)
	}); err != nil {
		return err
	}

	if err := d.step(ctx, ind, solver.SubGenPrecondJacobian, func(ctx context.Context) error {
		return d.module.GenPrecondJacobian(ctx, set)
	}); err != nil {
		return err
	}

	if err := d.step(ctx, ind, solver.SubApplyPrecondJacobian, func(ctx context.Context) error {
		return d.module.ApplyPrecondJacobian(ctx, set)
	}); err != nil {
		return err
	}

	return d.step(ctx, ind, StepReduce, func(ctx context.Context) error {
		return d.reducer.LastTimeSlice(ctx,
			d.layout.Path(set.Hist),
			d.layout.Path(d.layout.IterateFname(ind+1)))
	})
}

// step journals and runs one unit of work, failing fast on error.
func (d *Driver) step(ctx context.Context, ind int, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return &StepError{Ind: ind, Step: name, Err: err}
	}

	d.journalStarted(ind, name)
	d.log.Info("step started", "fp_ind", ind, "step", name)

	err := fn(ctx)
	d.journalFinished(ind, name, err)

	if err != nil {
		d.log.Error("step failed", "fp_ind", ind, "step", name, "error", err)
		return &StepError{Ind: ind, Step: name, Err: err}
	}
	return nil
}

// finish closes out the journal and fills in the result.
func (d *Driver) finish(result Result, err error) Result {
	result.Error = err
	if d.jnl != nil {
		if jerr := d.jnl.Finish(err); jerr != nil {
			d.log.Warn("journal write failed", "error", jerr)
		}
	}
	return result
}

func (d *Driver) journalStarted(ind int, name string) {
	if err := d.jnl.StepStarted(ind, name); err != nil {
		d.log.Warn("journal write failed", "error", err)
	}
}

func (d *Driver) journalFinished(ind int, name string, stepErr error) {
	if err := d.jnl.StepFinished(ind, name, stepErr); err != nil {
		d.log.Warn("journal write failed", "error", err)
	}
}
