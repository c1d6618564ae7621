// Package artifact maps fixed-point iteration indices to the named files
// the external solver reads and writes. Keeping the mapping in one place
// means the driver, the journal and the tests all agree on which file
// belongs to which iteration, instead of each interpolating its own paths.
package artifact

import (
	"fmt"
	"path/filepath"
)

// Set names the artifacts of one fixed-point iteration. All names are
// bare file names inside the working directory; the solver receives the
// directory separately via --fname_dir.
type Set struct {
	Ind        int
	Iterate    string // solver state going into this iteration
	Hist       string // history record emitted by comp_fcn
	FcnEval    string // residual evaluation emitted by comp_fcn
	Precond    string // preconditioner emitted by gen_precond_jacobian
	Correction string // correction emitted by apply_precond_jacobian
}

// Layout derives artifact names for a run. Model is the model name
// embedded in every file name (e.g. "test" for the test problem).
type Layout struct {
	Dir   string
	Model string
}

// IterateFname returns the name of the iterate artifact at the given
// fixed-point index. Valid indices run from 0 (the seeded iterate) to
// fp_cnt (the final derived iterate).
func (l Layout) IterateFname(ind int) string {
	return fmt.Sprintf("iterate_%s_fp%d.nc", l.Model, ind)
}

// HistFname returns the name of the history artifact for an iteration.
func (l Layout) HistFname(ind int) string {
	return fmt.Sprintf("hist_%s_fp%d.nc", l.Model, ind)
}

// FcnEvalFname returns the name of the function-evaluation artifact.
func (l Layout) FcnEvalFname(ind int) string {
	return fmt.Sprintf("fcn_%s_fp%d.nc", l.Model, ind)
}

// PrecondFname returns the name of the preconditioner artifact.
func (l Layout) PrecondFname(ind int) string {
	return fmt.Sprintf("precond_%s_fp%d.nc", l.Model, ind)
}

// CorrectionFname returns the name of the correction artifact.
func (l Layout) CorrectionFname(ind int) string {
	return fmt.Sprintf("w_%s_fp%d.nc", l.Model, ind)
}

// ForInd returns the full artifact set for one iteration.
func (l Layout) ForInd(ind int) Set {
	return Set{
		Ind:        ind,
		Iterate:    l.IterateFname(ind),
		Hist:       l.HistFname(ind),
		FcnEval:    l.FcnEvalFname(ind),
		Precond:    l.PrecondFname(ind),
		Correction: l.CorrectionFname(ind),
	}
}

// Path joins a bare artifact name with the working directory.
func (l Layout) Path(fname string) string {
	return filepath.Join(l.Dir, fname)
}
