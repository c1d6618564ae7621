// Package driver runs the fixed-point iteration loop over the external
// solver module.
//
// Each iteration makes three ordered solver calls and one reducer call:
//   - comp_fcn: iterate -> history + function evaluation
//   - gen_precond_jacobian: iterate + history -> preconditioner
//   - apply_precond_jacobian: function evaluation + preconditioner -> correction
//   - reduce: last time slice of history -> next iterate
//
// The loop is strictly sequential and fail-fast: the first failing
// external call aborts the run and the working directory is left as-is
// for post-mortem inspection. After fp_cnt iterations the final iterate
// is copied to its well-known output location.
package driver
