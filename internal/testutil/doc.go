// Package testutil provides shared fixtures for tests that exercise the
// external-tool boundary: shell scripts that stand in for the solver
// module, the time-series reducer and the setup tool.
package testutil
