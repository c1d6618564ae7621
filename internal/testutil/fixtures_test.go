package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeSolverCompFcn(t *testing.T) {
	base := t.TempDir()
	work := filepath.Join(base, "work")
	require.NoError(t, os.MkdirAll(work, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(work, "iterate_test_fp0.nc"), []byte("seed"), 0o644))

	script := WriteFakeSolver(t, base)

	cmd := exec.Command("sh", script, "comp_fcn",
		"--fname_dir", work,
		"--cfg_fname", "cfg",
		"--hist_fname", "hist_test_fp0.nc",
		"--in_fname", "iterate_test_fp0.nc",
		"--res_fname", "fcn_test_fp0.nc")
	require.NoError(t, cmd.Run())

	hist, err := os.ReadFile(filepath.Join(work, "hist_test_fp0.nc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("seed"), hist)
	assert.FileExists(t, filepath.Join(work, "fcn_test_fp0.nc"))
}

func TestFailingSolverExitCode(t *testing.T) {
	base := t.TempDir()
	script := WriteFailingSolver(t, base, "gen_precond_jacobian", 9)

	cmd := exec.Command("sh", script, "gen_precond_jacobian")
	err := cmd.Run()
	require.Error(t, err)

	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok)
	assert.Equal(t, 9, exitErr.ExitCode())
}

func TestFakeReducerCopies(t *testing.T) {
	base := t.TempDir()
	script := WriteFakeReducer(t, base)

	hist := filepath.Join(base, "hist.nc")
	out := filepath.Join(base, "out.nc")
	require.NoError(t, os.WriteFile(hist, []byte("records"), 0o644))

	require.NoError(t, exec.Command("sh", script, hist, out).Run())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("records"), got)
}
