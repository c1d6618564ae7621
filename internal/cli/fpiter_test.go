package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/config"
	"github.com/HesslerY/Newton-Krylov-OOC/internal/testutil"
)

// fpFixture writes a seed, the fake tools and a config file, and points
// the global --config value at it for the duration of the test.
func fpFixture(t *testing.T) (base string) {
	t.Helper()
	base = t.TempDir()

	solverPath := testutil.WriteFakeSolver(t, base)
	reducerPath := testutil.WriteFakeReducer(t, base)

	seedPath := filepath.Join(base, "iterate_template.nc")
	require.NoError(t, os.WriteFile(seedPath, []byte("seed state"), 0o644))

	cfgContent := fmt.Sprintf(`run:
  workdir: %q
  seed_fname: %q
  out_fname: %q
commands:
  solver: ["sh", %q]
  reducer: ["sh", %q]
`,
		filepath.Join(base, "work"),
		seedPath,
		filepath.Join(base, "input", "init_iterate.nc"),
		solverPath,
		reducerPath,
	)
	cfgPath := filepath.Join(base, "newton_krylov.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o644))

	origCfg := rootConfigFname
	rootConfigFname = cfgPath
	t.Cleanup(func() {
		rootConfigFname = origCfg
		fpIterateFPCnt = 0
		fpIterateWorkdir = ""
		fpIterateSeed = ""
		fpIterateOut = ""
		if f := fpIterateCmd.Flags().Lookup("fp-cnt"); f != nil {
			f.Changed = false
		}
	})
	return base
}

func runFPIterateCapture(t *testing.T) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	fpIterateCmd.SetOut(&buf)
	defer fpIterateCmd.SetOut(nil)
	err := runFPIterate(fpIterateCmd, nil)
	return buf.String(), err
}

func TestFPIterateEndToEnd(t *testing.T) {
	base := fpFixture(t)

	output, err := runFPIterateCapture(t)
	require.NoError(t, err)
	assert.Contains(t, output, "completed: 3 iterations")

	work := filepath.Join(base, "work")
	for ind := 0; ind <= 3; ind++ {
		assert.FileExists(t, filepath.Join(work, fmt.Sprintf("iterate_test_fp%d.nc", ind)))
	}
	for ind := 0; ind < 3; ind++ {
		assert.FileExists(t, filepath.Join(work, fmt.Sprintf("hist_test_fp%d.nc", ind)))
		assert.FileExists(t, filepath.Join(work, fmt.Sprintf("precond_test_fp%d.nc", ind)))
		assert.FileExists(t, filepath.Join(work, fmt.Sprintf("w_test_fp%d.nc", ind)))
	}

	out, err := os.ReadFile(filepath.Join(base, "input", "init_iterate.nc"))
	require.NoError(t, err)
	// The fake tools only copy, so the chain preserves the seed bytes.
	assert.Equal(t, []byte("seed state"), out)
}

func TestFPIterateFPCntOverride(t *testing.T) {
	base := fpFixture(t)
	require.NoError(t, fpIterateCmd.Flags().Set("fp-cnt", "1"))

	_, err := runFPIterateCapture(t)
	require.NoError(t, err)

	work := filepath.Join(base, "work")
	assert.FileExists(t, filepath.Join(work, "iterate_test_fp1.nc"))
	assert.NoFileExists(t, filepath.Join(work, "iterate_test_fp2.nc"))
}

func TestFPIterateZeroFPCntRejected(t *testing.T) {
	fpFixture(t)
	require.NoError(t, fpIterateCmd.Flags().Set("fp-cnt", "0"))

	_, err := runFPIterateCapture(t)
	require.Error(t, err)
	assert.True(t, config.IsValidationError(err))
	assert.Contains(t, err.Error(), "run.fp_cnt")
}

func TestFPIterateMissingConfig(t *testing.T) {
	orig := rootConfigFname
	rootConfigFname = filepath.Join(t.TempDir(), "absent.yaml")
	t.Cleanup(func() { rootConfigFname = orig })

	_, err := runFPIterateCapture(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestFPIterateMissingSeedConfig(t *testing.T) {
	base := t.TempDir()
	cfgPath := filepath.Join(base, "newton_krylov.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("run:\n  out_fname: out.nc\n"), 0o644))

	orig := rootConfigFname
	rootConfigFname = cfgPath
	t.Cleanup(func() { rootConfigFname = orig })

	_, err := runFPIterateCapture(t)
	require.Error(t, err)
	assert.True(t, config.IsValidationError(err))
	assert.Contains(t, err.Error(), "run.seed_fname")
}

func TestFPIterateSolverFailure(t *testing.T) {
	base := fpFixture(t)

	// Replace the solver with one that fails on gen_precond_jacobian.
	testutil.WriteFailingSolver(t, base, "gen_precond_jacobian", 9)

	_, err := runFPIterateCapture(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gen_precond_jacobian exited with code 9")
	assert.Contains(t, err.Error(), "0 completed iterations")

	// Partial state survives for post-mortem.
	work := filepath.Join(base, "work")
	assert.FileExists(t, filepath.Join(work, "hist_test_fp0.nc"))
	assert.NoFileExists(t, filepath.Join(work, "precond_test_fp0.nc"))
	assert.NoFileExists(t, filepath.Join(base, "input", "init_iterate.nc"))
}
