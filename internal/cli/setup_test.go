package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/solver"
)

// setupFixture writes a fake setup tool and a config pointing at it,
// exported via NKOOC_CONFIG.
func setupFixture(t *testing.T, scriptBody string) (base string) {
	t.Helper()
	base = t.TempDir()

	scriptPath := filepath.Join(base, "setup.sh")
	require.NoError(t, os.WriteFile(scriptPath, []byte("#!/bin/sh\n"+scriptBody+"\n"), 0o755))

	cfgContent := fmt.Sprintf("commands:\n  setup: [\"sh\", %q]\n", scriptPath)
	cfgPath := filepath.Join(base, "newton_krylov.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o644))

	t.Setenv("NKOOC_CONFIG", cfgPath)
	return base
}

func TestSetupForwardsArgs(t *testing.T) {
	base := setupFixture(t, "exit 0")
	logPath := filepath.Join(base, "argv.log")
	scriptPath := filepath.Join(base, "setup.sh")
	require.NoError(t, os.WriteFile(scriptPath,
		[]byte("#!/bin/sh\nprintf '%s\\n' \"$@\" > "+logPath+"\n"), 0o755))

	err := runSetup(setupCmd, []string{"--model", "test_problem", "init"})
	require.NoError(t, err)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "--model\ntest_problem\ninit\n", string(logged))
}

func TestSetupForwardsHelpFlag(t *testing.T) {
	// --help belongs to the setup tool; with pass-through semantics the
	// harness must not answer it itself.
	base := setupFixture(t, "exit 0")
	logPath := filepath.Join(base, "argv.log")
	scriptPath := filepath.Join(base, "setup.sh")
	require.NoError(t, os.WriteFile(scriptPath,
		[]byte("#!/bin/sh\nprintf '%s\\n' \"$@\" > "+logPath+"\n"), 0o755))

	err := runSetup(setupCmd, []string{"--help"})
	require.NoError(t, err)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err, "setup tool should have been invoked")
	assert.Equal(t, "--help\n", string(logged))
}

func TestSetupEmptyArgs(t *testing.T) {
	setupFixture(t, "exit 0")
	require.NoError(t, runSetup(setupCmd, nil))
}

func TestSetupPropagatesExitCode(t *testing.T) {
	setupFixture(t, "exit 5")

	err := runSetup(setupCmd, nil)
	require.Error(t, err)

	var exitErr *solver.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 5, exitErr.Code)
	assert.Equal(t, 5, solver.ExitCode(err))
}

func TestSetupNoConfigFileUsesDefaults(t *testing.T) {
	// Default setup command is python3 -m nk_ooc.setup_solver, which is
	// not runnable here; the point is that a missing config file is not
	// itself an error.
	t.Setenv("NKOOC_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	err := runSetup(setupCmd, nil)
	if err != nil {
		assert.False(t, strings.Contains(err.Error(), "config file not found"))
	}
}
