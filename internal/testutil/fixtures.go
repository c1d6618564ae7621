package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// fakeSolverScript mimics the external solver module's CLI: it parses
// the harness's flags and copies inputs to outputs, so artifact chains
// stay byte-traceable through a run.
const fakeSolverScript = `#!/bin/sh
sub=$1; shift
dir=""; hist=""; in=""; res=""; pre=""
while [ $# -gt 0 ]; do
  case "$1" in
    --fname_dir) dir=$2; shift 2;;
    --cfg_fname) shift 2;;
    --hist_fname) hist=$2; shift 2;;
    --in_fname) in=$2; shift 2;;
    --res_fname) res=$2; shift 2;;
    --precond_fname) pre=$2; shift 2;;
    *) shift;;
  esac
done
case "$sub" in
  comp_fcn)
    cp "$dir/$in" "$dir/$hist"
    cp "$dir/$in" "$dir/$res"
    ;;
  gen_precond_jacobian)
    cp "$dir/$hist" "$dir/$pre"
    ;;
  apply_precond_jacobian)
    cp "$dir/$in" "$dir/$res"
    ;;
  *) exit 64;;
esac
`

// fakeReducerScript copies the history artifact to the output path,
// standing in for the last-time-slice extraction.
const fakeReducerScript = `#!/bin/sh
cp "$1" "$2"
`

// WriteScript writes an executable shell script and returns its path.
func WriteScript(t *testing.T, path, body string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("failed to write script %s: %v", path, err)
	}
	return path
}

// WriteFakeSolver writes the fake solver module script into dir.
func WriteFakeSolver(t *testing.T, dir string) string {
	t.Helper()
	return WriteScript(t, filepath.Join(dir, "solver.sh"), fakeSolverScript)
}

// WriteFailingSolver writes a solver script that exits with the given
// code on one sub-command and behaves normally otherwise.
func WriteFailingSolver(t *testing.T, dir, failSub string, code int) string {
	t.Helper()
	body := "#!/bin/sh\ncase \"$1\" in " + failSub + ") exit " +
		strconv.Itoa(code) + ";; esac\n" + fakeSolverScript[len("#!/bin/sh\n"):]
	return WriteScript(t, filepath.Join(dir, "solver.sh"), body)
}

// WriteFakeReducer writes the fake reducer script into dir.
func WriteFakeReducer(t *testing.T, dir string) string {
	t.Helper()
	return WriteScript(t, filepath.Join(dir, "reducer.sh"), fakeReducerScript)
}
