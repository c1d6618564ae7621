package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalRoundTrip(t *testing.T) {
	dir := t.TempDir()

	j := New(dir, "test", 3)
	require.NotEmpty(t, j.RunID())

	require.NoError(t, j.StepStarted(0, "comp_fcn"))
	require.NoError(t, j.StepFinished(0, "comp_fcn", nil))
	require.NoError(t, j.Finish(nil))

	run, err := Read(dir)
	require.NoError(t, err)

	assert.Equal(t, j.RunID(), run.RunID)
	assert.Equal(t, "test", run.Model)
	assert.Equal(t, 3, run.FPCnt)
	assert.Equal(t, RunSucceeded, run.Status)
	require.Len(t, run.Steps, 1)
	assert.Equal(t, "comp_fcn", run.Steps[0].Name)
	assert.Equal(t, StepOK, run.Steps[0].Status)
	assert.Empty(t, run.Steps[0].Error)
}

func TestJournalRecordsFailure(t *testing.T) {
	dir := t.TempDir()

	j := New(dir, "test", 3)
	require.NoError(t, j.StepStarted(1, "gen_precond_jacobian"))
	require.NoError(t, j.StepFinished(1, "gen_precond_jacobian", errors.New("gen_precond_jacobian exited with code 1")))
	require.NoError(t, j.Finish(errors.New("run aborted")))

	run, err := Read(dir)
	require.NoError(t, err)

	assert.Equal(t, RunFailed, run.Status)
	require.Len(t, run.Steps, 1)
	assert.Equal(t, StepFailed, run.Steps[0].Status)
	assert.Contains(t, run.Steps[0].Error, "exited with code 1")
	assert.Equal(t, 1, run.Steps[0].Ind)
}

func TestJournalStepOrderPreserved(t *testing.T) {
	dir := t.TempDir()

	j := New(dir, "test", 1)
	steps := []string{"comp_fcn", "gen_precond_jacobian", "apply_precond_jacobian", "reduce"}
	for _, name := range steps {
		require.NoError(t, j.StepStarted(0, name))
		require.NoError(t, j.StepFinished(0, name, nil))
	}

	run, err := Read(dir)
	require.NoError(t, err)

	require.Len(t, run.Steps, len(steps))
	for i, name := range steps {
		assert.Equal(t, name, run.Steps[i].Name)
	}
}

func TestJournalFinishedStepHasTimestamps(t *testing.T) {
	dir := t.TempDir()

	j := New(dir, "test", 1)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	require.NoError(t, j.StepStarted(0, "comp_fcn"))
	require.NoError(t, j.StepFinished(0, "comp_fcn", nil))

	run, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, fixed, run.Steps[0].StartedAt)
	assert.Equal(t, fixed, run.Steps[0].FinishedAt)
}

func TestStepFinishedUnknownStep(t *testing.T) {
	j := New(t.TempDir(), "test", 1)
	err := j.StepFinished(0, "comp_fcn", nil)
	require.Error(t, err)
}

func TestReadMissingJournal(t *testing.T) {
	_, err := Read(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run journal")
}

func TestJournalRunIDsUnique(t *testing.T) {
	a := New(t.TempDir(), "test", 1)
	b := New(t.TempDir(), "test", 1)
	assert.NotEqual(t, a.RunID(), b.RunID())
}
