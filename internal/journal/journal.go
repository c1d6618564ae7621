// Package journal records what a fixed-point run did, step by step, into
// a YAML file inside the working directory. The file is the post-mortem
// surface for failed runs: the driver fails fast and leaves partial
// artifacts behind, and the journal says which step stopped the run.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// RunFname is the journal file name inside the working directory.
const RunFname = "run.yaml"

// Step status values.
const (
	StepRunning = "running"
	StepOK      = "ok"
	StepFailed  = "failed"
)

// Run status values.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// Step records one driver step: a solver sub-command, the reduce step,
// or the seed/export bookkeeping around the loop.
type Step struct {
	Ind        int       `yaml:"fp_ind"`
	Name       string    `yaml:"name"`
	Status     string    `yaml:"status"`
	Error      string    `yaml:"error,omitempty"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at,omitempty"`
}

// Run is the journal document.
type Run struct {
	RunID     string    `yaml:"run_id"`
	Model     string    `yaml:"model"`
	FPCnt     int       `yaml:"fp_cnt"`
	Status    string    `yaml:"status"`
	StartedAt time.Time `yaml:"started_at"`
	Steps     []Step    `yaml:"steps"`
}

// Journal writes a Run document to disk as steps progress.
type Journal struct {
	path string
	run  Run
	now  func() time.Time
}

// New creates a journal for a fresh run in the given working directory.
func New(dir string, model string, fpCnt int) *Journal {
	j := &Journal{
		path: filepath.Join(dir, RunFname),
		now:  time.Now,
	}
	j.run = Run{
		RunID:     uuid.NewString(),
		Model:     model,
		FPCnt:     fpCnt,
		Status:    RunRunning,
		StartedAt: j.now().UTC(),
	}
	return j
}

// RunID returns the journal's run identifier.
func (j *Journal) RunID() string {
	return j.run.RunID
}

// StepStarted appends a running step record and flushes.
func (j *Journal) StepStarted(ind int, name string) error {
	j.run.Steps = append(j.run.Steps, Step{
		Ind:       ind,
		Name:      name,
		Status:    StepRunning,
		StartedAt: j.now().UTC(),
	})
	return j.flush()
}

// StepFinished marks the most recent step as finished and flushes.
func (j *Journal) StepFinished(ind int, name string, stepErr error) error {
	for i := len(j.run.Steps) - 1; i >= 0; i-- {
		step := &j.run.Steps[i]
		if step.Ind != ind || step.Name != name {
			continue
		}
		step.FinishedAt = j.now().UTC()
		if stepErr != nil {
			step.Status = StepFailed
			step.Error = stepErr.Error()
		} else {
			step.Status = StepOK
		}
		return j.flush()
	}
	return fmt.Errorf("no started step %q for fp_ind %d", name, ind)
}

// Finish records the run outcome and flushes.
func (j *Journal) Finish(runErr error) error {
	if runErr != nil {
		j.run.Status = RunFailed
	} else {
		j.run.Status = RunSucceeded
	}
	return j.flush()
}

// flush writes the journal document. Journal writes are best-effort:
// callers log failures and keep going, so the run itself never fails on
// journal I/O.
func (j *Journal) flush() error {
	data, err := yaml.Marshal(&j.run)
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}

// Read loads the journal from a working directory.
func Read(dir string) (*Run, error) {
	path := filepath.Join(dir, RunFname)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no run journal in %s", dir)
		}
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var run Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse journal: %w", err)
	}
	return &run, nil
}
