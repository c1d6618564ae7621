package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultConfigFname = "newton_krylov.yaml"
	DefaultFPCnt       = 3
	DefaultModelName   = "test"
	DefaultWorkdir     = "gen_init_iterate_work"
	DefaultPathVar     = "PYTHONPATH"
)

// DefaultRun returns run parameters with sensible default values.
// SeedFname has no default; a run cannot start without a seed iterate.
func DefaultRun() Run {
	return Run{
		FPCnt:     DefaultFPCnt,
		ModelName: DefaultModelName,
		Workdir:   DefaultWorkdir,
	}
}

// DefaultCommands returns the tool argv prefixes the original harness used.
func DefaultCommands() Commands {
	return Commands{
		Solver:  []string{"python3", "-m", "nk_ooc.newton_fcn"},
		Reducer: []string{"ncks", "-O", "-d", "time,-1"},
		Setup:   []string{"python3", "-m", "nk_ooc.setup_solver"},
	}
}

// DefaultEnv returns env settings with sensible default values.
func DefaultEnv() Env {
	return Env{
		PathVar: DefaultPathVar,
	}
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Run:      DefaultRun(),
		Commands: DefaultCommands(),
		Env:      DefaultEnv(),
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Load reads and parses a harness config file. Missing fields take
// defaults.
func Load(fname string) (*Config, error) {
	if fname == "" {
		fname = DefaultConfigFname
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", fname)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but substitutes defaults when the
// config file does not exist. The setup and status commands can run
// without a config file; the driver cannot, because only the file can
// name the seed iterate.
func LoadOrDefault(fname string) (*Config, error) {
	if fname == "" {
		fname = DefaultConfigFname
	}
	if _, err := os.Stat(fname); os.IsNotExist(err) {
		cfg := DefaultConfig()
		return &cfg, nil
	}
	return Load(fname)
}

// Validate checks that all config values are usable. SeedFname and
// OutFname are not required here; only a fixed-point run needs them and
// it checks for them itself.
func Validate(cfg *Config) error {
	if cfg.Run.FPCnt < 1 {
		return ValidationError{Field: "run.fp_cnt", Message: "must be at least 1"}
	}
	if cfg.Run.ModelName == "" {
		return ValidationError{Field: "run.model_name", Message: "required field is empty"}
	}
	if cfg.Run.Workdir == "" {
		return ValidationError{Field: "run.workdir", Message: "required field is empty"}
	}
	if len(cfg.Commands.Solver) == 0 {
		return ValidationError{Field: "commands.solver", Message: "required field is empty"}
	}
	if len(cfg.Commands.Reducer) == 0 {
		return ValidationError{Field: "commands.reducer", Message: "required field is empty"}
	}
	if len(cfg.Commands.Setup) == 0 {
		return ValidationError{Field: "commands.setup", Message: "required field is empty"}
	}
	if cfg.Env.PathVar == "" {
		return ValidationError{Field: "env.path_var", Message: "required field is empty"}
	}
	return nil
}

// LoadEnvFile parses an environment file into a map of key-value pairs.
// The file format is KEY=VALUE per line. Lines starting with # are
// comments; empty lines are ignored; surrounding quotes are stripped.
// A missing file yields an empty map, matching the original harness where
// the env file is optional.
func LoadEnvFile(fname string) (map[string]string, error) {
	file, err := os.Open(fname)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to open env file: %w", err)
	}
	defer file.Close()

	env := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx == -1 {
			return nil, fmt.Errorf("invalid env file line %d: missing '='", lineNum)
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		if key == "" {
			return nil, fmt.Errorf("invalid env file line %d: empty key", lineNum)
		}

		env[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	return env, nil
}
