package config

// Run defines the fixed-point run parameters.
type Run struct {
	FPCnt     int    `yaml:"fp_cnt"`
	ModelName string `yaml:"model_name"`
	Workdir   string `yaml:"workdir"`
	CfgFname  string `yaml:"cfg_fname"`
	SeedFname string `yaml:"seed_fname"`
	OutFname  string `yaml:"out_fname"`
}

// Commands defines the argv prefixes for the external tools. The harness
// appends sub-command names, flags and artifact paths; it never inspects
// what the tools do with them.
type Commands struct {
	Solver  []string `yaml:"solver"`
	Reducer []string `yaml:"reducer"`
	Setup   []string `yaml:"setup"`
}

// Env defines the environment handed to external tools. Paths are
// prepended to PathVar in the child environment only; the harness never
// mutates its own process environment.
type Env struct {
	PathVar  string   `yaml:"path_var"`
	Paths    []string `yaml:"paths"`
	EnvFname string   `yaml:"env_fname"`
}

// Config represents the harness config file (newton_krylov.yaml).
type Config struct {
	Run      Run      `yaml:"run"`
	Commands Commands `yaml:"commands"`
	Env      Env      `yaml:"env"`
}
