package jobscript

import (
	"fmt"
	"slices"
	"time"
)

// Mode is the execution strategy of one benchmark run. Its value is the
// token used in executable, script and log file names.
type Mode string

const (
	ModeSerial       Mode = "serial"
	ModeSharedMemory Mode = "omp"
	ModeDistributed  Mode = "mpi"
	ModeHybrid       Mode = "hybrid"
)

// Modes lists all execution modes in presentation order.
var Modes = []Mode{ModeSerial, ModeSharedMemory, ModeDistributed, ModeHybrid}

// Method identifies the clustering variant: full PAM or sampled CLARA.
type Method string

const (
	MethodReg   Method = "reg"
	MethodClara Method = "clara"
)

// Methods lists all clustering methods.
var Methods = []Method{MethodReg, MethodClara}

// ModeConfig is the mode-specific part of a RunConfig. The concrete types
// are Serial, SharedMemory, Distributed and Hybrid.
type ModeConfig interface {
	// Mode returns the execution mode.
	Mode() Mode
	// Units returns the thread or process count, or 0 for serial runs.
	Units() int

	validate() error
}

// Serial runs the executable on a single core.
type Serial struct{}

func (Serial) Mode() Mode      { return ModeSerial }
func (Serial) Units() int      { return 0 }
func (Serial) validate() error { return nil }

// SharedMemory runs one process with Threads OpenMP threads.
type SharedMemory struct {
	Threads int
}

func (SharedMemory) Mode() Mode   { return ModeSharedMemory }
func (c SharedMemory) Units() int { return c.Threads }
func (c SharedMemory) validate() error {
	return positive(ModeSharedMemory, "thread count", c.Threads)
}

// Distributed runs Procs MPI processes.
type Distributed struct {
	Procs int
}

func (Distributed) Mode() Mode   { return ModeDistributed }
func (c Distributed) Units() int { return c.Procs }
func (c Distributed) validate() error {
	return positive(ModeDistributed, "process count", c.Procs)
}

// Hybrid runs Procs MPI processes, each using every processor of its node
// as OpenMP threads.
type Hybrid struct {
	Procs int
}

func (Hybrid) Mode() Mode   { return ModeHybrid }
func (c Hybrid) Units() int { return c.Procs }
func (c Hybrid) validate() error {
	return positive(ModeHybrid, "process count", c.Procs)
}

func positive(mode Mode, field string, v int) error {
	if v <= 0 {
		if v == 0 {
			return &ConfigurationError{Mode: mode, Field: field, Reason: "is required"}
		}
		return &ConfigurationError{Mode: mode, Field: field, Reason: fmt.Sprintf("must be positive, got %d", v)}
	}
	return nil
}

// Resources are the scheduler resources requested for a run.
type Resources struct {
	// MemoryGB is the total memory of the job in gigabytes.
	MemoryGB float64 `yaml:"memory_gb" mapstructure:"memory_gb"`
	// WallTime is the run-time budget, requested with second precision.
	WallTime time.Duration `yaml:"wall_time" mapstructure:"wall_time"`
}

// DefaultResources returns the budget used for the published study.
func DefaultResources() Resources {
	return Resources{MemoryGB: 10, WallTime: 30 * time.Minute}
}

func (r Resources) validate(mode Mode) error {
	if !(r.MemoryGB > 0) {
		return &ConfigurationError{Mode: mode, Field: "memory", Reason: fmt.Sprintf("must be positive, got %v", r.MemoryGB)}
	}
	if r.WallTime < time.Second {
		return &ConfigurationError{Mode: mode, Field: "wall time", Reason: fmt.Sprintf("must be at least 1s, got %v", r.WallTime)}
	}
	return nil
}

// RunConfig describes one experiment invocation. It is immutable once
// constructed.
type RunConfig struct {
	mode      ModeConfig
	resources Resources
	methods   []Method
}

// NewRunConfig validates its arguments and returns a RunConfig. Without
// methods, serial and shared-memory runs execute both methods while
// distributed and hybrid runs execute CLARA only.
func NewRunConfig(mode ModeConfig, res Resources, methods ...Method) (RunConfig, error) {
	cfg := RunConfig{
		mode:      mode,
		resources: res,
		methods:   slices.Clone(methods),
	}
	if len(cfg.methods) == 0 && mode != nil {
		cfg.methods = defaultMethods(mode.Mode())
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

func defaultMethods(mode Mode) []Method {
	switch mode {
	case ModeSerial, ModeSharedMemory:
		return []Method{MethodReg, MethodClara}
	default:
		return []Method{MethodClara}
	}
}

// Validate checks that the configuration carries every parameter its
// mode requires.
func (c RunConfig) Validate() error {
	if c.mode == nil {
		return &ConfigurationError{Field: "mode", Reason: "is required"}
	}
	mode := c.mode.Mode()
	if err := c.mode.validate(); err != nil {
		return err
	}
	if err := c.resources.validate(mode); err != nil {
		return err
	}
	if len(c.methods) == 0 {
		return &ConfigurationError{Mode: mode, Field: "methods", Reason: "is required"}
	}
	for i, m := range c.methods {
		if !slices.Contains(Methods, m) {
			return &ConfigurationError{Mode: mode, Field: "method", Reason: fmt.Sprintf("%q is unknown", m)}
		}
		if slices.Contains(c.methods[:i], m) {
			return &ConfigurationError{Mode: mode, Field: "method", Reason: fmt.Sprintf("%q is listed twice", m)}
		}
	}
	return nil
}

// Mode returns the execution mode.
func (c RunConfig) Mode() Mode {
	if c.mode == nil {
		return ""
	}
	return c.mode.Mode()
}

// Units returns the thread or process count, or 0 for serial runs.
func (c RunConfig) Units() int {
	if c.mode == nil {
		return 0
	}
	return c.mode.Units()
}

// Resources returns the requested scheduler resources.
func (c RunConfig) Resources() Resources { return c.resources }

// Methods returns a copy of the methods the run executes.
func (c RunConfig) Methods() []Method { return slices.Clone(c.methods) }

// Tag returns the mode token with the unit count appended for parallel
// modes, e.g. "serial" or "omp_4".
func (c RunConfig) Tag() string {
	if c.Units() == 0 {
		return string(c.Mode())
	}
	return fmt.Sprintf("%s_%d", c.Mode(), c.Units())
}

// ScriptName returns the file name of the job script, e.g. "mpi_8.sh".
func (c RunConfig) ScriptName() string { return c.Tag() + ".sh" }

// LogName returns the file the executable of method writes its timing
// output to, e.g. "omp_clara_4.txt".
func (c RunConfig) LogName(method Method) string {
	name := string(c.Mode()) + "_" + string(method)
	if c.Units() > 0 {
		name += fmt.Sprintf("_%d", c.Units())
	}
	return name + ".txt"
}
