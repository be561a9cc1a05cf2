package jobscript

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment describes the cluster the scripts run on.
type Environment struct {
	// BinDir holds the kmediods_<mode>_<method> executables, relative to
	// the job's working directory.
	BinDir string `yaml:"bin_dir" mapstructure:"bin_dir"`
	// ModuleInit is sourced before loading modules.
	ModuleInit string `yaml:"module_init" mapstructure:"module_init"`
	// Modules are loaded in order.
	Modules []string `yaml:"modules" mapstructure:"modules"`
	// Launcher prefixes distributed and hybrid invocations.
	Launcher string `yaml:"launcher" mapstructure:"launcher"`
}

// DefaultEnvironment returns the Grid Engine environment the study ran on.
func DefaultEnvironment() Environment {
	return Environment{
		BinDir:     "../build",
		ModuleInit: "/u/local/Modules/default/init/modules.sh",
		Modules:    []string{"gcc/7.2.0", "boost/1_71_0", "openmpi/3.0.0"},
		Launcher:   "mpirun",
	}
}

// directive prefix understood by Grid Engine.
const directive = "#$ "

// Build renders the job script for cfg. It performs no I/O.
func Build(cfg RunConfig, env Environment) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	writeDirectives(&b, cfg)
	writeModules(&b, env)
	writeThreads(&b, cfg)
	writeInvocations(&b, cfg, env)
	return b.String(), nil
}

func writeDirectives(b *strings.Builder, cfg RunConfig) {
	res := cfg.Resources()
	rt := formatWallTime(res.WallTime)

	b.WriteString(directive + "-cwd\n")
	b.WriteString(directive + "-j y\n")
	fmt.Fprintf(b, "%s-o %s.txt\n", directive, cfg.Tag())

	switch cfg.Mode() {
	case ModeSerial:
		fmt.Fprintf(b, "%s-l h_data=%sG,h_rt=%s,exclusive\n", directive, formatTotal(res.MemoryGB), rt)
	default:
		perUnit := formatShare(res.MemoryGB / float64(cfg.Units()))
		fmt.Fprintf(b, "%s-l h_data=%sG,h_rt=%s,h_vmem=%sG,exclusive\n", directive, perUnit, rt, formatTotal(res.MemoryGB))
		fmt.Fprintf(b, "%s-pe %s %d\n", directive, parallelEnv(cfg.Mode()), cfg.Units())
	}
	b.WriteString("\n")
}

func parallelEnv(mode Mode) string {
	switch mode {
	case ModeSharedMemory:
		return "shared"
	case ModeDistributed:
		return "dc*"
	default:
		return "node*"
	}
}

func writeModules(b *strings.Builder, env Environment) {
	if env.ModuleInit == "" && len(env.Modules) == 0 {
		return
	}
	if env.ModuleInit != "" {
		fmt.Fprintf(b, ". %s\n", env.ModuleInit)
	}
	for _, m := range env.Modules {
		fmt.Fprintf(b, "module load %s\n", m)
	}
	b.WriteString("\n")
}

func writeThreads(b *strings.Builder, cfg RunConfig) {
	switch cfg.Mode() {
	case ModeSharedMemory:
		fmt.Fprintf(b, "export OMP_NUM_THREADS=%d\n\n", cfg.Units())
	case ModeHybrid:
		// Every process uses all processors of its node.
		b.WriteString("export OMP_NUM_THREADS=$(cat /proc/cpuinfo | grep ^processor | wc -l )\n")
		for _, m := range cfg.methods {
			fmt.Fprintf(b, "echo \"num threads = ${OMP_NUM_THREADS}\" > %s\n", cfg.LogName(m))
		}
		b.WriteString("\n")
	}
}

func writeInvocations(b *strings.Builder, cfg RunConfig, env Environment) {
	bin := strings.TrimSuffix(env.BinDir, "/")
	if bin == "" {
		bin = "."
	}

	for _, m := range cfg.methods {
		exe := fmt.Sprintf("%s/kmediods_%s_%s", bin, cfg.Mode(), m)
		redirect := ">"

		switch cfg.Mode() {
		case ModeDistributed:
			exe = launch(env, exe)
		case ModeHybrid:
			exe = launch(env, exe)
			redirect = ">>"
		}
		fmt.Fprintf(b, "%s %s %s\n", exe, redirect, cfg.LogName(m))
	}
}

func launch(env Environment, exe string) string {
	if env.Launcher == "" {
		return exe
	}
	return env.Launcher + " " + exe
}

// formatWallTime renders d as HH:MM:SS, truncated to whole seconds.
func formatWallTime(d time.Duration) string {
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}

// formatTotal renders a memory amount as configured: 10 stays "10".
func formatTotal(gb float64) string {
	return strconv.FormatFloat(gb, 'f', -1, 64)
}

// formatShare renders a divided memory amount with at least one decimal
// place, so 10/2 is "5.0" and 10/3 is "3.3333333333333335".
func formatShare(gb float64) string {
	s := strconv.FormatFloat(gb, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
