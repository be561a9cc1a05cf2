package jobscript

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serialScript = `#!/bin/bash
#$ -cwd
#$ -j y
#$ -o serial.txt
#$ -l h_data=10G,h_rt=00:30:00,exclusive

. /u/local/Modules/default/init/modules.sh
module load gcc/7.2.0
module load boost/1_71_0
module load openmpi/3.0.0

../build/kmediods_serial_reg > serial_reg.txt
../build/kmediods_serial_clara > serial_clara.txt
`

const ompScript = `#!/bin/bash
#$ -cwd
#$ -j y
#$ -o omp_4.txt
#$ -l h_data=2.5G,h_rt=00:30:00,h_vmem=10G,exclusive
#$ -pe shared 4

. /u/local/Modules/default/init/modules.sh
module load gcc/7.2.0
module load boost/1_71_0
module load openmpi/3.0.0

export OMP_NUM_THREADS=4

../build/kmediods_omp_reg > omp_reg_4.txt
../build/kmediods_omp_clara > omp_clara_4.txt
`

const mpiScript = `#!/bin/bash
#$ -cwd
#$ -j y
#$ -o mpi_2.txt
#$ -l h_data=5.0G,h_rt=00:30:00,h_vmem=10G,exclusive
#$ -pe dc* 2

. /u/local/Modules/default/init/modules.sh
module load gcc/7.2.0
module load boost/1_71_0
module load openmpi/3.0.0

mpirun ../build/kmediods_mpi_clara > mpi_clara_2.txt
`

const hybridScript = `#!/bin/bash
#$ -cwd
#$ -j y
#$ -o hybrid_3.txt
#$ -l h_data=3.3333333333333335G,h_rt=00:30:00,h_vmem=10G,exclusive
#$ -pe node* 3

. /u/local/Modules/default/init/modules.sh
module load gcc/7.2.0
module load boost/1_71_0
module load openmpi/3.0.0

export OMP_NUM_THREADS=$(cat /proc/cpuinfo | grep ^processor | wc -l )
echo "num threads = ${OMP_NUM_THREADS}" > hybrid_clara_3.txt

mpirun ../build/kmediods_hybrid_clara >> hybrid_clara_3.txt
`

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		mode ModeConfig
		want string
	}{
		{"Serial", Serial{}, serialScript},
		{"SharedMemory", SharedMemory{Threads: 4}, ompScript},
		{"Distributed", Distributed{Procs: 2}, mpiScript},
		{"Hybrid", Hybrid{Procs: 3}, hybridScript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewRunConfig(tt.mode, DefaultResources())
			require.NoError(t, err)

			got, err := Build(cfg, DefaultEnvironment())
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Build() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_CustomEnvironment(t *testing.T) {
	res := Resources{MemoryGB: 7.5, WallTime: 2*time.Hour + 5*time.Minute + 9*time.Second}
	cfg, err := NewRunConfig(Distributed{Procs: 3}, res, MethodReg, MethodClara)
	require.NoError(t, err)

	env := Environment{BinDir: "bin/", Launcher: "srun"}
	got, err := Build(cfg, env)
	require.NoError(t, err)

	want := `#!/bin/bash
#$ -cwd
#$ -j y
#$ -o mpi_3.txt
#$ -l h_data=2.5G,h_rt=02:05:09,h_vmem=7.5G,exclusive
#$ -pe dc* 3

srun bin/kmediods_mpi_reg > mpi_reg_3.txt
srun bin/kmediods_mpi_clara > mpi_clara_3.txt
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRunConfig_SharedMemoryRequiresThreads(t *testing.T) {
	_, err := NewRunConfig(SharedMemory{}, DefaultResources())

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ModeSharedMemory, cfgErr.Mode)
	assert.Equal(t, "thread count", cfgErr.Field)
}

func TestBuild_ZeroConfigFailsBeforeOutput(t *testing.T) {
	script, err := Build(RunConfig{}, DefaultEnvironment())

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, script)
}

func TestNewRunConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mode    ModeConfig
		res     Resources
		methods []Method
		field   string
	}{
		{"NoMode", nil, DefaultResources(), nil, "mode"},
		{"NoProcs", Distributed{}, DefaultResources(), nil, "process count"},
		{"NegativeHybrid", Hybrid{Procs: -2}, DefaultResources(), nil, "process count"},
		{"NoMemory", Serial{}, Resources{WallTime: time.Hour}, nil, "memory"},
		{"ShortWallTime", Serial{}, Resources{MemoryGB: 1, WallTime: time.Millisecond}, nil, "wall time"},
		{"UnknownMethod", Serial{}, DefaultResources(), []Method{"kmeans"}, "method"},
		{"DuplicateMethod", Serial{}, DefaultResources(), []Method{MethodReg, MethodReg}, "method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunConfig(tt.mode, tt.res, tt.methods...)

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.NotEmpty(t, cfgErr.Error())
		})
	}
}

func TestRunConfig_Names(t *testing.T) {
	serial, err := NewRunConfig(Serial{}, DefaultResources())
	require.NoError(t, err)
	assert.Equal(t, "serial.sh", serial.ScriptName())
	assert.Equal(t, "serial_reg.txt", serial.LogName(MethodReg))
	assert.Equal(t, []Method{MethodReg, MethodClara}, serial.Methods())

	mpi, err := NewRunConfig(Distributed{Procs: 32}, DefaultResources())
	require.NoError(t, err)
	assert.Equal(t, "mpi_32", mpi.Tag())
	assert.Equal(t, "mpi_clara_32.txt", mpi.LogName(MethodClara))
	assert.Equal(t, []Method{MethodClara}, mpi.Methods())
}

func TestRunConfig_Immutable(t *testing.T) {
	methods := []Method{MethodReg}
	cfg, err := NewRunConfig(Serial{}, DefaultResources(), methods...)
	require.NoError(t, err)

	methods[0] = MethodClara
	got := cfg.Methods()
	got[0] = MethodClara

	assert.Equal(t, []Method{MethodReg}, cfg.Methods())
}
