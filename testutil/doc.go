// Package testutil provides test helpers for kmbench.
//
// This package is intended for use in tests only. It must not import other
// kmbench packages so that their internal tests can use it.
//
// # Random Data
//
//	rng := testutil.NewRNG(4711)
//	rows := rng.UniformRows(100, 2, -10, 10)
//
// # Timing Logs
//
//	testutil.WriteLog(t, dir, "omp_clara_4.txt", 1.25, 1.31)
//
// writes a log whose wall lines look like boost's auto_cpu_timer output:
//
//	1.250000s wall, 1.250000s user + 0.000000s system = 1.250000s CPU (100.0%)
package testutil
