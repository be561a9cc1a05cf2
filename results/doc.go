// Package results turns the timing logs of finished benchmark runs into
// summary statistics.
//
// Each log is keyed by its file name (see ParseKey): "omp_clara_4.txt"
// holds CLARA timings of the shared-memory build with four threads. Scan
// collects the wall-clock samples of a directory into a Series, skipping
// files it cannot attribute or parse and reporting them as diagnostics.
// Aggregate and Speedup then summarize a single mode and method.
package results
