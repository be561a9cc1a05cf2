// Package jobscript renders Grid Engine job scripts for the benchmark runs.
//
// A RunConfig fixes the execution mode (serial, shared-memory, distributed
// or hybrid), the resource budget and the clustering methods to run. Build
// turns it into script text:
//
//	cfg, err := jobscript.NewRunConfig(jobscript.SharedMemory{Threads: 4}, jobscript.DefaultResources())
//	script, err := jobscript.Build(cfg, jobscript.DefaultEnvironment())
//
// Memory is divided evenly across threads or processes for parallel modes.
// Each invocation redirects the executable's output to a log named after
// mode, method and scale (e.g. omp_clara_4.txt), which is the naming the
// results package parses back.
package jobscript
