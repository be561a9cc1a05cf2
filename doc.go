// Package kmbench is an experiment harness for benchmarking k-medoids
// clustering (PAM and CLARA) under serial, shared-memory, distributed and
// hybrid execution.
//
// The clustering itself runs in an external executable. The harness
// prepares its inputs and digests its outputs:
//
//   - dataset: generates Gaussian blob datasets and writes them in the
//     header-less binary format of package codec
//   - jobscript: renders Grid Engine job scripts for every configuration
//     of a sweep
//   - results: scans the timing logs of finished runs and computes mean,
//     standard error and speedup per mode, method and scale
//   - plot: renders timing charts and cluster scatter plots
//
// # Quick Start
//
//	ctx := context.Background()
//	h := kmbench.New(kmbench.WithLogLevel(slog.LevelInfo))
//
//	paths, _ := h.GenerateDataset(ctx, dataset.DefaultConfig(), "data")
//	scripts, _ := h.WriteScripts(ctx, "jobs", jobscript.DefaultSweep())
//
//	// ... submit the scripts, collect the logs ...
//
//	scan, _ := h.Scan(ctx, "logs")
//	report, _ := h.Summarize(ctx, scan.Series)
//	for _, sp := range report.Speedups {
//	    fmt.Printf("%s %s: %.2fx at %d\n", sp.Mode, sp.Method, sp.Ratio, sp.Scale)
//	}
//
// # Storage
//
// Datasets can be published to and logs scanned from any
// blobstore.BlobStore: a local directory, S3 (blobstore/s3) or MinIO
// (blobstore/minio). Uploads can be rate limited with WithUploadLimit.
package kmbench
