// Package fs provides the filesystem abstraction used by the codec, the
// dataset writer, the job-script writer and the results scanner.
//
//   - [LocalFS]: production implementation on top of the os package
//   - [FaultyFS]: test wrapper that injects open, read, write, sync, close
//     and rename failures for files matching a name pattern
//
// Production code uses fs.Default:
//
//	err := fs.WriteFile(fs.Default, "serial.sh", script, 0o755)
//
// Tests inject failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("omp_reg_4", fs.Fault{FailOnRead: true})
//
// Operations take no context.Context: local file I/O is not interruptible
// at the syscall level. Remote storage goes through the blobstore package.
package fs
