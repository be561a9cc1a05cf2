package dataset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hupe1980/kmbench/blobstore"
	"github.com/hupe1980/kmbench/internal/fs"
	"golang.org/x/sync/errgroup"
)

// Publish uploads local files to store, keyed by their base names. Uploads
// run concurrently; the first failure cancels the rest.
func Publish(ctx context.Context, store blobstore.BlobStore, fsys fs.FileSystem, files ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, file := range files {
		g.Go(func() error {
			data, err := fs.ReadFile(fsys, file)
			if err != nil {
				return err
			}
			if err := store.Put(ctx, filepath.Base(file), data); err != nil {
				return fmt.Errorf("publish %s: %w", file, err)
			}
			return nil
		})
	}
	return g.Wait()
}
