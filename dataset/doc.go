// Package dataset generates labeled blob datasets for the k-medoids study
// and loads the cluster results the external executable writes back.
//
// A dataset is sampled by placing NumClusters centers uniformly inside a
// coordinate box and drawing every point from an isotropic Gaussian around
// a randomly chosen center:
//
//	seed := uint64(42)
//	ds, err := dataset.Generate(dataset.Config{
//	    NumPoints: 20000, NumFeatures: 2, NumClusters: 10,
//	    Spread: 6, Box: dataset.Box{Min: -100, Max: 100}, Seed: &seed,
//	})
//	err = dataset.Write(fs.Default, ds, dataset.DefaultPaths("data", 20000, 2))
//
// Leave Seed nil for an unseeded run.
//
// The executable stores its output next to the data file using a rotating
// index: test_20000_2_clusters_0.txt, test_20000_2_clustering_0.txt and
// test_20000_2_stats_0.txt. [LoadResult] decodes one such triple and checks
// that the assignment count matches the point count, which the header-less
// codec cannot do on its own.
package dataset
