package cluster

// Select picks the clustering strategy for an input of n reports: the grid
// clusterer above LargeDatasetThreshold, the density clusterer otherwise.
func Select(n int, opts Options) Clusterer {
	opts = opts.withDefaults()
	if n > opts.LargeDatasetThreshold {
		return NewGridClusterer(opts)
	}
	return NewDensityClusterer(opts)
}
