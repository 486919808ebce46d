// Package cluster groups hazard reports into map items and orders them for
// display.
//
// A run selects a strategy by dataset size (Select): the density clusterer
// grows star-shaped groups around seed reports within a radius and time
// window, and the grid clusterer buckets reports into fixed-size cells for
// large datasets. Groups that reach the minimum size become cluster items with
// an urgency-weighted centroid, type breakdown and summary; everything else is
// emitted as a standalone item. Items are ranked by urgency, size and recency,
// and can then be filtered and framed with a viewport.
//
// Engine is stateless. CachedEngine memoizes the ranked run per snapshot
// version for the service, which re-ranks the whole snapshot on every change.
package cluster
