package cluster

import (
	"fmt"
	"strings"
	"time"
)

// Defaults for Options.
const (
	DefaultRadiusKm              = 1.0
	DefaultMaxTimeGap            = 2 * time.Hour
	DefaultMinClusterSize        = 2
	DefaultGridSizeKm            = 2.0
	DefaultLargeDatasetThreshold = 500
	DefaultViewportPadding       = 0.1
)

// Strategy names the grouping algorithm used for a run.
type Strategy string

const (
	StrategyDensity Strategy = "density"
	StrategyGrid    Strategy = "grid"
)

// SeedOrder controls the order in which the density clusterer visits seeds.
// Density grouping is first-seen, so the order changes cluster membership.
type SeedOrder string

const (
	// SeedOrderInput visits reports as given.
	SeedOrderInput SeedOrder = "input"
	// SeedOrderUrgency visits the most urgent reports first, newest first
	// within a level.
	SeedOrderUrgency SeedOrder = "urgency"
	// SeedOrderNewest visits the most recent reports first.
	SeedOrderNewest SeedOrder = "newest"
)

// ParseSeedOrder validates a seed order name. Empty input means SeedOrderInput.
func ParseSeedOrder(s string) (SeedOrder, error) {
	switch SeedOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SeedOrderInput:
		return SeedOrderInput, nil
	case SeedOrderUrgency:
		return SeedOrderUrgency, nil
	case SeedOrderNewest:
		return SeedOrderNewest, nil
	default:
		return "", fmt.Errorf("unknown seed order %q (want input, urgency or newest)", s)
	}
}

// Options tunes clustering. Zero fields take the package defaults.
type Options struct {
	RadiusKm              float64
	MaxTimeGap            time.Duration
	MinClusterSize        int
	SeedOrder             SeedOrder
	GridSizeKm            float64
	LargeDatasetThreshold int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		RadiusKm:              DefaultRadiusKm,
		MaxTimeGap:            DefaultMaxTimeGap,
		MinClusterSize:        DefaultMinClusterSize,
		SeedOrder:             SeedOrderInput,
		GridSizeKm:            DefaultGridSizeKm,
		LargeDatasetThreshold: DefaultLargeDatasetThreshold,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RadiusKm <= 0 {
		o.RadiusKm = d.RadiusKm
	}
	if o.MaxTimeGap <= 0 {
		o.MaxTimeGap = d.MaxTimeGap
	}
	if o.MinClusterSize <= 0 {
		o.MinClusterSize = d.MinClusterSize
	}
	if o.SeedOrder == "" {
		o.SeedOrder = d.SeedOrder
	}
	if o.GridSizeKm <= 0 {
		o.GridSizeKm = d.GridSizeKm
	}
	if o.LargeDatasetThreshold <= 0 {
		o.LargeDatasetThreshold = d.LargeDatasetThreshold
	}
	return o
}
