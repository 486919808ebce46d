package domain

import (
	"context"
	"log/slog"
)

// GeocodingResult is the place a reverse geocoding provider resolved a
// coordinate to. Confidence is the provider's relevance score in [0, 1].
type GeocodingResult struct {
	FormattedAddress string
	PlaceName        string
	Confidence       float64
}

// Geocoder resolves report coordinates to a region label source.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (GeocodingResult, error)
}

// EnrichWithRegion fills in a missing region label from reverse geocoding.
// Reports without a valid location, reports that already carry a region, and
// a nil geocoder all leave the report unchanged. Geocoding failures are logged
// and the report is returned as-is (graceful degradation).
func EnrichWithRegion(ctx context.Context, r Report, geocoder Geocoder, logger *slog.Logger) Report {
	if geocoder == nil || !r.Located() || r.Location.Region != "" {
		return r
	}

	result, err := geocoder.ReverseGeocode(ctx, r.Location.Lat, r.Location.Lng)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"report_id", r.ID,
			"lat", r.Location.Lat,
			"lng", r.Location.Lng,
			"error", err,
		)
		return r
	}

	region := result.PlaceName
	if region == "" {
		region = result.FormattedAddress
	}
	if region == "" {
		return r
	}

	// Copy the location so the caller's report is not mutated through the pointer.
	loc := *r.Location
	loc.Region = region
	r.Location = &loc
	return r
}
