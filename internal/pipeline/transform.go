package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
)

// ReportTransformer implements Transformer using the domain parse and
// normalize functions with optional region enrichment.
type ReportTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a ReportTransformer. Pass a nil geocoder to disable
// region enrichment.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *ReportTransformer {
	return &ReportTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *ReportTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.Report, error) {
	report, err := domain.ParseReport(raw)
	if err != nil {
		return domain.Report{}, err
	}

	report = domain.NormalizeReport(report)
	report = domain.EnrichWithRegion(ctx, report, t.geocoder, t.logger)

	return report, nil
}
