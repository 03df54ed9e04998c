package monitoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/bayneri/lossbudget/internal/assess"
)

// PublishResults makes sure the descriptors exist and writes one point per
// metric for every result. It returns the number of series written.
func PublishResults(ctx context.Context, client Publisher, project string, results []assess.Result, now time.Time) (int, error) {
	if project == "" {
		return 0, errors.New("project is required")
	}
	if err := client.EnsureDescriptors(ctx, project, Descriptors(project)); err != nil {
		return 0, fmt.Errorf("ensure descriptors: %w", err)
	}
	series := buildAll(project, results, now)
	if err := client.WriteTimeSeries(ctx, project, series); err != nil {
		return 0, err
	}
	return len(series), nil
}

func buildAll(project string, results []assess.Result, now time.Time) []*monitoringpb.TimeSeries {
	var series []*monitoringpb.TimeSeries
	for _, result := range results {
		series = append(series, BuildTimeSeries(project, result, now)...)
	}
	return series
}
