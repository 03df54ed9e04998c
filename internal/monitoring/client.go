package monitoring

import (
	"context"

	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	metricpb "google.golang.org/genproto/googleapis/api/metric"
)

// Publisher writes link budget metrics to a monitoring backend.
type Publisher interface {
	EnsureDescriptors(ctx context.Context, project string, descriptors []*metricpb.MetricDescriptor) error
	WriteTimeSeries(ctx context.Context, project string, series []*monitoringpb.TimeSeries) error
}
