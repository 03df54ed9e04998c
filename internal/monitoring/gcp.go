package monitoring

import (
	"context"
	"fmt"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	metricpb "google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type GCPClient struct {
	metricClient *monitoring.MetricClient
}

// NewGCPClient uses application default credentials unless credentialsFile
// is set.
func NewGCPClient(ctx context.Context, credentialsFile string) (*GCPClient, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	metricClient, err := monitoring.NewMetricClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric client: %w", err)
	}
	return &GCPClient{metricClient: metricClient}, nil
}

func (c *GCPClient) Close() error {
	return c.metricClient.Close()
}

// EnsureDescriptors creates the descriptors missing from the project.
// Existing descriptors are left alone.
func (c *GCPClient) EnsureDescriptors(ctx context.Context, project string, descriptors []*metricpb.MetricDescriptor) error {
	existing, err := c.listDescriptors(ctx, project)
	if err != nil {
		return describeError(project, "list metric descriptors", err)
	}
	for _, desc := range descriptors {
		if existing[desc.Type] {
			continue
		}
		_, err := c.metricClient.CreateMetricDescriptor(ctx, &monitoringpb.CreateMetricDescriptorRequest{
			Name:             fmt.Sprintf("projects/%s", project),
			MetricDescriptor: desc,
		})
		if err != nil && status.Code(err) != codes.AlreadyExists {
			return describeError(project, "create metric descriptor "+desc.Type, err)
		}
	}
	return nil
}

func (c *GCPClient) WriteTimeSeries(ctx context.Context, project string, series []*monitoringpb.TimeSeries) error {
	for _, batch := range batches(series) {
		err := c.metricClient.CreateTimeSeries(ctx, &monitoringpb.CreateTimeSeriesRequest{
			Name:       fmt.Sprintf("projects/%s", project),
			TimeSeries: batch,
		})
		if err != nil {
			return describeError(project, "write time series", err)
		}
	}
	return nil
}

func (c *GCPClient) listDescriptors(ctx context.Context, project string) (map[string]bool, error) {
	iter := c.metricClient.ListMetricDescriptors(ctx, &monitoringpb.ListMetricDescriptorsRequest{
		Name:   fmt.Sprintf("projects/%s", project),
		Filter: fmt.Sprintf(`metric.type = starts_with("%s")`, MetricPrefix),
	})
	out := map[string]bool{}
	for {
		desc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out[desc.Type] = true
	}
	return out, nil
}

// describeError adds a hint for the failures an operator can act on.
func describeError(project, action string, err error) error {
	switch status.Code(err) {
	case codes.PermissionDenied:
		return fmt.Errorf("%s in project %s: permission denied (grant roles/monitoring.metricWriter): %w", action, project, err)
	case codes.ResourceExhausted:
		return fmt.Errorf("%s in project %s: quota exhausted, retry later: %w", action, project, err)
	case codes.NotFound:
		return fmt.Errorf("%s: project %s not found or monitoring API disabled: %w", action, project, err)
	default:
		return fmt.Errorf("%s in project %s: %w", action, project, err)
	}
}
