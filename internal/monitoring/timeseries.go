package monitoring

import (
	"fmt"
	"time"

	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/bayneri/lossbudget/internal/assess"
	labelpb "google.golang.org/genproto/googleapis/api/label"
	metricpb "google.golang.org/genproto/googleapis/api/metric"
	monitoredres "google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	MetricPrefix      = "custom.googleapis.com/lossbudget/"
	MarginMetric      = MetricPrefix + "margin_db"
	TotalLossMetric   = MetricPrefix + "total_loss_db"
	resourceType      = "global"
	unitDecibel       = "dB"
	maxSeriesPerWrite = 200
)

// Descriptors returns the metric descriptors every published series refers to.
func Descriptors(project string) []*metricpb.MetricDescriptor {
	link := &labelpb.LabelDescriptor{Key: "link", ValueType: labelpb.LabelDescriptor_STRING, Description: "Link name from metadata.name"}
	site := &labelpb.LabelDescriptor{Key: "site", ValueType: labelpb.LabelDescriptor_STRING, Description: "Site from metadata.site"}
	fiber := &labelpb.LabelDescriptor{Key: "reference_fiber", ValueType: labelpb.LabelDescriptor_STRING, Description: "Fiber type whose budgets were applied"}
	speed := &labelpb.LabelDescriptor{Key: "speed", ValueType: labelpb.LabelDescriptor_STRING, Description: "Ethernet speed class"}

	return []*metricpb.MetricDescriptor{
		{
			Name:        descriptorName(project, MarginMetric),
			Type:        MarginMetric,
			DisplayName: "Fiber link margin",
			Description: "Budget minus total loss for one speed. Negative means the link fails at that speed.",
			MetricKind:  metricpb.MetricDescriptor_GAUGE,
			ValueType:   metricpb.MetricDescriptor_DOUBLE,
			Unit:        unitDecibel,
			Labels:      []*labelpb.LabelDescriptor{link, site, fiber, speed},
		},
		{
			Name:        descriptorName(project, TotalLossMetric),
			Type:        TotalLossMetric,
			DisplayName: "Fiber link total loss",
			Description: "Total loss of the link including the safety margin.",
			MetricKind:  metricpb.MetricDescriptor_GAUGE,
			ValueType:   metricpb.MetricDescriptor_DOUBLE,
			Unit:        unitDecibel,
			Labels:      []*labelpb.LabelDescriptor{link, site, fiber},
		},
	}
}

// BuildTimeSeries turns one assessed link into a total loss point and one
// margin point per speed verdict, all stamped at now.
func BuildTimeSeries(project string, result assess.Result, now time.Time) []*monitoringpb.TimeSeries {
	bd := result.Breakdown
	base := map[string]string{
		"link":            result.Link,
		"site":            result.Site,
		"reference_fiber": string(bd.ReferenceFiber),
	}
	resource := &monitoredres.MonitoredResource{
		Type:   resourceType,
		Labels: map[string]string{"project_id": project},
	}
	interval := &monitoringpb.TimeInterval{EndTime: timestamppb.New(now)}

	series := []*monitoringpb.TimeSeries{
		gauge(TotalLossMetric, base, resource, interval, bd.TotalLossDb),
	}
	for _, v := range bd.Verdicts {
		labels := copyLabels(base)
		labels["speed"] = string(v.Speed)
		series = append(series, gauge(MarginMetric, labels, resource, interval, v.MarginDb))
	}
	return series
}

func gauge(metricType string, labels map[string]string, resource *monitoredres.MonitoredResource, interval *monitoringpb.TimeInterval, value float64) *monitoringpb.TimeSeries {
	return &monitoringpb.TimeSeries{
		Metric:     &metricpb.Metric{Type: metricType, Labels: labels},
		Resource:   resource,
		MetricKind: metricpb.MetricDescriptor_GAUGE,
		ValueType:  metricpb.MetricDescriptor_DOUBLE,
		Unit:       unitDecibel,
		Points: []*monitoringpb.Point{{
			Interval: interval,
			Value:    &monitoringpb.TypedValue{Value: &monitoringpb.TypedValue_DoubleValue{DoubleValue: value}},
		}},
	}
}

// batches splits series into requests the API accepts.
func batches(series []*monitoringpb.TimeSeries) [][]*monitoringpb.TimeSeries {
	var out [][]*monitoringpb.TimeSeries
	for start := 0; start < len(series); start += maxSeriesPerWrite {
		end := start + maxSeriesPerWrite
		if end > len(series) {
			end = len(series)
		}
		out = append(out, series[start:end])
	}
	return out
}

func descriptorName(project, metricType string) string {
	return fmt.Sprintf("projects/%s/metricDescriptors/%s", project, metricType)
}

func copyLabels(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
