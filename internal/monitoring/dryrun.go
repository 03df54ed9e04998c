package monitoring

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/bayneri/lossbudget/internal/assess"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const dryRunFile = "monitoring.json"

// WriteJSON writes the descriptors and series a publish would send, without
// calling the API.
func WriteJSON(outDir, project string, results []assess.Result, now time.Time) (string, error) {
	if outDir == "" {
		outDir = filepath.Join("out", "monitoring-json")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	var descriptors []interface{}
	for _, desc := range Descriptors(project) {
		item, err := protoToInterface(desc)
		if err != nil {
			return "", err
		}
		descriptors = append(descriptors, item)
	}
	var series []interface{}
	for _, ts := range buildAll(project, results, now) {
		item, err := protoToInterface(ts)
		if err != nil {
			return "", err
		}
		series = append(series, item)
	}

	payload := map[string]interface{}{
		"project":           project,
		"metricDescriptors": descriptors,
		"timeSeries":        series,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')
	path := filepath.Join(outDir, dryRunFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func protoToInterface(msg proto.Message) (interface{}, error) {
	data, err := protojson.Marshal(msg)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
