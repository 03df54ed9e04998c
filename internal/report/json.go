package report

import (
	"encoding/json"
	"os"

	"github.com/bayneri/lossbudget/internal/assess"
)

func WriteJSON(path string, payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func WriteSummaryJSON(path string, result assess.Result) error {
	return WriteJSON(path, result)
}
