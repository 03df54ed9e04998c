package link

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read link: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("parse link: %w", err)
	}
	return d, nil
}

func Marshal(d Document) ([]byte, error) {
	return yaml.Marshal(d)
}
