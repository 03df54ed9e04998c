package standards

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type overlay struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadFile reads a YAML overlay and merges it over the built-in table. A
// profile in the file replaces the built-in profile with the same id.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read standards: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Table, error) {
	var doc overlay
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse standards: %w", err)
	}
	table := Default()
	for id, profile := range doc.Profiles {
		fiber := ParseFiberType(id)
		normalized := profile
		normalized.Wavelengths = map[Wavelength]Attenuation{}
		for wl, att := range profile.Wavelengths {
			normalized.Wavelengths[ParseWavelength(string(wl))] = att
		}
		normalized.Budgets = map[Speed]float64{}
		for speed, db := range profile.Budgets {
			normalized.Budgets[ParseSpeed(string(speed))] = db
		}
		table[fiber] = normalized
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid standards: %w", err)
	}
	return table, nil
}
