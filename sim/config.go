package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// scenarioFile is the on-disk shape of a scenario config.
type scenarioFile struct {
	Scenario ScenarioConfig `yaml:"scenario"`
}

// LoadScenarioConfig reads and validates a YAML scenario file.
func LoadScenarioConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scenario config: %w", err)
	}
	if err := f.Scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario config: %w", err)
	}
	return &f.Scenario, nil
}

// facilitiesFile is the on-disk shape of a facility snapshot.
type facilitiesFile struct {
	Facilities []Facility `yaml:"facilities"`
}

// LoadFacilities reads a YAML facility snapshot. Facilities must carry a
// name and positive total bed count; occupancy fields default to zero.
func LoadFacilities(path string) ([]Facility, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facilities: %w", err)
	}
	var f facilitiesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing facilities: %w", err)
	}
	for i, fac := range f.Facilities {
		if fac.Name == "" {
			return nil, fmt.Errorf("facility %d: name is required", i)
		}
		if fac.TotalBeds <= 0 {
			return nil, fmt.Errorf("facility %q: total_beds must be positive, got %d", fac.Name, fac.TotalBeds)
		}
	}
	return f.Facilities, nil
}
