package config

import (
	"fmt"
	"os"

	"github.com/rootlocus22/trucktax-app-sub002/internal/domain"
	"github.com/rootlocus22/trucktax-app-sub002/internal/filing"
	"gopkg.in/yaml.v3"
)

// carrierFile is the on-disk layout of a registry snapshot.
type carrierFile struct {
	Carriers []filing.CarrierIdentity `yaml:"carriers"`
}

// LoadCarriers loads registry identities used to pre-fill drafts.
func (ip *InputParser) LoadCarriers(filename string) ([]filing.CarrierIdentity, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var f carrierFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	seen := make(map[string]bool, len(f.Carriers))
	for i, c := range f.Carriers {
		if c.CarrierID == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("carriers[%d].carrier_id", i), "carrier id is required")
		}
		if c.LegalName == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("carriers[%d].legal_name", i), "legal name is required")
		}
		if seen[c.CarrierID] {
			return nil, domain.NewValidationError(fmt.Sprintf("carriers[%d].carrier_id", i), "duplicate carrier %s", c.CarrierID)
		}
		seen[c.CarrierID] = true
	}
	return f.Carriers, nil
}
