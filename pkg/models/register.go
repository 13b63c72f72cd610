package models

import "github.com/plasmalab/limsctl/pkg/registry"

// RegisterAll registers every API resource with the default schema
// registry. Call it once at startup before resolving metadata.
func RegisterAll() error {
	all := []any{
		User{},
		Group{},
		File{},
		Chemical{},
		Method{},
		Support{},
		Catalyst{},
		Sample{},
		Characterization{},
		Reactor{},
		Waveform{},
		Analyzer{},
		Contaminant{},
		Carrier{},
		Experiment{},
		Observation{},
		ProcessedResult{},
	}

	for _, model := range all {
		if err := registry.Register(model); err != nil {
			return err
		}
	}

	return nil
}
