package relay

import (
	"errors"
	"fmt"
)

var ErrCannotPopulateRelays = errors.New("cannot populate relays")

// RegistryCreator builds a Registry from the compiled-in defaults and a relay Config.
type RegistryCreator struct{}

// NewRegistryCreator checks that the compiled-in table is valid.
func NewRegistryCreator() (*RegistryCreator, error) {
	if _, err := NewDefaultRegistry(); err != nil {
		return nil, err
	}
	return &RegistryCreator{}, nil
}

// Create applies cfg on top of a fresh copy of the defaults. A nil cfg yields the defaults.
// Every call returns a new Registry.
func (r *RegistryCreator) Create(cfg *Config) (*Registry, error) {
	relayRegistry, err := NewDefaultRegistry()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return relayRegistry, nil
	}

	for _, builderCfg := range cfg.Builders {
		if err := populateBuilder(relayRegistry, builderCfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCannotPopulateRelays, err)
		}
	}

	return relayRegistry, nil
}

func populateBuilder(relayRegistry *Registry, cfg BuilderConfig) error {
	builder, err := ParseBuilder(cfg.Name)
	if err != nil {
		return err
	}
	relayRegistry.AddBuilder(builder)

	for networkName, relayURLs := range cfg.Endpoints {
		network, err := ParseNetwork(networkName)
		if err != nil {
			return fmt.Errorf("builder %s: %w", builder, err)
		}

		if cfg.Replace {
			relayRegistry.ClearEndpoints(builder, network)
		}

		for _, relayURL := range relayURLs {
			if err := relayRegistry.AddEndpoint(builder, network, relayURL); err != nil {
				return fmt.Errorf("builder %s: %w", builder, err)
			}
		}
	}

	return nil
}

// LoadRegistry returns the default registry, extended by the relay config at path if set.
func LoadRegistry(path string) (*Registry, error) {
	creator, err := NewRegistryCreator()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return creator.Create(nil)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return creator.Create(cfg)
}
