package relay

import (
	"errors"
	"fmt"
)

// ErrNoEndpointForNetwork is returned when a builder, or every builder for All,
// has no endpoint on the requested network.
var ErrNoEndpointForNetwork = errors.New("no endpoint for network")

// Registry is the static catalog of builder endpoints.
//
// It is populated at startup and must not be modified once shared; all lookups
// are read-only and safe for concurrent use.
type Registry struct {
	order     []Builder
	endpoints map[Builder]map[Network]List
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		endpoints: make(map[Builder]map[Network]List),
	}
}

// NewDefaultRegistry creates a registry holding DefaultEndpoints in the order of Builders().
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, builder := range knownBuilders {
		r.AddBuilder(builder)
		for _, network := range Networks() {
			for _, relayURL := range DefaultEndpoints[builder][network] {
				if err := r.AddEndpoint(builder, network, relayURL); err != nil {
					return nil, err
				}
			}
		}
	}
	return r, nil
}

// AddBuilder registers a builder without endpoints. It is a no-op for known builders.
func (r *Registry) AddBuilder(builder Builder) {
	if _, ok := r.endpoints[builder]; ok {
		return
	}
	r.order = append(r.order, builder)
	r.endpoints[builder] = make(map[Network]List)
}

// AddEndpoint appends an endpoint for builder on network, registering the builder if needed.
func (r *Registry) AddEndpoint(builder Builder, network Network, relayURL string) error {
	if builder == All {
		return fmt.Errorf("%w: %q is reserved", ErrUnknownBuilder, All)
	}
	entry, err := NewRelayEntry(builder, relayURL)
	if err != nil {
		return err
	}
	r.AddBuilder(builder)
	r.endpoints[builder][network] = append(r.endpoints[builder][network], entry)
	return nil
}

// ClearEndpoints drops every endpoint of builder on network, keeping its position.
func (r *Registry) ClearEndpoints(builder Builder, network Network) {
	if networks, ok := r.endpoints[builder]; ok {
		delete(networks, network)
	}
}

// Builders returns the registered builders in resolution order.
func (r *Registry) Builders() []Builder {
	out := make([]Builder, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve returns the endpoints of builder on network.
//
// For All it returns the concatenation of every builder's endpoints in registry order,
// skipping builders without an endpoint on network; it fails only if nothing resolved.
func (r *Registry) Resolve(builder Builder, network Network) (List, error) {
	if builder != All {
		return r.resolveOne(builder, network)
	}

	var all List
	for _, b := range r.order {
		entries, err := r.resolveOne(b, network)
		if errors.Is(err, ErrNoEndpointForNetwork) {
			continue
		}
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("%w: %s on %s", ErrNoEndpointForNetwork, All, network)
	}
	return all, nil
}

func (r *Registry) resolveOne(builder Builder, network Network) (List, error) {
	networks, ok := r.endpoints[builder]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBuilder, builder)
	}

	entries := networks[network]
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s does not support %s", ErrNoEndpointForNetwork, builder, network)
	}

	out := make(List, len(entries))
	copy(out, entries)
	return out, nil
}
