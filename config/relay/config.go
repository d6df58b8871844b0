package relay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the relay table file format.
//
//	builders:
//	  - name: flashbots
//	    replace: true
//	    endpoints:
//	      sepolia: ["https://relay-sepolia.flashbots.net"]
//	  - name: mybuilder
//	    endpoints:
//	      mainnet: ["https://rpc.mybuilder.io"]
type Config struct {
	Builders []BuilderConfig `yaml:"builders"`
}

// BuilderConfig lists the endpoints of one builder per network name.
// Without Replace the endpoints are appended to the compiled-in ones.
type BuilderConfig struct {
	Name      string              `yaml:"name"`
	Replace   bool                `yaml:"replace"`
	Endpoints map[string][]string `yaml:"endpoints"`
}

// LoadConfigFile reads a relay table from a YAML file.
func LoadConfigFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := new(Config)
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("could not decode relay config %s: %w", path, err)
	}
	return cfg, nil
}
