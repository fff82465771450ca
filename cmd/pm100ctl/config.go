package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file format.
//
// Example:
//
//	resources:
//	  - TCPIP0::192.168.1.50::5025::SOCKET
//	discovery:
//	  disabled: false
//	  timeout_seconds: 2
//	  interface: eth0
//	defaults:
//	  unit: mW
//	  wavelength: 606
//	  bandwidth: high
//	  auto_range: true
type FileConfig struct {
	// Resources are statically configured instrument resource names.
	Resources []string `yaml:"resources"`

	// Discovery controls LXI mDNS browsing.
	Discovery DiscoveryConfig `yaml:"discovery"`

	// Defaults are instrument settings applied after a successful open.
	Defaults DefaultsConfig `yaml:"defaults"`
}

// DiscoveryConfig controls LXI mDNS browsing.
type DiscoveryConfig struct {
	Disabled       bool   `yaml:"disabled"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Interface      string `yaml:"interface"`
}

// DefaultsConfig holds instrument settings applied after open.
type DefaultsConfig struct {
	Unit       string  `yaml:"unit"`
	Wavelength float64 `yaml:"wavelength"`
	Bandwidth  string  `yaml:"bandwidth"`
	AutoRange  *bool   `yaml:"auto_range"`
}

// loadFileConfig reads and parses the configuration file at path.
func loadFileConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
