// Package config implements pact-go process configuration file parsing and
// validation: listen address, TLS cert paths, pact output directory, log
// level/format.
package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the process-level configuration for a pact-go mock server run.
// It is accepted as either JSON or YAML; both decode into the same struct
// since YAML is a superset of JSON for our purposes.
type Config struct {
	Addr        string `json:"addr" yaml:"addr"`
	PactDir     string `json:"pact_dir" yaml:"pact_dir"`
	Consumer    string `json:"consumer" yaml:"consumer"`
	Provider    string `json:"provider" yaml:"provider"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogFormat   string `json:"log_format" yaml:"log_format"`
	TLSCertFile string `json:"tls_cert_file" yaml:"tls_cert_file"`
	TLSKeyFile  string `json:"tls_key_file" yaml:"tls_key_file"`
}

const (
	defaultAddr      = "localhost:0"
	defaultPactDir   = "./pacts"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// ParseConfig decodes raw as YAML (a superset of JSON) and injects defaults
// for any field left unset.
func ParseConfig(raw []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	c.injectDefaults()
	return &c, c.validate()
}

// ParseConfigJSON decodes raw strictly as JSON. Kept alongside ParseConfig
// for callers that already have an encoding/json pipeline and want to
// reject YAML-only syntax (comments, anchors) explicitly.
func ParseConfigJSON(raw []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	c.injectDefaults()
	return &c, c.validate()
}

func (c *Config) injectDefaults() {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.PactDir == "" {
		c.PactDir = defaultPactDir
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
}

func (c Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("tls_cert_file and tls_key_file must both be set or both be empty")
	}
	return nil
}

// TLSEnabled reports whether c configures HTTPS.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}
