// Package nginx renders the reverse-proxy server configuration consumed by
// the bundled nginx at container start. Exactly one of two modes is emitted:
// a TLS-terminating pair of server blocks, or a single plain HTTP block.
package nginx

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProxyConfig mirrors the supervisor's options document.
type ProxyConfig struct {
	SSL      bool   `yaml:"ssl"`
	Port     int    `yaml:"port"`
	HTTPPort int    `yaml:"http_port"`
	CertFile string `yaml:"certfile"`
	KeyFile  string `yaml:"keyfile"`
	Protocol string `yaml:"protocol"`
}

// DefaultConfig matches the container layout: plain HTTP on 80, TLS on 443,
// certificate material under /ssl.
func DefaultConfig() ProxyConfig {
	return ProxyConfig{
		Port:     443,
		HTTPPort: 80,
		CertFile: "/ssl/cert.pem",
		KeyFile:  "/ssl/key.pem",
		Protocol: "http",
	}
}

// LoadConfig reads the YAML options document at path, applying defaults for
// absent fields.
func LoadConfig(path string) (ProxyConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read options: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse options: %w", err)
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg ProxyConfig) error {
	switch cfg.Protocol {
	case "http", "https":
	default:
		return fmt.Errorf("unsupported backend protocol %q", cfg.Protocol)
	}
	if cfg.SSL && (cfg.CertFile == "" || cfg.KeyFile == "") {
		return fmt.Errorf("ssl enabled but certfile/keyfile not set")
	}
	return nil
}
