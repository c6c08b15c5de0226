package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"go-reconx/resolver"
	"gopkg.in/yaml.v3"
	"os"
	"strings"
	"time"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "RECONX_CONFIG"

// Config defines the complete application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Scan       ScanConfig       `yaml:"scan"`
	Ports      PortsConfig      `yaml:"ports"`
	Subdomains SubdomainsConfig `yaml:"subdomains"`
	Resolver   ResolverConfig   `yaml:"resolver"`
	Report     ReportConfig     `yaml:"report"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig defines the HTTP server settings.
type ServerConfig struct {
	Listen         string   `yaml:"listen" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins" validate:"min=1"`
	ReportDir      string   `yaml:"report_dir" validate:"required"`
	Database       string   `yaml:"database" validate:"required"`
}

// ScanConfig defines settings shared by the HTTP based scanners.
type ScanConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	UserAgent string        `yaml:"user_agent"`
	RateLimit float64       `yaml:"rate_limit" validate:"gte=0"` // Requests per second, 0 disables.
	Wordlist  string        `yaml:"wordlist" validate:"omitempty,file"`
}

// PortsConfig defines the port scanner settings. A zero range scans the
// built-in list of common ports.
type PortsConfig struct {
	StartPort   int           `yaml:"start_port" validate:"gte=0,lte=65535"`
	EndPort     int           `yaml:"end_port" validate:"gte=0,lte=65535,gtefield=StartPort"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
	MinWorkers  int           `yaml:"min_workers" validate:"gte=1"`
	MaxWorkers  int           `yaml:"max_workers" validate:"gtefield=MinWorkers"`
	IdleTimeout time.Duration `yaml:"idle_timeout" validate:"gt=0"`
}

// SubdomainsConfig defines the subdomain scanner settings.
type SubdomainsConfig struct {
	Nameservers []string `yaml:"nameservers" validate:"dive,hostname_port"`
	CrtSh       bool     `yaml:"crtsh"`
}

// ResolverConfig defines the login page heuristics.
type ResolverConfig struct {
	HashRouteMarkers []string `yaml:"hash_route_markers"`
	HashRoutePorts   []int    `yaml:"hash_route_ports" validate:"dive,gte=1,lte=65535"`
}

// Heuristics converts the section into resolver heuristics.
func (r ResolverConfig) Heuristics() resolver.Heuristics {
	return resolver.Heuristics{
		HashRouteMarkers: r.HashRouteMarkers,
		HashRoutePorts:   r.HashRoutePorts,
	}
}

// ReportConfig defines the PDF report settings.
type ReportConfig struct {
	Enabled    bool          `yaml:"enabled"`
	ChromePath string        `yaml:"chrome_path"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
}

// LogConfig defines the logger settings.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:         ":8080",
			AllowedOrigins: []string{"*"},
			ReportDir:      "reports",
			Database:       "reconx.db",
		},
		Scan: ScanConfig{
			Timeout:   5 * time.Second,
			UserAgent: "ReconX/1.0",
			RateLimit: 20,
		},
		Ports: PortsConfig{
			Timeout:     time.Second,
			MinWorkers:  10,
			MaxWorkers:  100,
			IdleTimeout: 3 * time.Second,
		},
		Resolver: ResolverConfig{
			HashRouteMarkers: append([]string(nil), resolver.DefaultHeuristics.HashRouteMarkers...),
			HashRoutePorts:   append([]int(nil), resolver.DefaultHeuristics.HashRoutePorts...),
		},
		Report: ReportConfig{
			Enabled: true,
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path on top of the defaults, applies
// environment overrides and validates the result. An empty path falls back
// to $RECONX_CONFIG; when neither is set only the defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.Server.AllowedOrigins = origins
		}
	}
	if v := os.Getenv("RECONX_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("RECONX_REPORT_DIR"); v != "" {
		c.Server.ReportDir = v
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
