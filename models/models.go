package models

import "strings"

// ScanResult defines the JSON structure for a result of a scan.
type ScanResult struct {
	ID              string   `json:"id,omitempty"`
	Target          string   `json:"target"`
	Duration        string   `json:"duration,omitempty"`
	Ports           []string `json:"open_ports"`
	Subdomains      []string `json:"subdomains"`
	Paths           []string `json:"discovered_paths"`
	Vulnerabilities []string `json:"vulnerabilities"`
	Report          string   `json:"report,omitempty"`
}

// Fill copies the merged plugin output into the result. Lists are never
// nil so the dashboard always receives JSON arrays.
func (s *ScanResult) Fill(dto *DTO) {
	s.Ports = nonNil(dto.Ports)
	s.Subdomains = nonNil(dto.Subdomains)
	s.Paths = nonNil(dto.Paths)

	s.Vulnerabilities = make([]string, 0, len(dto.Vulnerabilities))
	for _, v := range dto.Vulnerabilities {
		s.Vulnerabilities = append(s.Vulnerabilities, v.String())
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// VulnerabilityDTO defines a single finding reported by a plugin.
type VulnerabilityDTO struct {
	PluginName  string `json:"plugin_name"`
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Evidence    string `json:"evidence,omitempty"`
}

// String returns the one-line form shown on the dashboard.
func (v VulnerabilityDTO) String() string {
	if v.Description != "" {
		return v.Description
	}
	return v.Title
}

// DTO defines the Data Transfer Object structure.
type DTO struct {
	Target          string             `json:"target,omitempty"`
	Ports           []string           `json:"ports,omitempty"`
	Subdomains      []string           `json:"subdomains,omitempty"`
	Paths           []string           `json:"paths,omitempty"`
	Vulnerabilities []VulnerabilityDTO `json:"vulns,omitempty"`
}

// Merge appends the partial result of another plugin.
func (d *DTO) Merge(other *DTO) {
	if other == nil {
		return
	}
	d.Ports = append(d.Ports, other.Ports...)
	d.Subdomains = append(d.Subdomains, other.Subdomains...)
	d.Paths = append(d.Paths, other.Paths...)
	d.Vulnerabilities = append(d.Vulnerabilities, other.Vulnerabilities...)
}

// SettingsAPI defines the possible configurations that end users can set.
type SettingsAPI struct {
	Config  PortScannerConfig `json:"port_scanner"`
	Plugins Plugins           `json:"plugins"`
}

// Plugins defines all the possible plugins that the end user can enable.
type Plugins struct {
	PortScanner bool `json:"port_scanner"`
	DNSResolver bool `json:"dns_resolver"`
	DirScanner  bool `json:"dir_scanner"`
	WebScanner  bool `json:"web_scanner"`
}

// PortScannerConfig defines the configuration parameters used to be used
// by the end-user to redefine settings.
type PortScannerConfig struct {
	StartPort   int `json:"start_port"`
	EndPort     int `json:"end_port"`
	Timeout     int `json:"timeout"`
	MinWorkers  int `json:"min_workers"`
	MaxWorkers  int `json:"max_workers"`
	IdleTimeout int `json:"idle_timeout"`
}

// TargetInfo holds information about a target.
type TargetInfo struct {
	FullURL string // Normalized URL as submitted.
	BaseURL string // scheme://host[:port], no path, query or fragment.
	Scheme  string
	Domain  string // Hostname without port.
	Port    string
}

// IsLoopback reports whether the target points at the local machine.
func (t *TargetInfo) IsLoopback() bool {
	switch strings.ToLower(t.Domain) {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
