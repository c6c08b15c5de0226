package database

import (
	"go-reconx/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SettingsDB groups the persisted plugin settings.
type SettingsDB struct {
	PSConfigDB
	PluginsDB
}

// PSConfigDB stores the port scanner configuration.
type PSConfigDB struct {
	gorm.Model
	StartPort   int `gorm:"column:start_port"`
	EndPort     int `gorm:"column:end_port"`
	Timeout     int `gorm:"column:timeout"`
	MinWorkers  int `gorm:"column:min_workers"`
	MaxWorkers  int `gorm:"column:max_workers"`
	IdleTimeout int `gorm:"column:idle_timeout"`
}

// PluginsDB stores which plugins are enabled.
type PluginsDB struct {
	gorm.Model
	PortScanner bool `gorm:"column:port_scanner"`
	DNSResolver bool `gorm:"column:dns_resolver"`
	DirScanner  bool `gorm:"column:dir_scanner"`
	WebScanner  bool `gorm:"column:web_scanner"`
}

// ScanRecordDB stores a finished scan.
type ScanRecordDB struct {
	gorm.Model
	ScanID          string                      `gorm:"column:scan_id;uniqueIndex"`
	Target          string                      `gorm:"column:target;index"`
	Duration        string                      `gorm:"column:duration"`
	Ports           datatypes.JSONSlice[string] `gorm:"column:ports"`
	Subdomains      datatypes.JSONSlice[string] `gorm:"column:subdomains"`
	Paths           datatypes.JSONSlice[string] `gorm:"column:paths"`
	Vulnerabilities datatypes.JSONSlice[string] `gorm:"column:vulnerabilities"`
	Report          string                      `gorm:"column:report"`
}

// NewScanRecord converts a scan result into its database form.
func NewScanRecord(r *models.ScanResult) *ScanRecordDB {
	return &ScanRecordDB{
		ScanID:          r.ID,
		Target:          r.Target,
		Duration:        r.Duration,
		Ports:           list(r.Ports),
		Subdomains:      list(r.Subdomains),
		Paths:           list(r.Paths),
		Vulnerabilities: list(r.Vulnerabilities),
		Report:          r.Report,
	}
}

// list keeps empty columns as [] instead of null.
func list(s []string) datatypes.JSONSlice[string] {
	if s == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](s)
}

// ToResult converts the record back into a scan result.
func (rec *ScanRecordDB) ToResult() models.ScanResult {
	return models.ScanResult{
		ID:              rec.ScanID,
		Target:          rec.Target,
		Duration:        rec.Duration,
		Ports:           list(rec.Ports),
		Subdomains:      list(rec.Subdomains),
		Paths:           list(rec.Paths),
		Vulnerabilities: list(rec.Vulnerabilities),
		Report:          rec.Report,
	}
}
