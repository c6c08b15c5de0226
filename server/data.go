package server

import (
	"errors"
	"go-reconx/models"
)

// ErrScanBusy is returned while another scan is running.
var ErrScanBusy = errors.New("a scan is already running")

// response defines the basic HTTP response returned by the server.
type response struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// targetRequired is the scan endpoint's answer to a blank target. The
// dashboard reads the error field as a message.
type targetRequired struct {
	Error string `json:"error"`
}

// ScanRequestAPI defines the JSON structure for incoming scan requests.
type ScanRequestAPI struct {
	Target string `json:"target"`
}

// ScanHistory defines the JSON structure for the scan history.
type ScanHistory struct {
	Scans []models.ScanResult `json:"scans"`
}

// EnabledPlugins defines the JSON structure for the /plugins endpoint.
type EnabledPlugins struct {
	Plugins int      `json:"plugins"`
	Names   []string `json:"names"`
}

// ReportList defines the JSON structure for the /reports endpoint.
type ReportList struct {
	Reports []string `json:"reports"`
}
