package plugin

// Plugin names, in the order their results are merged.
const (
	PortScanner = "Port Scanner"
	DNSResolver = "DNS Resolver"
	DirScanner  = "Directory Scanner"
	WebScanner  = "Web Scanner"
)

var order = []string{PortScanner, DNSResolver, DirScanner, WebScanner}

// AllEnabled is used when no settings were saved yet.
var AllEnabled = map[string]bool{
	PortScanner: true,
	DNSResolver: true,
	DirScanner:  true,
	WebScanner:  true,
}
