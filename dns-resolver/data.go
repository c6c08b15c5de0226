package dns_resolver

// crtShEndpoint is the crt.sh JSON query; "%%25" is encoded for "%".
const crtShEndpoint = "https://crt.sh/?q=%%25.%s&output=json"

// Structure used for transporting results after each search
type lookupResult struct {
	subdomain string
	url       string
}

var commonSubdomains = []string{
	"www",
	"mail",
	"api",
	"dev",
	"test",
	"staging",
	"beta",
	"blog",
	"admin",
	"portal",
}

// crtEntry defines the JSON structure returned by crt.sh
type crtEntry struct {
	NameValue string `json:"name_value"`
}
