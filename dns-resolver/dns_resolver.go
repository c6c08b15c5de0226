package dns_resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
	"go-reconx/httpclient"
	"go-reconx/models"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// DNSResolver enumerates subdomains of the target and keeps those that
// resolve and answer over HTTP.
type DNSResolver struct {
	Nameservers   []string // host:port; empty uses the system resolver.
	CrtSh         bool     // Also query certificate transparency logs.
	CrtShEndpoint string   // Overrides the crt.sh query format.

	client *httpclient.Client
	dns    *dns.Client

	// reach checks a resolved name over HTTP; replaced in tests.
	reach func(ctx context.Context, name string) (string, bool)
}

// New returns a new *DNSResolver.
func New(client *httpclient.Client, nameservers []string, crtSh bool) *DNSResolver {
	d := &DNSResolver{
		Nameservers: nameservers,
		CrtSh:       crtSh,
		client:      client,
		dns:         &dns.Client{Timeout: 3 * time.Second},
	}
	d.reach = d.reachHTTP
	return d
}

// Name returns plugin's name.
func (d *DNSResolver) Name() string {
	return "DNS Resolver"
}

// fetchCRTSubdomains queries over crt.sh to fetch associated subdomains.
func (d *DNSResolver) fetchCRTSubdomains(ctx context.Context, domain string) ([]string, error) {
	endpoint := d.CrtShEndpoint
	if endpoint == "" {
		endpoint = crtShEndpoint
	}

	resp, err := d.client.Get(ctx, fmt.Sprintf(endpoint, domain), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crt.sh returned status %d", resp.StatusCode)
	}

	var entries []crtEntry
	if err := json.Unmarshal([]byte(resp.Body), &entries); err != nil {
		return nil, err
	}

	subdomainSet := make(map[string]struct{})
	for _, entry := range entries {
		// Some certificates can contain domains separated by new line.
		for _, name := range strings.Split(entry.NameValue, "\n") {
			name = strings.ToLower(strings.TrimSpace(name))
			// Exclude wildcards
			name = strings.TrimPrefix(name, "*.")
			if name == "" || name == domain || !strings.HasSuffix(name, "."+domain) {
				continue
			}
			subdomainSet[name] = struct{}{}
		}
	}

	subdomains := make([]string, 0, len(subdomainSet))
	for s := range subdomainSet {
		subdomains = append(subdomains, s)
	}
	sort.Strings(subdomains)
	return subdomains, nil
}

// lookup resolves a name to its addresses.
func (d *DNSResolver) lookup(ctx context.Context, name string) ([]string, error) {
	if len(d.Nameservers) == 0 {
		return net.DefaultResolver.LookupHost(ctx, name)
	}

	client := d.dns
	if client == nil {
		client = &dns.Client{Timeout: 3 * time.Second}
	}

	var ips []string
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		m := new(dns.Msg)
		m.SetQuestion(dns.Fqdn(name), qtype)

		for _, ns := range d.Nameservers {
			r, _, err := client.ExchangeContext(ctx, m, ns)
			if err != nil || r.Rcode != dns.RcodeSuccess {
				continue
			}
			for _, ans := range r.Answer {
				switch v := ans.(type) {
				case *dns.A:
					ips = append(ips, v.A.String())
				case *dns.AAAA:
					ips = append(ips, v.AAAA.String())
				}
			}
			if len(ips) > 0 {
				return ips, nil
			}
		}
	}
	return nil, fmt.Errorf("no address records for %s", name)
}

// reachHTTP tries https first, then http. Any status below 500 means the
// host exists. host may carry a port.
func (d *DNSResolver) reachHTTP(ctx context.Context, host string) (string, bool) {
	for _, scheme := range []string{"https", "http"} {
		u := fmt.Sprintf("%s://%s", scheme, host)
		resp, err := d.client.Get(ctx, u, nil)
		if err != nil {
			continue
		}
		if resp.StatusCode < 500 {
			return u, true
		}
	}
	return "", false
}

// lookupSubdomain resolves one subdomain, checks it on the target's port and
// sends the result to the channel.
func (d *DNSResolver) lookupSubdomain(ctx context.Context, sd, port string, resultsCh chan<- lookupResult) {
	ips, err := d.lookup(ctx, sd)
	if err != nil {
		logrus.Debugf("Lookup failed for %s: %v", sd, err)
		return
	}
	logrus.Debugf("Resolved %s -> %v", sd, ips)

	reach := d.reach
	if reach == nil {
		reach = d.reachHTTP
	}
	host := sd
	if port != "" {
		host = net.JoinHostPort(sd, port)
	}
	u, ok := reach(ctx, host)
	if !ok {
		return
	}
	logrus.Infof("Subdomain alive: %s", u)
	resultsCh <- lookupResult{subdomain: sd, url: u}
}

// candidates builds the list of names to check.
func (d *DNSResolver) candidates(ctx context.Context, domain string) []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(n string) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}

	for _, sub := range commonSubdomains {
		add(fmt.Sprintf("%s.%s", sub, domain))
	}

	if d.CrtSh {
		subdomains, err := d.fetchCRTSubdomains(ctx, domain)
		if err != nil {
			logrus.Errorf("Error fetching crt.sh data: %v", err)
		}
		for _, s := range subdomains {
			add(s)
		}
	}
	return names
}

// aggregateResults receives the results from the channel and aggregates them.
func (d *DNSResolver) aggregateResults(resultsCh <-chan lookupResult) models.DTO {
	var result models.DTO
	seen := make(map[string]struct{})

	for res := range resultsCh {
		if _, exists := seen[res.subdomain]; exists {
			continue
		}
		seen[res.subdomain] = struct{}{}
		result.Subdomains = append(result.Subdomains, res.url)
	}

	sort.Strings(result.Subdomains)
	return result
}

// Run orchestrates the subdomain discovery process.
func (d *DNSResolver) Run(ctx context.Context, target *models.TargetInfo) (*models.DTO, error) {
	if target.Domain == "" {
		return nil, errors.New("no web domain set for target, skipping subdomain discovery")
	}

	// Subdomains of the local machine are not meaningful.
	if target.IsLoopback() || net.ParseIP(target.Domain) != nil {
		logrus.Debugf("Skipping subdomain discovery for %s", target.Domain)
		return &models.DTO{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	names := d.candidates(ctx, target.Domain)
	resultsCh := make(chan lookupResult, len(names))

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(s string) {
			defer wg.Done()
			d.lookupSubdomain(ctx, s, target.Port, resultsCh)
		}(name)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	dto := d.aggregateResults(resultsCh)
	return &dto, nil
}
