package plugin

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go-reconx/config"
	"go-reconx/database"
	ds "go-reconx/dir-scanner"
	dr "go-reconx/dns-resolver"
	"go-reconx/httpclient"
	"go-reconx/models"
	ps "go-reconx/port-scanner"
	"go-reconx/resolver"
	ws "go-reconx/web-scanner"
	"slices"
	"sync"
	"time"
)

// Manager defines the Plugin Manager containing all the plugins.
type Manager struct {
	mu      sync.RWMutex
	plugins []Plugin

	db     *database.DB // Optional, nil disables persistence.
	cfg    *config.Config
	client *httpclient.Client
}

// NewManager initializes a new *Manager. Plugins are enabled according to
// the last saved settings, or all of them when nothing was saved.
func NewManager(db *database.DB, cfg *config.Config) *Manager {
	if cfg == nil {
		cfg = config.Default()
	}

	m := &Manager{
		plugins: make([]Plugin, 0, len(order)),
		db:      db,
		cfg:     cfg,
		client: httpclient.New(httpclient.Options{
			Timeout:   cfg.Scan.Timeout,
			UserAgent: cfg.Scan.UserAgent,
			RateLimit: cfg.Scan.RateLimit,
		}),
	}

	m.init()
	return m
}

// init initializes the Manager with last used settings.
func (m *Manager) init() {
	enabled := AllEnabled
	var portCfg *models.PortScannerConfig

	if m.db != nil {
		settings, err := m.db.FetchSettings()
		switch {
		case err == nil:
			enabled = map[string]bool{
				PortScanner: settings.PluginsDB.PortScanner,
				DNSResolver: settings.PluginsDB.DNSResolver,
				DirScanner:  settings.PluginsDB.DirScanner,
				WebScanner:  settings.PluginsDB.WebScanner,
			}
			portCfg = &models.PortScannerConfig{
				StartPort:   settings.StartPort,
				EndPort:     settings.EndPort,
				Timeout:     settings.Timeout,
				MinWorkers:  settings.MinWorkers,
				MaxWorkers:  settings.MaxWorkers,
				IdleTimeout: settings.IdleTimeout,
			}
		case errors.Is(err, database.ErrNotFound):
		default:
			logrus.WithError(err).Warn("Couldn't load saved settings, enabling all plugins")
		}
	}

	for _, name := range order {
		if !enabled[name] {
			continue
		}
		p := m.build(name)
		if scanner, ok := p.(*ps.PortScanner); ok && portCfg != nil {
			m.configurePorts(scanner, *portCfg)
		}
		m.plugins = append(m.plugins, p)
	}
}

// build creates a plugin from the file configuration.
func (m *Manager) build(name string) Plugin {
	switch name {
	case PortScanner:
		return &ps.PortScanner{
			StartPort:   m.cfg.Ports.StartPort,
			EndPort:     m.cfg.Ports.EndPort,
			Timeout:     m.cfg.Ports.Timeout,
			MinWorkers:  m.cfg.Ports.MinWorkers,
			MaxWorkers:  m.cfg.Ports.MaxWorkers,
			IdleTimeout: m.cfg.Ports.IdleTimeout,
			RateLimit:   10 * time.Millisecond,
		}
	case DNSResolver:
		return dr.New(m.client, m.cfg.Subdomains.Nameservers, m.cfg.Subdomains.CrtSh)
	case DirScanner:
		return ds.New(m.client, m.cfg.Scan.Wordlist)
	case WebScanner:
		return ws.New(m.client)
	}
	return nil
}

// configurePorts applies user settings on top of the file configuration.
// Zero values keep the configured ones.
func (m *Manager) configurePorts(p *ps.PortScanner, c models.PortScannerConfig) {
	cur := p.Config()
	if c.StartPort == 0 && c.EndPort == 0 {
		c.StartPort, c.EndPort = cur.StartPort, cur.EndPort
	}
	if c.Timeout == 0 {
		c.Timeout = cur.Timeout
	}
	if c.MinWorkers == 0 {
		c.MinWorkers = cur.MinWorkers
	}
	if c.MaxWorkers == 0 {
		c.MaxWorkers = cur.MaxWorkers
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = cur.IdleTimeout
	}
	p.Configure(ps.Config(c))
}

// Add plugs in a new Plugin. Known plugins keep their canonical order.
func (m *Manager) Add(p Plugin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(p)
}

func (m *Manager) add(p Plugin) {
	m.plugins = append(m.plugins, p)
	slices.SortStableFunc(m.plugins, func(a, b Plugin) int {
		return rank(a.Name()) - rank(b.Name())
	})
}

func rank(name string) int {
	if i := slices.Index(order, name); i >= 0 {
		return i
	}
	return len(order)
}

// Remove unplugs a Plugin.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(name)
}

func (m *Manager) remove(name string) bool {
	n := len(m.plugins)
	m.plugins = slices.DeleteFunc(m.plugins, func(p Plugin) bool {
		return p.Name() == name
	})
	return len(m.plugins) != n
}

// Count returns the number of active plugins.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plugins)
}

// Names returns the names of the active plugins.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.plugins))
	for _, p := range m.plugins {
		names = append(names, p.Name())
	}
	return names
}

// Get retrieves the Plugin.
func (m *Manager) Get(name string) Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(name)
}

func (m *Manager) get(name string) Plugin {
	for _, p := range m.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// RunAll runs every active Plugin concurrently and merges their results in
// plugin order. A failing plugin is logged and contributes nothing.
func (m *Manager) RunAll(ctx context.Context, target *models.TargetInfo) (*models.DTO, error) {
	m.mu.RLock()
	plugins := slices.Clone(m.plugins)
	m.mu.RUnlock()

	partials := make([]*models.DTO, len(plugins))

	var wg sync.WaitGroup
	for i, p := range plugins {
		wg.Add(1)
		go func(idx int, p Plugin) {
			defer wg.Done()

			logrus.Debugf("Running %s on %s", p.Name(), target.FullURL)
			dto, err := p.Run(ctx, target)
			if err != nil {
				logrus.WithError(err).Errorf("%s failed on %s", p.Name(), target.FullURL)
				return
			}
			partials[idx] = dto
		}(i, p)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ret := models.DTO{Target: target.FullURL}
	for _, pr := range partials {
		ret.Merge(pr)
	}
	return &ret, nil
}

// Scan normalizes the raw target and runs all plugins against it.
func (m *Manager) Scan(ctx context.Context, raw string) (*models.ScanResult, error) {
	ti, err := resolver.ParseTarget(raw)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	logrus.Infof("Scanning target: %s", ti.FullURL)

	dto, err := m.RunAll(ctx, &ti)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", ti.FullURL, err)
	}

	ret := &models.ScanResult{
		ID:     uuid.NewString(),
		Target: ti.FullURL,
	}
	ret.Fill(dto)
	ret.Duration = time.Since(start).Round(time.Millisecond).String()

	logrus.Infof("Finished %s in %s", ti.FullURL, ret.Duration)
	return ret, nil
}

// SaveScan stores the scan result when a database is attached.
func (m *Manager) SaveScan(result *models.ScanResult) error {
	if m.db == nil {
		return nil
	}
	return m.db.SaveScan(result)
}

// History returns the most recent stored scans.
func (m *Manager) History(limit int) ([]models.ScanResult, error) {
	if m.db == nil {
		return []models.ScanResult{}, nil
	}
	return m.db.ListScans(limit)
}

// FindScan returns a stored scan by ID. database.ErrNotFound is returned
// for unknown IDs or when no database is attached.
func (m *Manager) FindScan(id string) (models.ScanResult, error) {
	if m.db == nil {
		return models.ScanResult{}, database.ErrNotFound
	}
	return m.db.GetScan(id)
}

// Settings enables or disables plugins, reconfigures the port scanner and
// persists the new settings.
func (m *Manager) Settings(settings models.SettingsAPI) error {
	c := settings.Config
	if c.StartPort < 0 || c.EndPort > 65535 || c.EndPort < c.StartPort {
		return fmt.Errorf("invalid port range %d-%d", c.StartPort, c.EndPort)
	}
	if c.MaxWorkers > 0 && c.MaxWorkers < c.MinWorkers {
		return fmt.Errorf("max workers %d below min workers %d", c.MaxWorkers, c.MinWorkers)
	}

	enabled := map[string]bool{
		PortScanner: settings.Plugins.PortScanner,
		DNSResolver: settings.Plugins.DNSResolver,
		DirScanner:  settings.Plugins.DirScanner,
		WebScanner:  settings.Plugins.WebScanner,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Add or remove plugin based on settings
	for _, name := range order {
		switch {
		case name == PortScanner:
			// Replaced rather than reconfigured, a running scan keeps its copy.
			m.remove(PortScanner)
			if enabled[name] {
				p := m.build(PortScanner).(*ps.PortScanner)
				m.configurePorts(p, c)
				m.add(p)
			}
		case enabled[name] && m.get(name) == nil:
			m.add(m.build(name))
		case !enabled[name]:
			m.remove(name)
		}
	}

	if m.db == nil {
		return nil
	}
	return m.db.UpdateSettings(database.SettingsDB{
		PSConfigDB: database.PSConfigDB{
			StartPort:   c.StartPort,
			EndPort:     c.EndPort,
			Timeout:     c.Timeout,
			MinWorkers:  c.MinWorkers,
			MaxWorkers:  c.MaxWorkers,
			IdleTimeout: c.IdleTimeout,
		},
		PluginsDB: database.PluginsDB{
			PortScanner: settings.Plugins.PortScanner,
			DNSResolver: settings.Plugins.DNSResolver,
			DirScanner:  settings.Plugins.DirScanner,
			WebScanner:  settings.Plugins.WebScanner,
		},
	})
}
