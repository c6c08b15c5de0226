package port_scanner

import (
	"context"
	"fmt"
	"github.com/sirupsen/logrus"
	"go-reconx/models"
	"net"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// PortScanner scans a set of ports in one phase using a moderate timeout per port.
// It uses a dynamic worker pool with rate limiting to avoid flooding the target.
type PortScanner struct {
	StartPort int           // Starting port number, 0 scans the top ports list.
	EndPort   int           // Ending port number.
	Timeout   time.Duration // Timeout per port.

	// Dynamic scaling parameters.
	MinWorkers  int           // Minimum number of workers to start.
	MaxWorkers  int           // Maximum allowed workers.
	IdleTimeout time.Duration // Idle time before an extra worker exits.

	// Rate limiting: minimum delay between connection attempts.
	RateLimit time.Duration
}

// Name returns the scanner name.
func (ps *PortScanner) Name() string {
	return "Port Scanner"
}

// Configure configures the scanner.
func (ps *PortScanner) Configure(cfg Config) {
	ps.StartPort = cfg.StartPort
	ps.EndPort = cfg.EndPort
	ps.Timeout = time.Millisecond * time.Duration(cfg.Timeout)
	ps.MinWorkers = cfg.MinWorkers
	ps.MaxWorkers = cfg.MaxWorkers
	ps.IdleTimeout = time.Millisecond * time.Duration(cfg.IdleTimeout)
	ps.RateLimit = time.Millisecond * 10
}

// Config returns the current settings in their user-facing form.
func (ps *PortScanner) Config() Config {
	return Config{
		StartPort:   ps.StartPort,
		EndPort:     ps.EndPort,
		Timeout:     int(ps.Timeout / time.Millisecond),
		MinWorkers:  ps.MinWorkers,
		MaxWorkers:  ps.MaxWorkers,
		IdleTimeout: int(ps.IdleTimeout / time.Millisecond),
	}
}

// ports returns the list of ports to scan.
func (ps *PortScanner) ports() []int {
	if ps.StartPort <= 0 || ps.EndPort < ps.StartPort {
		return topPorts
	}
	ports := make([]int, 0, ps.EndPort-ps.StartPort+1)
	for p := ps.StartPort; p <= ps.EndPort; p++ {
		ports = append(ports, p)
	}
	return ports
}

// defaults fills in settings left at zero.
func (ps *PortScanner) defaults() {
	if ps.Timeout <= 0 {
		ps.Timeout = time.Second
	}
	if ps.MinWorkers <= 0 {
		ps.MinWorkers = 1
	}
	if ps.MaxWorkers < ps.MinWorkers {
		ps.MaxWorkers = ps.MinWorkers
	}
	if ps.IdleTimeout <= 0 {
		ps.IdleTimeout = 3 * time.Second
	}
	if ps.RateLimit <= 0 {
		ps.RateLimit = time.Millisecond
	}
}

// worker defines the logic of finding open ports using TCP.
func (ps *PortScanner) worker(ctx context.Context, host string, currentWorkers *int32, portChan <-chan int, resultsChan chan<- int, limiter *time.Ticker, wg *sync.WaitGroup) {
	defer wg.Done()

	// Each worker gets its own idle timer.
	idleTimer := time.NewTimer(ps.IdleTimeout)
	defer idleTimer.Stop()
	var dialer net.Dialer

	for {
		select {
		case <-ctx.Done():
			atomic.AddInt32(currentWorkers, -1)
			return
		case port, ok := <-portChan:
			if !ok {
				atomic.AddInt32(currentWorkers, -1)
				return
			}
			// Wait for a rate limiter token.
			select {
			case <-limiter.C:
			case <-ctx.Done():
				atomic.AddInt32(currentWorkers, -1)
				return
			}

			address := net.JoinHostPort(host, strconv.Itoa(port))
			dialCtx, cancelDial := context.WithTimeout(ctx, ps.Timeout)
			startTime := time.Now()
			conn, err := dialer.DialContext(dialCtx, "tcp", address)
			duration := time.Since(startTime)
			cancelDial()

			if err == nil {
				resultsChan <- port
				_ = conn.Close()
				logrus.Debugf("Port %d open (in %v)", port, duration)
			} else {
				logrus.Tracef("Port %d closed (error: %v, in %v)", port, err, duration)
			}

			if !idleTimer.Stop() {
				select {
				case <-idleTimer.C:
				default:
				}
			}
			idleTimer.Reset(ps.IdleTimeout)
		case <-idleTimer.C:
			if ps.retire(currentWorkers) {
				return
			}
			idleTimer.Reset(ps.IdleTimeout)
		}
	}
}

// retire decrements the worker count when it is above the minimum.
// Only workers above the minimum may leave the pool on idle.
func (ps *PortScanner) retire(currentWorkers *int32) bool {
	for {
		cur := atomic.LoadInt32(currentWorkers)
		if cur <= int32(ps.MinWorkers) {
			return false
		}
		if atomic.CompareAndSwapInt32(currentWorkers, cur, cur-1) {
			return true
		}
	}
}

// Run performs the port scan for the given target.
func (ps *PortScanner) Run(ctx context.Context, target *models.TargetInfo) (*models.DTO, error) {
	scan := *ps
	scan.defaults()
	return scan.run(ctx, target)
}

func (ps *PortScanner) run(ctx context.Context, target *models.TargetInfo) (*models.DTO, error) {
	host := target.Domain
	if target.IsLoopback() {
		host = "127.0.0.1"
	}

	ports := ps.ports()
	logrus.Infof("Starting port scan on %s (%d ports)", host, len(ports))

	// Set an overall deadline based on the number of ports plus an extra buffer.
	totalTimeout := time.Duration(len(ports))*ps.Timeout + 5*time.Second
	ctx, cancel := context.WithTimeout(ctx, totalTimeout)
	defer cancel()

	portChan := make(chan int, 100)
	resultsChan := make(chan int, len(ports))
	limiter := time.NewTicker(ps.RateLimit)
	defer limiter.Stop()

	var wg sync.WaitGroup
	currentWorkers := int32(ps.MinWorkers)

	// Spawn the initial worker pool.
	for i := 0; i < ps.MinWorkers; i++ {
		wg.Add(1)
		go ps.worker(ctx, host, &currentWorkers, portChan, resultsChan, limiter, &wg)
	}

	// Producer: enqueue all port numbers. It holds a WaitGroup slot so that
	// workers it spawns are always added while the counter is positive.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(portChan)
		for _, port := range ports {
			select {
			case <-ctx.Done():
				return
			case portChan <- port:
			}
			// Dynamically spawn more workers if pending tasks exceed threshold.
			if len(portChan) > 10 && atomic.LoadInt32(&currentWorkers) < int32(ps.MaxWorkers) {
				atomic.AddInt32(&currentWorkers, 1)
				wg.Add(1)
				go ps.worker(ctx, host, &currentWorkers, portChan, resultsChan, limiter, &wg)
			}
		}
	}()

	wg.Wait()
	close(resultsChan)

	// Collect and sort the open ports.
	var openPorts []int
	for port := range resultsChan {
		openPorts = append(openPorts, port)
	}
	sort.Ints(openPorts)
	logrus.Infof("Open ports on %s: %v", host, openPorts)

	var result models.DTO
	for _, p := range openPorts {
		result.Ports = append(result.Ports, fmt.Sprintf("%d/tcp", p))
	}

	return &result, nil
}
