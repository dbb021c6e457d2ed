package toolkit

import (
	"context"
	"errors"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// CommonPorts is the default probe list
var CommonPorts = []int{21, 22, 23, 25, 53, 80, 110, 143, 443, 445, 3306, 3389}

const (
	DefaultDialTimeout = time.Second
	DefaultScanWorkers = 10
)

// ScanResult is the /api/scan response body
type ScanResult struct {
	Host         string `json:"host"`
	OpenPorts    []int  `json:"open_ports"`
	TotalScanned int    `json:"total_scanned"`
}

// DialFunc opens a connection; net.Dialer.DialContext satisfies it
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// PortScanner probes a fixed list of TCP ports with bounded concurrency
type PortScanner struct {
	Ports   []int
	Timeout time.Duration
	Workers int
	Dial    DialFunc
}

// NewPortScanner creates a scanner with the common port list
func NewPortScanner() *PortScanner {
	return &PortScanner{
		Ports:   CommonPorts,
		Timeout: DefaultDialTimeout,
		Workers: DefaultScanWorkers,
	}
}

// Scan connects to every port once. Closed and filtered ports are simply not
// reported; only a missing host is an error.
func (s *PortScanner) Scan(ctx context.Context, host string) (*ScanResult, error) {
	if host == "" {
		return nil, errors.New("host parameter required")
	}

	dial := s.Dial
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}
	workers := s.Workers
	if workers < 1 {
		workers = DefaultScanWorkers
	}

	var (
		mu   sync.Mutex
		open = []int{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, port := range s.Ports {
		g.Go(func() error {
			if s.probe(gctx, dial, host, port) {
				mu.Lock()
				open = append(open, port)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Ints(open)
	return &ScanResult{Host: host, OpenPorts: open, TotalScanned: len(s.Ports)}, nil
}

func (s *PortScanner) probe(ctx context.Context, dial DialFunc, host string, port int) bool {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := dial(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
