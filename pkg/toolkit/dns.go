package toolkit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Resolver is the subset of net.Resolver used for DNS lookups
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// DNSRecords is the /api/dns response body
type DNSRecords struct {
	A  []string `json:"A"`
	MX []string `json:"MX"`
	NS []string `json:"NS"`
}

// DNSLookup resolves the A, MX and NS records of a domain
type DNSLookup struct {
	Resolver Resolver
}

func NewDNSLookup() *DNSLookup {
	return &DNSLookup{Resolver: net.DefaultResolver}
}

// Lookup fails if any of the three record sets cannot be resolved
func (d *DNSLookup) Lookup(ctx context.Context, domain string) (*DNSRecords, error) {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), ".")
	if domain == "" {
		return nil, errors.New("domain parameter required")
	}

	resolver := d.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	ips, err := resolver.LookupIP(ctx, "ip4", domain)
	if err != nil {
		return nil, err
	}
	mxs, err := resolver.LookupMX(ctx, domain)
	if err != nil {
		return nil, err
	}
	nss, err := resolver.LookupNS(ctx, domain)
	if err != nil {
		return nil, err
	}

	records := &DNSRecords{A: []string{}, MX: []string{}, NS: []string{}}
	for _, ip := range ips {
		records.A = append(records.A, ip.String())
	}
	for _, mx := range mxs {
		records.MX = append(records.MX, formatMX(mx))
	}
	for _, ns := range nss {
		records.NS = append(records.NS, ns.Host)
	}
	return records, nil
}

// formatMX renders "10 mail.example.com." like a zone file
func formatMX(mx *net.MX) string {
	return fmt.Sprintf("%d %s", mx.Pref, mx.Host)
}
