package toolkit

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"math"
	"net"
	"strings"
	"time"
)

// CertificateInfo is the /api/ssl response body
type CertificateInfo struct {
	Host          string    `json:"host"`
	Subject       string    `json:"subject"`
	Issuer        string    `json:"issuer"`
	DNSNames      []string  `json:"dns_names"`
	NotBefore     time.Time `json:"not_before"`
	NotAfter      time.Time `json:"not_after"`
	DaysRemaining int       `json:"days_remaining"`
	Expired       bool      `json:"expired"`
	Verified      bool      `json:"verified"`
	TLSVersion    string    `json:"tls_version"`
}

// SSLChecker reads the leaf certificate a host presents
type SSLChecker struct {
	Timeout time.Duration
	// Config is cloned per check; tests inject RootCAs here
	Config *tls.Config
	Now    func() time.Time
}

func NewSSLChecker() *SSLChecker {
	return &SSLChecker{Timeout: 5 * time.Second}
}

// Check connects to host (port 443 unless given) and describes its certificate.
// Certificates that fail verification are still reported, with Verified false.
func (c *SSLChecker) Check(ctx context.Context, host string) (*CertificateInfo, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("host parameter required")
	}
	address := host
	serverName := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		serverName = h
	} else {
		address = net.JoinHostPort(host, "443")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	verified := true
	state, err := c.handshake(ctx, address, serverName, timeout, false)
	if err != nil {
		var verifyErr *tls.CertificateVerificationError
		if !errors.As(err, &verifyErr) {
			return nil, err
		}
		verified = false
		state, err = c.handshake(ctx, address, serverName, timeout, true)
		if err != nil {
			return nil, err
		}
	}
	if len(state.PeerCertificates) == 0 {
		return nil, errors.New("no certificate presented")
	}

	leaf := state.PeerCertificates[0]
	remaining := leaf.NotAfter.Sub(now())
	return &CertificateInfo{
		Host:          host,
		Subject:       leaf.Subject.CommonName,
		Issuer:        issuerName(leaf),
		DNSNames:      leaf.DNSNames,
		NotBefore:     leaf.NotBefore.UTC(),
		NotAfter:      leaf.NotAfter.UTC(),
		DaysRemaining: int(math.Floor(remaining.Hours() / 24)),
		Expired:       remaining < 0,
		Verified:      verified,
		TLSVersion:    tls.VersionName(state.Version),
	}, nil
}

func (c *SSLChecker) handshake(ctx context.Context, address, serverName string, timeout time.Duration, insecure bool) (tls.ConnectionState, error) {
	cfg := &tls.Config{}
	if c.Config != nil {
		cfg = c.Config.Clone()
	}
	cfg.ServerName = serverName
	cfg.InsecureSkipVerify = insecure

	dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: timeout}, Config: cfg}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return tls.ConnectionState{}, err
	}
	defer func() { _ = conn.Close() }()
	return conn.(*tls.Conn).ConnectionState(), nil
}

func issuerName(cert *x509.Certificate) string {
	if cert.Issuer.CommonName != "" {
		return cert.Issuer.CommonName
	}
	if len(cert.Issuer.Organization) > 0 {
		return cert.Issuer.Organization[0]
	}
	return cert.Issuer.String()
}
