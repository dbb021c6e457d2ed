package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultIPLookupURL is formatted with the address to look up
const DefaultIPLookupURL = "https://ipapi.co/%s/json/"

// ErrLookupFailed is returned when the upstream answers with a non-200 status
var ErrLookupFailed = errors.New("unable to lookup IP information")

// IPLookup proxies geolocation data for an address
type IPLookup struct {
	URLFormat string
	Client    *http.Client
}

func NewIPLookup() *IPLookup {
	return &IPLookup{
		URLFormat: DefaultIPLookupURL,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup returns the upstream JSON object for ip
func (l *IPLookup) Lookup(ctx context.Context, ip string) (map[string]any, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return nil, errors.New("ip parameter required")
	}

	format := l.URLFormat
	if format == "" {
		format = DefaultIPLookupURL
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(format, url.PathEscape(ip)), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrLookupFailed
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	return result, nil
}
