package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kcaldas/netterm/pkg/logging"
	"github.com/kcaldas/netterm/pkg/remote"
	"github.com/kcaldas/netterm/pkg/toolkit"
	"github.com/kcaldas/netterm/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeScanner struct {
	host string
	err  error
}

func (f *fakeScanner) Scan(_ context.Context, host string) (*toolkit.ScanResult, error) {
	f.host = host
	if f.err != nil {
		return nil, f.err
	}
	return &toolkit.ScanResult{Host: host, OpenPorts: []int{22, 80}, TotalScanned: 12}, nil
}

type fakeLookup struct {
	err error
}

func (f *fakeLookup) Lookup(_ context.Context, ip string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"ip": ip, "country": "US"}, nil
}

type fakeDNS struct {
	err error
}

func (f *fakeDNS) Lookup(_ context.Context, domain string) (*toolkit.DNSRecords, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &toolkit.DNSRecords{A: []string{"93.184.216.34"}, MX: []string{"10 mail." + domain + "."}, NS: []string{}}, nil
}

type fakeSSL struct{}

func (fakeSSL) Check(_ context.Context, host string) (*toolkit.CertificateInfo, error) {
	if host == "bad.example" {
		return nil, errors.New("dial tcp: no such host")
	}
	return &toolkit.CertificateInfo{Host: host, Subject: host, Verified: true}, nil
}

type fakeRunner struct {
	result *toolkit.SystemResult
	err    error
}

func (f *fakeRunner) Run(_ context.Context, command string) (*toolkit.SystemResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestToolkit() Toolkit {
	return Toolkit{
		Scanner: &fakeScanner{},
		Lookup:  &fakeLookup{},
		DNS:     &fakeDNS{},
		SSL:     fakeSSL{},
		System:  &fakeRunner{result: &toolkit.SystemResult{Output: "user\n", ExitCode: 0}},
	}
}

func doPost(t *testing.T, router http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func TestRoutes_MissingParameters(t *testing.T) {
	router := NewRouter(newTestToolkit(), logging.NewDisabledLogger())

	tests := []struct {
		path string
		want string
	}{
		{"/api/scan", "Host parameter required"},
		{"/api/lookup", "IP parameter required"},
		{"/api/dns", "Domain parameter required"},
		{"/api/ssl", "Host parameter required"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, body := doPost(t, router, tt.path, `{}`)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestRoutes_InvalidPayload(t *testing.T) {
	router := NewRouter(newTestToolkit(), logging.NewDisabledLogger())

	rec, body := doPost(t, router, "/api/scan", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid payload", body["error"])
}

func TestScan(t *testing.T) {
	tools := newTestToolkit()
	scanner := tools.Scanner.(*fakeScanner)
	router := NewRouter(tools, logging.NewDisabledLogger())

	rec, body := doPost(t, router, "/api/scan", `{"host":" example.com "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "example.com", scanner.host)
	assert.Equal(t, "example.com", body["host"])
	assert.Equal(t, []any{float64(22), float64(80)}, body["open_ports"])
	assert.Equal(t, float64(12), body["total_scanned"])
}

func TestScan_FailureIsServerError(t *testing.T) {
	tools := newTestToolkit()
	tools.Scanner = &fakeScanner{err: errors.New("boom")}
	router := NewRouter(tools, logging.NewDisabledLogger())

	rec, _ := doPost(t, router, "/api/scan", `{"host":"example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLookup(t *testing.T) {
	router := NewRouter(newTestToolkit(), logging.NewDisabledLogger())

	rec, body := doPost(t, router, "/api/lookup", `{"ip":"8.8.8.8"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "US", body["country"])
}

func TestLookup_UpstreamFailureReportsError(t *testing.T) {
	tools := newTestToolkit()
	tools.Lookup = &fakeLookup{err: errors.New("upstream 429")}
	router := NewRouter(tools, logging.NewDisabledLogger())

	rec, body := doPost(t, router, "/api/lookup", `{"ip":"8.8.8.8"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, toolkit.ErrLookupFailed.Error(), body["error"])
}

func TestDNS(t *testing.T) {
	router := NewRouter(newTestToolkit(), logging.NewDisabledLogger())

	rec, body := doPost(t, router, "/api/dns", `{"domain":"example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"93.184.216.34"}, body["A"])
	assert.Equal(t, []any{"10 mail.example.com."}, body["MX"])

	tools := newTestToolkit()
	tools.DNS = &fakeDNS{err: errors.New("no such host")}
	rec, body = doPost(t, NewRouter(tools, logging.NewDisabledLogger()), "/api/dns", `{"domain":"nope.invalid"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no such host", body["error"])
}

func TestSSL(t *testing.T) {
	router := NewRouter(newTestToolkit(), logging.NewDisabledLogger())

	rec, body := doPost(t, router, "/api/ssl", `{"host":"example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["verified"])

	rec, _ = doPost(t, router, "/api/ssl", `{"host":"bad.example"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSystem(t *testing.T) {
	tests := []struct {
		name       string
		runner     *fakeRunner
		body       string
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:       "success",
			runner:     &fakeRunner{result: &toolkit.SystemResult{Output: "user\n", ErrorOutput: "", ExitCode: 0}},
			body:       `{"command":"whoami"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "user\n", body["output"])
				assert.Equal(t, float64(0), body["exit_code"])
			},
		},
		{
			name:       "disallowed",
			runner:     &fakeRunner{err: &toolkit.DisallowedError{Program: "rm"}},
			body:       `{"command":"rm -rf /"}`,
			wantStatus: http.StatusForbidden,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["error"])
				assert.Contains(t, body["message"], "Command not allowed: rm")
			},
		},
		{
			name:       "missing command",
			runner:     &fakeRunner{},
			body:       `{"command":"  "}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Command parameter required", body["message"])
			},
		},
		{
			name:       "runner failure",
			runner:     &fakeRunner{err: errors.New("fork failed")},
			body:       `{"command":"ps"}`,
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := newTestToolkit()
			tools.System = tt.runner
			rec, body := doPost(t, NewRouter(tools, logging.NewDisabledLogger()), "/api/system", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			tt.check(t, body)
		})
	}
}

func TestToolsAndHealth(t *testing.T) {
	router := NewRouter(newTestToolkit(), logging.NewDisabledLogger())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"`+version.GetVersion()+`"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Tools []toolkit.Tool `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, toolkit.Catalog(), body.Tools)
}

func TestRequestIDEchoed(t *testing.T) {
	router := NewRouter(newTestToolkit(), logging.NewDisabledLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRecoveryReturnsJSON(t *testing.T) {
	router := NewRouter(newTestToolkit(), logging.NewDisabledLogger())
	router.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestServe_ClientRoundTripAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(ln.Addr().String(), newTestToolkit(), logging.NewDisabledLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := remote.NewClient("http://"+ln.Addr().String(), 5*time.Second, logging.NewDisabledLogger())
	data, err := client.Post(context.Background(), "/api/scan", map[string]string{"host": "example.com"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"open_ports":[22,80]`)

	data, err = client.Post(context.Background(), "/api/system", map[string]string{"command": "whoami"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exit_code":0`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
