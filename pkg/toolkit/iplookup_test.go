package toolkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPLookup_ProxiesJSON(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"ip":"8.8.8.8","country":"US"}`))
	}))
	defer server.Close()

	lookup := &IPLookup{URLFormat: server.URL + "/%s/json/", Client: server.Client()}
	result, err := lookup.Lookup(context.Background(), "8.8.8.8")

	require.NoError(t, err)
	assert.Equal(t, "/8.8.8.8/json/", gotPath)
	assert.Equal(t, "US", result["country"])
}

func TestIPLookup_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	lookup := &IPLookup{URLFormat: server.URL + "/%s/json/", Client: server.Client()}
	_, err := lookup.Lookup(context.Background(), "8.8.8.8")
	assert.ErrorIs(t, err, ErrLookupFailed)

	_, err = lookup.Lookup(context.Background(), " ")
	assert.Error(t, err)
}
