package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestCheckHealthHealthy(t *testing.T) {
	url := serve(t, http.StatusOK, `{"status":"ok","version":"1.0.0","services":{"database":{"status":"ok"}}}`)

	health, err := checkHealth(resty.New(), url)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", health.Version)
}

func TestCheckHealthUnhealthy(t *testing.T) {
	url := serve(t, http.StatusServiceUnavailable, `{"status":"error","services":{"database":{"status":"error","error":"connection refused"}}}`)

	_, err := checkHealth(resty.New(), url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
