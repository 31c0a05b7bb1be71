// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package observability_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modhost/modhost/internal/observability"
)

func startServer(t *testing.T, ready observability.ReadinessChecker) *observability.Server {
	t.Helper()
	srv := observability.NewServer("127.0.0.1:0", observability.NewRegistry(), ready)

	_, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, srv.Stop(ctx))
	})
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test URL built from local listener
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_Liveness(t *testing.T) {
	srv := startServer(t, nil)

	status, body := get(t, fmt.Sprintf("http://%s/healthz/liveness", srv.Addr()))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", body)
}

func TestServer_ReadinessNotReady(t *testing.T) {
	srv := startServer(t, func() bool { return false })

	status, _ := get(t, fmt.Sprintf("http://%s/healthz/readiness", srv.Addr()))
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestServer_Metrics(t *testing.T) {
	srv := startServer(t, nil)

	status, body := get(t, fmt.Sprintf("http://%s/metrics", srv.Addr()))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "go_goroutines")
}

func TestServer_DoubleStart(t *testing.T) {
	srv := startServer(t, nil)

	_, err := srv.Start()
	require.Error(t, err)
}
