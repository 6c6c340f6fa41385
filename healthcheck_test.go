package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLivezAlwaysOK(t *testing.T) {
	failing := func(ctx context.Context) error { return errors.New("store down") }
	mux := healthCheckMux(failing)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReportsBackingStores(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	failing := func(ctx context.Context) error { return errors.New("store down") }

	tests := []struct {
		name       string
		checks     []readyCheck
		wantStatus int
	}{
		{"all reachable", []readyCheck{ok, ok}, http.StatusOK},
		{"first unreachable", []readyCheck{failing, ok}, http.StatusServiceUnavailable},
		{"second unreachable", []readyCheck{ok, failing}, http.StatusServiceUnavailable},
		{"no checks", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			healthCheckMux(tt.checks...).ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
