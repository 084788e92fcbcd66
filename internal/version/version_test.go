package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.2.0", "1.1.9", true},
		{"v2023.1", "2022.9.3", true},
		{"1.0", "1.0.0", false},
		{"1.0.1", "1.0", true},
		{"1.0", "1.0.1", false},
		{"dev", "1.0", false},
		{"1.0", "dev", true},
		{"1.x", "1.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Newer(tt.a, tt.b))
		})
	}
}

func TestCheckForUpdate(t *testing.T) {
	old := Version
	Version = "1.0.0"
	t.Cleanup(func() { Version = old })

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    Update
	}{
		{"newer", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/version", r.URL.Path)
			w.Write([]byte(`{"version":"1.1.0"}`))
		}, Update{Available: true, Latest: "1.1.0"}},
		{"same", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"version":"1.0.0"}`))
		}, Update{Latest: "1.0.0"}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, Update{}},
		{"bad body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		}, Update{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			assert.Equal(t, tt.want, CheckForUpdate(context.Background(), srv.Client(), srv.URL+"/"))
		})
	}
}

func TestCheckForUpdateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	assert.Equal(t, Update{}, CheckForUpdate(context.Background(), nil, url))
}

func TestInfo(t *testing.T) {
	info := Info()
	assert.Equal(t, Version, info.Version)
	assert.Contains(t, String(), info.SpecVersion)
}
