package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projeto-canaa/cadastro/pkg/config"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{"default", nil, 1, false},
		{"explicit", []string{"3"}, 3, false},
		{"zero", []string{"0"}, 0, true},
		{"not a number", []string{"all"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSteps(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrationsURL(t *testing.T) {
	t.Run("adds the migrations table", func(t *testing.T) {
		got, err := migrationsURL("postgres://postgres@localhost:5432/cadastro")
		require.NoError(t, err)
		assert.Equal(t, "postgres://postgres@localhost:5432/cadastro?x-migrations-table=cadastro_schema_migrations", got)
	})

	t.Run("keeps existing parameters", func(t *testing.T) {
		got, err := migrationsURL("postgres://postgres@localhost/cadastro?sslmode=disable")
		require.NoError(t, err)
		assert.Contains(t, got, "sslmode=disable")
		assert.Contains(t, got, "x-migrations-table=cadastro_schema_migrations")
	})

	t.Run("requires a URL", func(t *testing.T) {
		_, err := migrationsURL("")
		assert.EqualError(t, err, "DATABASE_URL environment variable is required")
	})
}

func TestShowConfiguration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("default_city: Itapetininga\n"), 0o644))

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, showConfiguration(&out, dir, "text"))
		assert.Contains(t, out.String(), "default_city")
		assert.Contains(t, out.String(), "Itapetininga")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, showConfiguration(&out, dir, "json"))

		var parsed struct {
			Attributes []config.Attribute `json:"attributes"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))
		assert.Contains(t, parsed.Attributes, config.Attribute{
			Name: "default_city", Value: "Itapetininga", Source: config.SourceFile,
		})
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.Error(t, showConfiguration(&bytes.Buffer{}, dir, "xml"))
	})
}

func TestRenderLookupCode(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderLookupCode(&out, config.Default(), "CANAA-20240102030405-123"))
	assert.True(t, bytes.HasPrefix(out.Bytes(), pngMagic))
}

func TestWriteLookupCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code.png")

	got, err := writeLookupCode(config.Default(), "CANAA-20240102030405-123", path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestWaitForServer(t *testing.T) {
	t.Run("ready after a few attempts", func(t *testing.T) {
		var calls atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		var out bytes.Buffer
		require.NoError(t, waitForServer(&out, ts.URL, 5, time.Millisecond))
		assert.Contains(t, out.String(), "Server is ready!")
		assert.EqualValues(t, 3, calls.Load())
	})

	t.Run("gives up", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		err := waitForServer(&bytes.Buffer{}, ts.URL, 2, time.Millisecond)
		assert.EqualError(t, err, "server is not ready after 2 attempts")
	})
}
