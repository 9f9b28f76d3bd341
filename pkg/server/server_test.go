package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
	"github.com/Sumatoshi-tech/ghpulse/pkg/server"
)

var testNow = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

type fakeBackend struct {
	err error

	mu       sync.Mutex
	lastRepo string
}

func (f *fakeBackend) requestedRepo() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastRepo
}

func (f *fakeBackend) Profile(_ context.Context, handle string) (*ghapi.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &ghapi.Profile{Login: handle, Followers: 3}, nil
}

func (f *fakeBackend) Repositories(context.Context, string) ([]ghapi.Repository, error) {
	if f.err != nil {
		return nil, f.err
	}

	return []ghapi.Repository{
		{Name: "old", UpdatedAt: testNow.AddDate(0, -1, 0)},
		{Name: "new", UpdatedAt: testNow},
	}, nil
}

func (f *fakeBackend) ContributionReport(context.Context, string) (contrib.Report, error) {
	if f.err != nil {
		return contrib.Report{}, f.err
	}

	return contrib.Build(testNow, contrib.Inputs{Events: map[contrib.Date]int{"2025-06-01": 3}}, contrib.Options{}), nil
}

func (f *fakeBackend) Dashboard(_ context.Context, handle, repoName string) (*dashboard.Dashboard, error) {
	f.mu.Lock()
	f.lastRepo = repoName
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	return &dashboard.Dashboard{
		Profile:       &ghapi.Profile{Login: handle, Name: "The Octocat"},
		Contributions: contrib.Build(testNow, contrib.Inputs{}, contrib.Options{}),
		GeneratedAt:   testNow,
	}, nil
}

func newServer(backend *fakeBackend, opts server.Options) *httptest.Server {
	return httptest.NewServer(server.New(backend, backend, opts).Handler())
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestServer_Profile(t *testing.T) {
	t.Parallel()

	ts := newServer(&fakeBackend{}, server.Options{})
	defer ts.Close()

	resp, body := get(t, ts.URL+"/api/users/octocat")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var profile ghapi.Profile

	require.NoError(t, json.Unmarshal([]byte(body), &profile))
	assert.Equal(t, "octocat", profile.Login)
	assert.Equal(t, 3, profile.Followers)
}

func TestServer_RepositoriesSortedByUpdate(t *testing.T) {
	t.Parallel()

	ts := newServer(&fakeBackend{}, server.Options{})
	defer ts.Close()

	resp, body := get(t, ts.URL+"/api/users/octocat/repos")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var repos []ghapi.Repository

	require.NoError(t, json.Unmarshal([]byte(body), &repos))
	require.Len(t, repos, 2)
	assert.Equal(t, "new", repos[0].Name)
}

func TestServer_Contributions(t *testing.T) {
	t.Parallel()

	ts := newServer(&fakeBackend{}, server.Options{})
	defer ts.Close()

	resp, body := get(t, ts.URL+"/api/users/octocat/contributions")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report contrib.Report

	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.Equal(t, 3, report.TotalContributions)
	assert.Len(t, report.Weeks, 53)
}

func TestServer_Dashboard(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	ts := newServer(backend, server.Options{})
	defer ts.Close()

	resp, body := get(t, ts.URL+"/users/octocat?repo=hello-world&theme=dark")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<title>The Octocat</title>")
	assert.Contains(t, body, `class="dark"`)
	assert.Equal(t, "hello-world", backend.requestedRepo())
}

func TestServer_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("profile: %w", ghapi.ErrNotFound), http.StatusNotFound},
		{"repository", &dashboard.RepositoryNotFoundError{Name: "x", Suggestions: []string{"y"}}, http.StatusNotFound},
		{"rate limited", fmt.Errorf("repos: %w", ghapi.ErrRateLimited), http.StatusTooManyRequests},
		{"upstream", fmt.Errorf("repos: %w", ghapi.ErrUpstream), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newServer(&fakeBackend{err: tt.err}, server.Options{})
			defer ts.Close()

			for _, path := range []string{"/api/users/octocat", "/api/users/octocat/contributions", "/users/octocat"} {
				resp, body := get(t, ts.URL+path)

				assert.Equal(t, tt.status, resp.StatusCode, path)

				var decoded map[string]any

				require.NoError(t, json.Unmarshal([]byte(body), &decoded), path)
				assert.Equal(t, tt.err.Error(), decoded["error"])
			}
		})
	}
}

func TestServer_RepositorySuggestions(t *testing.T) {
	t.Parallel()

	ts := newServer(&fakeBackend{err: &dashboard.RepositoryNotFoundError{
		Name: "helo-world", Suggestions: []string{"hello-world"},
	}}, server.Options{})
	defer ts.Close()

	resp, body := get(t, ts.URL+"/users/octocat?repo=helo-world")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `"suggestions":["hello-world"]`)
}

func TestServer_InvalidHandle(t *testing.T) {
	t.Parallel()

	ts := newServer(&fakeBackend{}, server.Options{})
	defer ts.Close()

	resp, body := get(t, ts.URL+"/api/users/-bad-")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, ghapi.ErrInvalidHandle.Error())
}

func TestServer_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	metrics := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(rw, "ghpulse_requests_total 1\n")
	})

	ts := newServer(&fakeBackend{}, server.Options{MetricsHandler: metrics})
	defer ts.Close()

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, _ = get(t, ts.URL+"/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ghpulse_requests_total")
}

func TestServer_NoMetricsRoute(t *testing.T) {
	t.Parallel()

	ts := newServer(&fakeBackend{}, server.Options{})
	defer ts.Close()

	resp, _ := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_SpansNamedByRoute(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	ts := newServer(&fakeBackend{}, server.Options{Tracer: tp.Tracer("test")})
	defer ts.Close()

	get(t, ts.URL+"/api/users/octocat/repos")

	require.Eventually(t, func() bool { return len(exporter.GetSpans()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "GET /api/users/{handle}/repos", exporter.GetSpans()[0].Name)
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	var lc net.ListenConfig

	listener, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := server.New(&fakeBackend{}, &fakeBackend{}, server.Options{ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- srv.Serve(ctx, listener)
	}()

	require.Eventually(t, func() bool {
		req, reqErr := http.NewRequestWithContext(context.Background(), http.MethodGet,
			"http://"+listener.Addr().String()+"/healthz", nil)
		if reqErr != nil {
			return false
		}

		resp, doErr := http.DefaultClient.Do(req)
		if doErr != nil {
			return false
		}

		resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, server.StatusFor(fmt.Errorf("x: %w", ghapi.ErrInvalidHandle)))
	assert.Equal(t, http.StatusNotFound, server.StatusFor(fmt.Errorf("x: %w", dashboard.ErrRepositoryNotFound)))
	assert.True(t, strings.HasPrefix(http.StatusText(server.StatusFor(errors.New("x"))), "Bad Gateway"))
}
