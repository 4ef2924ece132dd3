package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/storefront-apitest/internal/config"
	"github.com/Adda-Baaj/storefront-apitest/internal/domain"
	"github.com/Adda-Baaj/storefront-apitest/internal/fakeapi"
	"github.com/Adda-Baaj/storefront-apitest/internal/logger"
	"github.com/Adda-Baaj/storefront-apitest/internal/storage"
	"github.com/Adda-Baaj/storefront-apitest/pkg/httpclient"
	"github.com/Adda-Baaj/storefront-apitest/pkg/publishers"
	"github.com/Adda-Baaj/storefront-apitest/pkg/restapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func startFake(t *testing.T, opts ...fakeapi.Option) (*fakeapi.Server, string) {
	t.Helper()
	api := fakeapi.New(opts...)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, srv.URL + "/"
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:                "storefront-apitest",
		Env:                    "test",
		LogLevel:               "debug",
		BaseURL:                baseURL,
		RequestTimeout:         5 * time.Second,
		CaseTimeout:            10 * time.Second,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(t.TempDir(), "ledger.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func onlyCollection(t *testing.T, name string) string {
	t.Helper()
	return writeFile(t, "collections.yaml", "collections:\n  - name: "+name+"\n")
}

func testLogger(t *testing.T) logger.Logger {
	return logger.NewZap(zaptest.NewLogger(t).Sugar())
}

type reportSink struct {
	mu     sync.Mutex
	events []publishers.Event
}

func (s *reportSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var evt publishers.Event
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.events = append(s.events, evt)
	s.mu.Unlock()
	w.WriteHeader(http.StatusAccepted)
}

func (s *reportSink) received() []publishers.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]publishers.Event(nil), s.events...)
}

func TestRunnerRunPublishesReports(t *testing.T) {
	_, baseURL := startFake(t)
	sink := &reportSink{}
	hook := httptest.NewServer(sink)
	t.Cleanup(hook.Close)

	cfg := testConfig(t, baseURL)
	cfg.PublishersFile = writeFile(t, "publishers.yaml", `
publishers:
  - id: reports
    type: http
    http:
      url: `+hook.URL+`
`)

	runner, err := NewRunner(context.Background(), cfg, testLogger(t))
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background()))

	events := sink.received()
	require.Len(t, events, 4)
	var names []string
	for _, evt := range events {
		names = append(names, evt.Collection)
		assert.Zero(t, evt.Failed, "%s failures: %+v", evt.Collection, evt.Results)
		assert.Equal(t, evt.Total, evt.Passed)
		assert.Equal(t, events[0].RunID, evt.RunID, "one run id per run")
	}
	assert.Equal(t, []string{"categories", "products", "services", "stores"}, names)
}

func TestRunnerRunReturnsErrorOnFailedCases(t *testing.T) {
	_, baseURL := startFake(t, fakeapi.WithLimits(5, 20))
	cfg := testConfig(t, baseURL)
	cfg.CollectionsFile = onlyCollection(t, "services")

	runner, err := NewRunner(context.Background(), cfg, nil)
	require.NoError(t, err)

	err = runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "services:")
}

func TestRunnerSweepsLeftoverItems(t *testing.T) {
	api, baseURL := startFake(t)
	cfg := testConfig(t, baseURL)
	cfg.CollectionsFile = onlyCollection(t, "services")

	res, err := restapi.New(httpclient.NewRestyClient(5*time.Second), baseURL, "services")
	require.NoError(t, err)
	resp, err := res.Create(context.Background(), domain.Service{Name: domain.String("left over")})
	require.NoError(t, err)
	leftover, err := restapi.Decode[domain.Service](resp)
	require.NoError(t, err)

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{})
	require.NoError(t, err)
	require.NoError(t, store.TrackItem("services", leftover.ID.String()))
	require.NoError(t, store.Close())

	runner, err := NewRunner(context.Background(), cfg, testLogger(t))
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background()))

	_, ok := api.Item("services", leftover.ID.String())
	assert.False(t, ok, "leftover item should be deleted")

	store, err = storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{})
	require.NoError(t, err)
	defer store.Close()
	pending, err := store.PendingItems()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRunnerNoEnabledCollections(t *testing.T) {
	_, baseURL := startFake(t)
	cfg := testConfig(t, baseURL)
	cfg.StorageType = "none"
	cfg.CollectionsFile = writeFile(t, "collections.yaml", `
collections:
  - name: stores
    enabled: false
`)

	runner, err := NewRunner(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Error(t, runner.Run(context.Background()))
}

func TestRunnerLoopStopsOnCancel(t *testing.T) {
	_, baseURL := startFake(t)
	cfg := testConfig(t, baseURL)
	cfg.CollectionsFile = onlyCollection(t, "categories")
	cfg.RunInterval = 20 * time.Millisecond

	runner, err := NewRunner(context.Background(), cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	assert.NoError(t, runner.Run(ctx))
}

func TestNewRunnerRejectsBadPublishersFile(t *testing.T) {
	cfg := testConfig(t, config.DefaultBaseURL)
	cfg.PublishersFile = writeFile(t, "publishers.yaml", "publishers: []\n")

	_, err := NewRunner(context.Background(), cfg, nil)
	require.Error(t, err)
}
