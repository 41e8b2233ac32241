package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lotwatch/torgiwatch/pkg/errors"
	"lotwatch/torgiwatch/services/cache"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	mu    sync.Mutex
	cache map[string][]byte
}

var _ cache.CacheService = (*MockCacheService)(nil)

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, key)
	return nil
}

// MockFetcher serves canned bodies by URL and records every request
type MockFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	requests  []string
}

var _ PageFetcher = (*MockFetcher)(nil)

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		responses: make(map[string]string),
		failures:  make(map[string]error),
	}
}

func (m *MockFetcher) Serve(url, body string) *MockFetcher {
	m.responses[url] = body
	return m
}

func (m *MockFetcher) Fail(url string, err error) *MockFetcher {
	m.failures[url] = err
	return m
}

func (m *MockFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, url)

	if err, ok := m.failures[url]; ok {
		return nil, err
	}
	if body, ok := m.responses[url]; ok {
		return []byte(body), nil
	}
	return nil, errors.NewNetwork("mock", fmt.Sprintf("fetch %s unexpected status code: 404", url), nil)
}

func (m *MockFetcher) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// MockRenderer returns canned rendered HTML
type MockRenderer struct {
	html  string
	err   error
	calls []string
}

var _ Renderer = (*MockRenderer)(nil)

func (m *MockRenderer) Render(ctx context.Context, url, waitSelector string) (string, error) {
	m.calls = append(m.calls, url)
	return m.html, m.err
}

const testBaseURL = "https://torgi.gov.ru/new/public/lots/reg"

func newTestBase(fetcher PageFetcher) BaseCrawler {
	return BaseCrawler{
		BaseURL:   testBaseURL,
		CacheKey:  "ratelimit:torgi.gov.ru",
		CacheSvc:  NewMockCacheService(),
		BlockTime: time.Minute,
		Fetcher:   fetcher,
	}
}

func newTestPage(fetcher PageFetcher, url string) *Page {
	base := newTestBase(fetcher)
	return &Page{Number: 1, URL: url, base: &base}
}
