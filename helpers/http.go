package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"golang.org/x/net/html/charset"

	"lotwatch/torgiwatch/pkg/errors"
)

// HTTP header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	}
)

// DefaultUserAgent is the identifying header used by the headless browser
var DefaultUserAgent = userAgents[0]

// Fetcher performs GET requests with browser-like headers and returns UTF-8 bodies
type Fetcher struct {
	client *http.Client

	mu  sync.Mutex
	rnd *mathrand.Rand
}

// NewFetcher creates a fetcher whose requests are bounded by timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		rnd:    mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

func (f *Fetcher) userAgent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return userAgents[f.rnd.Intn(len(userAgents))]
}

// Get sends an HTTP GET request with browser-like headers,
// converts the response body to UTF-8 (if needed), and returns it.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	source := hostOf(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.NewNetwork(source, "failed to create request", err)
	}

	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.NewNetwork(source, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return nil, errors.NewRateLimit(source, resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetwork(source, fmt.Sprintf("fetch %s unexpected status code: %d", rawURL, resp.StatusCode), nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetwork(source, "failed to read response body", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if name == "utf-8" || name == "UTF-8" {
		return bodyBytes, nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))); err != nil {
		return nil, errors.NewParsing(source, "failed to convert body to UTF-8", err)
	}

	return buf.Bytes(), nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
