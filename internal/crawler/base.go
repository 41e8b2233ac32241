package crawler

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"lotwatch/torgiwatch/helpers"
	"lotwatch/torgiwatch/pkg/errors"
	"lotwatch/torgiwatch/services/cache"
)

// BaseCrawler provides the fetch and parse plumbing shared by the cascade and the detail fetcher
type BaseCrawler struct {
	BaseURL   string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Fetcher   PageFetcher
}

// fetchWithCache fetches a URL unless the source is blocked after a rate limit response
func (c *BaseCrawler) fetchWithCache(ctx context.Context, rawURL string) ([]byte, error) {
	// Check if the source is rate limited
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			return nil, errors.NewRateLimit(c.CacheKey,
				fmt.Sprintf("%ds, requests suspended", int(c.BlockTime/time.Second)))
		}
	}

	body, err := c.Fetcher.Get(ctx, rawURL)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeRateLimit) && c.CacheSvc != nil && c.CacheKey != "" {
			// Set rate limiting cache
			if setErr := c.CacheSvc.Set(c.CacheKey, []byte(fmt.Sprintf("%d", c.BlockTime/time.Second)), c.BlockTime); setErr != nil {
				return nil, errors.NewCache(c.CacheKey, "failed to store rate limit block", setErr)
			}
		}
		return nil, err
	}

	return body, nil
}

// createDocument creates a goquery document from a body
func (c *BaseCrawler) createDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewParsing(c.CacheKey, "HTML parse error", err)
	}
	return doc, nil
}

// resolveURL resolves href against the crawler base URL
func (c *BaseCrawler) resolveURL(href string) string {
	return helpers.ResolveURL(c.BaseURL, href)
}

// text returns the trimmed text of a selection
func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
