package crawler

import (
	"net/url"

	"lotwatch/torgiwatch/config"
	"lotwatch/torgiwatch/helpers"
	"lotwatch/torgiwatch/services/cache"
)

// NewBase creates the shared fetch plumbing for the configured source
func NewBase(cfg *config.Config, cacheSvc cache.CacheService) BaseCrawler {
	host := cfg.BaseURL
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	return BaseCrawler{
		BaseURL:   cfg.BaseURL,
		CacheKey:  "ratelimit:" + host,
		CacheSvc:  cacheSvc,
		BlockTime: cfg.RateLimitBlock,
		Fetcher:   helpers.NewFetcher(cfg.HTTPTimeout),
	}
}

// CreateStrategies returns the strategies in the order they are tried:
// API, table, card, inline JSON, rendered DOM
func CreateStrategies(cfg *config.Config) []Strategy {
	strategies := []Strategy{
		&APIStrategy{Endpoint: cfg.APIURL, PageSize: cfg.APIPageSize},
		&TableStrategy{},
		&CardStrategy{},
		&InlineJSONStrategy{},
	}

	if cfg.RenderEnabled {
		strategies = append(strategies, &RenderedStrategy{
			Renderer: &ChromeRenderer{
				Wait:      cfg.RenderWait,
				ExecPath:  cfg.ChromePath,
				UserAgent: helpers.DefaultUserAgent,
			},
		})
	}

	return strategies
}

// CreateCascade wires the configured cascade and detail fetcher over one base
func CreateCascade(cfg *config.Config, cacheSvc cache.CacheService) (*Cascade, *DetailFetcher) {
	base := NewBase(cfg, cacheSvc)
	return NewCascade(base, CreateStrategies(cfg)...), NewDetailFetcher(base)
}
