package crawler

import (
	"context"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"lotwatch/torgiwatch/internal/model"
)

// Strategy names, in cascade order
const (
	StrategyAPI        = "api"
	StrategyTable      = "table"
	StrategyCard       = "card"
	StrategyInlineJSON = "inline_json"
	StrategyRendered   = "rendered_dom"
)

// LotAnchorSelector matches links to lot detail pages on the rendered site
const LotAnchorSelector = `a[href*="/new/public/lots/lot/"]`

// MinTableCells is the number of cells a table row needs to count as a lot
const MinTableCells = 5

var (
	cardClassRe   = regexp.MustCompile(`(?i)lot|card|item|row`)
	detailClassRe = regexp.MustCompile(`info|data|field|value`)
)

// Strategy is one extraction method in the cascade.
// Extract returns zero or more lots for the page, or an error the cascade logs before moving on.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, page *Page) ([]model.Lot, error)
}

// PageFetcher performs a GET and returns a UTF-8 body
type PageFetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Renderer loads a URL in a real browser engine and returns the DOM once
// waitSelector matches, or fails when it does not match in time.
type Renderer interface {
	Render(ctx context.Context, rawURL, waitSelector string) (string, error)
}

// Evidence is the raw text attributed to one row, card or container
type Evidence struct {
	Href      string
	Title     string
	Fragments []string
}

// Page is one listing page as seen by every strategy in the cascade.
// The HTML document is fetched at most once and shared.
type Page struct {
	Number int
	Filter model.Filter
	URL    string

	base   *BaseCrawler
	doc    *goquery.Document
	docErr error
	loaded bool
}

// Document fetches and parses the listing page on first use
func (p *Page) Document(ctx context.Context) (*goquery.Document, error) {
	if !p.loaded {
		p.loaded = true
		body, err := p.base.fetchWithCache(ctx, p.URL)
		if err != nil {
			p.docErr = err
		} else {
			p.doc, p.docErr = p.base.createDocument(body)
		}
	}
	return p.doc, p.docErr
}

// Fetch performs a rate-limit guarded GET
func (p *Page) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return p.base.fetchWithCache(ctx, rawURL)
}

// Resolve turns a relative href into an absolute URL against the listing base
func (p *Page) Resolve(href string) string {
	return p.base.resolveURL(href)
}
