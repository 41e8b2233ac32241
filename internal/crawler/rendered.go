package crawler

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"golang.org/x/net/html"

	"lotwatch/torgiwatch/internal/heuristics"
	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/pkg/errors"
)

// RenderedStrategy drives a headless browser when the static page carries no lots
type RenderedStrategy struct {
	Renderer Renderer
}

// Name returns the strategy name
func (s *RenderedStrategy) Name() string {
	return StrategyRendered
}

// Extract reads lot anchors from the rendered DOM together with the text of
// their nearest article, li or div ancestor
func (s *RenderedStrategy) Extract(ctx context.Context, page *Page) ([]model.Lot, error) {
	rendered, err := s.Renderer.Render(ctx, page.URL, LotAnchorSelector)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil, errors.NewParsing(StrategyRendered, "rendered DOM parse error", err)
	}

	seen := make(map[string]struct{})
	var lots []model.Lot
	doc.Find(LotAnchorSelector).Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}

		container := anchor.ParentsFiltered("article, li, div").First()
		if container.Length() == 0 {
			container = anchor
		}
		lines := textLines(container)

		lot := Normalize(Evidence{Href: href, Title: text(anchor), Fragments: lines}, page.Resolve)
		if lot == nil {
			return
		}
		if lot.Title == "" {
			lot.Title = lot.LotNumber
		}

		// amounts may be split across inline elements, so read them from the whole container
		if prices := heuristics.Prices(strings.Join(lines, "\n")); len(prices) > 0 {
			lot.InitialPrice = model.Float(prices[0])
			lot.CurrentPrice = nil
			if len(prices) > 1 {
				lot.CurrentPrice = model.Float(prices[1])
			}
		}

		lots = append(lots, *lot)
	})

	return lots, nil
}

// textLines returns the non-empty text nodes under s in document order
func textLines(s *goquery.Selection) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if line := strings.TrimSpace(n.Data); line != "" {
				lines = append(lines, line)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return lines
}

// ChromeRenderer renders pages with a local headless Chrome through chromedp
type ChromeRenderer struct {
	Wait      time.Duration
	ExecPath  string
	UserAgent string
}

// Render navigates to rawURL and returns the document HTML once waitSelector is present
func (r *ChromeRenderer) Render(ctx context.Context, rawURL, waitSelector string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(r.UserAgent),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	waitCtx, cancelWait := context.WithTimeout(browserCtx, r.Wait)
	defer cancelWait()

	var document string
	err := chromedp.Run(waitCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &document, chromedp.ByQuery),
	)
	if err != nil {
		return "", errors.NewBrowser(StrategyRendered, "no lot anchors rendered within "+r.Wait.String(), err)
	}

	return document, nil
}
