package crawler

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lotwatch/torgiwatch/internal/heuristics"
	"lotwatch/torgiwatch/internal/model"
)

// DetailFetcher enriches lots from their detail pages
type DetailFetcher struct {
	BaseCrawler
}

// NewDetailFetcher creates a detail fetcher sharing base's fetcher and rate limit guard
func NewDetailFetcher(base BaseCrawler) *DetailFetcher {
	return &DetailFetcher{BaseCrawler: base}
}

// FetchDetails loads lotURL and returns the details it recognizes. On failure
// the details are empty and the error is returned for logging.
func (d *DetailFetcher) FetchDetails(ctx context.Context, lotURL string) (model.Details, error) {
	body, err := d.fetchWithCache(ctx, lotURL)
	if err != nil {
		return model.Details{}, err
	}

	doc, err := d.createDocument(body)
	if err != nil {
		return model.Details{}, err
	}

	return ParseDetails(doc), nil
}

// ParseDetails scans info-like div, span and p elements for organizer,
// address and region text. The first match per field wins.
func ParseDetails(doc *goquery.Document) model.Details {
	var details model.Details

	doc.Find("div, span, p").Each(func(_ int, block *goquery.Selection) {
		class, _ := block.Attr("class")
		if !detailClassRe.MatchString(class) {
			return
		}

		content := text(block)
		lower := strings.ToLower(content)

		if details.Organizer == "" && strings.Contains(lower, "организатор") {
			details.Organizer = stripLabel(content, "Организатор")
		}
		if details.Address == "" && strings.Contains(lower, "адрес") {
			details.Address = stripLabel(content, "Адрес")
		}
		if details.Region == "" {
			if region, ok := heuristics.Region(content); ok {
				details.Region = region
			}
		}
	})

	return details
}

func stripLabel(content, label string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.ReplaceAll(content, label, ""), ":  "))
}
