package crawler

import (
	"context"
	"net/url"
	"strconv"

	"lotwatch/torgiwatch/helpers"
	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/logger"
	"lotwatch/torgiwatch/pkg/metrics"
)

// Cascade tries its strategies in order on one listing page and keeps the
// first non-empty result
type Cascade struct {
	BaseCrawler
	strategies []Strategy
}

// NewCascade creates a cascade over base trying strategies in the given order
func NewCascade(base BaseCrawler, strategies ...Strategy) *Cascade {
	return &Cascade{
		BaseCrawler: base,
		strategies:  strategies,
	}
}

// StrategyNames lists the strategies in the order they are tried
func (c *Cascade) StrategyNames() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}

// FetchPage returns the lots of one listing page. Strategy failures are
// logged and the next strategy is tried; a page no strategy can read is empty.
func (c *Cascade) FetchPage(ctx context.Context, filter model.Filter, number int) []model.Lot {
	page := &Page{
		Number: number,
		Filter: filter,
		URL:    c.listingURL(filter, number),
		base:   &c.BaseCrawler,
	}

	for _, s := range c.strategies {
		if ctx.Err() != nil {
			return nil
		}

		log := logger.ForStrategy(s.Name())
		lots, err := s.Extract(ctx, page)
		if err != nil {
			metrics.StrategyFailures.WithLabelValues(s.Name()).Inc()
			log.Warn().Err(err).Int("page", number).Msg("Strategy failed")
			continue
		}
		if len(lots) == 0 {
			log.Debug().Int("page", number).Msg("Strategy found no lots")
			continue
		}

		metrics.StrategyHits.WithLabelValues(s.Name()).Inc()
		log.Info().Int("page", number).Int("lots", len(lots)).Msg("Strategy produced lots")
		return lots
	}

	logger.Info("No strategy produced lots on page %d", number)
	return nil
}

// listingURL builds the HTML listing URL; page 1 carries no page parameter
func (c *Cascade) listingURL(filter model.Filter, number int) string {
	params := url.Values{}
	params.Set("region", filter.Region)
	params.Set("status", filter.Status)
	params.Set("lot_type", filter.LotType)
	params.Set("organizer", filter.Organizer)
	if number > 1 {
		params.Set("page", strconv.Itoa(number))
	}
	return helpers.WithQuery(c.BaseURL, params)
}
