package crawler

import (
	"context"
	"time"

	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/logger"
)

// PageSource yields the lots of one listing page
type PageSource interface {
	FetchPage(ctx context.Context, filter model.Filter, number int) []model.Lot
}

// Paginator walks listing pages 1..N with a fixed pause between fetches
type Paginator struct {
	Source PageSource
	Delay  time.Duration
}

// FetchAll collects lots from pages 1..maxPages and stops at the first empty page
func (p *Paginator) FetchAll(ctx context.Context, filter model.Filter, maxPages int) []model.Lot {
	var all []model.Lot

	for number := 1; number <= maxPages; number++ {
		lots := p.Source.FetchPage(ctx, filter, number)
		if len(lots) == 0 {
			logger.Debug("Page %d is empty, stopping pagination", number)
			break
		}
		all = append(all, lots...)

		if number < maxPages && !p.pause(ctx) {
			break
		}
	}

	return all
}

// pause waits for Delay and reports false when ctx ends first
func (p *Paginator) pause(ctx context.Context) bool {
	if p.Delay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
