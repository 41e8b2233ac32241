package crawler

import (
	"strings"

	"lotwatch/torgiwatch/internal/heuristics"
	"lotwatch/torgiwatch/internal/model"
)

// Normalize assembles one lot from raw evidence. Scalar fields take the first
// matching fragment; the first two prices become initial and current price.
// It returns nil when no lot number can be resolved.
func Normalize(ev Evidence, resolve func(string) string) *model.Lot {
	lotURL := ""
	if ev.Href != "" {
		lotURL = resolve(ev.Href)
	}
	title := strings.TrimSpace(ev.Title)

	number := heuristics.LotNumber(lotURL, title)
	if number == "" {
		return nil
	}

	lot := &model.Lot{
		LotNumber: number,
		Title:     title,
		Currency:  model.DefaultCurrency,
		LotURL:    lotURL,
	}

	prices := 0
	for _, fragment := range ev.Fragments {
		if prices < 2 {
			if price, ok := heuristics.Price(fragment); ok && price > 0 {
				if prices == 0 {
					lot.InitialPrice = model.Float(price)
				} else {
					lot.CurrentPrice = model.Float(price)
				}
				prices++
			}
		}
		if lot.ApplicationDeadline == "" {
			if date, ok := heuristics.Date(fragment); ok {
				lot.ApplicationDeadline = date
			}
		}
		if lot.Region == "" {
			if region, ok := heuristics.Region(fragment); ok {
				lot.Region = region
			}
		}
		if lot.Status == "" {
			if status, ok := heuristics.Status(fragment); ok {
				lot.Status = status
			}
		}
	}

	return lot
}
