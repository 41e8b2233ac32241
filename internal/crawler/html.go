package crawler

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"lotwatch/torgiwatch/internal/model"
)

// TableStrategy reads the first table of the listing, one lot per row
type TableStrategy struct{}

// Name returns the strategy name
func (s *TableStrategy) Name() string {
	return StrategyTable
}

// Extract skips the header row and rows without a link or with too few cells
func (s *TableStrategy) Extract(ctx context.Context, page *Page) ([]model.Lot, error) {
	doc, err := page.Document(ctx)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var lots []model.Lot
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}

		cells := row.Find("td")
		if cells.Length() < MinTableCells {
			return
		}

		link := row.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")

		ev := Evidence{
			Href:      href,
			Title:     text(link),
			Fragments: cells.Map(func(_ int, cell *goquery.Selection) string { return text(cell) }),
		}
		if lot := Normalize(ev, page.Resolve); lot != nil {
			lots = append(lots, *lot)
		}
	})

	return lots, nil
}

// CardStrategy reads containers whose class looks like a lot card
type CardStrategy struct{}

// Name returns the strategy name
func (s *CardStrategy) Name() string {
	return StrategyCard
}

// Extract turns every matching container into one lot. Containers that
// resolve to the same lot number keep the last record, which for nested
// wrappers is the innermost card.
func (s *CardStrategy) Extract(ctx context.Context, page *Page) ([]model.Lot, error) {
	doc, err := page.Document(ctx)
	if err != nil {
		return nil, err
	}

	cards := doc.Find("div, article, li").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return cardClassRe.MatchString(class)
	})

	var lots []model.Lot
	cards.Each(func(_ int, card *goquery.Selection) {
		ev := Evidence{}
		if link := card.Find("a[href]").First(); link.Length() > 0 {
			ev.Href, _ = link.Attr("href")
			ev.Title = text(link)
		}
		ev.Fragments = card.Find("span, div, p, td").Map(func(_ int, el *goquery.Selection) string {
			return text(el)
		})

		if lot := Normalize(ev, page.Resolve); lot != nil {
			lots = append(lots, *lot)
		}
	})

	return lastPerLotNumber(lots), nil
}

// lastPerLotNumber keeps the last record of each lot number at the position
// where the number first appeared
func lastPerLotNumber(lots []model.Lot) []model.Lot {
	last := lo.KeyBy(lots, func(lot model.Lot) string { return lot.LotNumber })
	numbers := lo.Uniq(lo.Map(lots, func(lot model.Lot, _ int) string { return lot.LotNumber }))
	return lo.Map(numbers, func(number string, _ int) model.Lot { return last[number] })
}

// InlineJSONStrategy reads lots embedded as a JSON array in the page
type InlineJSONStrategy struct{}

// Name returns the strategy name
func (s *InlineJSONStrategy) Name() string {
	return StrategyInlineJSON
}

// Extract maps the first application/json script holding a non-empty array
func (s *InlineJSONStrategy) Extract(ctx context.Context, page *Page) ([]model.Lot, error) {
	doc, err := page.Document(ctx)
	if err != nil {
		return nil, err
	}

	var lots []model.Lot
	doc.Find(`script[type="application/json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		var items []interface{}
		if err := json.Unmarshal([]byte(script.Text()), &items); err != nil {
			return true
		}
		lots = mapObjects(items, page.Resolve)
		return len(lots) == 0
	})

	return lots, nil
}
