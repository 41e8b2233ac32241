package crawler

import (
	"context"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"lotwatch/torgiwatch/helpers"
	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/pkg/errors"
)

// Numbers decode as json.Number so large lot ids keep every digit
var json = jsoniter.Config{ //nolint:gochecknoglobals
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// APIStrategy queries the public search endpoint directly
type APIStrategy struct {
	Endpoint string
	PageSize int
}

// Name returns the strategy name
func (s *APIStrategy) Name() string {
	return StrategyAPI
}

// Extract maps every object of the response "content" list
func (s *APIStrategy) Extract(ctx context.Context, page *Page) ([]model.Lot, error) {
	body, err := page.Fetch(ctx, s.requestURL(page.Filter, page.Number))
	if err != nil {
		return nil, err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewParsing(StrategyAPI, "search response is not a JSON object", err)
	}

	content, ok := payload["content"].([]interface{})
	if !ok {
		return nil, nil
	}

	return mapObjects(content, page.Resolve), nil
}

// requestURL builds the search query for one page
func (s *APIStrategy) requestURL(filter model.Filter, number int) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(number))
	params.Set("size", strconv.Itoa(s.PageSize))
	params.Set("region", filter.Region)
	params.Set("status", filter.Status)
	params.Set("lotType", filter.LotType)
	params.Set("organizer", filter.Organizer)
	if filter.MinPrice != nil && *filter.MinPrice > 0 {
		params.Set("minPrice", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil && *filter.MaxPrice > 0 {
		params.Set("maxPrice", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	return helpers.WithQuery(s.Endpoint, params)
}

// mapObjects maps every JSON object in items, skipping anything else
func mapObjects(items []interface{}, resolve func(string) string) []model.Lot {
	var lots []model.Lot
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if lot := MapObject(obj, resolve); lot != nil {
			lots = append(lots, *lot)
		}
	}
	return lots
}
