package crawler

import (
	"strconv"
	"strings"

	"lotwatch/torgiwatch/internal/heuristics"
	"lotwatch/torgiwatch/internal/model"
)

// Alternative key names per field, most specific first
var (
	numberKeys    = []string{"id", "number"}
	titleKeys     = []string{"title", "name"}
	lotTypeKeys   = []string{"lotType", "type"}
	initialKeys   = []string{"initialPrice", "startPrice"}
	currentKeys   = []string{"currentPrice", "price"}
	currencyKeys  = []string{"currency"}
	regionKeys    = []string{"region", "regionName"}
	addressKeys   = []string{"address", "location"}
	deadlineKeys  = []string{"applicationDeadline", "deadline"}
	statusKeys    = []string{"status", "statusName"}
	organizerKeys = []string{"organizer", "organizerName"}
	urlKeys       = []string{"url", "link"}
)

// MapObject maps a JSON object from the search API or an inline script to a lot.
// It returns nil when no lot number can be resolved.
func MapObject(obj map[string]interface{}, resolve func(string) string) *model.Lot {
	title := stringField(obj, titleKeys)

	lotURL := stringField(obj, urlKeys)
	if lotURL != "" {
		lotURL = resolve(lotURL)
	}

	number := stringField(obj, numberKeys)
	if number == "" {
		number = heuristics.LotNumber(lotURL, title)
	}
	if number == "" {
		return nil
	}

	currency := stringField(obj, currencyKeys)
	if currency == "" {
		currency = model.DefaultCurrency
	}

	return &model.Lot{
		LotNumber:           number,
		Title:               title,
		LotType:             stringField(obj, lotTypeKeys),
		InitialPrice:        priceField(obj, initialKeys),
		CurrentPrice:        priceField(obj, currentKeys),
		Currency:            currency,
		Region:              stringField(obj, regionKeys),
		Address:             stringField(obj, addressKeys),
		ApplicationDeadline: stringField(obj, deadlineKeys),
		Status:              stringField(obj, statusKeys),
		Organizer:           stringField(obj, organizerKeys),
		LotURL:              lotURL,
	}
}

// firstValue returns the value of the first key that is present and not null
func firstValue(obj map[string]interface{}, keys []string) (interface{}, bool) {
	for _, key := range keys {
		if value, ok := obj[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func stringField(obj map[string]interface{}, keys []string) string {
	value, ok := firstValue(obj, keys)
	if !ok {
		return ""
	}
	return stringify(value)
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case interface{ String() string }:
		return v.String()
	case map[string]interface{}:
		// dictionary entries such as {"code": "77", "name": "Москва"}
		for _, key := range []string{"name", "title", "value"} {
			if s, ok := v[key].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func priceField(obj map[string]interface{}, keys []string) *float64 {
	value, ok := firstValue(obj, keys)
	if !ok {
		return nil
	}

	var price float64
	switch v := value.(type) {
	case float64:
		price = v
	case string:
		parsed, ok := heuristics.ParseAmount(v)
		if !ok {
			return nil
		}
		price = parsed
	case interface{ Float64() (float64, error) }:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		price = parsed
	default:
		return nil
	}

	if price <= 0 {
		return nil
	}
	return model.Float(price)
}
