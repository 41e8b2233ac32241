// Package heuristics recognizes lot fields inside arbitrary text fragments.
//
// Every recognizer is pure: it looks at one fragment and either returns a
// value or reports no match. How matches are combined is up to the caller.
package heuristics

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxTitleKey is the number of title runes used as a lot number when the URL has none.
const MaxTitleKey = 50

var (
	dateRe       = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
	lotNumberRe  = regexp.MustCompile(`\d{6,}`)
	priceCharsRe = regexp.MustCompile(`[^\d,.]`)
	rubleAmount  = regexp.MustCompile(`([0-9][0-9\s\x{00A0}\x{202F}]{2,})\s*₽`)
	amountSpaces = regexp.MustCompile(`[\s\x{00A0}\x{202F}]`)
	digitRe      = regexp.MustCompile(`\d`)

	regionKeywords = []string{"край", "область", "республика", "округ"}
	statusKeywords = []string{"прием", "заявок", "публикац", "закрыт", "отменен", "проведен"}
)

// HasCurrency reports whether text carries a ruble marker.
func HasCurrency(text string) bool {
	if strings.Contains(text, "₽") {
		return true
	}
	lower := strings.ToLower(text)
	return strings.Contains(lower, "руб") || strings.Contains(lower, "rub")
}

// ParseAmount keeps digits, commas and periods, treats the comma as the
// decimal separator and parses the rest. It does not require a currency marker.
func ParseAmount(text string) (float64, bool) {
	cleaned := priceCharsRe.ReplaceAllString(text, "")
	if !digitRe.MatchString(cleaned) {
		return 0, false
	}
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Price recognizes an amount in a fragment that carries a currency marker.
func Price(text string) (float64, bool) {
	if !HasCurrency(text) {
		return 0, false
	}
	return ParseAmount(text)
}

// Prices returns every "digits ₽" amount in text, in order of appearance.
func Prices(text string) []float64 {
	var prices []float64
	for _, m := range rubleAmount.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(amountSpaces.ReplaceAllString(m[1], ""), 64)
		if err != nil {
			continue
		}
		prices = append(prices, value)
	}
	return prices
}

// Date returns the first DD.MM.YYYY substring. The calendar is not checked.
func Date(text string) (string, bool) {
	date := dateRe.FindString(text)
	return date, date != ""
}

// Region returns the whole fragment when it names a region-class noun.
func Region(text string) (string, bool) {
	return keywordFragment(text, regionKeywords)
}

// Status returns the whole fragment when it contains a status keyword.
func Status(text string) (string, bool) {
	return keywordFragment(text, statusKeywords)
}

func keywordFragment(text string, keywords []string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return trimmed, true
		}
	}
	return "", false
}

// LotNumber takes the first run of six or more digits in lotURL, then falls
// back to the first 50 runes of the title. Empty means the record has no identity.
func LotNumber(lotURL, title string) string {
	if digits := lotNumberRe.FindString(lotURL); digits != "" {
		return digits
	}
	return TitleKey(title)
}

// TitleKey truncates a trimmed title to MaxTitleKey runes.
func TitleKey(title string) string {
	runes := []rune(strings.TrimSpace(title))
	if len(runes) > MaxTitleKey {
		runes = runes[:MaxTitleKey]
	}
	return string(runes)
}
