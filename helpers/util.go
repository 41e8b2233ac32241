package helpers

import (
	"net/url"
	"strings"
)

// ResolveURL resolves href against base. Absolute hrefs are returned unchanged
// and an unparsable base leaves href as is.
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return ref.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// WithQuery appends non-empty params to base
func WithQuery(base string, params url.Values) string {
	for key, values := range params {
		if len(values) == 0 || values[0] == "" {
			params.Del(key)
		}
	}
	if len(params) == 0 {
		return base
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + params.Encode()
}
