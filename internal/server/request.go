package server

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals

// readFilter decodes and validates a filter configuration body
func readFilter(r *http.Request) (model.Filter, error) {
	var filter model.Filter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		return model.Filter{}, errors.NewValidation("filters", fmt.Sprintf("invalid JSON: %v", err))
	}

	if err := validate.StructCtx(r.Context(), filter); err != nil {
		return model.Filter{}, errors.NewValidation("filters", err.Error())
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return model.Filter{}, errors.NewValidation("filters", "min_price must not exceed max_price")
	}

	return filter, nil
}

// listQuery reads the region and status query parameters
func listQuery(r *http.Request) model.ListQuery {
	return model.ListQuery{
		Region: r.URL.Query().Get("region"),
		Status: r.URL.Query().Get("status"),
	}
}
