package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

type pageParams struct {
	Limit  int
	Offset int
}

// parsePage reads limit and offset from the query string. limit defaults to
// 50 and is capped at 100; offset defaults to 0. Non-numeric or negative
// values are a validation error, an oversized limit is just clamped.
func parsePage(query url.Values) (pageParams, error) {
	page := pageParams{Limit: defaultPageLimit}

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return pageParams{}, fmt.Errorf("limit must be a positive integer")
		}
		page.Limit = parsed
	}
	if page.Limit > maxPageLimit {
		page.Limit = maxPageLimit
	}

	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return pageParams{}, fmt.Errorf("offset must be a non-negative integer")
		}
		page.Offset = parsed
	}

	return page, nil
}

func parseBoolParam(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean")
	}
	return &parsed, nil
}
