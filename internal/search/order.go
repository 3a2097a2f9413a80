package search

import (
	"fmt"
	"strings"
)

// SortKey is the client-facing sort_by value.
type SortKey string

const (
	SortLatest     SortKey = "latest"
	SortPopularity SortKey = "popularity"
	SortRelevance  SortKey = "relevance"
)

var SortKeys = []SortKey{SortLatest, SortPopularity, SortRelevance}

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.TrimSpace(s)) {
	case "", SortLatest:
		return SortLatest, nil
	case SortPopularity:
		return SortPopularity, nil
	case SortRelevance:
		return SortRelevance, nil
	default:
		return "", fmt.Errorf("invalid sort key: %q", s)
	}
}

// Order is the ordering a repository actually executes.
type Order string

const (
	// OrderLatest is published_at DESC.
	OrderLatest Order = "latest"
	// OrderPopularity is popularity_score DESC, published_at DESC.
	OrderPopularity Order = "popularity"
	// OrderRelevance is text score DESC, then OrderPopularity.
	OrderRelevance Order = "relevance"
)

// ListOrder resolves sort_by for the CRUD listing. relevance has never had
// its own scoring there and orders by popularity.
func ListOrder(k SortKey) Order {
	switch k {
	case SortPopularity, SortRelevance:
		return OrderPopularity
	default:
		return OrderLatest
	}
}

// SearchOrder resolves sort_by for the search endpoint. relevance only
// applies with a query; without one it falls back to latest. With scoring
// disabled relevance aliases popularity.
func SearchOrder(k SortKey, query string, scoring bool) Order {
	switch k {
	case SortPopularity:
		return OrderPopularity
	case SortRelevance:
		if strings.TrimSpace(query) == "" {
			return OrderLatest
		}
		if scoring {
			return OrderRelevance
		}
		return OrderPopularity
	default:
		return OrderLatest
	}
}
