package services

import (
	"errors"
	"sort"

	"stockgrowth-api/internal/models"
)

// Selection failure reasons. These surface verbatim as per-ticker warnings.
var (
	ErrNoData        = errors.New("no data available for symbol")
	ErrNoOverlap     = errors.New("no overlapping data near requested dates")
	ErrNoValidPrices = errors.New("missing valid prices near requested dates")
)

// Selection holds the start and end points chosen within the available bars.
type Selection struct {
	StartIdx   int
	EndIdx     int
	StartDate  models.Date
	EndDate    models.Date
	StartPrice float64
	EndPrice   float64
	Count      int
}

// SelectEndpoints maps a requested [start, end] window onto the nearest
// usable bars. Precondition: bars are sorted ascending by date and
// deduplicated; providers guarantee this before handing data to the core.
//
// The start endpoint is the first bar on or after the start target, falling
// back to the most recent bar before it when the whole series predates the
// window. The end endpoint is the last bar on or before the end target,
// falling back to the first bar after it. From there the endpoints narrow
// inward past bars missing the chosen price field.
func SelectEndpoints(bars []models.PriceBar, field models.PriceField, start, end models.Date) (Selection, error) {
	n := len(bars)
	if n == 0 {
		return Selection{}, ErrNoData
	}

	sIdx := sort.Search(n, func(i int) bool {
		return !bars[i].Date.Before(start.Time)
	})
	if sIdx == n {
		// every bar predates the window; snap to the most recent one
		sIdx = n - 1
	}

	eIdx := sort.Search(n, func(i int) bool {
		return bars[i].Date.After(end.Time)
	}) - 1
	if eIdx < 0 {
		// every bar follows the window; snap to the earliest one
		eIdx = 0
	}

	if sIdx > eIdx {
		return Selection{Count: n}, ErrNoOverlap
	}

	for sIdx <= eIdx && bars[sIdx].Price(field) == nil {
		sIdx++
	}
	for eIdx >= sIdx && bars[eIdx].Price(field) == nil {
		eIdx--
	}
	if sIdx > eIdx {
		return Selection{Count: n}, ErrNoValidPrices
	}

	return Selection{
		StartIdx:   sIdx,
		EndIdx:     eIdx,
		StartDate:  bars[sIdx].Date,
		EndDate:    bars[eIdx].Date,
		StartPrice: *bars[sIdx].Price(field),
		EndPrice:   *bars[eIdx].Price(field),
		Count:      n,
	}, nil
}

// ComputeGrowth returns the percentage growth and absolute return between
// two prices. Both are nil when the start price is zero, since growth is
// undefined there.
func ComputeGrowth(startPrice, endPrice float64) (growthPct, absReturn *float64) {
	if startPrice == 0 {
		return nil, nil
	}
	abs := endPrice - startPrice
	pct := (abs / startPrice) * 100.0
	return &pct, &abs
}
