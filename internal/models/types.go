package models

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD in JSON.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// PriceField selects which bar price drives the growth calculation.
type PriceField string

const (
	PriceFieldClose    PriceField = "close"
	PriceFieldAdjClose PriceField = "adj_close"
	PriceFieldOpen     PriceField = "open"
)

func (f PriceField) Valid() bool {
	switch f {
	case PriceFieldClose, PriceFieldAdjClose, PriceFieldOpen:
		return true
	}
	return false
}

// PriceBar is one day's OHLCV record for a symbol. Providers hand these
// to the core sorted ascending by date and deduplicated.
type PriceBar struct {
	Date     Date     `json:"date"`
	Open     *float64 `json:"open,omitempty"`
	High     *float64 `json:"high,omitempty"`
	Low      *float64 `json:"low,omitempty"`
	Close    *float64 `json:"close,omitempty"`
	AdjClose *float64 `json:"adj_close,omitempty"`
	Volume   *int64   `json:"volume,omitempty"`
}

// Price returns the bar's value for the given field, nil when absent.
func (b PriceBar) Price(field PriceField) *float64 {
	switch field {
	case PriceFieldAdjClose:
		return b.AdjClose
	case PriceFieldOpen:
		return b.Open
	default:
		return b.Close
	}
}

// AnalyzeRequest is the payload for POST /v1/analyze-growth. An empty
// tickers list switches the request into universe mode.
type AnalyzeRequest struct {
	Tickers      []string   `json:"tickers"`
	StartDate    Date       `json:"start_date"`
	EndDate      Date       `json:"end_date"`
	MinGrowthPct *float64   `json:"min_growth_pct"`
	MaxGrowthPct *float64   `json:"max_growth_pct"`
	Limit        int        `json:"limit"`
	PriceField   PriceField `json:"price_field"`
	Universe     string     `json:"universe"`
}

// GrowthResult is one ticker's outcome. GrowthPct is only set when both
// prices were found and the start price is non-zero.
type GrowthResult struct {
	Ticker             string   `json:"ticker"`
	ProviderSymbol     string   `json:"provider_symbol"`
	StartDateEffective *Date    `json:"start_date_effective,omitempty"`
	EndDateEffective   *Date    `json:"end_date_effective,omitempty"`
	StartPrice         *float64 `json:"start_price,omitempty"`
	EndPrice           *float64 `json:"end_price,omitempty"`
	GrowthPct          *float64 `json:"growth_pct,omitempty"`
	AbsReturn          *float64 `json:"abs_return,omitempty"`
	PointsCount        int      `json:"points_count"`
	Warning            string   `json:"warning,omitempty"`
}

// AnalyzeResponse carries the ranked results plus any degradation warnings.
type AnalyzeResponse struct {
	Results  []GrowthResult `json:"results"`
	Warnings []string       `json:"warnings"`
}

// ProviderInfo describes the active finance data provider.
type ProviderInfo struct {
	ActiveProvider string `json:"active_provider"`
	Notes          string `json:"notes"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
