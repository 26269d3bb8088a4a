package services

import (
	"context"
	"fmt"

	"stockgrowth-api/internal/config"
	"stockgrowth-api/internal/models"
	"stockgrowth-api/pkg/alphavantage"
	"stockgrowth-api/pkg/stooq"
)

// FinanceClient fetches historical daily bars for a ticker. Implementations
// must return bars sorted ascending by date and deduplicated by date.
type FinanceClient interface {
	// SymbolForProvider maps a user-provided ticker to the provider symbol.
	SymbolForProvider(ticker string) string
	// GetDailyBars fetches daily bars for symbol within [start, end] inclusive.
	GetDailyBars(ctx context.Context, symbol string, start, end models.Date) ([]models.PriceBar, error)
}

// NewFinanceClient builds the client selected by FINANCE_API_PROVIDER.
// Providers that require a credential fail here, which callers surface as a
// request-level server error.
func NewFinanceClient(cfg *config.Config) (FinanceClient, error) {
	switch cfg.FinanceProvider {
	case config.ProviderAlphaVantage:
		if cfg.FinanceAPIKey == "" {
			return nil, fmt.Errorf("provider %s requires FINANCE_API_KEY", cfg.FinanceProvider)
		}
		return alphavantage.NewClient(cfg.FinanceAPIKey, cfg.FinanceBaseURL), nil
	case config.ProviderStooq, "":
		return stooq.NewClient(cfg.FinanceBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown finance provider %q", cfg.FinanceProvider)
	}
}

// ActiveProvider reports the configured provider for the read-only
// providers endpoint.
func ActiveProvider(cfg *config.Config) models.ProviderInfo {
	provider := cfg.FinanceProvider
	if provider == "" {
		provider = config.ProviderStooq
	}
	notes := "Default provider (no API key required)"
	if provider != config.ProviderStooq {
		notes = "Requires API key"
	}
	return models.ProviderInfo{ActiveProvider: provider, Notes: notes}
}
