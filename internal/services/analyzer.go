package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"stockgrowth-api/internal/config"
	"stockgrowth-api/internal/models"
)

const emptyResultsWarning = "No results after snapping to available data; " +
	"the requested range may contain no trading days or the provider may lack coverage"

// GrowthAnalyzer runs the per-ticker growth pipeline: fetch, endpoint
// selection, growth computation, then filter/sort/limit over the batch.
type GrowthAnalyzer struct {
	cfg       *config.Config
	universes *UniverseResolver
	logger    *zap.Logger
	workers   chan struct{} // semaphore for bounded concurrency
}

func NewGrowthAnalyzer(cfg *config.Config, universes *UniverseResolver, logger *zap.Logger) *GrowthAnalyzer {
	return &GrowthAnalyzer{
		cfg:       cfg,
		universes: universes,
		logger:    logger,
		workers:   make(chan struct{}, cfg.MaxConcurrentFetches),
	}
}

type tickerOutcome struct {
	result  models.GrowthResult
	warning string
}

// Analyze computes growth results for the request. Per-ticker failures are
// downgraded to warnings and never abort the batch.
func (a *GrowthAnalyzer) Analyze(ctx context.Context, req models.AnalyzeRequest, client FinanceClient) (*models.AnalyzeResponse, error) {
	tickers := make([]string, 0, len(req.Tickers))
	for _, t := range req.Tickers {
		if s := strings.TrimSpace(t); s != "" {
			tickers = append(tickers, s)
		}
	}

	universeMode := len(tickers) == 0
	var globalWarnings []string

	if universeMode {
		symbols, warn := a.universes.Resolve(req.Universe)
		if warn != "" {
			return &models.AnalyzeResponse{
				Results:  []models.GrowthResult{},
				Warnings: []string{warn},
			}, nil
		}
		tickers = symbols
		// top-movers path: growth range filters do not apply
		req.MinGrowthPct = nil
		req.MaxGrowthPct = nil
	}

	outcomes := make([]tickerOutcome, len(tickers))
	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(idx int, symbol string) {
			defer wg.Done()

			// acquire worker slot (bounded concurrency)
			a.workers <- struct{}{}
			defer func() { <-a.workers }()

			outcomes[idx] = a.analyzeTicker(ctx, symbol, req, client)
		}(i, ticker)
	}
	wg.Wait()

	// warnings keyed by original ticker order, not completion order
	results := make([]models.GrowthResult, 0, len(outcomes))
	for _, o := range outcomes {
		results = append(results, o.result)
		if o.warning != "" {
			globalWarnings = append(globalWarnings, o.warning)
		}
	}

	ranked := rankResults(results, req.MinGrowthPct, req.MaxGrowthPct, req.Limit)
	if len(tickers) > 0 && len(ranked) == 0 {
		globalWarnings = append(globalWarnings, emptyResultsWarning)
	}
	if globalWarnings == nil {
		globalWarnings = []string{}
	}

	return &models.AnalyzeResponse{Results: ranked, Warnings: globalWarnings}, nil
}

func (a *GrowthAnalyzer) analyzeTicker(ctx context.Context, ticker string, req models.AnalyzeRequest, client FinanceClient) tickerOutcome {
	providerSymbol := client.SymbolForProvider(ticker)

	fetchCtx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	bars, err := client.GetDailyBars(fetchCtx, providerSymbol, req.StartDate, req.EndDate)
	if err != nil {
		a.logger.Warn("fetch failed", zap.String("ticker", ticker), zap.Error(err))
		return tickerOutcome{
			result: models.GrowthResult{
				Ticker:         ticker,
				ProviderSymbol: providerSymbol,
				Warning:        "Fetch error",
			},
			warning: fmt.Sprintf("%s: fetch error - %v", ticker, err),
		}
	}

	sel, err := SelectEndpoints(bars, req.PriceField, req.StartDate, req.EndDate)
	if err != nil {
		return tickerOutcome{
			result: models.GrowthResult{
				Ticker:         ticker,
				ProviderSymbol: providerSymbol,
				PointsCount:    sel.Count,
				Warning:        err.Error(),
			},
			warning: fmt.Sprintf("%s: %s", ticker, err.Error()),
		}
	}

	result := models.GrowthResult{
		Ticker:             ticker,
		ProviderSymbol:     providerSymbol,
		StartDateEffective: &sel.StartDate,
		EndDateEffective:   &sel.EndDate,
		StartPrice:         &sel.StartPrice,
		EndPrice:           &sel.EndPrice,
		PointsCount:        sel.Count,
	}

	growthPct, absReturn := ComputeGrowth(sel.StartPrice, sel.EndPrice)
	if growthPct == nil {
		result.Warning = "start price is zero, growth undefined"
		return tickerOutcome{
			result:  result,
			warning: fmt.Sprintf("%s: start price is zero, growth undefined", ticker),
		}
	}
	result.GrowthPct = growthPct
	result.AbsReturn = absReturn
	return tickerOutcome{result: result}
}

// rankResults drops results without a computed growth, applies the inclusive
// growth range filters, sorts by growth descending (stable, no secondary
// key) and truncates to limit.
func rankResults(results []models.GrowthResult, minPct, maxPct *float64, limit int) []models.GrowthResult {
	filtered := make([]models.GrowthResult, 0, len(results))
	for _, r := range results {
		if r.GrowthPct == nil {
			continue
		}
		if minPct != nil && *r.GrowthPct < *minPct {
			continue
		}
		if maxPct != nil && *r.GrowthPct > *maxPct {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return *filtered[i].GrowthPct > *filtered[j].GrowthPct
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}
