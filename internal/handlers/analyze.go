package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"stockgrowth-api/internal/config"
	"stockgrowth-api/internal/models"
	"stockgrowth-api/internal/services"
)

const maxTickersPerRequest = 100

type AnalyzeHandler struct {
	cfg      *config.Config
	analyzer *services.GrowthAnalyzer
	logger   *zap.Logger
}

func NewAnalyzeHandler(cfg *config.Config, analyzer *services.GrowthAnalyzer, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   logger,
	}
}

// AnalyzeGrowth handles POST /v1/analyze-growth
func (h *AnalyzeHandler) AnalyzeGrowth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 60*time.Second)
	defer cancel()

	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err.Error())
	}

	applyDefaults(&req)
	if title, msg := validate(req); msg != "" {
		return badRequest(c, title, msg)
	}

	client, err := services.NewFinanceClient(h.cfg)
	if err != nil {
		h.logger.Error("finance client construction failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Provider configuration error",
			Message: err.Error(),
			Code:    fiber.StatusInternalServerError,
		})
	}

	resp, err := h.analyzer.Analyze(ctx, req, client)
	if err != nil {
		h.logger.Error("growth analysis failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to analyze growth",
			Message: err.Error(),
			Code:    fiber.StatusInternalServerError,
		})
	}

	return c.JSON(resp)
}

// GetProviders handles GET /v1/providers
func (h *AnalyzeHandler) GetProviders(c *fiber.Ctx) error {
	return c.JSON(services.ActiveProvider(h.cfg))
}

func applyDefaults(req *models.AnalyzeRequest) {
	if req.Limit == 0 {
		req.Limit = 10
	}
	if req.PriceField == "" {
		req.PriceField = models.PriceFieldClose
	}
	if req.Universe == "" {
		req.Universe = "NASDAQ"
	}
}

// validate returns an error title and detail message; an empty message
// means the request is acceptable. Runs before any core logic.
func validate(req models.AnalyzeRequest) (string, string) {
	if req.StartDate.IsZero() {
		return "start_date is required", "Provide start_date as YYYY-MM-DD"
	}
	if req.EndDate.IsZero() {
		return "end_date is required", "Provide end_date as YYYY-MM-DD"
	}
	if req.StartDate.After(req.EndDate.Time) {
		return "Invalid date range", "start_date must be less than or equal to end_date"
	}
	if req.Limit < 0 {
		return "Invalid limit", "limit must be a positive integer"
	}
	if len(req.Tickers) > maxTickersPerRequest {
		return "Too many tickers", "Maximum 100 tickers allowed per request"
	}
	if req.MinGrowthPct != nil && req.MaxGrowthPct != nil && *req.MinGrowthPct > *req.MaxGrowthPct {
		return "Invalid growth filters", "min_growth_pct cannot be greater than max_growth_pct"
	}
	if !req.PriceField.Valid() {
		return "Invalid price_field", "price_field must be one of close, adj_close, open"
	}
	return "", ""
}

func badRequest(c *fiber.Ctx, errMsg, detail string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error:   errMsg,
		Message: detail,
		Code:    fiber.StatusBadRequest,
	})
}

// CustomErrorHandler handles Fiber errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}
