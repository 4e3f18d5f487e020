// Package api exposes the analytics operations over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"MarketInsight/internal/analysis"
	"MarketInsight/internal/collector"
	"MarketInsight/internal/common"
	"MarketInsight/internal/model"
	"MarketInsight/internal/store"
)

// Analytics is the analysis surface the handlers call.
type Analytics interface {
	Analyze(ctx context.Context, symbol string) (*model.StockAnalysis, error)
	Forecast(ctx context.Context, symbol string) (model.Forecast, error)
	Quote(ctx context.Context, symbol string) (*model.Quote, error)
	History(ctx context.Context, symbol string, days int) (*model.PriceSeries, error)
	ScorePortfolio(ctx context.Context, positions []model.Position) model.PortfolioReport
	Compare(ctx context.Context, symbols []string) model.Comparison
	Screen(ctx context.Context, query string) (string, []model.ScreenResult)
	Heatmap(ctx context.Context) model.Heatmap
	SectorDetail(ctx context.Context, name string) (model.SectorHeat, error)
}

// Asker answers free-text questions.
type Asker interface {
	Answer(ctx context.Context, text string) model.Envelope
}

// Invalidator drops cached market data for a symbol.
type Invalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server holds the handler dependencies. Cache may be nil.
type Server struct {
	analytics Analytics
	asker     Asker
	positions store.Store
	cache     Invalidator
	logger    *common.Logger
}

// NewServer creates a Server.
func NewServer(analytics Analytics, asker Asker, positions store.Store, cache Invalidator, logger *common.Logger) *Server {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Server{analytics: analytics, asker: asker, positions: positions, cache: cache, logger: logger}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var verr validator.ValidationErrors
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, analysis.ErrUnknownSector):
		return http.StatusNotFound
	case errors.Is(err, collector.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		requestLogger(c, s.logger).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
