package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"MarketInsight/internal/model"
	"MarketInsight/internal/store"
)

// DefaultHistoryDays is returned by the history endpoint without ?days.
const DefaultHistoryDays = 90

func symbolParam(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/v1/stocks/:symbol
func (s *Server) analyze(c *gin.Context) {
	a, err := s.analytics.Analyze(c.Request.Context(), symbolParam(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// GET /api/v1/stocks/:symbol/forecast
func (s *Server) forecast(c *gin.Context) {
	f, err := s.analytics.Forecast(c.Request.Context(), symbolParam(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// GET /api/v1/stocks/:symbol/quote
func (s *Server) quote(c *gin.Context) {
	q, err := s.analytics.Quote(c.Request.Context(), symbolParam(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// GET /api/v1/stocks/:symbol/history?days=90
func (s *Server) history(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(DefaultHistoryDays)))
	if err != nil || days <= 0 {
		badRequest(c, "days must be a positive integer")
		return
	}
	series, err := s.analytics.History(c.Request.Context(), symbolParam(c), days)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// POST /api/v1/stocks/:symbol/refresh
func (s *Server) refresh(c *gin.Context) {
	symbol := symbolParam(c)
	if s.cache != nil {
		if err := s.cache.Invalidate(c.Request.Context(), symbol); err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "refreshed": s.cache != nil})
}

// GET /api/v1/compare?symbols=TCS,INFY
func (s *Server) compare(c *gin.Context) {
	var symbols []string
	for _, sym := range strings.Split(c.Query("symbols"), ",") {
		if sym = strings.ToUpper(strings.TrimSpace(sym)); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	if len(symbols) < 2 {
		badRequest(c, "at least 2 symbols are required")
		return
	}
	c.JSON(http.StatusOK, s.analytics.Compare(c.Request.Context(), symbols))
}

// GET /api/v1/screen?q=pharma
func (s *Server) screen(c *gin.Context) {
	title, rows := s.analytics.Screen(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"title": title, "results": rows})
}

// GET /api/v1/heatmap
func (s *Server) heatmap(c *gin.Context) {
	c.JSON(http.StatusOK, s.analytics.Heatmap(c.Request.Context()))
}

// GET /api/v1/heatmap/:sector
func (s *Server) sector(c *gin.Context) {
	sh, err := s.analytics.SectorDetail(c.Request.Context(), c.Param("sector"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// POST /api/v1/ask
func (s *Server) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "question is required")
		return
	}
	c.JSON(http.StatusOK, s.asker.Answer(c.Request.Context(), req.Question))
}

// GET /api/v1/portfolio
func (s *Server) portfolio(c *gin.Context) {
	positions, err := s.positions.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.analytics.ScorePortfolio(c.Request.Context(), positions))
}

type portfolioRequest struct {
	Positions []model.Position `json:"positions"`
}

// POST /api/v1/portfolio/analyze scores positions without storing them.
func (s *Server) analyzePortfolio(c *gin.Context) {
	var req portfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid portfolio: "+err.Error())
		return
	}
	for i, p := range req.Positions {
		np, err := store.Normalize(p)
		if err != nil {
			s.fail(c, err)
			return
		}
		req.Positions[i] = np
	}
	c.JSON(http.StatusOK, s.analytics.ScorePortfolio(c.Request.Context(), req.Positions))
}

// GET /api/v1/positions
func (s *Server) listPositions(c *gin.Context) {
	positions, err := s.positions.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, positions)
}

// GET /api/v1/positions/:symbol
func (s *Server) getPosition(c *gin.Context) {
	p, err := s.positions.Get(c.Request.Context(), symbolParam(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type positionRequest struct {
	Quantity    float64 `json:"quantity" binding:"gt=0"`
	AverageCost float64 `json:"avgPrice" binding:"gte=0"`
}

// PUT /api/v1/positions/:symbol
func (s *Server) putPosition(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid position: "+err.Error())
		return
	}
	p := model.Position{Symbol: symbolParam(c), Quantity: req.Quantity, AverageCost: req.AverageCost}
	if err := s.positions.Put(c.Request.Context(), p); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /api/v1/positions/:symbol
func (s *Server) deletePosition(c *gin.Context) {
	if err := s.positions.Delete(c.Request.Context(), symbolParam(c)); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/positions/:symbol/history
func (s *Server) positionHistory(c *gin.Context) {
	changes, err := s.positions.History(c.Request.Context(), symbolParam(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	if changes == nil {
		changes = []store.Change{}
	}
	c.JSON(http.StatusOK, changes)
}

