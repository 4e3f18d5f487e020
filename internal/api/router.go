package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires the routes onto a gin engine.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.logger))

	r.GET("/healthz", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/ask", s.ask)

		v1.GET("/stocks/:symbol", s.analyze)
		v1.GET("/stocks/:symbol/forecast", s.forecast)
		v1.GET("/stocks/:symbol/quote", s.quote)
		v1.GET("/stocks/:symbol/history", s.history)
		v1.POST("/stocks/:symbol/refresh", s.refresh)

		v1.GET("/compare", s.compare)
		v1.GET("/screen", s.screen)
		v1.GET("/heatmap", s.heatmap)
		v1.GET("/heatmap/:sector", s.sector)

		v1.GET("/portfolio", s.portfolio)
		v1.POST("/portfolio/analyze", s.analyzePortfolio)

		v1.GET("/positions", s.listPositions)
		v1.GET("/positions/:symbol", s.getPosition)
		v1.PUT("/positions/:symbol", s.putPosition)
		v1.DELETE("/positions/:symbol", s.deletePosition)
		v1.GET("/positions/:symbol/history", s.positionHistory)
	}
	return r
}
