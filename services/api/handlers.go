package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"strategy-lab/services/engine"
	"strategy-lab/services/metrics"
	"strategy-lab/services/options"
)

// Service wires the engines behind HTTP handlers.
type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Service) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	v1 := r.Group("/api/v1")
	v1.GET("/health", s.health)
	v1.POST("/backtest/equity", s.runEquity)
	v1.POST("/backtest/options", s.runOptions)
	return r
}

func (s *Service) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:             "ok",
		TradingDaysPerYear: metrics.DefaultTradingDaysPerYear,
	})
}

func (s *Service) runEquity(c *gin.Context) {
	var req EquityRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, EquityRunResponse{Error: ptr(ErrInvalidParams.withDetails(err.Error()))})
		return
	}
	strat, err := buildStrategy(req.Strategy)
	if err != nil {
		c.JSON(http.StatusBadRequest, EquityRunResponse{Error: ptr(ErrInvalidStrategy.withDetails(err.Error()))})
		return
	}
	bars, err := toBars(req.Bars)
	if err != nil {
		c.JSON(http.StatusBadRequest, EquityRunResponse{Error: ptr(ErrInvalidParams.withDetails(err.Error()))})
		return
	}
	if len(bars) == 0 {
		c.JSON(http.StatusBadRequest, EquityRunResponse{Error: ptr(ErrDataNotFound.withDetails("no bars supplied"))})
		return
	}

	eng := engine.New(toConfig(req.InitialCapital, req.Commission), s.logger)
	result, err := eng.Run(strat, bars)
	if err != nil {
		s.logger.Warn("equity backtest failed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, EquityRunResponse{Error: ptr(ErrExecutionFailed.withDetails(err.Error()))})
		return
	}
	c.JSON(http.StatusOK, EquityRunResponse{Result: result})
}

func (s *Service) runOptions(c *gin.Context) {
	var req OptionsRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, OptionsRunResponse{Error: ptr(ErrInvalidParams.withDetails(err.Error()))})
		return
	}
	strat, err := buildOptionsStrategy(req.Strategy)
	if err != nil {
		c.JSON(http.StatusBadRequest, OptionsRunResponse{Error: ptr(ErrInvalidStrategy.withDetails(err.Error()))})
		return
	}
	bars, err := toBars(req.Bars)
	if err != nil {
		c.JSON(http.StatusBadRequest, OptionsRunResponse{Error: ptr(ErrInvalidParams.withDetails(err.Error()))})
		return
	}
	if len(bars) == 0 {
		c.JSON(http.StatusBadRequest, OptionsRunResponse{Error: ptr(ErrDataNotFound.withDetails("no bars supplied"))})
		return
	}

	eng := options.New(toConfig(req.InitialCapital, req.Commission), req.RiskFreeRate, req.VolLookback, nil, s.logger)
	result, err := eng.Run(strat, bars)
	if err != nil {
		s.logger.Warn("options backtest failed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, OptionsRunResponse{Error: ptr(ErrExecutionFailed.withDetails(err.Error()))})
		return
	}
	c.JSON(http.StatusOK, OptionsRunResponse{Result: result})
}

func ptr(e APIError) *APIError { return &e }
