package api

import (
	"encoding/json"
	"fmt"
	"time"

	models "FinSight/internal/domain/models"
	icache "FinSight/internal/service/cache"
	smetrics "FinSight/internal/service/metrics"
	"FinSight/internal/trends"
	"FinSight/internal/usecase"
	xhttp "FinSight/pkg/http"
	xlogger "FinSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScoresEchoHandler serves the score history and trend queries the dashboard
// reads, plus the batch refresh trigger.
type ScoresEchoHandler struct {
	logger   *xlogger.Logger
	analyzer *trends.Analyzer
	jobs     usecase.RefreshEnqueuer
	cache    icache.BytesCache
	cacheTTL time.Duration
}

func NewScoresEchoHandler(logger *xlogger.Logger, analyzer *trends.Analyzer, jobs usecase.RefreshEnqueuer, cache icache.BytesCache, cacheTTL time.Duration) *ScoresEchoHandler {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	smetrics.Register()
	return &ScoresEchoHandler{logger: logger, analyzer: analyzer, jobs: jobs, cache: cache, cacheTTL: cacheTTL}
}

func (h *ScoresEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/scores/:ticker", h.History)
	g.GET("/trends/improving", h.Improving)
	g.GET("/trends/declining", h.Declining)
	g.GET("/trends/consistent", h.Consistent)
	g.GET("/trends/turnarounds", h.Turnarounds)
	g.GET("/trends/:ticker", h.Trend)
	g.POST("/refresh", h.Refresh)
}

func (h *ScoresEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	recs, err := h.analyzer.GetScoreHistory(c.Request().Context(), req.Ticker, req.Years, req.Period)
	if err != nil {
		h.logger.Error("score history error", xlogger.Error(err))
		smetrics.EndpointErrors.WithLabelValues("history").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, recs, int64(len(recs)))
}

func (h *ScoresEchoHandler) Trend(c echo.Context) error {
	req := &models.TrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	trend, err := h.analyzer.CalculateTrend(c.Request().Context(), req.Ticker, req.Periods)
	if err != nil {
		h.logger.Error("trend error", xlogger.Error(err))
		smetrics.EndpointErrors.WithLabelValues("trend").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	if trend == nil {
		// Fewer than 2 recorded periods: explicit no-data, not a failure.
		return xhttp.NotFoundResponse(c, xhttp.NotFoundErrorf("not enough score history for %s", req.Ticker))
	}
	return xhttp.SuccessResponse(c, trend)
}

func (h *ScoresEchoHandler) Improving(c echo.Context) error {
	return h.movers(c, "improving", func(c echo.Context, req *models.MoversRequest) (interface{}, error) {
		return h.analyzer.FindImproving(c.Request().Context(), req.MinChange, req.Periods, req.Limit)
	})
}

func (h *ScoresEchoHandler) Declining(c echo.Context) error {
	return h.movers(c, "declining", func(c echo.Context, req *models.MoversRequest) (interface{}, error) {
		return h.analyzer.FindDeclining(c.Request().Context(), req.MinChange, req.Periods, req.Limit)
	})
}

func (h *ScoresEchoHandler) movers(c echo.Context, endpoint string, scan func(echo.Context, *models.MoversRequest) (interface{}, error)) error {
	start := time.Now()
	req := &models.MoversRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("trends:%s:%d:%d:%d", endpoint, req.MinChange, req.Periods, req.Limit)
	if b, ok := h.cached(key); ok {
		smetrics.CacheHits.WithLabelValues(endpoint).Inc()
		return c.JSONBlob(200, b)
	}

	res, err := scan(c, req)
	if err != nil {
		h.logger.Error("trend scan error", xlogger.String("endpoint", endpoint), xlogger.Error(err))
		smetrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	smetrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	return h.respondCached(c, key, res)
}

func (h *ScoresEchoHandler) Consistent(c echo.Context) error {
	start := time.Now()
	req := &models.ConsistentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("trends:consistent:%d:%d:%d", req.MinScore, req.Periods, req.Limit)
	if b, ok := h.cached(key); ok {
		smetrics.CacheHits.WithLabelValues("consistent").Inc()
		return c.JSONBlob(200, b)
	}

	res, err := h.analyzer.FindConsistent(c.Request().Context(), req.MinScore, req.Periods, req.Limit)
	if err != nil {
		h.logger.Error("consistency scan error", xlogger.Error(err))
		smetrics.EndpointErrors.WithLabelValues("consistent").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	smetrics.EndpointLatency.WithLabelValues("consistent").Observe(time.Since(start).Seconds())
	return h.respondCached(c, key, res)
}

func (h *ScoresEchoHandler) Turnarounds(c echo.Context) error {
	start := time.Now()
	req := &models.TurnaroundRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("trends:turnarounds:%d", req.Limit)
	if b, ok := h.cached(key); ok {
		smetrics.CacheHits.WithLabelValues("turnarounds").Inc()
		return c.JSONBlob(200, b)
	}

	res, err := h.analyzer.FindTurnarounds(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("turnaround scan error", xlogger.Error(err))
		smetrics.EndpointErrors.WithLabelValues("turnarounds").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	smetrics.EndpointLatency.WithLabelValues("turnarounds").Observe(time.Since(start).Seconds())
	return h.respondCached(c, key, res)
}

func (h *ScoresEchoHandler) Refresh(c echo.Context) error {
	req := &models.RefreshRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.jobs == nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("refresh queue not configured"))
	}

	if err := h.jobs.PublishMessage(c.Request().Context(), usecase.RefreshJobType, usecase.RefreshPayload{Tickers: req.Tickers}); err != nil {
		h.logger.Error("refresh enqueue error", xlogger.Error(err))
		smetrics.EndpointErrors.WithLabelValues("refresh").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, map[string]interface{}{
		"queued":  len(req.Tickers),
		"message": "refresh scheduled",
	})
}

func (h *ScoresEchoHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil || !ok {
		return nil, false
	}
	return b, true
}

func (h *ScoresEchoHandler) respondCached(c echo.Context, key string, res interface{}) error {
	if h.cache != nil {
		if b, err := json.Marshal(xhttp.APIResponse{Status: 200, Message: "OK", Data: res}); err == nil {
			_ = h.cache.SetBytes(key, b, h.cacheTTL)
		}
	}
	return xhttp.SuccessResponse(c, res)
}
