// Package server exposes a shared filter over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	bloom "github.com/naivewong/dynbloom"
)

type (
	AddRequest struct {
		Value string `json:"value"`
	}

	AddResponse struct {
		Value     string   `json:"value"`
		Segment   int      `json:"segment"`
		Positions []uint64 `json:"positions"`
	}

	QueryResponse struct {
		Value        string `json:"value"`
		MaybePresent bool   `json:"maybe_present"`
	}

	BitsResponse struct {
		Segment int    `json:"segment"`
		Bits    string `json:"bits"`
	}
)

var errEmptyValue = echo.NewHTTPError(http.StatusBadRequest, "value must not be empty")

// Server routes HTTP requests to a LockedFilter.
type Server struct {
	e      *echo.Echo
	filter *bloom.LockedFilter
	log    *zap.Logger
}

// New wires the routes. gatherer backs /metrics; nil leaves it out.
func New(filter *bloom.LockedFilter, log *zap.Logger, gatherer prometheus.Gatherer) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{e: e, filter: filter, log: log}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				s.log.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			s.log.Debug("request", fields...)
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	v1 := e.Group("/v1")
	v1.POST("/elements", s.add)
	v1.GET("/elements", s.query)
	v1.GET("/elements/:value", s.query)
	v1.GET("/stats", s.stats)
	v1.GET("/segments/:index/bits", s.bits)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return s
}

// Handler returns the router, for tests and custom listeners.
func (s *Server) Handler() http.Handler { return s.e }

// Start listens on addr until Shutdown. A clean shutdown returns nil.
func (s *Server) Start(addr string) error {
	s.log.Info("http server listening", zap.String("addr", addr))
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) add(c echo.Context) error {
	var req AddRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	value := strings.TrimSpace(req.Value)
	if value == "" {
		return errEmptyValue
	}
	segment, positions := s.filter.AddAndLocate(value)
	return c.JSON(http.StatusCreated, AddResponse{
		Value:     value,
		Segment:   segment,
		Positions: positions,
	})
}

func (s *Server) query(c echo.Context) error {
	value, err := queryValue(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed value").SetInternal(err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return errEmptyValue
	}
	return c.JSON(http.StatusOK, QueryResponse{
		Value:        value,
		MaybePresent: s.filter.MayContainString(value),
	})
}

// queryValue reads the value from ?value= or the :value path segment.
// Echo matches routes against URL.RawPath when it is set and against the
// already decoded URL.Path otherwise, so the segment is only unescaped in
// the first case.
func queryValue(c echo.Context) (string, error) {
	if c.Param("value") == "" {
		return c.QueryParam("value"), nil
	}
	if c.Request().URL.RawPath == "" {
		return c.Param("value"), nil
	}
	return url.PathUnescape(c.Param("value"))
}

func (s *Server) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.filter.Stats())
}

func (s *Server) bits(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "segment index must be an integer")
	}
	bits, ok := s.filter.SegmentBits(idx)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such segment")
	}
	return c.JSON(http.StatusOK, BitsResponse{Segment: idx, Bits: bits})
}
