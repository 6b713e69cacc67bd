package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront/api"
	"storefront/internal/generated/servers"
	"storefront/internal/pkg/metrics"
)

// RouterConfig carries what NewRouter needs besides the server itself.
type RouterConfig struct {
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	JWTSecret string
}

// NewRouter builds the echo instance: operational endpoints, the API docs and
// the authenticated /api/v1 routes validated against the OpenAPI contract.
func NewRouter(server *Server, cfg RouterConfig) (*echo.Echo, error) {
	doc, err := LoadContract(api.Spec)
	if err != nil {
		return nil, err
	}
	validate, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(cfg.Logger))
	e.Use(Metrics(cfg.Metrics))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	if err := registerDocs(e, doc); err != nil {
		return nil, err
	}

	auth := NewAuthenticator(cfg.JWTSecret)
	apiGroup := e.Group("/api/v1", auth.Middleware, validate)
	servers.RegisterHandlers(apiGroup, server)

	return e, nil
}
