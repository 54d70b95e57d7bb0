package server

import (
	"net/http"

	"minimart/internal/config"
	"minimart/internal/handler"
	"minimart/internal/metrics"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// ルートに登録するhandler一式
type Handlers struct {
	Auth      *handler.AuthHandler
	Shop      *handler.ShopHandler
	Product   *handler.ProductHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	ShopOrder *handler.ShopOrderHandler
	Address   *handler.AddressHandler
	Analytics *handler.AnalyticsHandler
}

// New はEchoサーバーを組み立てる（起動はしない）。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Idempotency-Key"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	h.Auth.RegisterRoutes(e, cfg)
	h.Shop.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.ShopOrder.RegisterRoutes(e, cfg)
	h.Address.RegisterRoutes(e, cfg)
	h.Analytics.RegisterRoutes(e, cfg)

	return e
}

// Start は :PORT で待ち受ける。
func Start(e *echo.Echo, cfg config.Config) error {
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}
