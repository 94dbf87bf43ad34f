// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery/internal/http/handlers"
	"grocery/internal/http/middleware"
)

type RouterDeps struct {
	Checkout  handlers.CheckoutService
	Orders    handlers.OrderService
	Addresses handlers.AddressService
	Logger    *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(logger), middleware.Recovery(logger))

	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)
	r.POST("/api/checkout/quote", checkoutHandler.Quote)
	r.POST("/api/checkout/discount", checkoutHandler.ApplyCode)
	r.DELETE("/api/checkout/discount", checkoutHandler.ClearCode)

	orderHandler := handlers.NewOrderHandler(deps.Orders)
	r.POST("/api/checkout/orders", orderHandler.Submit)
	r.GET("/api/orders/:id", orderHandler.Get)
	r.POST("/api/orders/:id/cancel", orderHandler.Cancel)

	addressHandler := handlers.NewAddressHandler(deps.Addresses)
	r.GET("/api/users/:id/addresses", addressHandler.List)
	r.PUT("/api/users/:id/addresses/:addressID/select", addressHandler.Select)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
