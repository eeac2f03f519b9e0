package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h.opts.AssetsDir != "" {
		r.Static("/assets", h.opts.AssetsDir)
	}

	site := r.Group("/", h.sessions.Middleware())
	{
		// 页面
		site.GET("/", h.ServePage)
		site.HEAD("/", h.ServePage)
		for _, key := range h.boot.Registry().Keys() {
			site.GET("/"+key, h.ServePage)
			site.HEAD("/"+key, h.ServePage)
		}

		// 报价
		api := site.Group("/api", CORS(h.opts.CORSOrigins))
		{
			api.GET("/quote", h.Quote)
			api.GET("/search", h.SearchCars)
			api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		}

		// 表单提交
		actions := site.Group("/actions", h.RateLimit(h.opts.RateLimitPerMin))
		{
			actions.POST("/login", h.Login)
			actions.POST("/register", h.Register)
			actions.POST("/logout", h.Logout)
			actions.POST("/contact", h.Contact)
			actions.POST("/newsletter", h.Newsletter)
			actions.POST("/profile", h.UpdateProfile)
			actions.POST("/password", h.ChangePassword)

			actions.POST("/bookings", h.CreateBooking)
			actions.POST("/bookings/:id/cancel", h.CancelBooking)
			actions.POST("/bookings/:id/status", h.UpdateBookingStatus)

			actions.POST("/wishlist/:carId", h.Wishlist)
			actions.POST("/cars/:id/reviews", h.AddReview)

			actions.POST("/host/cars", h.AddCar)
			actions.POST("/host/cars/:id/delete", h.DeleteCar)
			actions.POST("/host/payouts", h.RequestPayout)
		}

		// WebSocket
		site.GET("/ws", h.HandleWebSocket)
	}

	// 其余路径交给页面入口：静态文件或 404
	r.NoRoute(h.sessions.Middleware(), h.ServePage)
}
