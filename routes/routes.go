package routes

import (
	"net/http"

	"islandeats/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Webhook *handlers.WebhookHandler
	Admin   *handlers.AdminHandler
}

// RegisterRoutes wires all endpoints.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	// LINE calls POST; the GET answer lets the console's verify button pass.
	r.POST("/webhook", h.Webhook.Handle)
	r.GET("/webhook", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := r.Group("/api/admin")
	admin.Use(cors.Default())
	{
		admin.GET("/inquiries", h.Admin.ListInquiries)
		admin.GET("/inquiries/:id", h.Admin.GetInquiry)
		admin.POST("/directory/refresh", h.Admin.RefreshDirectory)
	}
}
