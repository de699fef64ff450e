package billing

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/mysticoracle/server/internal/auth"
	"codeberg.org/mysticoracle/server/internal/billing"
	"codeberg.org/mysticoracle/server/oracle/users"
)

// registers billing routes; the webhook stays outside authentication
func RegisterRoutes(router *gin.RouterGroup, service *billing.Service, userRepo users.Repository) {
	billingGroup := router.Group("/billing")
	{
		billingGroup.POST("/checkout", auth.AuthMiddleware(), CheckoutHandler(service, userRepo))
		billingGroup.POST("/webhook", WebhookHandler(service))
	}
}
