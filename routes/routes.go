package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YvonneBrian/ECommerce-Repawtly/controllers"
	"github.com/YvonneBrian/ECommerce-Repawtly/services"
)

func RegisterStorefrontRoutes(r *gin.Engine, store controllers.Storefront, inbox *services.Inbox) {
	controller := controllers.NewStorefrontController(store, inbox)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "storefront"})
	})

	r.GET("/state", controller.GetState)
	r.POST("/navigate", controller.Navigate)
	r.GET("/catalog", controller.GetCatalog)
	r.GET("/notifications", controller.Notifications)

	session := r.Group("/session")
	{
		session.POST("/login", controller.Login)
		session.POST("/register", controller.Register)
		session.POST("/logout", controller.Logout)
		session.POST("/expire", controller.Expire)
	}

	cart := r.Group("/cart")
	{
		cart.GET("", controller.GetCart)
		cart.POST("", controller.AddItem)
		cart.PUT("/:id", controller.UpdateItem)
		cart.DELETE("/:id", controller.RemoveItem)
	}

	tags := r.Group("/tags")
	{
		tags.GET("", controller.ListTags)
		tags.PUT("", controller.SaveTag)
		tags.DELETE("/:id", controller.DeleteTag)
	}

	checkout := r.Group("/checkout")
	{
		checkout.GET("", controller.GetCheckout)
		checkout.POST("", controller.SubmitCheckout)
		checkout.POST("/continue", controller.ContinueShopping)
	}
}
