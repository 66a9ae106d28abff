package tax

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/middleware"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	brackets := r.Group("/tax-brackets")
	brackets.Use(middleware.AuthMiddleware())
	{
		brackets.GET("", rbac.Authorize(enforcer, "tax", "read"), handler.GetAll)
		brackets.POST("/calculate", rbac.Authorize(enforcer, "tax", "read"), handler.Calculate)
		brackets.POST("", rbac.Authorize(enforcer, "tax", "write"), handler.Create)
		brackets.PUT("/:id", rbac.Authorize(enforcer, "tax", "write"), handler.Update)
		brackets.DELETE("/:id", rbac.Authorize(enforcer, "tax", "write"), handler.Deactivate)
	}
}
