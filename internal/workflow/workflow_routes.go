package workflow

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/middleware"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	workflows := r.Group("/payroll-workflows")
	workflows.Use(middleware.AuthMiddleware())
	{
		workflows.POST("", rbac.Authorize(enforcer, "workflow", "create"), handler.Create)
		workflows.GET("/:month", rbac.Authorize(enforcer, "workflow", "read"), handler.GetByMonth)
		workflows.POST("/:month/approve", rbac.Authorize(enforcer, "workflow", "approve"), handler.Approve)
		workflows.POST("/:month/reject", rbac.Authorize(enforcer, "workflow", "approve"), handler.Reject)
	}
}
