package payroll

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/middleware"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer, rdb *redis.Client) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.POST("", rbac.Authorize(enforcer, "payroll", "create"), handler.Create)
		payrolls.GET("/:id", rbac.Authorize(enforcer, "payroll", "read"), handler.GetByID)
		payrolls.PUT("/:id", rbac.Authorize(enforcer, "payroll", "update"), handler.Update)
		payrolls.DELETE("/:id", rbac.Authorize(enforcer, "payroll", "delete"), handler.Deactivate)
		payrolls.POST("/:id/adjustments", rbac.Authorize(enforcer, "payroll", "adjust"), handler.AddAdjustment)
		payrolls.POST("/:id/decision", rbac.Authorize(enforcer, "payroll", "approve"), handler.Decide)
		payrolls.POST("/:id/pay", rbac.Authorize(enforcer, "payroll", "pay"), handler.MarkPaid)
		payrolls.POST("/:id/payslip", rbac.Authorize(enforcer, "payroll", "read"), handler.RequestPayslip)
		payrolls.GET("/:id/payslip/download", rbac.Authorize(enforcer, "payroll", "read"), handler.DownloadPayslip)
	}

	// Batch generation lives on its own path so the month-keyed reads
	// below don't clash with the :id wildcard. These are the endpoints
	// schedulers retry, hence the Idempotency-Key guard on top of the
	// per-employee unique index.
	batches := r.Group("/payroll-batches")
	batches.Use(middleware.AuthMiddleware(), middleware.RateLimitByUser(1, 3))
	{
		batches.POST("/generate", rbac.Authorize(enforcer, "payroll", "create"), middleware.Idempotency(rdb), handler.GenerateBatch)
		batches.POST("/clone-previous", rbac.Authorize(enforcer, "payroll", "create"), middleware.Idempotency(rdb), handler.CloneFromPreviousMonth)
	}

	months := r.Group("/payroll-months")
	months.Use(middleware.AuthMiddleware())
	{
		months.GET("/:month", rbac.Authorize(enforcer, "payroll", "read"), handler.GetAllByMonth)
		months.GET("/:month/summary", rbac.Authorize(enforcer, "payroll", "read"), handler.Summary)
		months.POST("/:month/pay", rbac.Authorize(enforcer, "payroll", "pay"), middleware.RateLimitByUser(1, 3), middleware.Idempotency(rdb), handler.BatchPayment)
	}
}
