package app

import (
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/employee"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/messaging/kafka"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/rbac"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/tax"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/workflow"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	taxRepo := tax.NewRepository(gormDB)
	workflowRepo := workflow.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	taxResolver := tax.NewResolverWithCache(taxRepo, rdb)
	computer := payroll.NewComputer(taxResolver)
	payslipDir := os.Getenv("PAYSLIP_DIR")
	if payslipDir == "" {
		payslipDir = "payslips"
	}
	payslipWriter := payroll.NewFilePayslipWriter(payslipDir)

	taxService := tax.NewService(taxRepo, taxResolver, rdb)
	payrollService := payroll.NewService(db, payrollRepo, computer, outboxRepo, payslipWriter)
	batchGenerator := payroll.NewBatchGenerator(payrollRepo, employeeRepo, computer)
	paymentProcessor := payroll.NewPaymentProcessor(payrollRepo)
	workflowService := workflow.NewService(workflowRepo, payrollRepo)

	// --- Handlers ---
	taxHandler := tax.NewHandler(taxService)
	payrollHandler := payroll.NewHandler(payrollService, batchGenerator, paymentProcessor, rdb)
	workflowHandler := workflow.NewHandler(workflowService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		tax.RegisterRoutes(api, taxHandler, enforcer)
		payroll.RegisterRoutes(api, payrollHandler, enforcer, rdb)
		workflow.RegisterRoutes(api, workflowHandler, enforcer)
	}

	return nil
}
