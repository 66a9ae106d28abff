package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/events"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/messaging/kafka"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/messaging/kafka/consumer"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/connection"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/tax"
)

// RunConsumer renders payslips for requested records until the process
// receives SIGINT/SIGTERM.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	payslipDir := os.Getenv("PAYSLIP_DIR")
	if payslipDir == "" {
		payslipDir = "payslips"
	}

	payrollRepo := payroll.NewRepository(gormDB)
	taxResolver := tax.NewResolver(tax.NewRepository(gormDB))
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	payrollService := payroll.NewService(
		sqlDB,
		payrollRepo,
		payroll.NewComputer(taxResolver),
		outboxRepo,
		payroll.NewFilePayslipWriter(payslipDir),
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayrollPayslipRequestedTopic,
		GroupID:        "smartpay-payslip-renderer",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayslipRequested(ctx, reader, payrollService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
