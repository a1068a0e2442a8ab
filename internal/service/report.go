package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/order-service/internal/domain/models"
	"github.com/linemk/order-service/internal/storage"
)

// ReportService отдает агрегированные отчеты по заказам
type ReportService interface {
	OrdersPerUser(ctx context.Context) ([]models.OrdersPerUser, error)
	SpendPerOrder(ctx context.Context) ([]models.OrderSpend, error)
}

type reportService struct {
	log        *slog.Logger
	reportRepo storage.ReportStorage
}

func NewReportService(log *slog.Logger, reportRepo storage.ReportStorage) ReportService {
	return &reportService{
		log:        log,
		reportRepo: reportRepo,
	}
}

func (s *reportService) OrdersPerUser(ctx context.Context) ([]models.OrdersPerUser, error) {
	const op = "service.ReportService.OrdersPerUser"

	report, err := s.reportRepo.OrdersPerUser(ctx)
	if err != nil {
		s.log.Error("failed to build report", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return report, nil
}

func (s *reportService) SpendPerOrder(ctx context.Context) ([]models.OrderSpend, error) {
	const op = "service.ReportService.SpendPerOrder"

	report, err := s.reportRepo.SpendPerOrder(ctx)
	if err != nil {
		s.log.Error("failed to build report", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return report, nil
}
