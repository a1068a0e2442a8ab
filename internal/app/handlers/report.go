package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linemk/order-service/internal/service"
)

// OrdersPerUserHandler обрабатывает GET /relatorios/pedidos_por_usuario
func OrdersPerUserHandler(log *slog.Logger, reportService service.ReportService) http.HandlerFunc {
	return handle(log, "handlers.OrdersPerUserHandler", func(w http.ResponseWriter, r *http.Request) error {
		report, err := reportService.OrdersPerUser(r.Context())
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, report)
	})
}

// SpendPerOrderHandler обрабатывает GET /relatorios/total_gasto_por_pedido
func SpendPerOrderHandler(log *slog.Logger, reportService service.ReportService) http.HandlerFunc {
	return handle(log, "handlers.SpendPerOrderHandler", func(w http.ResponseWriter, r *http.Request) error {
		report, err := reportService.SpendPerOrder(r.Context())
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, report)
	})
}

// Pinger — то, что умеет проверить соединение с БД (*sql.DB)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler обрабатывает GET /health
func HealthHandler(log *slog.Logger, db Pinger) http.HandlerFunc {
	return handle(log, "handlers.HealthHandler", func(w http.ResponseWriter, r *http.Request) error {
		if err := db.PingContext(r.Context()); err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})
}
