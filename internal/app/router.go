package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linemk/order-service/internal/app/handlers"
	"github.com/linemk/order-service/internal/lib/logger/handlers/urllog"
	"github.com/linemk/order-service/internal/service"
	"github.com/linemk/order-service/internal/storage"
)

// NewRouter собирает слои хранилища и сервисов поверх a.DB и регистрирует эндпоинты
func (a *App) NewRouter() http.Handler {
	userRepo := storage.NewUserRepository(a.DB)
	reportRepo := storage.NewReportRepository(a.DB)

	userService := service.NewUserService(a.Logger, a.DB, userRepo)
	reportService := service.NewReportService(a.Logger, reportRepo)

	return newRouter(a.Logger, a.DB, userService, reportService)
}

func newRouter(log *slog.Logger, db handlers.Pinger, userService service.UserService, reportService service.ReportService) http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)

	router.Get("/health", handlers.HealthHandler(log, db))

	router.Route("/usuarios", func(r chi.Router) {
		r.Post("/", handlers.CreateUserHandler(log, userService))
		r.Get("/", handlers.ListUsersHandler(log, userService))
		r.Put("/{id}", handlers.UpdateUserHandler(log, userService))
		r.Delete("/{id}", handlers.DeleteUserHandler(log, userService))
	})

	router.Route("/relatorios", func(r chi.Router) {
		r.Get("/pedidos_por_usuario", handlers.OrdersPerUserHandler(log, reportService))
		r.Get("/total_gasto_por_pedido", handlers.SpendPerOrderHandler(log, reportService))
	})

	return router
}
