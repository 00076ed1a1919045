package app

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/skillmint/marketplace-core/internal/handlers"
	"github.com/skillmint/marketplace-core/internal/utils/jwt"
)

// setupRouter создает и настраивает роутер
func setupRouter(deps *dependencies, jwtManager *jwt.Manager, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	setupMiddleware(r, logger)

	// Маршруты
	setupRoutes(r, deps, jwtManager)

	return r
}

// setupMiddleware настраивает middleware для роутера
func setupMiddleware(r *chi.Mux, logger *zap.Logger) {
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(middleware.Compress(5))
}

// setupRoutes настраивает маршруты приложения
func setupRoutes(r *chi.Mux, deps *dependencies, jwtManager *jwt.Manager) {
	// Health check эндпоинты
	r.Get("/health", deps.handlers.health.Health)
	r.Get("/ready", deps.handlers.health.Ready)

	// Вебхуки шлюза: аутентификация подписью, не токеном
	r.Post("/api/webhooks/gateway", deps.handlers.webhooks.HandleGateway)

	// Защищенные эндпоинты
	r.Group(func(r chi.Router) {
		r.Use(handlers.AuthMiddleware(jwtManager))

		r.Post("/api/orders", deps.handlers.orders.Create)
		r.Get("/api/orders/{orderID}", deps.handlers.orders.Get)
		r.Post("/api/orders/{orderID}/confirm", deps.handlers.orders.Confirm)
		r.Post("/api/orders/{orderID}/cancel", deps.handlers.orders.Cancel)

		r.Get("/api/wallet/balance", deps.handlers.wallet.GetBalance)
		r.Get("/api/wallet/transactions", deps.handlers.wallet.GetTransactions)

		r.Post("/api/withdrawals", deps.handlers.withdrawals.Create)
		r.Get("/api/withdrawals/{withdrawalID}", deps.handlers.withdrawals.Get)
		r.Post("/api/withdrawals/{withdrawalID}/cancel", deps.handlers.withdrawals.Cancel)

		r.Get("/api/affiliate/commissions", deps.handlers.commissions.List)

		// Администрирование
		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireRole(domain.RoleAdmin))

			r.Post("/api/admin/orders/{orderID}/refund", deps.handlers.orders.Refund)
			r.Post("/api/admin/wallet/{userID}/adjust", deps.handlers.wallet.Adjust)
			r.Post("/api/admin/withdrawals/{withdrawalID}/approve", deps.handlers.withdrawals.Approve)
			r.Post("/api/admin/withdrawals/{withdrawalID}/reject", deps.handlers.withdrawals.Reject)
			r.Post("/api/admin/withdrawals/{withdrawalID}/settle", deps.handlers.withdrawals.Settle)
			r.Post("/api/admin/commissions/{commissionID}/approve", deps.handlers.commissions.Approve)
			r.Post("/api/admin/commissions/{commissionID}/reject", deps.handlers.commissions.Reject)
		})
	})
}
