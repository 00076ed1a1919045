package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/skillmint/marketplace-core/internal/config"
	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/skillmint/marketplace-core/internal/handlers"
	"github.com/skillmint/marketplace-core/internal/repository/postgres"
	"github.com/skillmint/marketplace-core/internal/service"
	"github.com/skillmint/marketplace-core/internal/utils/jwt"
	"github.com/skillmint/marketplace-core/internal/utils/secrets"
	"github.com/skillmint/marketplace-core/internal/worker"
)

// services содержит все сервисы приложения
type services struct {
	ledger     *service.LedgerService
	payment    *service.PaymentService
	commission *service.CommissionService
	withdrawal *service.WithdrawalService
}

// handlerSet содержит все хендлеры приложения
type handlerSet struct {
	orders      *handlers.OrderHandler
	wallet      *handlers.WalletHandler
	withdrawals *handlers.WithdrawalHandler
	commissions *handlers.CommissionHandler
	webhooks    *handlers.WebhookHandler
	health      *handlers.HealthHandler
}

// dependencies содержит все зависимости приложения
type dependencies struct {
	repos      domain.Repos
	services   *services
	handlers   *handlerSet
	jwtManager *jwt.Manager
	workerPool *worker.Pool
}

// initDependencies создает все зависимости приложения
func initDependencies(cfg *config.Config, policy *config.PolicyStore, dbPool *pgxpool.Pool, logger *zap.Logger) (*dependencies, error) {
	repos := postgres.NewRepos(dbPool)
	uow := postgres.NewUnitOfWork(dbPool)

	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.JWTTokenTTL)

	var codec secrets.Codec = secrets.PlainCodec{}
	if cfg.AccountDetailsKey != "" {
		boxCodec, err := secrets.NewBoxCodec(cfg.AccountDetailsKey)
		if err != nil {
			return nil, err
		}
		codec = boxCodec
	}

	gateway := service.NewGatewayClient(service.GatewayClientConfig{
		BaseURL:   cfg.GatewayAddress,
		KeyID:     cfg.GatewayKeyID,
		KeySecret: cfg.GatewayKeySecret,
		Timeout:   cfg.GatewayTimeout,
	})

	notifier := service.NewLogNotifier(logger)

	commissionService := service.NewCommissionService(uow, repos, policy, logger)
	svcs := &services{
		ledger:     service.NewLedgerService(uow, repos),
		payment:    service.NewPaymentService(uow, repos, gateway, commissionService, policy, notifier, cfg.GatewayKeySecret),
		commission: commissionService,
		withdrawal: service.NewWithdrawalService(uow, repos, policy, codec, notifier),
	}

	hdlrs := &handlerSet{
		orders:      handlers.NewOrderHandler(svcs.payment, logger),
		wallet:      handlers.NewWalletHandler(svcs.ledger, logger),
		withdrawals: handlers.NewWithdrawalHandler(svcs.withdrawal, logger),
		commissions: handlers.NewCommissionHandler(svcs.commission, logger),
		webhooks:    handlers.NewWebhookHandler(svcs.payment, cfg.WebhookSecret, cfg.GatewayKeySecret, logger),
		health:      handlers.NewHealthHandler(dbPool, logger),
	}

	workerPool := worker.NewPool(
		cfg.WorkerPoolSize,
		cfg.WorkerQueueSize,
		svcs.commission,
		svcs.payment,
		cfg.WorkerScanInterval,
		logger,
	)

	return &dependencies{
		repos:      repos,
		services:   svcs,
		handlers:   hdlrs,
		jwtManager: jwtManager,
		workerPool: workerPool,
	}, nil
}
