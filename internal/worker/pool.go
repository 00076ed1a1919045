package worker

import (
	"context"
	"sync"
	"time"

	"github.com/skillmint/marketplace-core/internal/domain"
	"go.uber.org/zap"
)

// Pool представляет пул воркеров фоновой обработки: выплата комиссий с
// истекшим удержанием, истечение зависших комиссий и авто-отмена
// неоплаченных заказов.
type Pool struct {
	workers      int
	queue        chan int64
	releaser     domain.CommissionReleaser
	reaper       domain.OrderReaper
	logger       *zap.Logger
	wg           sync.WaitGroup
	scanInterval time.Duration
}

// NewPool создает новый worker pool
func NewPool(
	workers int,
	queueSize int,
	releaser domain.CommissionReleaser,
	reaper domain.OrderReaper,
	scanInterval time.Duration,
	logger *zap.Logger,
) *Pool {
	return &Pool{
		workers:      workers,
		queue:        make(chan int64, queueSize),
		releaser:     releaser,
		reaper:       reaper,
		logger:       logger,
		scanInterval: scanInterval,
	}
}

// Start запускает worker pool
func (p *Pool) Start(ctx context.Context) {
	// Запускаем воркеры
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	// Запускаем сканер фоновых задач
	p.wg.Add(1)
	go p.scanner(ctx)
}

// Stop останавливает worker pool
func (p *Pool) Stop() {
	close(p.queue)
	p.wg.Wait()
}

// worker выплачивает комиссии из очереди
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Info("worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("worker stopping", zap.Int("worker_id", id))
			return
		case commissionID, ok := <-p.queue:
			if !ok {
				return
			}
			p.processCommission(ctx, commissionID)
		}
	}
}

// scanner периодически запускает фоновые проходы
func (p *Pool) scanner(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("scanner stopping")
			return
		case <-ticker.C:
			p.scanDueCommissions(ctx)
			p.expireStaleCommissions(ctx)
			p.expireStaleOrders(ctx)
		}
	}
}

// scanDueCommissions отправляет в очередь комиссии с истекшим удержанием
func (p *Pool) scanDueCommissions(ctx context.Context) {
	ids, err := p.releaser.DueCommissions(ctx, cap(p.queue))
	if err != nil {
		p.logger.Error("failed to list due commissions", zap.Error(err))
		return
	}

	for _, id := range ids {
		select {
		case p.queue <- id:
			// Успешно добавлено в очередь
		case <-ctx.Done():
			return
		default:
			// Очередь заполнена, комиссию подберет следующий проход
			p.logger.Warn("queue is full, skipping commission", zap.Int64("commission_id", id))
		}
	}
}

// processCommission выплачивает одну комиссию
func (p *Pool) processCommission(ctx context.Context, commissionID int64) {
	p.logger.Debug("releasing commission", zap.Int64("commission_id", commissionID))

	if err := p.releaser.Release(ctx, commissionID); err != nil {
		p.logger.Error("failed to release commission",
			zap.Int64("commission_id", commissionID),
			zap.Error(err),
		)
		return
	}
}

// expireStaleCommissions закрывает комиссии, зависшие дольше сроков
// политики
func (p *Pool) expireStaleCommissions(ctx context.Context) {
	expired, err := p.releaser.ExpireStale(ctx)
	if err != nil {
		p.logger.Error("failed to expire stale commissions", zap.Error(err))
		return
	}

	if expired > 0 {
		p.logger.Info("expired stale commissions", zap.Int64("count", expired))
	}
}

// expireStaleOrders отменяет неоплаченные заказы старше срока политики
func (p *Pool) expireStaleOrders(ctx context.Context) {
	expired, err := p.reaper.ExpireStalePending(ctx)
	if err != nil {
		p.logger.Error("failed to expire stale orders", zap.Error(err))
		return
	}

	if expired > 0 {
		p.logger.Info("expired stale pending orders", zap.Int("count", expired))
	}
}
