package service

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier пишет уведомления в лог. Доставка best-effort: сбой
// уведомления не влияет на исход денежной операции.
// TODO: отправлять письмо через SMTP, когда задан SMTP_ADDRESS.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier создает новый LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// OrderCompleted уведомляет покупателя о завершении заказа
func (n *LogNotifier) OrderCompleted(_ context.Context, userID, orderID int64) {
	n.logger.Info("order completed notification",
		zap.Int64("user_id", userID),
		zap.Int64("order_id", orderID),
	)
}

// WithdrawalSettled уведомляет пользователя о выплате
func (n *LogNotifier) WithdrawalSettled(_ context.Context, userID, withdrawalID int64) {
	n.logger.Info("withdrawal settled notification",
		zap.Int64("user_id", userID),
		zap.Int64("withdrawal_id", withdrawalID),
	)
}
