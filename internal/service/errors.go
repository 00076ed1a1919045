package service

import (
	"fmt"
	"time"
)

// Сервисы возвращают доменные sentinel-ошибки (internal/domain) без
// оборачивания; здесь живут только ошибки, специфичные для слоя.

// RateLimitError представляет ошибку превышения лимита запросов шлюза
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// NewRateLimitError создает новую ошибку rate limit
func NewRateLimitError(retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{RetryAfter: retryAfter}
}
