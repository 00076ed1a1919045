package refcode

import (
	"crypto/rand"
	"fmt"
)

// Алфавит без визуально похожих символов (0/O, 1/I/L)
const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// DefaultLength — длина реферального кода по умолчанию
const DefaultLength = 8

// Generate возвращает новый непрозрачный реферальный код.
// Уникальность обеспечивает ограничение в БД, здесь только энтропия.
func Generate() (string, error) {
	buf := make([]byte, DefaultLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("refcode: failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buf), nil
}
