package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// Codec шифрует непрозрачные блобы перед записью в БД.
// Используется для платежных реквизитов заявок на вывод.
type Codec interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// BoxCodec реализует Codec через nacl/secretbox
type BoxCodec struct {
	key [32]byte
}

// NewBoxCodec создает кодек из hex-представления 32-байтового ключа
func NewBoxCodec(hexKey string) (*BoxCodec, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("secrets: key is not valid hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("secrets: key must be 32 bytes, got %d", len(raw))
	}

	c := &BoxCodec{}
	copy(c.key[:], raw)
	return c, nil
}

// Seal шифрует строку; nonce хранится в начале результата
func (c *BoxCodec) Seal(plaintext string) (string, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("secrets: failed to read nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open расшифровывает строку, созданную Seal
func (c *BoxCodec) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("secrets: payload is not valid base64: %w", err)
	}
	if len(raw) < 24 {
		return "", fmt.Errorf("secrets: payload is too short")
	}

	var nonce [24]byte
	copy(nonce[:], raw[:24])

	plaintext, ok := secretbox.Open(nil, raw[24:], &nonce, &c.key)
	if !ok {
		return "", fmt.Errorf("secrets: failed to open sealed payload")
	}

	return string(plaintext), nil
}

// PlainCodec хранит значения как есть; используется, когда ключ
// шифрования не задан
type PlainCodec struct{}

func (PlainCodec) Seal(plaintext string) (string, error) { return plaintext, nil }
func (PlainCodec) Open(sealed string) (string, error)    { return sealed, nil }
