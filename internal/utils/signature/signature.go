package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Sign возвращает hex-представление HMAC-SHA-256 от payload
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPayment подписывает пару идентификаторов платежа в формате шлюза:
// HMAC-SHA-256(secret, gatewayOrderID + "|" + gatewayPaymentID)
func SignPayment(secret, gatewayOrderID, gatewayPaymentID string) string {
	return Sign(secret, []byte(gatewayOrderID+"|"+gatewayPaymentID))
}

// Verify сравнивает подписи за постоянное время
func Verify(expected, received string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}

// VerifyPayment проверяет подпись подтверждения платежа
func VerifyPayment(secret, gatewayOrderID, gatewayPaymentID, received string) bool {
	return Verify(SignPayment(secret, gatewayOrderID, gatewayPaymentID), received)
}

// VerifyWebhook проверяет подпись тела вебхука
func VerifyWebhook(secret string, body []byte, received string) bool {
	return Verify(Sign(secret, body), received)
}
