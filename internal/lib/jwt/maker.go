// Package jwt выпускает и проверяет bearer-токены с данными участника запроса.
package jwt

import (
	"time"

	"github.com/magabrotheeeer/webshop/internal/models"
)

// Maker описывает генерацию и разбор JWT токенов.
type Maker interface {
	GenerateToken(p models.Principal) (string, error)
	ParseToken(tokenStr string) (*models.Principal, error)
}

// MakerImpl подписывает токены HMAC-ключом и задаёт им время жизни.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
