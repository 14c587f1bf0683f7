package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTKey — ключ подписи процесса. Перекрывается из конфига при старте,
// после этого только читается.
var JWTKey = []byte("dev-secret-key")

// SetJWTKey — вызывается один раз из app.Run до запуска сервера.
func SetJWTKey(secret string) {
	if secret != "" {
		JWTKey = []byte(secret)
	}
}

const TokenTTL = 24 * time.Hour

// Claims — полезная нагрузка bearer-токена.
// otpVerification=false — "pending": личность доказана, но почта ещё не
// подтверждена; такой токен пускают только OTP-эндпоинты.
// otpVerification=true — полный доступ.
type Claims struct {
	UserID          int  `json:"id"`
	OTPVerification bool `json:"otpVerification"`
	jwt.RegisteredClaims
}

func IssueToken(userID int, verified bool) (string, error) {
	claims := &Claims{
		UserID:          userID,
		OTPVerification: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(JWTKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken — проверяет подпись и срок. Просроченный и битый токен для
// вызывающего неразличимы: и то и другое — ошибка.
func ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		// защита: принимаем только HMAC (HS256 и т.п.)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return JWTKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// NewResetToken — opaque-токен для сброса пароля по почте.
func NewResetToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 бит по умолчанию
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
