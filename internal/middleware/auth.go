package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"highway/internal/utils"
)

// bearerToken — достаём токен из Authorization: Bearer <t>.
// Пустой заголовок, пустой токен и буквальное "undefined" (так шлют
// клиенты с неинициализированным хранилищем) равны битому токену.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" || token == "undefined" {
		return "", false
	}
	return token, true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// RequirePendingToken — пускает только pending-токен (otpVerification=false).
// Уже верифицированному пользователю в OTP-флоу делать нечего.
// Защищает verify-otp и resend-otp.
func RequirePendingToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "not authenticated")
			return
		}
		claims, err := utils.ParseToken(raw)
		if err != nil {
			abortUnauthorized(c, "Authorization token is invalid or expired. Please log in to your account and try again.")
			return
		}
		if claims.OTPVerification {
			abortUnauthorized(c, "Current user is already verified.")
			return
		}
		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// RequireVerifiedToken — пускает только полный токен (otpVerification=true).
// Защищает профиль и смену пароля.
func RequireVerifiedToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "not authenticated")
			return
		}
		claims, err := utils.ParseToken(raw)
		if err != nil {
			abortUnauthorized(c, "Authorization token is invalid or expired. Please log in to your account and try again.")
			return
		}
		if !claims.OTPVerification {
			abortUnauthorized(c, "Current user is not verified.")
			return
		}
		c.Set("user_id", claims.UserID)
		c.Next()
	}
}
