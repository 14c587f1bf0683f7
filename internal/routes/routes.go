package routes

import (
	"github.com/gin-gonic/gin"

	"highway/internal/handlers"
	"highway/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/password/forgot", authHandler.ForgotPassword)
		auth.POST("/password/reset", authHandler.ResetPasswordByToken)
	}

	// ---- только pending-токен (почта ещё не подтверждена)
	pending := r.Group("/auth", middleware.RequirePendingToken())
	{
		pending.POST("/verify-otp", authHandler.VerifyOTP)
		pending.GET("/resend-otp", authHandler.ResendOTP)
	}

	// ---- только полный токен
	verified := r.Group("", middleware.RequireVerifiedToken())
	{
		verified.POST("/auth/reset-password", authHandler.ResetPassword)
		verified.GET("/users/current", userHandler.CurrentUser)
	}

	return r
}
