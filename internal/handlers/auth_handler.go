package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"highway/internal/models"
	"highway/internal/repositories"
	"highway/internal/services"
	"highway/internal/utils"
)

type AuthHandler struct {
	userService  services.UserService
	otpService   services.OTPService
	authService  services.AuthService
	emailService services.EmailService
	resetService services.PasswordResetService
}

func NewAuthHandler(
	userService services.UserService,
	otpService services.OTPService,
	authService services.AuthService,
	emailService services.EmailService,
	resetService services.PasswordResetService,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		otpService:   otpService,
		authService:  authService,
		emailService: emailService,
		resetService: resetService,
	}
}

// @Summary      Регистрация
// @Description  Создаёт пользователя, выпускает OTP и отправляет код на почту
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Данные регистрации"
// @Success      200       {object}  map[string]interface{}
// @Failure      422       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	// пока поддерживаем единственный канал
	if req.ContactMode != models.ContactModeEmail {
		respondValidation(c, models.FieldError{Field: "contactMode", Message: "contact mode is not valid."})
		return
	}

	email := strings.TrimSpace(req.Email)
	user := &models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       email,
		ContactMode: req.ContactMode,
	}
	if err := h.userService.Register(user, req.Password); err != nil {
		if err == repositories.ErrEmailTaken {
			log.Printf("[auth][register] duplicate email=%q", email)
			respondValidation(c, models.FieldError{Field: "email", Message: "email already exists"})
			return
		}
		log.Printf("[auth][register] create user failed email=%q: err=%v", email, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to register the user."})
		return
	}

	code, err := h.otpService.IssueFor(user.ID)
	if err != nil {
		log.Printf("[auth][register] issue otp failed user_id=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	// Письмо шлём уже после того, как пользователь и код сохранены.
	// Если доставка упала — не откатываем: пользователь остаётся в
	// pending-состоянии и добирает код через resend.
	if err := h.emailService.SendOTPEmail(user.Email, code); err != nil {
		log.Printf("[auth][register] send otp email failed user_id=%d: err=%v", user.ID, err)
	}

	token, err := utils.IssueToken(user.ID, false)
	if err != nil {
		log.Printf("[auth][register] sign token failed user_id=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.Printf("[auth][register] success user_id=%d email=%q", user.ID, user.Email)
	c.JSON(http.StatusOK, gin.H{
		"message": "OTP has been sent to your email. Please check and verify within 5 minutes, or the OTP will expire.",
		"token":   token,
	})
}

// @Summary      Подтверждение OTP
// @Description  Гасит код и выдаёт полный токен
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        verify  body      models.VerifyOTPRequest  true  "Код из письма"
// @Success      200     {object}  map[string]interface{}
// @Failure      401     {object}  map[string]string
// @Failure      400     {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	userID, ok := getIntFromCtx(c, "user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req models.VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.otpService.Consume(userID, req.OtpCode); err != nil {
		switch err {
		case services.ErrOTPNotFound, services.ErrOTPMismatch:
			// наружу не различаем "нет кода" и "не тот код"
			log.Printf("[auth][verify] invalid otp user_id=%d: err=%v", userID, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid OTP, please try again"})
			return
		case services.ErrOTPExpired:
			log.Printf("[auth][verify] expired otp user_id=%d", userID)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "OTP has expired. Please request a new OTP and try again."})
			return
		default:
			log.Printf("[auth][verify] consume failed user_id=%d: err=%v", userID, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "something went wrong while deleting the otp"})
			return
		}
	}

	token, err := utils.IssueToken(userID, true)
	if err != nil {
		log.Printf("[auth][verify] sign token failed user_id=%d: err=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.Printf("[auth][verify] success user_id=%d", userID)
	c.JSON(http.StatusOK, gin.H{
		"message": "OTP verified successfully. You are now registered.",
		"token":   token,
	})
}

// @Summary      Повторная отправка OTP
// @Description  Перевыпускает код в той же записи и шлёт письмо; старый код перестаёт работать
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/resend-otp [get]
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	userID, ok := getIntFromCtx(c, "user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil || user == nil {
		log.Printf("[auth][resend] user lookup failed user_id=%d: err=%v", userID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to find otp data related to the current user."})
		return
	}

	code, err := h.otpService.ReissueFor(userID)
	if err != nil {
		if err == services.ErrOTPNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to find otp data related to the current user."})
			return
		}
		log.Printf("[auth][resend] reissue failed user_id=%d: err=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	if err := h.emailService.SendUpdatedOTPEmail(user.Email, code); err != nil {
		log.Printf("[auth][resend] send otp email failed user_id=%d: err=%v", userID, err)
	}

	token, err := utils.IssueToken(userID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.Printf("[auth][resend] success user_id=%d", userID)
	c.JSON(http.StatusOK, gin.H{
		"message": "OTP has been resent to your email. Please check and verify.",
		"token":   token,
	})
}

// @Summary      Вход в систему
// @Description  Аутентифицирует пользователя и возвращает токен доступа
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]string
// @Failure      422    {object}  map[string]interface{}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	user, err := h.userService.GetUserByEmail(email)
	if err != nil {
		log.Printf("[auth][login] lookup failed email=%q: err=%v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if user == nil {
		// нет такого аккаунта — жалуемся на email
		log.Printf("[auth][login] user not found email=%q", email)
		respondValidation(c, models.FieldError{Field: "email", Message: "email is invalid"})
		return
	}

	// Пока существует живой OTP — входа нет, каким бы ни был пароль.
	verified, err := h.otpService.IsVerified(user.ID)
	if err != nil {
		log.Printf("[auth][login] verification check failed user_id=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if !verified {
		log.Printf("[auth][login] user not verified user_id=%d", user.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User is not verified"})
		return
	}

	if !h.authService.ComparePassword(req.Password, user.PasswordHash) {
		// аккаунт есть, но хэш не сошёлся — жалуемся на password
		log.Printf("[auth][login] password mismatch user_id=%d", user.ID)
		respondValidation(c, models.FieldError{Field: "password", Message: "password is invalid."})
		return
	}

	token, err := utils.IssueToken(user.ID, true)
	if err != nil {
		log.Printf("[auth][login] sign token failed user_id=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.Printf("[auth][login] success user_id=%d took=%s", user.ID, time.Since(start).Truncate(time.Millisecond))
	c.JSON(http.StatusOK, gin.H{
		"message": "login done successfully.",
		"token":   token,
	})
}

// @Summary      Смена пароля
// @Description  Меняет пароль текущего пользователя после проверки действующего
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset  body      models.ResetPasswordRequest  true  "Текущий и новый пароль"
// @Success      200    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      422    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	userID, ok := getIntFromCtx(c, "user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.UpdatedPassword); err != nil {
		switch err {
		case services.ErrCurrentPasswordMismatch:
			respondValidation(c, models.FieldError{Field: "currentPassword", Message: "current password is invalid."})
			return
		case services.ErrPasswordUnchanged:
			respondValidation(c, models.FieldError{Field: "updatedPassword", Message: "new password must differ from the current password."})
			return
		case services.ErrUserNotFound:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		default:
			log.Printf("[auth][reset-password] failed user_id=%d: err=%v", userID, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Something went wrong while updating your password"})
			return
		}
	}

	log.Printf("[auth][reset-password] success user_id=%d", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Your password is now updated successfully."})
}

// @Summary      Забыл пароль
// @Description  Отправляет на почту одноразовый токен сброса; существование аккаунта не раскрывается
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.resetService.RequestReset(req.Email); err != nil {
		log.Printf("[auth][forgot-password] failed email=%q: err=%v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset token has been sent."})
}

// @Summary      Сброс пароля по токену
// @Description  Меняет пароль по одноразовому токену из письма
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/password/reset [post]
func (h *AuthHandler) ResetPasswordByToken(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=5"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.resetService.ResetPassword(req.Token, req.Password); err != nil {
		if err == services.ErrResetTokenInvalid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		log.Printf("[auth][reset-by-token] failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Something went wrong while updating your password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your password is now updated successfully."})
}
