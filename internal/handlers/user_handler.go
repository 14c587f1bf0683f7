package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"highway/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Текущий пользователь
// @Description  Возвращает профиль владельца токена
// @Tags         Users
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/current [get]
func (h *UserHandler) CurrentUser(c *gin.Context) {
	userID, ok := getIntFromCtx(c, "user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := h.service.GetUserByID(userID)
	if err != nil || user == nil {
		log.Printf("[users][current] lookup failed user_id=%d: err=%v", userID, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unable to get the current user credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User details got successfully",
		"userDetail": gin.H{
			"id":       user.ID,
			"fullname": user.FullName(),
			"email":    user.Email,
		},
	})
}
