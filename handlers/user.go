package handlers

import (
	"net/http"

	"github.com/Cloud-Net-Park/Gravel/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetAllUsers lists registered users, most recent first
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users := []models.User{}
	if err := h.DB.Order("joined_date desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
