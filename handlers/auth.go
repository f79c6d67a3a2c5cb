package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Cloud-Net-Park/Gravel/middleware"
	"github.com/Cloud-Net-Park/Gravel/models"
	"github.com/Cloud-Net-Park/Gravel/realtime"
	"github.com/Cloud-Net-Park/Gravel/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB  *gorm.DB
	JWT *utils.JWTManager
	Hub *realtime.Hub
}

func NewAuthHandler(db *gorm.DB, jwt *utils.JWTManager, hub *realtime.Hub) *AuthHandler {
	return &AuthHandler{DB: db, JWT: jwt, Hub: hub}
}

// SignUp creates a new user account and signs it in
func (h *AuthHandler) SignUp(c *gin.Context) {
	var input models.UserRegister

	// Parse request body
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "user already registered"})
		return
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process password"})
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	user := models.User{Name: name, Email: email, PasswordHash: hashedPassword}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	h.publish(models.TableUsers, models.ChangeInsert, user.ID)
	h.respondWithSession(c, http.StatusCreated, user)
}

// SignIn authenticates a user and returns an access token
func (h *AuthHandler) SignIn(c *gin.Context) {
	var input models.UserLogin

	// Parse request body
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	// Compare password
	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.respondWithSession(c, http.StatusOK, user)
}

// GetUser returns the identity behind the bearer token
func (h *AuthHandler) GetUser(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": models.IdentityFor(user)})
}

// SignOut revokes the bearer token
func (h *AuthHandler) SignOut(c *gin.Context) {
	claims, ok := c.MustGet(middleware.ContextClaims).(*utils.JWTClaim)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	h.JWT.Revoke(claims)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (h *AuthHandler) respondWithSession(c *gin.Context, status int, user models.User) {
	// Generate JWT token
	token, err := h.JWT.GenerateJWT(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(status, models.AuthSession{AccessToken: token, User: models.IdentityFor(user)})
}

func (h *AuthHandler) publish(table string, change models.ChangeType, id string) {
	if h.Hub != nil {
		h.Hub.Publish(newEvent(table, change, id))
	}
}
