package handlers

import (
	"errors"
	"net/http"

	"github.com/Cloud-Net-Park/Gravel/models"
	"github.com/Cloud-Net-Park/Gravel/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FitProfileHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewFitProfileHandler(db *gorm.DB, hub *realtime.Hub) *FitProfileHandler {
	return &FitProfileHandler{DB: db, Hub: hub}
}

func (h *FitProfileHandler) withOwner() *gorm.DB {
	return h.DB.Model(&models.FitProfile{}).
		Select("fit_profiles.*, users.name AS user_name, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = fit_profiles.user_id")
}

// GetFitProfiles lists every profile with its owner's name and email
func (h *FitProfileHandler) GetFitProfiles(c *gin.Context) {
	profiles := []models.FitProfile{}
	if err := h.withOwner().Order("fit_profiles.created_at desc").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch fit profiles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fit_profiles": profiles})
}

// UpsertFitProfile saves the measurements for a user, replacing any
// profile that user already has
func (h *FitProfileHandler) UpsertFitProfile(c *gin.Context) {
	var input models.FitProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing int64
	if err := h.DB.Model(&models.FitProfile{}).Where("user_id = ?", input.UserID).Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	profile := input.ToProfile()
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"height", "weight", "chest", "waist", "hips",
			"preferred_fit", "preferred_size", "notes", "updated_at",
		}),
	}).Create(&profile).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save fit profile"})
		return
	}

	var saved models.FitProfile
	if err := h.withOwner().Where("fit_profiles.user_id = ?", input.UserID).First(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch fit profile"})
		return
	}

	change := models.ChangeInsert
	if existing > 0 {
		change = models.ChangeUpdate
	}
	h.publish(change, saved.ID)
	c.JSON(http.StatusCreated, gin.H{"fit_profile": saved})
}

// UpdateFitProfile patches the profile owned by userID
func (h *FitProfileHandler) UpdateFitProfile(c *gin.Context) {
	userID := c.Param("userID")

	var patch models.FitProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.FitProfile
	if err := h.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "fit profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	if cols := patch.Columns(); len(cols) > 0 {
		if err := h.DB.Model(&profile).Updates(cols).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update fit profile"})
			return
		}
	}

	var saved models.FitProfile
	if err := h.withOwner().Where("fit_profiles.user_id = ?", userID).First(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch fit profile"})
		return
	}

	h.publish(models.ChangeUpdate, saved.ID)
	c.JSON(http.StatusOK, gin.H{"fit_profile": saved})
}

// DeleteFitProfile removes the profile owned by userID
func (h *FitProfileHandler) DeleteFitProfile(c *gin.Context) {
	userID := c.Param("userID")

	result := h.DB.Where("user_id = ?", userID).Delete(&models.FitProfile{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete fit profile"})
		return
	}

	if result.RowsAffected > 0 {
		h.publish(models.ChangeDelete, userID)
	}
	c.JSON(http.StatusOK, gin.H{"deleted": result.RowsAffected})
}

func (h *FitProfileHandler) publish(change models.ChangeType, id string) {
	if h.Hub != nil {
		h.Hub.Publish(newEvent(models.TableFitProfiles, change, id))
	}
}
