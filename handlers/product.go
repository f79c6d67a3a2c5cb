package handlers

import (
	"errors"
	"net/http"

	"github.com/Cloud-Net-Park/Gravel/models"
	"github.com/Cloud-Net-Park/Gravel/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewProductHandler(db *gorm.DB, hub *realtime.Hub) *ProductHandler {
	return &ProductHandler{DB: db, Hub: hub}
}

// GetAllProducts retrieves the active catalogue, newest first
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	products := []models.Product{}
	err := h.DB.Where("is_active = ?", true).Order("created_at desc").Find(&products).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// CreateProduct adds a new product and returns the stored row
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input models.ProductInput

	// Parse request body
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := input.ToProduct()
	if err := h.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	h.publish(models.ChangeInsert, product.ID)
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct applies a partial update and returns the stored row
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
		return
	}

	if cols := patch.Columns(); len(cols) > 0 {
		if err := h.DB.Model(&product).Updates(cols).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
			return
		}
		if err := h.DB.First(&product, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
			return
		}
	}

	h.publish(models.ChangeUpdate, product.ID)
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct deactivates a product. The response lists the rows that
// changed, which is empty when the product was missing or already inactive.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	affected := []models.Product{}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_active = ?", id, true).Find(&affected).Error; err != nil {
			return err
		}
		if len(affected) == 0 {
			return nil
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
			return err
		}
		for i := range affected {
			affected[i].IsActive = false
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	if len(affected) > 0 {
		h.publish(models.ChangeUpdate, id)
	}
	c.JSON(http.StatusOK, gin.H{"products": affected})
}

// DeleteAllProducts deactivates every active product
func (h *ProductHandler) DeleteAllProducts(c *gin.Context) {
	result := h.DB.Model(&models.Product{}).Where("is_active = ?", true).Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete products"})
		return
	}

	if result.RowsAffected > 0 {
		h.publish(models.ChangeUpdate, "")
	}
	c.JSON(http.StatusOK, gin.H{"deactivated": result.RowsAffected})
}

func (h *ProductHandler) publish(change models.ChangeType, id string) {
	if h.Hub != nil {
		h.Hub.Publish(newEvent(models.TableProducts, change, id))
	}
}
