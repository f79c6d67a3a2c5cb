package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalogue entry in the system
type Product struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Price           float64   `gorm:"not null" json:"price"`
	ImageURL        string    `json:"image_url"`
	Fabric          string    `gorm:"size:50" json:"fabric"`
	Fit             string    `gorm:"size:50" json:"fit"`
	Category        string    `gorm:"size:50;index" json:"category,omitempty"`
	Gender          string    `gorm:"size:20" json:"gender,omitempty"`
	Sizes           SizeList  `gorm:"type:text" json:"sizes,omitempty"`
	IsEssential     bool      `json:"is_essential"`
	OfferPercentage int       `json:"offer_percentage"`
	IsActive        bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BeforeCreate assigns a uuid when the caller did not supply an id
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// SalePrice is the price after the offer percentage is applied
func (p Product) SalePrice() float64 {
	if p.OfferPercentage <= 0 {
		return p.Price
	}
	off := min(p.OfferPercentage, 100)
	price := decimal.NewFromFloat(p.Price)
	factor := decimal.NewFromInt(int64(100 - off)).Div(decimal.NewFromInt(100))
	return price.Mul(factor).Round(2).InexactFloat64()
}

// ProductInput holds data for creating a product
type ProductInput struct {
	Name            string     `json:"name" binding:"required"`
	Price           float64    `json:"price" binding:"gte=0"`
	ImageURL        string     `json:"image_url"`
	Fabric          string     `json:"fabric"`
	Fit             string     `json:"fit"`
	Category        string     `json:"category,omitempty"`
	Gender          string     `json:"gender,omitempty"`
	Sizes           SizeList   `json:"sizes,omitempty"`
	IsEssential     bool       `json:"is_essential"`
	OfferPercentage int        `json:"offer_percentage" binding:"gte=0,lte=100"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// ToProduct builds an active product from the input. The id is left empty.
func (in ProductInput) ToProduct() Product {
	p := Product{
		Name:            in.Name,
		Price:           in.Price,
		ImageURL:        in.ImageURL,
		Fabric:          in.Fabric,
		Fit:             in.Fit,
		Category:        in.Category,
		Gender:          in.Gender,
		Sizes:           in.Sizes,
		IsEssential:     in.IsEssential,
		OfferPercentage: in.OfferPercentage,
		IsActive:        true,
	}
	if in.CreatedAt != nil {
		p.CreatedAt = *in.CreatedAt
	}
	return p
}

// ProductPatch carries a partial product update. Nil fields are left alone.
type ProductPatch struct {
	Name            *string    `json:"name,omitempty" binding:"omitempty,min=1"`
	Price           *float64   `json:"price,omitempty" binding:"omitempty,gte=0"`
	ImageURL        *string    `json:"image_url,omitempty"`
	Fabric          *string    `json:"fabric,omitempty"`
	Fit             *string    `json:"fit,omitempty"`
	Category        *string    `json:"category,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	Sizes           *SizeList  `json:"sizes,omitempty"`
	IsEssential     *bool      `json:"is_essential,omitempty"`
	OfferPercentage *int       `json:"offer_percentage,omitempty" binding:"omitempty,gte=0,lte=100"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// Apply merges the patch into p
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.ImageURL != nil {
		p.ImageURL = *pp.ImageURL
	}
	if pp.Fabric != nil {
		p.Fabric = *pp.Fabric
	}
	if pp.Fit != nil {
		p.Fit = *pp.Fit
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Gender != nil {
		p.Gender = *pp.Gender
	}
	if pp.Sizes != nil {
		p.Sizes = append(SizeList(nil), (*pp.Sizes)...)
	}
	if pp.IsEssential != nil {
		p.IsEssential = *pp.IsEssential
	}
	if pp.OfferPercentage != nil {
		p.OfferPercentage = *pp.OfferPercentage
	}
	if pp.CreatedAt != nil {
		p.CreatedAt = *pp.CreatedAt
	}
}

// Columns maps the set fields to their column names for gorm Updates
func (pp ProductPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if pp.Name != nil {
		cols["name"] = *pp.Name
	}
	if pp.Price != nil {
		cols["price"] = *pp.Price
	}
	if pp.ImageURL != nil {
		cols["image_url"] = *pp.ImageURL
	}
	if pp.Fabric != nil {
		cols["fabric"] = *pp.Fabric
	}
	if pp.Fit != nil {
		cols["fit"] = *pp.Fit
	}
	if pp.Category != nil {
		cols["category"] = *pp.Category
	}
	if pp.Gender != nil {
		cols["gender"] = *pp.Gender
	}
	if pp.Sizes != nil {
		cols["sizes"] = *pp.Sizes
	}
	if pp.IsEssential != nil {
		cols["is_essential"] = *pp.IsEssential
	}
	if pp.OfferPercentage != nil {
		cols["offer_percentage"] = *pp.OfferPercentage
	}
	if pp.CreatedAt != nil {
		cols["created_at"] = *pp.CreatedAt
	}
	return cols
}
