package initializers

import (
	"log"
	"time"

	"github.com/Cloud-Net-Park/Gravel/models"

	"gorm.io/gorm"
)

var sampleProducts = []models.ProductInput{
	{Name: "Oxford Shirt", Price: 2499, Fabric: "Cotton", Fit: "Regular", Category: "Men", Gender: "Men", Sizes: models.SizeList{"S", "M", "L", "XL"}, IsEssential: true},
	{Name: "Merino Crew Neck", Price: 4999, Fabric: "Wool", Fit: "Slim", Category: "Men", Gender: "Men", Sizes: models.SizeList{"M", "L"}, OfferPercentage: 10},
	{Name: "Linen Wrap Dress", Price: 5599, Fabric: "Linen", Fit: "Relaxed", Category: "Women", Gender: "Women", Sizes: models.SizeList{"XS", "S", "M"}},
	{Name: "Silk Camisole", Price: 3299, Fabric: "Silk", Fit: "Regular", Category: "Women", Gender: "Women", Sizes: models.SizeList{"S", "M", "L"}, IsEssential: true},
}

// SeedProducts inserts the sample catalogue when the products table is empty
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Products already seeded (%d rows)", count)
		return nil
	}

	log.Println("Seeding products...")
	now := time.Now()
	for i, in := range sampleProducts {
		product := in.ToProduct()
		// stagger timestamps so the newest-first ordering is stable
		product.CreatedAt = now.Add(-time.Duration(i) * time.Minute)
		if err := db.Create(&product).Error; err != nil {
			log.Printf("Failed to seed product %s: %v", in.Name, err)
			return err
		}
		log.Printf("Product seeded: %s (ID: %s)", product.Name, product.ID)
	}
	log.Println("Seeding complete.")
	return nil
}
