package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-pet-backend/internal/domain"
)

// CreateImage stores img and links url to its pet in one transaction. The
// URL row is written first so a duplicate upload fails before the blob is
// stored.
func CreateImage(ctx context.Context, db *gorm.DB, img *domain.Image, url string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := tx.Create(&domain.PhotoURL{PetID: img.PetID, URL: url, CreatedAt: now}).Error; err != nil {
			return err
		}
		img.CreatedAt = now
		return tx.Omit(clause.Associations).Create(img).Error
	})
}

// CountImages returns the number of images stored for petID.
func CountImages(ctx context.Context, db *gorm.DB, petID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Image{}).Where("pet_id = ?", petID).Count(&n).Error
	return n, err
}
