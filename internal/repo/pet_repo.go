// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Pet
// aggregate and its owned tag and photo URL rows.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. When a pet is not found they return
// ErrNotFound; database errors, including constraint violations, are
// propagated unchanged so the service layer can classify them.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-backend/internal/domain"
)

// PetFilter restricts a pet listing. Zero-valued fields do not filter;
// set fields are AND-combined. Tags matches pets carrying any of the tags.
type PetFilter struct {
	Status   domain.PetStatus
	Category domain.Category
	Tags     []string
}

func (f PetFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("pets.status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("pets.category = ?", f.Category)
	}
	if len(f.Tags) > 0 {
		q = q.Where("pets.id IN (?)", q.Session(&gorm.Session{NewDB: true}).
			Model(&domain.Tag{}).Select("pet_id").Where("name IN ?", f.Tags))
	}
	return q
}

func preloadPet(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("PhotoURLs", func(db *gorm.DB) *gorm.DB { return db.Order("photo_urls.id") })
}

// CreatePet inserts p together with its tags and photo URLs. p.ID must be set.
func CreatePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	return db.WithContext(ctx).Create(p).Error
}

// GetPet fetches a pet with its tags and photo URLs, or ErrNotFound.
func GetPet(ctx context.Context, db *gorm.DB, id string) (*domain.Pet, error) {
	var p domain.Pet
	if err := preloadPet(db.WithContext(ctx)).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPetsPage returns one page of pets matching f, newest first.
func ListPetsPage(ctx context.Context, db *gorm.DB, f PetFilter, offset, limit int) ([]domain.Pet, error) {
	var out []domain.Pet
	q := f.apply(db.WithContext(ctx).Model(&domain.Pet{}))
	err := preloadPet(q).
		Order("pets.created_at desc").
		Order("pets.id").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ReplacePet overwrites the scalar fields and tags of an existing pet inside
// one transaction. Photo URLs are kept; they are only added by image upload.
func ReplacePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Pet{}).Where("id = ?", p.ID).Updates(map[string]any{
			"category":    p.Category,
			"name":        p.Name,
			"status":      p.Status,
			"description": p.Description,
			"updated_at":  time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("pet_id = ?", p.ID).Delete(&domain.Tag{}).Error; err != nil {
			return err
		}
		if len(p.Tags) == 0 {
			return nil
		}
		for i := range p.Tags {
			p.Tags[i].ID = 0
			p.Tags[i].PetID = p.ID
		}
		return tx.Create(&p.Tags).Error
	})
}

// DeletePet removes a pet; owned rows go with it. Returns ErrNotFound when
// nothing was deleted.
func DeletePet(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, owned := range []any{&domain.Tag{}, &domain.PhotoURL{}, &domain.Image{}} {
			if err := tx.Where("pet_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&domain.Pet{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Pets adapts the package functions to the services.PetRepo contract.
type Pets struct{}

func (Pets) CreatePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error {
	return CreatePet(ctx, db, p)
}

func (Pets) GetPet(ctx context.Context, db *gorm.DB, id string) (*domain.Pet, error) {
	return GetPet(ctx, db, id)
}

func (Pets) ListPetsPage(ctx context.Context, db *gorm.DB, f PetFilter, offset, limit int) ([]domain.Pet, error) {
	return ListPetsPage(ctx, db, f, offset, limit)
}

func (Pets) ReplacePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error {
	return ReplacePet(ctx, db, p)
}

func (Pets) DeletePet(ctx context.Context, db *gorm.DB, id string) error {
	return DeletePet(ctx, db, id)
}

func (Pets) CreateImage(ctx context.Context, db *gorm.DB, img *domain.Image, url string) error {
	return CreateImage(ctx, db, img, url)
}

func (Pets) PetsStats(ctx context.Context, db *gorm.DB, f PetFilter) (int64, *time.Time, error) {
	return PetsStats(ctx, db, f)
}

func (Pets) GetIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, db, scope, key, now)
}

func (Pets) CreateIdempotency(ctx context.Context, db *gorm.DB, scope, key, petID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return CreateIdempotency(ctx, db, scope, key, petID, status, ttl)
}
