// Package services – PetService
//
// This file implements the PetService, which manages the lifecycle of pets
// and their images. It assigns identifiers, normalizes tags, replays
// idempotent creates and coordinates repository operations. Repository
// failures leave this layer as *fault.Fault values so handlers can pass them
// straight to the dispatcher.
package services

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-pet-backend/internal/domain"
	"github.com/tbourn/go-pet-backend/internal/fault"
	"github.com/tbourn/go-pet-backend/internal/repo"
)

// PetRepo defines the repository contract required by PetService.
type PetRepo interface {
	CreatePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error
	GetPet(ctx context.Context, db *gorm.DB, id string) (*domain.Pet, error)
	ListPetsPage(ctx context.Context, db *gorm.DB, f repo.PetFilter, offset, limit int) ([]domain.Pet, error)
	ReplacePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error
	DeletePet(ctx context.Context, db *gorm.DB, id string) error
	CreateImage(ctx context.Context, db *gorm.DB, img *domain.Image, url string) error
	PetsStats(ctx context.Context, db *gorm.DB, f repo.PetFilter) (int64, *time.Time, error)

	GetIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, db *gorm.DB, scope, key, petID string, status int, ttl time.Duration) (*domain.Idempotency, error)
}

// IdempotencyScope namespaces create keys in the idempotency table.
const IdempotencyScope = "POST /pets"

// imageNamespace seeds content-derived image IDs.
var imageNamespace = uuid.MustParse("6f1c3a52-9a0e-4c59-8d3e-2b4f5c7d8e90")

// PetService provides pet-level operations.
type PetService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the pet repository used by this service.
	Repo PetRepo

	// ImageBaseURL prefixes the location of stored images.
	ImageBaseURL string
	// IdempotencyTTL bounds how long a create can be replayed.
	IdempotencyTTL time.Duration
	// NewID mints pet IDs; defaults to uuid.New.
	NewID func() uuid.UUID
}

// NewPetService constructs a PetService with sane defaults.
func NewPetService(db *gorm.DB, r PetRepo, imageBaseURL string) *PetService {
	return &PetService{
		DB:             db,
		Repo:           r,
		ImageBaseURL:   strings.TrimRight(imageBaseURL, "/"),
		IdempotencyTTL: 24 * time.Hour,
		NewID:          uuid.New,
	}
}

// Create stores a new pet. When idemKey is set and a previous create with
// the same key is still recorded, the original pet is returned and replayed
// is true.
func (s *PetService) Create(ctx context.Context, p *domain.Pet, idemKey string) (created *domain.Pet, replayed bool, err error) {
	if idemKey != "" {
		rec, err := s.Repo.GetIdempotency(ctx, s.DB, IdempotencyScope, idemKey, time.Now().UTC())
		switch {
		case err == nil:
			prev, err := s.Get(ctx, rec.PetID)
			return prev, err == nil, err
		case !errors.Is(err, repo.ErrNotFound):
			return nil, false, fault.Wrap(err)
		}
	}

	p.ID = s.NewID().String()
	p.Tags = dedupeTags(p.Tags)
	if err := s.Repo.CreatePet(ctx, s.DB, p); err != nil {
		return nil, false, persistErr(p.ID, err)
	}

	if idemKey != "" {
		// A concurrent retry may have recorded the key first; the pet is
		// already stored, so the duplicate is not an error for this request.
		if _, err := s.Repo.CreateIdempotency(ctx, s.DB, IdempotencyScope, idemKey, p.ID, http.StatusCreated, s.IdempotencyTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			return nil, false, fault.Wrap(err)
		}
	}
	return p, false, nil
}

// Get returns the pet with id or an EntityNotFound fault.
func (s *PetService) Get(ctx context.Context, id string) (*domain.Pet, error) {
	p, err := s.Repo.GetPet(ctx, s.DB, id)
	if err != nil {
		return nil, persistErr(id, err)
	}
	return p, nil
}

// List returns page (0-based) of pets matching f, size per page. A page
// whose offset does not fit in an int lies past the end and is empty.
func (s *PetService) List(ctx context.Context, f repo.PetFilter, page, size int) ([]domain.Pet, error) {
	if size > 0 && page > math.MaxInt/size {
		return []domain.Pet{}, nil
	}
	items, err := s.Repo.ListPetsPage(ctx, s.DB, f, page*size, size)
	if err != nil {
		return nil, fault.Wrap(err)
	}
	return items, nil
}

// Stats returns the number of pets matching f and their latest update time,
// used for conditional responses.
func (s *PetService) Stats(ctx context.Context, f repo.PetFilter) (int64, *time.Time, error) {
	return s.Repo.PetsStats(ctx, s.DB, f)
}

// Replace overwrites the pet with id by p. Photo URLs are not touched.
func (s *PetService) Replace(ctx context.Context, id string, p *domain.Pet) error {
	p.ID = id
	p.Tags = dedupeTags(p.Tags)
	return persistErr(id, s.Repo.ReplacePet(ctx, s.DB, p))
}

// Delete removes the pet with id and everything it owns.
func (s *PetService) Delete(ctx context.Context, id string) error {
	return persistErr(id, s.Repo.DeletePet(ctx, s.DB, id))
}

// StoreImage saves data as an image of pet id and returns its public URL.
// The image ID is derived from the bytes, so uploading the same content
// twice is a unique constraint conflict.
func (s *PetService) StoreImage(ctx context.Context, id string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		f := fault.NewBodyMissing()
		f.Cause = ErrEmptyImage
		return "", f
	}
	if _, err := s.Get(ctx, id); err != nil {
		return "", err
	}

	imageID := uuid.NewSHA1(imageNamespace, data).String()
	url := s.ImageBaseURL + "/" + imageID
	img := &domain.Image{
		ID:          imageID,
		PetID:       id,
		ContentType: contentType,
		Size:        len(data),
		Data:        data,
	}
	if err := s.Repo.CreateImage(ctx, s.DB, img, url); err != nil {
		return "", persistErr(id, err)
	}
	return url, nil
}

// dedupeTags drops repeated tag names, keeping first occurrences.
func dedupeTags(in []domain.Tag) []domain.Tag {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, t := range in {
		if _, dup := seen[t.Name]; dup {
			continue
		}
		seen[t.Name] = struct{}{}
		out = append(out, t)
	}
	return out
}
