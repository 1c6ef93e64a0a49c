package repo

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-backend/internal/domain"
)

func newPetDB(t *testing.T) *gorm.DB {
	t.Helper()
	return newTestDB(t, &domain.Pet{}, &domain.Tag{}, &domain.PhotoURL{}, &domain.Image{})
}

func seedPet(t *testing.T, db *gorm.DB, id string, cat domain.Category, st domain.PetStatus, tags ...string) *domain.Pet {
	t.Helper()
	p := &domain.Pet{
		ID: id, Category: cat, Name: "Pet " + id, Status: st,
		Description: "Description long enough to pass the rules.",
	}
	for _, tg := range tags {
		p.Tags = append(p.Tags, domain.Tag{Name: tg})
	}
	if err := CreatePet(context.Background(), db, p); err != nil {
		t.Fatalf("CreatePet(%s): %v", id, err)
	}
	// Distinct creation times keep the newest-first order deterministic.
	time.Sleep(2 * time.Millisecond)
	return p
}

func ids(ps []domain.Pet) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestCreateAndGetPet(t *testing.T) {
	db := newPetDB(t)
	ctx := context.Background()
	seedPet(t, db, "p1", domain.CategoryDog, domain.StatusAvailable, "cute", "large")

	got, err := GetPet(ctx, db, "p1")
	if err != nil {
		t.Fatalf("GetPet: %v", err)
	}
	if got.Category != domain.CategoryDog || got.Status != domain.StatusAvailable {
		t.Fatalf("unexpected pet: %+v", got)
	}
	if !reflect.DeepEqual(got.TagNames(), []string{"cute", "large"}) {
		t.Fatalf("tags = %v", got.TagNames())
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", got)
	}

	if _, err := GetPet(ctx, db, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPetsPage_FiltersAndOrder(t *testing.T) {
	db := newPetDB(t)
	ctx := context.Background()
	seedPet(t, db, "p1", domain.CategoryDog, domain.StatusAvailable, "cute")
	seedPet(t, db, "p2", domain.CategoryCat, domain.StatusAvailable, "lazy")
	seedPet(t, db, "p3", domain.CategoryDog, domain.StatusSold, "cute", "old")
	seedPet(t, db, "p4", domain.CategoryDog, domain.StatusAvailable)

	cases := []struct {
		name string
		f    PetFilter
		want []string
	}{
		{"all newest first", PetFilter{}, []string{"p4", "p3", "p2", "p1"}},
		{"status", PetFilter{Status: domain.StatusAvailable}, []string{"p4", "p2", "p1"}},
		{"category", PetFilter{Category: domain.CategoryCat}, []string{"p2"}},
		{"tags any", PetFilter{Tags: []string{"cute", "lazy"}}, []string{"p3", "p2", "p1"}},
		{"combined", PetFilter{Status: domain.StatusAvailable, Category: domain.CategoryDog, Tags: []string{"cute"}}, []string{"p1"}},
		{"nothing", PetFilter{Tags: []string{"unknown"}}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ListPetsPage(ctx, db, tc.f, 0, 10)
			if err != nil {
				t.Fatalf("ListPetsPage: %v", err)
			}
			if !reflect.DeepEqual(ids(got), tc.want) {
				t.Fatalf("ids = %v, want %v", ids(got), tc.want)
			}
		})
	}

	page, err := ListPetsPage(ctx, db, PetFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("ListPetsPage offset: %v", err)
	}
	if !reflect.DeepEqual(ids(page), []string{"p2", "p1"}) {
		t.Fatalf("second page = %v", ids(page))
	}
	if len(page[1].Tags) != 1 || page[1].Tags[0].Name != "cute" {
		t.Fatalf("tags not preloaded: %+v", page[1].Tags)
	}
}

func TestReplacePet(t *testing.T) {
	db := newPetDB(t)
	ctx := context.Background()
	seedPet(t, db, "p1", domain.CategoryDog, domain.StatusAvailable, "cute")

	upd := &domain.Pet{
		ID: "p1", Category: domain.CategoryBird, Name: "Tweety", Status: domain.StatusPending,
		Description: "Small yellow bird that sings all day.",
		Tags:        []domain.Tag{{Name: "yellow"}, {Name: "loud"}},
	}
	if err := ReplacePet(ctx, db, upd); err != nil {
		t.Fatalf("ReplacePet: %v", err)
	}
	got, err := GetPet(ctx, db, "p1")
	if err != nil {
		t.Fatalf("GetPet: %v", err)
	}
	if got.Name != "Tweety" || got.Category != domain.CategoryBird || got.Status != domain.StatusPending {
		t.Fatalf("not replaced: %+v", got)
	}
	if !reflect.DeepEqual(got.TagNames(), []string{"yellow", "loud"}) {
		t.Fatalf("tags = %v", got.TagNames())
	}

	missing := *upd
	missing.ID = "nope"
	missing.Tags = nil
	if err := ReplacePet(ctx, db, &missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePet(t *testing.T) {
	db := newPetDB(t)
	ctx := context.Background()
	seedPet(t, db, "p1", domain.CategoryDog, domain.StatusAvailable, "cute")
	if err := CreateImage(ctx, db, &domain.Image{ID: "img", PetID: "p1", ContentType: "image/png", Size: 1, Data: []byte{1}}, "http://x/img"); err != nil {
		t.Fatalf("CreateImage: %v", err)
	}

	if err := DeletePet(ctx, db, "p1"); err != nil {
		t.Fatalf("DeletePet: %v", err)
	}
	if _, err := GetPet(ctx, db, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("pet still present: %v", err)
	}
	if n, _ := CountImages(ctx, db, "p1"); n != 0 {
		t.Fatalf("images left: %d", n)
	}
	if err := DeletePet(ctx, db, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestCreateImage_DuplicateIsUniqueViolation(t *testing.T) {
	db := newPetDB(t)
	ctx := context.Background()
	seedPet(t, db, "p1", domain.CategoryDog, domain.StatusAvailable)

	img := func() *domain.Image {
		return &domain.Image{ID: "same", PetID: "p1", ContentType: "image/gif", Size: 3, Data: []byte("GIF")}
	}
	if err := CreateImage(ctx, db, img(), "http://x/same"); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	err := CreateImage(ctx, db, img(), "http://x/same")
	if err == nil || !IsUniqueViolation(err) || !IsConstraintViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	got, _ := GetPet(ctx, db, "p1")
	if !reflect.DeepEqual(got.URLs(), []string{"http://x/same"}) {
		t.Fatalf("photo urls = %v", got.URLs())
	}
	if n, _ := CountImages(ctx, db, "p1"); n != 1 {
		t.Fatalf("images = %d", n)
	}
}

func TestConstraintHelpers(t *testing.T) {
	if IsUniqueViolation(nil) || IsConstraintViolation(nil) {
		t.Fatal("nil is not a violation")
	}
	if !IsUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatal("ErrDuplicatedKey is a unique violation")
	}
	fk := errors.New("constraint failed: FOREIGN KEY constraint failed (787)")
	if IsUniqueViolation(fk) || !IsConstraintViolation(fk) {
		t.Fatal("foreign key misclassified")
	}
}
