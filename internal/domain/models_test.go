package domain

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(Pet{}).TableName():         "pets",
		(Tag{}).TableName():         "tags",
		(PhotoURL{}).TableName():    "photo_urls",
		(Image{}).TableName():       "images",
		(Idempotency{}).TableName(): "idempotency",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Pet{}, &Tag{}, &PhotoURL{}, &Image{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	for _, idx := range []struct {
		model any
		name  string
	}{
		{&Pet{}, "idx_pet_status"},
		{&Pet{}, "idx_pet_category"},
		{&Tag{}, "ux_tag_pet_name"},
		{&PhotoURL{}, "ux_photo_url"},
	} {
		if !m.HasIndex(idx.model, idx.name) {
			t.Fatalf("expected index %s on %T", idx.name, idx.model)
		}
	}

	now := time.Now().UTC()
	p := &Pet{
		ID: "p1", Category: CategoryDog, Name: "Rex", Status: StatusAvailable,
		Description: "A good dog that likes long walks.",
		Tags:        []Tag{{Name: "cute"}, {Name: "large"}},
		PhotoURLs:   []PhotoURL{{URL: "http://x/1.png"}},
		CreatedAt:   now,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("insert pet: %v", err)
	}
	if err := db.Create(&Image{ID: "i1", PetID: "p1", ContentType: "image/png", Size: 1, Data: []byte{1}}).Error; err != nil {
		t.Fatalf("insert image: %v", err)
	}

	// Unique (pet_id, name) on tags.
	if err := db.Create(&Tag{PetID: "p1", Name: "cute"}).Error; err == nil {
		t.Fatalf("expected unique violation for duplicate tag")
	}

	if err := db.Delete(&Pet{}, "id = ?", "p1").Error; err != nil {
		t.Fatalf("delete pet: %v", err)
	}
	for _, model := range []any{&Tag{}, &PhotoURL{}, &Image{}} {
		var cnt int64
		if err := db.Model(model).Where("pet_id = ?", "p1").Count(&cnt).Error; err != nil {
			t.Fatalf("count %T: %v", model, err)
		}
		if cnt != 0 {
			t.Fatalf("expected %T rows to cascade-delete, got %d", model, cnt)
		}
	}
}

func TestPetAccessors(t *testing.T) {
	p := &Pet{
		Tags:      []Tag{{Name: "a"}, {Name: "b"}},
		PhotoURLs: []PhotoURL{{URL: "u1"}},
	}
	if !reflect.DeepEqual(p.TagNames(), []string{"a", "b"}) {
		t.Fatalf("TagNames = %v", p.TagNames())
	}
	if !reflect.DeepEqual(p.URLs(), []string{"u1"}) {
		t.Fatalf("URLs = %v", p.URLs())
	}
	if got := (&Pet{}).TagNames(); got == nil || len(got) != 0 {
		t.Fatalf("empty TagNames = %#v", got)
	}
}

func TestParseEnums(t *testing.T) {
	if c, ok := ParseCategory("SPIDER"); !ok || c != CategorySpider {
		t.Fatalf("ParseCategory(SPIDER) = %q, %v", c, ok)
	}
	if _, ok := ParseCategory("dog"); ok {
		t.Fatalf("ParseCategory must be case-sensitive")
	}
	if s, ok := ParsePetStatus("SOLD"); !ok || s != StatusSold {
		t.Fatalf("ParsePetStatus(SOLD) = %q, %v", s, ok)
	}
	if _, ok := ParsePetStatus("GONE"); ok {
		t.Fatalf("unexpected status")
	}
	if got := Names(Statuses); !reflect.DeepEqual(got, []string{"AVAILABLE", "PENDING", "SOLD"}) {
		t.Fatalf("Names = %v", got)
	}
}
