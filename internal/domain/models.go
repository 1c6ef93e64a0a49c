// Package domain defines the persistence models for pets, their tags, photo
// URLs and uploaded images. These types are mapped with GORM and shared by
// the repository and service layers.
package domain

import "time"

// Pet is the aggregate root. Tags and photo URLs are owned rows that are
// replaced wholesale on update and removed with the pet.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Category / Status: closed enums stored as their upper-case names.
//   - Name: 3..30 characters.
//   - Description: 30..1000 characters.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM; listing is newest first.
type Pet struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	Category    Category  `gorm:"type:varchar(16);not null;index:idx_pet_category"`
	Name        string    `gorm:"type:varchar(30);not null"`
	Status      PetStatus `gorm:"type:varchar(16);not null;index:idx_pet_status"`
	Description string    `gorm:"type:varchar(1000);not null"`
	CreatedAt   time.Time `gorm:"index:idx_pet_created"`
	UpdatedAt   time.Time

	Tags      []Tag      `gorm:"foreignKey:PetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PhotoURLs []PhotoURL `gorm:"foreignKey:PetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Pet.
func (Pet) TableName() string { return "pets" }

// TagNames returns the tag values in insertion order.
func (p *Pet) TagNames() []string {
	out := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		out = append(out, t.Name)
	}
	return out
}

// URLs returns the photo URLs in insertion order.
func (p *Pet) URLs() []string {
	out := make([]string, 0, len(p.PhotoURLs))
	for _, u := range p.PhotoURLs {
		out = append(out, u.URL)
	}
	return out
}

// Tag is a free-form label on a pet. A pet carries each tag at most once.
type Tag struct {
	ID    uint   `gorm:"primaryKey"`
	PetID string `gorm:"type:char(36);not null;uniqueIndex:ux_tag_pet_name,priority:1"`
	Name  string `gorm:"type:varchar(20);not null;index:idx_tag_name;uniqueIndex:ux_tag_pet_name,priority:2"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string { return "tags" }

// PhotoURL links a pet to an image location. URLs are globally unique.
type PhotoURL struct {
	ID        uint      `gorm:"primaryKey"`
	PetID     string    `gorm:"type:char(36);not null;index"`
	URL       string    `gorm:"type:varchar(512);not null;uniqueIndex:ux_photo_url"`
	CreatedAt time.Time
}

// TableName returns the database table name for PhotoURL.
func (PhotoURL) TableName() string { return "photo_urls" }

// Image is an uploaded picture. Its ID is derived from the content, so
// uploading identical bytes twice violates the primary key.
type Image struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	PetID       string    `gorm:"type:char(36);not null;index"`
	ContentType string    `gorm:"type:varchar(32);not null"`
	Size        int       `gorm:"not null"`
	Data        []byte    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Pet Pet `gorm:"foreignKey:PetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Image.
func (Image) TableName() string { return "images" }
