package domain

// Category is the kind of animal.
type Category string

const (
	CategoryDog    Category = "DOG"
	CategoryCat    Category = "CAT"
	CategoryBird   Category = "BIRD"
	CategoryMouse  Category = "MOUSE"
	CategorySpider Category = "SPIDER"
)

// Categories lists every Category in declaration order.
var Categories = []Category{CategoryDog, CategoryCat, CategoryBird, CategoryMouse, CategorySpider}

// ParseCategory matches s exactly against the known categories.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// PetStatus is the sale state of a pet.
type PetStatus string

const (
	StatusAvailable PetStatus = "AVAILABLE"
	StatusPending   PetStatus = "PENDING"
	StatusSold      PetStatus = "SOLD"
)

// Statuses lists every PetStatus in declaration order.
var Statuses = []PetStatus{StatusAvailable, StatusPending, StatusSold}

// ParsePetStatus matches s exactly against the known statuses.
func ParsePetStatus(s string) (PetStatus, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Names renders enum values as strings, e.g. for error messages.
func Names[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
