// Package handlers defines the HTTP-layer validation wording and the named
// cross-field rules applied to pet payloads.
//
// Field-level checks live in `validate` struct tags and are rendered by the
// binding package; the rules here need more than one field or the request
// context. Every failure ends up as a body-site violation, so the fault
// engine answers it with a 422 listing each offending field.
package handlers

import (
	"strings"

	"github.com/tbourn/go-pet-backend/internal/binding"
)

const (
	MsgIDNotNull        = "POST request: The field pet.id must be null"
	MsgPhotoURLsNotNull = "POST request: The field pet.photo-urls must be null"
	MsgIDMismatch       = "must be equal to the path parameter petId"
	MsgMediaMismatch    = "Content does not match the declared media type"
)

// createRules apply to POST bodies: the server assigns the ID, and photo
// URLs only appear through image uploads.
var createRules = []binding.Rule[*PetRequest]{
	{
		Name:    "pet-id-absent",
		Field:   "id",
		Message: MsgIDNotNull,
		Check:   func(r *PetRequest) bool { return r.ID == nil },
	},
	{
		Name:    "photo-urls-absent",
		Field:   "photo-urls",
		Message: MsgPhotoURLsNotNull,
		Check:   func(r *PetRequest) bool { return r.PhotoURLs == nil },
	},
}

// replaceRules returns the rules for a PUT on petID: a body ID, when sent,
// must name the same pet.
func replaceRules(petID string) []binding.Rule[*PetRequest] {
	return []binding.Rule[*PetRequest]{
		{
			Name:    "pet-id-matches-path",
			Field:   "id",
			Message: MsgIDMismatch,
			Check: func(r *PetRequest) bool {
				return r.ID == nil || strings.EqualFold(*r.ID, petID)
			},
		},
	}
}
