// Pet HTTP handlers.
//
// This file exposes REST endpoints for pet resources:
//   - POST   /pets                  (create, Idempotency-Key support)
//   - GET    /pets                  (list, filtered and paginated, ETag support)
//   - GET    /pets/findByStatus     (list by required status)
//   - GET    /pets/{petId}          (fetch, ETag support)
//   - PUT    /pets/{petId}          (replace)
//   - DELETE /pets/{petId}          (delete)
//   - PUT    /pets/{petId}/image    (upload image)
//
// Handlers are transport-thin: they bind input through the binding package,
// call the pet service, and hand every failure to the fault dispatcher.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-pet-backend/internal/binding"
	"github.com/tbourn/go-pet-backend/internal/domain"
	"github.com/tbourn/go-pet-backend/internal/fault"
	"github.com/tbourn/go-pet-backend/internal/http/middleware"
	"github.com/tbourn/go-pet-backend/internal/repo"
)

//
// Service contract (context-aware)
//

// PetService defines pet lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use, must honor the provided
// context, and should return *fault.Fault values for client-visible failures.
type PetService interface {
	// Create stores p; replayed reports an idempotent replay of idemKey.
	Create(ctx context.Context, p *domain.Pet, idemKey string) (pet *domain.Pet, replayed bool, err error)
	Get(ctx context.Context, id string) (*domain.Pet, error)
	// List returns one 0-based page of pets matching f.
	List(ctx context.Context, f repo.PetFilter, page, size int) ([]domain.Pet, error)
	// Stats returns count and latest update of pets matching f.
	Stats(ctx context.Context, f repo.PetFilter) (int64, *time.Time, error)
	Replace(ctx context.Context, id string, p *domain.Pet) error
	Delete(ctx context.Context, id string) error
	// StoreImage saves an image of pet id and returns its URL.
	StoreImage(ctx context.Context, id string, data []byte, contentType string) (string, error)
}

//
// Handler wiring
//

// Options tunes request limits.
type Options struct {
	// JSONMaxBytes caps pet payloads. Values <= 0 default to 1 MiB.
	JSONMaxBytes int64
	// ImageMaxBytes caps image uploads. Values <= 0 default to 2,000,000.
	ImageMaxBytes int64
}

// Handlers groups the pet endpoints.
type Handlers struct {
	pets   PetService
	faults *fault.Dispatcher

	jsonMax  int64
	imageMax int64
}

// New constructs Handlers bound to the given service and dispatcher.
func New(pets PetService, faults *fault.Dispatcher, opts Options) *Handlers {
	h := &Handlers{pets: pets, faults: faults, jsonMax: opts.JSONMaxBytes, imageMax: opts.ImageMaxBytes}
	if h.jsonMax <= 0 {
		h.jsonMax = 1 << 20
	}
	if h.imageMax <= 0 {
		h.imageMax = 2_000_000
	}
	if h.faults == nil {
		h.faults = fault.NewDispatcher(fault.Builder{})
	}
	return h
}

// Routes mounts the pet endpoints under r. Body-carrying endpoints declare
// the media types they consume.
func (h *Handlers) Routes(r gin.IRouter) {
	jsonOnly := middleware.RequireMediaType(h.faults, "application/json")
	images := middleware.RequireMediaType(h.faults, "image/gif", "image/jpeg", "image/png")

	g := r.Group("/pets")
	g.POST("", jsonOnly, h.CreatePet)
	g.GET("", h.ListPets)
	g.GET("/findByStatus", h.FindByStatus)
	g.GET("/:petId", h.GetPet)
	g.PUT("/:petId", jsonOnly, h.ReplacePet)
	g.DELETE("/:petId", h.DeletePet)
	g.PUT("/:petId/image", images, h.UploadImage)
}

//
// DTOs
//

// PetRequest is the JSON payload for creating or replacing a pet. Enum, UUID
// and URL fields arrive as strings and are converted after decoding, so a
// bad literal is reported against its field.
type PetRequest struct {
	ID          *string  `json:"id,omitempty" format:"uuid" example:"6f09a3c7-fdec-4949-9da5-d089f9ccb378"`
	Category    *string  `json:"category" validate:"required" enums:"DOG,CAT,BIRD,MOUSE,SPIDER" example:"DOG"`
	Name        *string  `json:"name" validate:"required,size=3:30" example:"Rex"`
	PhotoURLs   []string `json:"photo-urls,omitempty"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,size=3:20" example:"cute,small"`
	Status      *string  `json:"status" validate:"required" enums:"AVAILABLE,PENDING,SOLD" example:"AVAILABLE"`
	Description *string  `json:"description" validate:"required,size=30:1000" example:"A very friendly dog that loves long walks."`
}

// Pet is the JSON representation of a stored pet.
type Pet struct {
	ID          string           `json:"id" format:"uuid" example:"6f09a3c7-fdec-4949-9da5-d089f9ccb378"`
	Category    domain.Category  `json:"category" example:"DOG"`
	Name        string           `json:"name" example:"Rex"`
	PhotoURLs   []string         `json:"photo-urls,omitempty"`
	Tags        []string         `json:"tags,omitempty" example:"cute,small"`
	Status      domain.PetStatus `json:"status" example:"AVAILABLE"`
	Description string           `json:"description" example:"A very friendly dog that loves long walks."`
}

func toPet(p *domain.Pet) Pet {
	return Pet{
		ID:          p.ID,
		Category:    p.Category,
		Name:        p.Name,
		PhotoURLs:   p.URLs(),
		Tags:        p.TagNames(),
		Status:      p.Status,
		Description: p.Description,
	}
}

func toPets(ps []domain.Pet) []Pet {
	out := make([]Pet, 0, len(ps))
	for i := range ps {
		out = append(out, toPet(&ps[i]))
	}
	return out
}

//
// Binding helpers
//

// bindPet decodes body into a domain pet. Decoding and conversion failures
// are type mismatches; everything after that is collected into one body
// violation fault so the client sees every offending field at once.
func bindPet(body []byte, rules ...binding.Rule[*PetRequest]) (*domain.Pet, error) {
	var req PetRequest
	if err := binding.DecodeJSON(body, &req); err != nil {
		return nil, err
	}

	co := binding.NewCoercer(body)
	co.UUID("id", req.ID)
	category := binding.CoerceEnum(co, "category", "Category", req.Category,
		domain.Names(domain.Categories), domain.ParseCategory)
	status := binding.CoerceEnum(co, "status", "PetStatus", req.Status,
		domain.Names(domain.Statuses), domain.ParsePetStatus)
	urls := co.URLs("photo-urls", req.PhotoURLs)
	if err := co.Err(); err != nil {
		return nil, err
	}

	vs, err := binding.Struct(&req)
	if err != nil {
		return nil, fault.Wrap(err)
	}
	vs = append(vs, binding.CheckRules(&req, rules...)...)
	if len(vs) > 0 {
		return nil, fault.NewBodyViolations(vs)
	}

	p := &domain.Pet{
		Category:    category,
		Name:        *req.Name,
		Status:      status,
		Description: *req.Description,
	}
	for _, t := range req.Tags {
		p.Tags = append(p.Tags, domain.Tag{Name: t})
	}
	for _, u := range urls {
		p.PhotoURLs = append(p.PhotoURLs, domain.PhotoURL{URL: u})
	}
	return p, nil
}

// listParams reads page, size, tags, status and category. When requireStatus
// is set a missing status is reported as a missing parameter.
func listParams(c *gin.Context, requireStatus bool) (f repo.PetFilter, page, size int, err error) {
	const (
		defaultPage = 0
		defaultSize = 20
		minSize     = 10
		maxSize     = 1000
		sizeStep    = 10
	)

	var p binding.Params
	page = p.Int("page", c.Query("page"), defaultPage)
	size = p.Int("size", c.Query("size"), defaultSize)
	f.Tags = p.List(c.QueryArray("tags"))

	rawStatus := c.Query("status")
	if !requireStatus || p.Require("status", "PetStatus", rawStatus) {
		f.Status, _ = binding.Enum(&p, "status", "PetStatus", rawStatus, domain.ParsePetStatus)
	}
	f.Category, _ = binding.Enum(&p, "category", "Category", c.Query("category"), domain.ParseCategory)

	p.Check(
		binding.Min("page", page, 0),
		binding.Min("size", size, minSize),
		binding.Max("size", size, maxSize),
		binding.MultipleOf("size", size, sizeStep),
		binding.EachLength("tags", f.Tags, 3, 20),
	)
	return f, page, size, p.Err()
}

// etagMatches sets the ETag header and reports whether the client already
// holds that representation.
func etagMatches(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	inm := c.GetHeader("If-None-Match")
	return inm != "" && inm == etag
}

// filterKey condenses a filter and page into a short stable token.
func filterKey(f repo.PetFilter, page, size int) string {
	raw := fmt.Sprintf("%s|%s|%s|%d|%d", f.Status, f.Category, strings.Join(f.Tags, ","), page, size)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(raw)).String()[:8]
}

//
// Handlers
//

// CreatePet godoc
// @ID          addPet
// @Summary     Add a new pet to the store
// @Description Creates a pet and returns its location. The id and photo-urls fields must be absent.
// @Description Supports idempotency via the Idempotency-Key header (same key → same pet).
// @Tags        Pets
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.PetRequest  true  "Pet to add"
//
// @Success     201  {string}  string  "Created"
// @Header      201  {string}  Location              "URI of the new pet"
// @Header      201  {string}  Idempotency-Replayed  "true when an earlier create was replayed"
// @Failure     400  {object}  fault.ProblemDetail  "Malformed body"
// @Failure     415  {object}  fault.ProblemDetail  "Unsupported media type"
// @Failure     422  {object}  fault.ProblemDetail  "Body validation failed"
// @Failure     500  {object}  fault.ProblemDetail  "Internal error"
// @Router      /pets [post]
func (h *Handlers) CreatePet(c *gin.Context) {
	body, err := readBody(c, h.jsonMax)
	if err != nil {
		h.problem(c, err)
		return
	}
	pet, err := bindPet(body, createRules...)
	if err != nil {
		h.problem(c, err)
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)
	stored, replayed, err := h.pets.Create(c.Request.Context(), pet, idemKey)
	if err != nil {
		h.problem(c, err)
		return
	}
	if replayed {
		c.Header("Idempotency-Replayed", "true")
	}
	middleware.LoggerFrom(c).Info().Str("pet_id", stored.ID).Bool("replayed", replayed).Msg("pet created")
	created(c, strings.TrimRight(c.Request.URL.Path, "/")+"/"+stored.ID)
}

// ListPets godoc
// @ID          findPetsRestrictedByParameters
// @Summary     List pets (filtered, paginated)
// @Description Returns pets newest first. Filters are AND-combined; tags match any of the given tags.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        Pets
// @Produce     json
//
// @Param       If-None-Match  header  string    false "Return 304 if ETag matches"
// @Param       page           query   int       false "Page number (0-based)"  minimum(0) default(0)
// @Param       size           query   int       false "Page size, multiple of 10"  minimum(10) maximum(1000) default(20)
// @Param       tags           query   []string  false "Tags (3..20 chars each)"  collectionFormat(csv)
// @Param       status         query   string    false "Status"    Enums(AVAILABLE, PENDING, SOLD)
// @Param       category       query   string    false "Category"  Enums(DOG, CAT, BIRD, MOUSE, SPIDER)
//
// @Success     200  {array}   handlers.Pet
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  fault.ProblemDetail "Invalid parameter"
// @Failure     500  {object}  fault.ProblemDetail "Internal error"
// @Router      /pets [get]
func (h *Handlers) ListPets(c *gin.Context) {
	h.listPets(c, false)
}

// FindByStatus godoc
// @ID          findPetsByStatus
// @Summary     Find pets by status
// @Description Like the list endpoint, but status is required.
// @Tags        Pets
// @Produce     json
//
// @Param       status  query  string  true   "Status"  Enums(AVAILABLE, PENDING, SOLD)
// @Param       page    query  int     false  "Page number (0-based)"  minimum(0) default(0)
// @Param       size    query  int     false  "Page size, multiple of 10"  minimum(10) maximum(1000) default(20)
//
// @Success     200  {array}   handlers.Pet
// @Failure     400  {object}  fault.ProblemDetail "Missing or invalid parameter"
// @Failure     500  {object}  fault.ProblemDetail "Internal error"
// @Router      /pets/findByStatus [get]
func (h *Handlers) FindByStatus(c *gin.Context) {
	h.listPets(c, true)
}

func (h *Handlers) listPets(c *gin.Context, requireStatus bool) {
	f, page, size, err := listParams(c, requireStatus)
	if err != nil {
		h.problem(c, err)
		return
	}
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	if count, maxTS, err := h.pets.Stats(ctx, f); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		if etagMatches(c, fmt.Sprintf(`W/"pets:%s:%d:%d"`, filterKey(f, page, size), count, ts)) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, err := h.pets.List(ctx, f, page, size)
	if err != nil {
		h.problem(c, err)
		return
	}
	ok(c, http.StatusOK, toPets(items))
}

// GetPet godoc
// @ID          getPetById
// @Summary     Find pet by ID
// @Tags        Pets
// @Produce     json
//
// @Param       petId          path    string  true  "Pet ID (UUID)"  format(uuid)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object}  handlers.Pet
// @Header      200  {string}  ETag  "Weak ETag of the pet"
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  fault.ProblemDetail "Invalid ID"
// @Failure     404  {object}  fault.ProblemDetail "Pet not found"
// @Router      /pets/{petId} [get]
func (h *Handlers) GetPet(c *gin.Context) {
	var p binding.Params
	id := p.UUID("petId", c.Param("petId"))
	if err := p.Err(); err != nil {
		h.problem(c, err)
		return
	}

	pet, err := h.pets.Get(c.Request.Context(), id.String())
	if err != nil {
		h.problem(c, err)
		return
	}
	if etagMatches(c, fmt.Sprintf(`W/"pet:%s:%d"`, pet.ID, pet.UpdatedAt.UnixNano())) {
		c.Status(http.StatusNotModified)
		return
	}
	ok(c, http.StatusOK, toPet(pet))
}

// ReplacePet godoc
// @ID          updatePet
// @Summary     Replace an existing pet
// @Description Overwrites all fields but photo-urls. A body id, if sent, must equal petId.
// @Tags        Pets
// @Accept      json
// @Produce     json
//
// @Param       petId  path  string               true  "Pet ID (UUID)"  format(uuid)
// @Param       body   body  handlers.PetRequest  true  "Replacement pet"
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  fault.ProblemDetail "Malformed body or ID"
// @Failure     404  {object}  fault.ProblemDetail "Pet not found"
// @Failure     415  {object}  fault.ProblemDetail "Unsupported media type"
// @Failure     422  {object}  fault.ProblemDetail "Body validation failed"
// @Router      /pets/{petId} [put]
func (h *Handlers) ReplacePet(c *gin.Context) {
	var p binding.Params
	id := p.UUID("petId", c.Param("petId"))
	if err := p.Err(); err != nil {
		h.problem(c, err)
		return
	}

	body, err := readBody(c, h.jsonMax)
	if err != nil {
		h.problem(c, err)
		return
	}
	pet, err := bindPet(body, replaceRules(id.String())...)
	if err != nil {
		h.problem(c, err)
		return
	}

	if err := h.pets.Replace(c.Request.Context(), id.String(), pet); err != nil {
		h.problem(c, err)
		return
	}
	noContent(c)
}

// DeletePet godoc
// @ID          deletePet
// @Summary     Delete a pet
// @Tags        Pets
//
// @Param       petId  path  string  true  "Pet ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  fault.ProblemDetail "Invalid ID"
// @Failure     404  {object}  fault.ProblemDetail "Pet not found"
// @Router      /pets/{petId} [delete]
func (h *Handlers) DeletePet(c *gin.Context) {
	var p binding.Params
	id := p.UUID("petId", c.Param("petId"))
	if err := p.Err(); err != nil {
		h.problem(c, err)
		return
	}
	if err := h.pets.Delete(c.Request.Context(), id.String()); err != nil {
		h.problem(c, err)
		return
	}
	noContent(c)
}

// UploadImage godoc
// @ID          uploadFile
// @Summary     Upload an image of a pet
// @Description The sniffed content type must equal the declared one. Uploading identical bytes twice is a conflict.
// @Tags        Pets
// @Accept      image/gif,image/jpeg,image/png
//
// @Param       petId  path  string  true  "Pet ID (UUID)"  format(uuid)
// @Param       body   body  []byte  true  "Image bytes"
//
// @Success     201  {string}  string "Created"
// @Header      201  {string}  Location  "URL of the stored image"
// @Failure     400  {object}  fault.ProblemDetail "Invalid ID or empty body"
// @Failure     404  {object}  fault.ProblemDetail "Pet not found"
// @Failure     409  {object}  fault.ProblemDetail "Image already stored"
// @Failure     415  {object}  fault.ProblemDetail "Unsupported media type"
// @Failure     422  {object}  fault.ProblemDetail "Too large or content mismatch"
// @Router      /pets/{petId}/image [put]
func (h *Handlers) UploadImage(c *gin.Context) {
	var p binding.Params
	id := p.UUID("petId", c.Param("petId"))
	if err := p.Err(); err != nil {
		h.problem(c, err)
		return
	}

	data, err := readBody(c, h.imageMax)
	if err != nil {
		h.problem(c, err)
		return
	}
	declared := middleware.MediaType(c)
	if len(data) > 0 && !mimetype.Detect(data).Is(declared) {
		h.problem(c, fault.NewBodyViolations([]fault.Violation{{
			Path:    []string{binding.BodySegment},
			Message: MsgMediaMismatch,
		}}))
		return
	}

	url, err := h.pets.StoreImage(c.Request.Context(), id.String(), data, declared)
	if err != nil {
		h.problem(c, err)
		return
	}
	middleware.LoggerFrom(c).Info().Str("pet_id", id.String()).Int("bytes", len(data)).Msg("image stored")
	created(c, url)
}
