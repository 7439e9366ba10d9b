package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/acme/faculty/internal/config"
	"github.com/acme/faculty/internal/model"
	"github.com/acme/faculty/internal/response"
	"github.com/acme/faculty/internal/service"
	"github.com/acme/faculty/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FacultyResource is a faculty with its hypermedia links.
type FacultyResource struct {
	*model.Faculty
	Links map[string]response.Link `json:"_links"`
}

// FacultyHandler serves the faculty collection.
type FacultyHandler struct {
	reads  *service.FacultyReadService
	writes *service.FacultyWriteService
	cfg    *config.Config
	log    zerolog.Logger
}

func NewFacultyHandler(reads *service.FacultyReadService, writes *service.FacultyWriteService, cfg *config.Config, log zerolog.Logger) *FacultyHandler {
	return &FacultyHandler{
		reads:  reads,
		writes: writes,
		cfg:    cfg,
		log:    log.With().Str("component", "faculty_handler").Logger(),
	}
}

// Find godoc
// GET /rest?name=..&dean=..&course=..
// Without parameters returns every faculty.
func (h *FacultyHandler) Find(c *gin.Context) {
	params := map[string][]string(c.Request.URL.Query())
	faculties, err := h.reads.Find(c.Request.Context(), params)
	if err != nil {
		h.fail(c, err)
		return
	}

	base := h.baseURI(c)
	items := make([]FacultyResource, len(faculties))
	for i, f := range faculties {
		items[i] = FacultyResource{
			Faculty: f,
			Links:   map[string]response.Link{"self": {Href: base + "/" + f.ID.String()}},
		}
	}

	self := base
	if raw := c.Request.URL.RawQuery; raw != "" {
		self += "?" + raw
	}
	response.SuccessWithLinks(c, http.StatusOK, gin.H{"faculties": items},
		map[string]response.Link{"self": {Href: self}})
}

// GetByID godoc
// GET /rest/:id
// Answers 304 when If-None-Match still carries the current version.
func (h *FacultyHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	f, err := h.reads.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	etag := ETag(f.Version)
	c.Header("ETag", etag)
	if etagMatches(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}

	base := h.baseURI(c)
	self := base + "/" + f.ID.String()
	response.Success(c, http.StatusOK, FacultyResource{
		Faculty: f,
		Links: map[string]response.Link{
			"self":   {Href: self},
			"list":   {Href: base},
			"add":    {Href: base},
			"update": {Href: self},
		},
	})
}

// Create godoc
// POST /rest
func (h *FacultyHandler) Create(c *gin.Context) {
	var req model.FacultyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	f, err := h.writes.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	self := h.baseURI(c) + "/" + f.ID.String()
	c.Header("Location", self)
	c.Header("ETag", ETag(f.Version))
	response.Success(c, http.StatusCreated, FacultyResource{
		Faculty: f,
		Links:   map[string]response.Link{"self": {Href: self}},
	})
}

// Update godoc
// PUT /rest/:id
// Requires If-Match with the version the client last read.
func (h *FacultyHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ifMatch := c.GetHeader("If-Match")
	if ifMatch == "" {
		response.Fail(c, http.StatusPreconditionRequired, response.ErrPreconditionRequired)
		return
	}
	version, err := ParseETag(ifMatch)
	if err != nil {
		response.FailWithDetail(c, http.StatusPreconditionFailed, response.ErrInvalidVersion, err.Error())
		return
	}

	var req model.FacultyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	f, err := h.writes.Update(c.Request.Context(), id, &req, version)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("ETag", ETag(f.Version))
	c.Status(http.StatusNoContent)
}

func (h *FacultyHandler) baseURI(c *gin.Context) string {
	return BaseURI(c, h.cfg.RestPath, h.cfg.ForwardedPrefix)
}

// fail maps service errors onto status codes.
func (h *FacultyHandler) fail(c *gin.Context, err error) {
	var (
		notFound *service.NotFoundError
		conflict *service.VersionConflictError
		invalid  *service.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		response.FailWithDetail(c, http.StatusNotFound, response.ErrNotFound, notFound.Error())
	case errors.Is(err, service.ErrNameExists):
		response.FailWithDetail(c, http.StatusUnprocessableEntity, response.ErrNameExists, err.Error())
	case errors.Is(err, service.ErrDeanExists):
		response.FailWithDetail(c, http.StatusUnprocessableEntity, response.ErrDeanExists, err.Error())
	case errors.As(err, &conflict):
		c.Header("ETag", ETag(conflict.Actual))
		response.FailWithDetail(c, http.StatusPreconditionFailed, response.ErrVersionConflict, conflict.Error())
	case errors.As(err, &invalid):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, invalid.Fields)
	default:
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Faculty request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// ETag renders a version as a strong entity tag.
func ETag(version int) string {
	return `"` + strconv.Itoa(version) + `"`
}

var errMalformedETag = errors.New(`expected a version such as "3"`)

// ParseETag reads a version from an If-Match value. Quotes and a weak
// prefix are optional.
func ParseETag(v string) (int, error) {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, `"`)
	version, err := strconv.Atoi(v)
	if err != nil || version < 0 {
		return 0, errMalformedETag
	}
	return version, nil
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
