package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rmiras/personal-site-api/internal/model"
	"github.com/rmiras/personal-site-api/internal/repository"
	"github.com/rmiras/personal-site-api/internal/serializer"
)

// slideshowRef distinguishes an absent slideshow field from an explicit
// null and from an id. JSON null clears the reference.
type slideshowRef struct {
	set bool
	id  *uint64
}

func (s *slideshowRef) UnmarshalJSON(b []byte) error {
	s.set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		s.id = nil
		return nil
	}
	var n uint64
	if err := json.Unmarshal(b, &n); err != nil {
		// also accept a quoted id, as HTML form clients tend to send
		var raw string
		if err2 := json.Unmarshal(b, &raw); err2 != nil {
			return err
		}
		parsed, err2 := strconv.ParseUint(raw, 10, 64)
		if err2 != nil {
			return err2
		}
		n = parsed
	}
	s.id = &n
	return nil
}

// ListProjects handles GET /v1/projects.
func (h *ResourceHandler) ListProjects(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	projects, err := h.Projects.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Projects(projects))
}

// CreateProject handles POST /v1/projects. The optional slideshow id must
// resolve to one of the caller's slideshows.
func (h *ResourceHandler) CreateProject(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Title     string       `json:"title"`
		Tagline   string       `json:"tagline"`
		Slideshow slideshowRef `json:"slideshow"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Title == "" {
		return fieldErrors(c, "title", "this field is required")
	}
	project := &model.Project{OwnerID: ownerID, Title: body.Title, Tagline: body.Tagline, SlideshowID: body.Slideshow.id}
	if err := h.Projects.Create(c.Request().Context(), project); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, serializer.Project(*project))
}

// GetProject handles GET /v1/projects/:id.
func (h *ResourceHandler) GetProject(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	project, err := h.Projects.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Project(*project))
}

// UpdateProject handles PUT and PATCH /v1/projects/:id. On PUT an omitted
// slideshow field clears the reference to null; on PATCH it is left alone.
func (h *ResourceHandler) UpdateProject(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Title     *string      `json:"title"`
		Tagline   *string      `json:"tagline"`
		Slideshow slideshowRef `json:"slideshow"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	mode := repository.PartialUpdate
	if c.Request().Method == http.MethodPut {
		mode = repository.FullUpdate
		if body.Title == nil || *body.Title == "" {
			return fieldErrors(c, "title", "this field is required")
		}
	}
	changes := repository.ProjectChanges{
		Title:        body.Title,
		Tagline:      body.Tagline,
		SlideshowSet: body.Slideshow.set || mode == repository.FullUpdate,
		SlideshowID:  body.Slideshow.id,
	}
	if err := h.Projects.Update(c.Request().Context(), id, ownerID, changes, mode); err != nil {
		return writeRepoErr(c, err)
	}
	project, err := h.Projects.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Project(*project))
}

// DeleteProject handles DELETE /v1/projects/:id.
func (h *ResourceHandler) DeleteProject(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Projects.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
