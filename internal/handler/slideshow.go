package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rmiras/personal-site-api/internal/model"
	"github.com/rmiras/personal-site-api/internal/repository"
	"github.com/rmiras/personal-site-api/internal/serializer"
)

// ListSlideshows handles GET /v1/slideshows.
func (h *ResourceHandler) ListSlideshows(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	shows, err := h.Slideshows.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Slideshows(shows))
}

// CreateSlideshow handles POST /v1/slideshows. Pictures are supplied as an
// id list resolving to the caller's own pictures.
func (h *ResourceHandler) CreateSlideshow(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Title    string   `json:"title"`
		Pictures []uint64 `json:"pictures"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Title == "" {
		return fieldErrors(c, "title", "this field is required")
	}
	show := &model.Slideshow{OwnerID: ownerID, Title: body.Title}
	if err := h.Slideshows.Create(c.Request().Context(), show, body.Pictures); err != nil {
		return writeRepoErr(c, err)
	}
	for _, id := range body.Pictures {
		show.Pictures = append(show.Pictures, model.Picture{ID: id})
	}
	return c.JSON(http.StatusCreated, serializer.Slideshow(*show))
}

// GetSlideshow handles GET /v1/slideshows/:id.
func (h *ResourceHandler) GetSlideshow(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	show, err := h.Slideshows.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Slideshow(*show))
}

// UpdateSlideshow handles PUT and PATCH /v1/slideshows/:id with the same
// replace-vs-merge semantics as blogs.
func (h *ResourceHandler) UpdateSlideshow(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Title    *string   `json:"title"`
		Pictures *[]uint64 `json:"pictures"`
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
	changes := repository.SlideshowChanges{Title: body.Title, PictureIDs: body.Pictures}
	if err := h.Slideshows.Update(c.Request().Context(), id, ownerID, changes, mode); err != nil {
		return writeRepoErr(c, err)
	}
	show, err := h.Slideshows.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Slideshow(*show))
}

// DeleteSlideshow handles DELETE /v1/slideshows/:id. Projects referencing
// the slideshow are detached, never deleted.
func (h *ResourceHandler) DeleteSlideshow(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Slideshows.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
