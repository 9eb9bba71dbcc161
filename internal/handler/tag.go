package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rmiras/personal-site-api/internal/model"
	"github.com/rmiras/personal-site-api/internal/repository"
	"github.com/rmiras/personal-site-api/internal/serializer"
)

// ListTags handles GET /v1/tags. The optional assigned_only=0|1 parameter
// restricts the result to tags attached to at least one blog.
func (h *ResourceHandler) ListTags(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	assignedOnly := false
	if raw := c.QueryParam("assigned_only"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fieldErrors(c, "assigned_only", "must be 0 or 1")
		}
		assignedOnly = n != 0
	}
	tags, err := h.Tags.ListByOwner(c.Request().Context(), ownerID, assignedOnly)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Tags(tags))
}

// CreateTag handles POST /v1/tags.
func (h *ResourceHandler) CreateTag(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return fieldErrors(c, "name", "this field is required")
	}
	tag := &model.Tag{OwnerID: ownerID, Name: body.Name}
	if err := h.Tags.Create(c.Request().Context(), tag); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, serializer.Tag(*tag))
}

// GetTag handles GET /v1/tags/:id.
func (h *ResourceHandler) GetTag(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	tag, err := h.Tags.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Tag(*tag))
}

// UpdateTag handles PUT and PATCH /v1/tags/:id. PUT requires the name;
// PATCH may omit it.
func (h *ResourceHandler) UpdateTag(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name *string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	mode := repository.PartialUpdate
	if c.Request().Method == http.MethodPut {
		mode = repository.FullUpdate
		if body.Name == nil || *body.Name == "" {
			return fieldErrors(c, "name", "this field is required")
		}
	}
	if err := h.Tags.Update(c.Request().Context(), id, ownerID, body.Name, mode); err != nil {
		return writeRepoErr(c, err)
	}
	tag, err := h.Tags.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Tag(*tag))
}

// DeleteTag handles DELETE /v1/tags/:id.
func (h *ResourceHandler) DeleteTag(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Tags.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
