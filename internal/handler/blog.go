package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rmiras/personal-site-api/internal/model"
	"github.com/rmiras/personal-site-api/internal/repository"
	"github.com/rmiras/personal-site-api/internal/serializer"
)

// ListBlogs handles GET /v1/blogs. Optional filters: tags=<id,id,...>
// keeps blogs carrying at least one listed tag, search=<text> matches the
// substring against title, text and attached tag names.
func (h *ResourceHandler) ListBlogs(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tagIDs, err := parseIDList(c.QueryParam("tags"))
	if err != nil {
		return fieldErrors(c, "tags", "must be a comma-separated list of ids")
	}
	filter := repository.BlogFilter{TagIDs: tagIDs, Search: c.QueryParam("search")}
	blogs, err := h.Blogs.ListByOwner(c.Request().Context(), ownerID, filter)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Blogs(blogs, serializer.Reference))
}

// CreateBlog handles POST /v1/blogs. Relation fields take id lists; every
// id must resolve to one of the caller's own tags or pictures.
func (h *ResourceHandler) CreateBlog(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Title    string   `json:"title"`
		Text     string   `json:"text"`
		Tags     []uint64 `json:"tags"`
		Pictures []uint64 `json:"pictures"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Title == "" {
		return fieldErrors(c, "title", "this field is required")
	}
	blog := &model.Blog{OwnerID: ownerID, Title: body.Title, Text: body.Text}
	if err := h.Blogs.Create(c.Request().Context(), blog, body.Tags, body.Pictures); err != nil {
		return writeRepoErr(c, err)
	}
	for _, id := range body.Tags {
		blog.Tags = append(blog.Tags, model.Tag{ID: id})
	}
	for _, id := range body.Pictures {
		blog.Pictures = append(blog.Pictures, model.Picture{ID: id})
	}
	return c.JSON(http.StatusCreated, serializer.Blog(*blog, serializer.Reference))
}

// GetBlog handles GET /v1/blogs/:id and returns the nested detail shape.
func (h *ResourceHandler) GetBlog(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	blog, err := h.Blogs.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Blog(*blog, serializer.Nested))
}

// UpdateBlog handles PUT and PATCH /v1/blogs/:id. PUT is replace-all: an
// omitted tags or pictures field clears that relation, omitted text resets
// to empty. PATCH leaves omitted fields untouched.
func (h *ResourceHandler) UpdateBlog(c echo.Context) error {
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
		Text     *string   `json:"text"`
		Tags     *[]uint64 `json:"tags"`
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
	changes := repository.BlogChanges{Title: body.Title, Text: body.Text, TagIDs: body.Tags, PictureIDs: body.Pictures}
	if err := h.Blogs.Update(c.Request().Context(), id, ownerID, changes, mode); err != nil {
		return writeRepoErr(c, err)
	}
	blog, err := h.Blogs.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Blog(*blog, serializer.Reference))
}

// DeleteBlog handles DELETE /v1/blogs/:id.
func (h *ResourceHandler) DeleteBlog(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Blogs.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
