package handler

import (
	"bytes"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	// registered decoders define which upload formats are accepted
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/labstack/echo/v4"

	"github.com/rmiras/personal-site-api/internal/model"
	"github.com/rmiras/personal-site-api/internal/repository"
	"github.com/rmiras/personal-site-api/internal/serializer"
	"github.com/rmiras/personal-site-api/internal/storage"
)

// ListPictures handles GET /v1/pictures.
func (h *ResourceHandler) ListPictures(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	pics, err := h.Pictures.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Pictures(pics))
}

// CreatePicture handles POST /v1/pictures. The image reference starts out
// null; bytes arrive later through the upload endpoint.
func (h *ResourceHandler) CreatePicture(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Caption string `json:"caption"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Caption == "" {
		return fieldErrors(c, "caption", "this field is required")
	}
	pic := &model.Picture{OwnerID: ownerID, Caption: body.Caption}
	if err := h.Pictures.Create(c.Request().Context(), pic); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, serializer.Picture(*pic))
}

// GetPicture handles GET /v1/pictures/:id.
func (h *ResourceHandler) GetPicture(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	pic, err := h.Pictures.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Picture(*pic))
}

// UpdatePicture handles PUT and PATCH /v1/pictures/:id for the caption.
func (h *ResourceHandler) UpdatePicture(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Caption *string `json:"caption"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	mode := repository.PartialUpdate
	if c.Request().Method == http.MethodPut {
		mode = repository.FullUpdate
		if body.Caption == nil || *body.Caption == "" {
			return fieldErrors(c, "caption", "this field is required")
		}
	}
	if err := h.Pictures.Update(c.Request().Context(), id, ownerID, body.Caption, mode); err != nil {
		return writeRepoErr(c, err)
	}
	pic, err := h.Pictures.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, serializer.Picture(*pic))
}

// DeletePicture handles DELETE /v1/pictures/:id. Stored blob bytes are
// left in place; only the row and its attachments go away.
func (h *ResourceHandler) DeletePicture(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Pictures.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadPictureImage handles POST /v1/pictures/:id/upload-image. The
// multipart field "image" must decode as a supported raster format; on
// success the blob is stored under a freshly generated key and the
// response carries only id and image.
func (h *ResourceHandler) UploadPictureImage(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	pic, err := h.Pictures.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeRepoErr(c, err)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return fieldErrors(c, "image", "no file was submitted")
	}
	f, err := fh.Open()
	if err != nil {
		return fieldErrors(c, "image", "could not read the submitted file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fieldErrors(c, "image", "could not read the submitted file")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fieldErrors(c, "image", "upload a valid image; the submitted file is not an image or is corrupted")
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if ext == "" {
		ext = format
	}

	key := storage.PictureImageKey(ext)
	if err := h.Store.Put(c.Request().Context(), key, "image/"+format, bytes.NewReader(data)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store image"})
	}
	url := h.Store.URL(key)
	if err := h.Pictures.SetImage(c.Request().Context(), id, ownerID, url); err != nil {
		return writeRepoErr(c, err)
	}
	pic.Image = &url
	return c.JSON(http.StatusOK, serializer.PictureImage(*pic))
}
