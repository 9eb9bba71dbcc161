// Package handler contains the HTTP handlers. Handlers bind request
// bodies, resolve the authenticated owner, delegate to the repositories
// and shape responses through the serializer package.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rmiras/personal-site-api/internal/repository"
)

// getUserID extracts the user_id placed in context by the JWT middleware
// and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// parseIDList parses a comma-separated id list query parameter such as
// ?tags=1,2,3. Blank segments are rejected along with non-numeric ones.
func parseIDList(raw string) ([]uint64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, n)
	}
	return ids, nil
}

// fieldErrors is the 400 payload shape: per-field error detail.
func fieldErrors(c echo.Context, field, detail string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string][]string{field: {detail}}})
}

// writeRepoErr translates repository failures into HTTP responses shared
// by every resource handler: not-found sentinels become 404 (ownership and
// absence are indistinguishable on purpose), relation errors become 400
// naming the field, anything else is a 500.
func writeRepoErr(c echo.Context, err error) error {
	var relErr *repository.RelationError
	switch {
	case errors.Is(err, repository.ErrTagNotFound),
		errors.Is(err, repository.ErrPictureNotFound),
		errors.Is(err, repository.ErrBlogNotFound),
		errors.Is(err, repository.ErrSlideshowNotFound),
		errors.Is(err, repository.ErrProjectNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.As(err, &relErr):
		return fieldErrors(c, relErr.Field, relErr.Error())
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
}
