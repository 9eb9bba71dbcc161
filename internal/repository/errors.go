// Package repository contains the data access layer. Every query and
// mutation on site resources is scoped to the owning user: a row that
// exists but belongs to someone else is reported with the same not-found
// sentinel as a row that does not exist at all, so callers can never
// distinguish the two cases.
package repository

import "errors"

// Not-found sentinels, one per entity. Handlers translate these into
// HTTP 404 responses.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrPictureNotFound   = errors.New("picture not found")
	ErrBlogNotFound      = errors.New("blog not found")
	ErrSlideshowNotFound = errors.New("slideshow not found")
	ErrProjectNotFound   = errors.New("project not found")
)

// ErrEmailExists is returned when registering a user with a taken email.
var ErrEmailExists = errors.New("email already exists")

// UpdateMode selects the write semantics of an update. FullUpdate is
// replace-all: omitted scalar fields reset to their zero value and omitted
// relation fields are cleared to the empty set. PartialUpdate is a merge:
// omitted fields are left untouched.
type UpdateMode int

const (
	PartialUpdate UpdateMode = iota
	FullUpdate
)

// RelationError reports a relation field whose ids did not all resolve to
// rows owned by the caller. Handlers translate it into a 400 response with
// the offending field named.
type RelationError struct {
	Field string
}

func (e *RelationError) Error() string {
	return "invalid " + e.Field + ": ids must reference your own existing objects"
}
