package handler

import (
	"github.com/rmiras/personal-site-api/internal/repository"
	"github.com/rmiras/personal-site-api/internal/storage"
)

// ResourceHandler bundles the repositories and the blob store for all
// owner-scoped site resources.
type ResourceHandler struct {
	Tags       *repository.TagRepo
	Pictures   *repository.PictureRepo
	Blogs      *repository.BlogRepo
	Slideshows *repository.SlideshowRepo
	Projects   *repository.ProjectRepo
	Store      storage.BlobStore
}

// NewResourceHandler constructs a ResourceHandler and panics if any
// dependency is nil.
func NewResourceHandler(tags *repository.TagRepo, pictures *repository.PictureRepo, blogs *repository.BlogRepo,
	slideshows *repository.SlideshowRepo, projects *repository.ProjectRepo, store storage.BlobStore) *ResourceHandler {
	if tags == nil || pictures == nil || blogs == nil || slideshows == nil || projects == nil || store == nil {
		panic("nil dependency passed to NewResourceHandler")
	}
	return &ResourceHandler{
		Tags:       tags,
		Pictures:   pictures,
		Blogs:      blogs,
		Slideshows: slideshows,
		Projects:   projects,
		Store:      store,
	}
}
