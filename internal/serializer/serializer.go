// Package serializer shapes entities into their JSON representations.
// Entities with relations have two shapes selected by an explicit Mode:
// Reference renders related objects as bare id lists (list views and write
// input), Nested renders them as full objects exactly one level deep
// (detail views). Nested objects never expand their own relations.
package serializer

import "github.com/rmiras/personal-site-api/internal/model"

// Mode selects how related entities are rendered.
type Mode int

const (
	// Reference renders relations as raw identifier sets.
	Reference Mode = iota
	// Nested renders relations as fully shaped objects, one level deep.
	Nested
)

// TagView exposes id and name.
type TagView struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// PictureView exposes id, caption and the image reference. Image is null
// until an upload has happened.
type PictureView struct {
	ID      uint64  `json:"id"`
	Caption string  `json:"caption"`
	Image   *string `json:"image"`
}

// PictureImageView is the upload endpoint's response shape: id and image
// only, nothing else.
type PictureImageView struct {
	ID    uint64  `json:"id"`
	Image *string `json:"image"`
}

// BlogReferenceView renders a blog with relation id lists.
type BlogReferenceView struct {
	ID       uint64   `json:"id"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Pictures []uint64 `json:"pictures"`
	Tags     []uint64 `json:"tags"`
}

// BlogNestedView renders a blog with fully shaped relations.
type BlogNestedView struct {
	ID       uint64        `json:"id"`
	Title    string        `json:"title"`
	Text     string        `json:"text"`
	Pictures []PictureView `json:"pictures"`
	Tags     []TagView     `json:"tags"`
}

// SlideshowView renders a slideshow; pictures are always id references.
type SlideshowView struct {
	ID       uint64   `json:"id"`
	Title    string   `json:"title"`
	Pictures []uint64 `json:"pictures"`
}

// ProjectView renders a project; the slideshow is a single nullable id.
type ProjectView struct {
	ID        uint64  `json:"id"`
	Title     string  `json:"title"`
	Tagline   string  `json:"tagline"`
	Slideshow *uint64 `json:"slideshow"`
}

// Tag shapes a single tag.
func Tag(t model.Tag) TagView {
	return TagView{ID: t.ID, Name: t.Name}
}

// Tags shapes a tag list; an empty input serializes as [] rather than null.
func Tags(ts []model.Tag) []TagView {
	out := make([]TagView, 0, len(ts))
	for _, t := range ts {
		out = append(out, Tag(t))
	}
	return out
}

// Picture shapes a single picture.
func Picture(p model.Picture) PictureView {
	return PictureView{ID: p.ID, Caption: p.Caption, Image: p.Image}
}

// Pictures shapes a picture list.
func Pictures(ps []model.Picture) []PictureView {
	out := make([]PictureView, 0, len(ps))
	for _, p := range ps {
		out = append(out, Picture(p))
	}
	return out
}

// PictureImage shapes the upload response.
func PictureImage(p model.Picture) PictureImageView {
	return PictureImageView{ID: p.ID, Image: p.Image}
}

// Blog shapes a blog according to the mode.
func Blog(b model.Blog, mode Mode) any {
	if mode == Nested {
		return BlogNestedView{
			ID:       b.ID,
			Title:    b.Title,
			Text:     b.Text,
			Pictures: Pictures(b.Pictures),
			Tags:     Tags(b.Tags),
		}
	}
	v := BlogReferenceView{
		ID:       b.ID,
		Title:    b.Title,
		Text:     b.Text,
		Pictures: make([]uint64, 0, len(b.Pictures)),
		Tags:     make([]uint64, 0, len(b.Tags)),
	}
	for _, p := range b.Pictures {
		v.Pictures = append(v.Pictures, p.ID)
	}
	for _, t := range b.Tags {
		v.Tags = append(v.Tags, t.ID)
	}
	return v
}

// Blogs shapes a blog list in one mode.
func Blogs(bs []model.Blog, mode Mode) []any {
	out := make([]any, 0, len(bs))
	for _, b := range bs {
		out = append(out, Blog(b, mode))
	}
	return out
}

// Slideshow shapes a single slideshow.
func Slideshow(s model.Slideshow) SlideshowView {
	v := SlideshowView{ID: s.ID, Title: s.Title, Pictures: make([]uint64, 0, len(s.Pictures))}
	for _, p := range s.Pictures {
		v.Pictures = append(v.Pictures, p.ID)
	}
	return v
}

// Slideshows shapes a slideshow list.
func Slideshows(ss []model.Slideshow) []SlideshowView {
	out := make([]SlideshowView, 0, len(ss))
	for _, s := range ss {
		out = append(out, Slideshow(s))
	}
	return out
}

// Project shapes a single project.
func Project(p model.Project) ProjectView {
	return ProjectView{ID: p.ID, Title: p.Title, Tagline: p.Tagline, Slideshow: p.SlideshowID}
}

// Projects shapes a project list.
func Projects(ps []model.Project) []ProjectView {
	out := make([]ProjectView, 0, len(ps))
	for _, p := range ps {
		out = append(out, Project(p))
	}
	return out
}
