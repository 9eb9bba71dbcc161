package model

// Project is a portfolio entry. SlideshowID optionally points at one of the
// owner's slideshows; deleting that slideshow detaches it (set-null), it
// never cascades to the project.
type Project struct {
	ID          uint64
	OwnerID     uint64
	Title       string
	Tagline     string
	SlideshowID *uint64
}
