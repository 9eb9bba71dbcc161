package model

// Tag labels blog posts. Tags are private to their owner and attach to
// blogs through the blog_tags join table.
type Tag struct {
	ID      uint64
	OwnerID uint64
	Name    string
}
