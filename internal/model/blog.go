package model

// Blog is a post with free-form text and two many-to-many relations.
// Tags and Pictures are populated by the repository: list queries fill
// only the related IDs, detail queries fill every visible field.
type Blog struct {
	ID       uint64
	OwnerID  uint64
	Title    string
	Text     string
	Tags     []Tag
	Pictures []Picture
}
