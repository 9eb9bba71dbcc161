package model

// Picture is an uploadable image with a caption. Image holds the stored
// blob reference and stays nil until the first upload; every subsequent
// upload replaces it with a freshly generated path.
type Picture struct {
	ID      uint64
	OwnerID uint64
	Caption string
	Image   *string
}
