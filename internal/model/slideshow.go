package model

// Slideshow groups pictures for display on the portfolio. Order among the
// attached pictures is not significant.
type Slideshow struct {
	ID       uint64
	OwnerID  uint64
	Title    string
	Pictures []Picture
}
