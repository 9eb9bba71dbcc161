package serializer

import (
	"encoding/json"
	"testing"

	"github.com/rmiras/personal-site-api/internal/model"
)

func TestBlogReferenceMode(t *testing.T) {
	b := model.Blog{
		ID:    7,
		Title: "go trip",
		Text:  "notes",
		Tags:  []model.Tag{{ID: 1, Name: "travel"}, {ID: 2, Name: "go"}},
		Pictures: []model.Picture{
			{ID: 3, Caption: "pier"},
		},
	}
	v, ok := Blog(b, Reference).(BlogReferenceView)
	if !ok {
		t.Fatalf("Reference mode returned %T, want BlogReferenceView", Blog(b, Reference))
	}
	if len(v.Tags) != 2 || v.Tags[0] != 1 || v.Tags[1] != 2 {
		t.Errorf("tags = %v, want [1 2]", v.Tags)
	}
	if len(v.Pictures) != 1 || v.Pictures[0] != 3 {
		t.Errorf("pictures = %v, want [3]", v.Pictures)
	}
}

func TestBlogNestedMode(t *testing.T) {
	img := "/media/uploads/picture/abc.jpg"
	b := model.Blog{
		ID:       7,
		Title:    "go trip",
		Tags:     []model.Tag{{ID: 1, Name: "travel"}},
		Pictures: []model.Picture{{ID: 3, Caption: "pier", Image: &img}},
	}
	v, ok := Blog(b, Nested).(BlogNestedView)
	if !ok {
		t.Fatalf("Nested mode returned %T, want BlogNestedView", Blog(b, Nested))
	}
	if len(v.Tags) != 1 || v.Tags[0] != (TagView{ID: 1, Name: "travel"}) {
		t.Errorf("tags = %v, want nested {id name}", v.Tags)
	}
	if len(v.Pictures) != 1 || v.Pictures[0].Image == nil || *v.Pictures[0].Image != img {
		t.Errorf("pictures = %v, want nested picture with image", v.Pictures)
	}
}

func TestEmptyRelationsSerializeAsArrays(t *testing.T) {
	out, err := json.Marshal(Blog(model.Blog{ID: 1, Title: "t"}, Reference))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":1,"title":"t","text":"","pictures":[],"tags":[]}`
	if string(out) != want {
		t.Errorf("json = %s, want %s", out, want)
	}
}

func TestPictureImageNullUntilUploaded(t *testing.T) {
	out, err := json.Marshal(Picture(model.Picture{ID: 4, Caption: "c"}))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":4,"caption":"c","image":null}`
	if string(out) != want {
		t.Errorf("json = %s, want %s", out, want)
	}
}

func TestPictureImageViewShape(t *testing.T) {
	img := "/media/uploads/picture/abc.jpg"
	out, err := json.Marshal(PictureImage(model.Picture{ID: 4, Caption: "hidden", Image: &img}))
	if err != nil {
		t.Fatal(err)
	}
	// the upload response exposes only id and image
	want := `{"id":4,"image":"/media/uploads/picture/abc.jpg"}`
	if string(out) != want {
		t.Errorf("json = %s, want %s", out, want)
	}
}

func TestProjectNullableSlideshow(t *testing.T) {
	out, err := json.Marshal(Project(model.Project{ID: 2, Title: "site", Tagline: "tag"}))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":2,"title":"site","tagline":"tag","slideshow":null}`
	if string(out) != want {
		t.Errorf("json = %s, want %s", out, want)
	}
}
