package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/rmiras/personal-site-api/internal/model"
)

func TestBlogListAttachesRelationIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT DISTINCT b.id, b.owner_id, b.title, b.text FROM blogs b WHERE b.owner_id = ? ORDER BY b.id`)).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "text"}).
			AddRow(1, 1, "first", "").
			AddRow(2, 1, "second", "body"))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT blog_id, tag_id FROM blog_tags WHERE blog_id IN (?,?) ORDER BY blog_id, tag_id`)).
		WithArgs(uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"blog_id", "tag_id"}).
			AddRow(1, 10).
			AddRow(1, 11))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT blog_id, picture_id FROM blog_pictures WHERE blog_id IN (?,?) ORDER BY blog_id, picture_id`)).
		WithArgs(uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"blog_id", "picture_id"}).
			AddRow(2, 20))

	blogs, err := NewBlogRepo(db).ListByOwner(context.Background(), 1, BlogFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(blogs) != 2 {
		t.Fatalf("got %d blogs, want 2", len(blogs))
	}
	if len(blogs[0].Tags) != 2 || blogs[0].Tags[0].ID != 10 || blogs[0].Tags[1].ID != 11 {
		t.Errorf("blog 1 tags = %+v, want ids 10,11", blogs[0].Tags)
	}
	if len(blogs[1].Pictures) != 1 || blogs[1].Pictures[0].ID != 20 {
		t.Errorf("blog 2 pictures = %+v, want id 20", blogs[1].Pictures)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestBlogListSearchMatchesTagNames(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT DISTINCT b.id, b.owner_id, b.title, b.text FROM blogs b`+
			` LEFT JOIN blog_tags sbt ON sbt.blog_id = b.id LEFT JOIN tags st ON st.id = sbt.tag_id`+
			` WHERE b.owner_id = ? AND (LOWER(b.title) LIKE ? OR LOWER(b.text) LIKE ? OR LOWER(st.name) LIKE ?) ORDER BY b.id`)).
		WithArgs(uint64(1), "%trip%", "%trip%", "%trip%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "text"}).
			AddRow(3, 1, "weekend", "a trip north"))
	mock.ExpectQuery("FROM blog_tags").
		WillReturnRows(sqlmock.NewRows([]string{"blog_id", "tag_id"}))
	mock.ExpectQuery("FROM blog_pictures").
		WillReturnRows(sqlmock.NewRows([]string{"blog_id", "picture_id"}))

	blogs, err := NewBlogRepo(db).ListByOwner(context.Background(), 1, BlogFilter{Search: "Trip"})
	if err != nil {
		t.Fatal(err)
	}
	if len(blogs) != 1 || blogs[0].ID != 3 {
		t.Errorf("blogs = %+v, want the matching blog", blogs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestBlogListSearchEscapesLikeMetacharacters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	// "100%_done" must match literally, not as a wildcard pattern
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT DISTINCT b.id, b.owner_id, b.title, b.text FROM blogs b`+
			` LEFT JOIN blog_tags sbt ON sbt.blog_id = b.id LEFT JOIN tags st ON st.id = sbt.tag_id`+
			` WHERE b.owner_id = ? AND (LOWER(b.title) LIKE ? OR LOWER(b.text) LIKE ? OR LOWER(st.name) LIKE ?) ORDER BY b.id`)).
		WithArgs(uint64(1), `%100\%\_done%`, `%100\%\_done%`, `%100\%\_done%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "text"}))

	_, err = NewBlogRepo(db).ListByOwner(context.Background(), 1, BlogFilter{Search: "100%_done"})
	if err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestBlogListTagFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT DISTINCT b.id, b.owner_id, b.title, b.text FROM blogs b`+
			` JOIN blog_tags ft ON ft.blog_id = b.id WHERE b.owner_id = ? AND ft.tag_id IN (?,?) ORDER BY b.id`)).
		WithArgs(uint64(1), uint64(4), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "text"}))

	blogs, err := NewBlogRepo(db).ListByOwner(context.Background(), 1, BlogFilter{TagIDs: []uint64{4, 9}})
	if err != nil {
		t.Fatal(err)
	}
	if len(blogs) != 0 {
		t.Errorf("blogs = %+v, want empty result", blogs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestBlogCreateRejectsForeignTagIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	// only one of the two ids resolves to a row owned by the caller
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COUNT(*) FROM tags WHERE owner_id = ? AND id IN (?,?)`)).
		WithArgs(uint64(1), uint64(7), uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	b := &model.Blog{OwnerID: 1, Title: "post"}
	err = NewBlogRepo(db).Create(context.Background(), b, []uint64{7, 8}, nil)
	var relErr *RelationError
	if !errors.As(err, &relErr) || relErr.Field != "tags" {
		t.Fatalf("err = %v, want RelationError on tags", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestBlogFullUpdateClearsOmittedRelations(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	title := "new"
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT b.id FROM blogs b WHERE b.id = ? AND b.owner_id = ? FOR UPDATE`)).
		WithArgs(uint64(5), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE blogs SET title = ?, text = ? WHERE id = ?`)).
		WithArgs("new", "", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// omitted tags and pictures reset to the empty set
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM blog_tags WHERE blog_id = ?`)).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM blog_pictures WHERE blog_id = ?`)).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewBlogRepo(db).Update(context.Background(), 5, 1, BlogChanges{Title: &title}, FullUpdate)
	if err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestBlogPartialUpdateLeavesRelationsAlone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	text := "edited"
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT b.id FROM blogs b WHERE b.id = ? AND b.owner_id = ? FOR UPDATE`)).
		WithArgs(uint64(5), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE blogs SET text = ? WHERE id = ?`)).
		WithArgs("edited", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewBlogRepo(db).Update(context.Background(), 5, 1, BlogChanges{Text: &text}, PartialUpdate)
	if err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestBlogUpdateOtherOwnerIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT b.id FROM blogs b WHERE b.id = ? AND b.owner_id = ? FOR UPDATE`)).
		WithArgs(uint64(5), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err = NewBlogRepo(db).Update(context.Background(), 5, 2, BlogChanges{}, PartialUpdate)
	if !errors.Is(err, ErrBlogNotFound) {
		t.Errorf("err = %v, want ErrBlogNotFound", err)
	}
}
