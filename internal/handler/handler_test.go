package handler_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/rmiras/personal-site-api/internal/handler"
	"github.com/rmiras/personal-site-api/internal/repository"
	"github.com/rmiras/personal-site-api/internal/router"
	"github.com/rmiras/personal-site-api/internal/utils"
)

const testSecret = "test-secret"

// memStore keeps uploaded blobs in memory for assertions.
type memStore struct {
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (s *memStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.blobs[key] = data
	return nil
}

func (s *memStore) URL(key string) string {
	return "/media/" + key
}

// newTestServer wires the full route table against a mocked DB so requests
// run through the real JWT middleware and handlers.
func newTestServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock, *memStore) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	store := newMemStore()
	h := handler.NewResourceHandler(
		repository.NewTagRepo(db),
		repository.NewPictureRepo(db),
		repository.NewBlogRepo(db),
		repository.NewSlideshowRepo(db),
		repository.NewProjectRepo(db),
		store)
	e := echo.New()
	router.RegisterResources(e, h, testSecret, repository.NewUserRepo(db))
	return e, mock, store
}

// expectActiveUser queues the user lookup the auth gate performs for every
// token-bearing request.
func expectActiveUser(mock sqlmock.Sqlmock, id uint64) {
	now := time.Now()
	mock.ExpectQuery("SELECT id, email, name, password_hash").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "name", "password_hash", "is_active", "is_staff", "created_at", "updated_at"}).
			AddRow(id, "owner@site.dev", "Owner", "x", true, false, now, now))
}

func authHeader(t *testing.T, userID uint64) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, 15)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok.Token
}

func doJSON(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestEveryResourceRequiresAuth(t *testing.T) {
	e, _, _ := newTestServer(t)

	paths := []string{"/v1/tags", "/v1/pictures", "/v1/blogs", "/v1/slideshows", "/v1/projects"}
	for _, p := range paths {
		rec := doJSON(e, http.MethodPost, p, "", `{"title":"x","name":"x","caption":"x"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("POST %s without token = %d, want 401", p, rec.Code)
		}
		rec = doJSON(e, http.MethodGet, p, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", p, rec.Code)
		}
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	e, _, _ := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/v1/blogs", "Bearer not-a-jwt", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", rec.Code)
	}
}

func TestBlogDetailOtherOwnerIs404(t *testing.T) {
	e, mock, _ := newTestServer(t)

	expectActiveUser(mock, 2)
	// the owner-scoped query matches nothing for a foreign blog id
	mock.ExpectQuery("SELECT b.id, b.owner_id, b.title, b.text FROM blogs b").
		WithArgs(uint64(9), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "text"}))

	rec := doJSON(e, http.MethodGet, "/v1/blogs/9", authHeader(t, 2), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404 (never 403)", rec.Code)
	}
}

func TestBlogListReferenceShape(t *testing.T) {
	e, mock, _ := newTestServer(t)

	expectActiveUser(mock, 1)
	mock.ExpectQuery("SELECT DISTINCT b.id, b.owner_id, b.title, b.text FROM blogs b").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "text"}).
			AddRow(1, 1, "hello", "world"))
	mock.ExpectQuery("FROM blog_tags").
		WillReturnRows(sqlmock.NewRows([]string{"blog_id", "tag_id"}).AddRow(1, 10))
	mock.ExpectQuery("FROM blog_pictures").
		WillReturnRows(sqlmock.NewRows([]string{"blog_id", "picture_id"}))

	rec := doJSON(e, http.MethodGet, "/v1/blogs", authHeader(t, 1), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200 (body %s)", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"tags":[10]`) {
		t.Errorf("body = %s, want reference-mode tag ids", body)
	}
	if !strings.Contains(body, `"pictures":[]`) {
		t.Errorf("body = %s, want empty pictures array", body)
	}
}

func TestBlogListBadTagsParam(t *testing.T) {
	e, mock, _ := newTestServer(t)
	expectActiveUser(mock, 1)
	rec := doJSON(e, http.MethodGet, "/v1/blogs?tags=1,x", authHeader(t, 1), "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"tags"`) {
		t.Errorf("body = %s, want the tags field named", rec.Body)
	}
}

func TestCreateBlogTitleRequired(t *testing.T) {
	e, mock, _ := newTestServer(t)
	expectActiveUser(mock, 1)
	rec := doJSON(e, http.MethodPost, "/v1/blogs", authHeader(t, 1), `{"text":"no title"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"title"`) {
		t.Errorf("body = %s, want the title field named", rec.Body)
	}
}

func TestCreateBlogWithForeignPictureIDs(t *testing.T) {
	e, mock, _ := newTestServer(t)

	expectActiveUser(mock, 1)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(1), uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(1), uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	rec := doJSON(e, http.MethodPost, "/v1/blogs", authHeader(t, 1),
		`{"title":"post","tags":[3],"pictures":[99]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400 (body %s)", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"pictures"`) {
		t.Errorf("body = %s, want the pictures field named", rec.Body)
	}
}

func TestDeleteTagNotOwnedIs404(t *testing.T) {
	e, mock, _ := newTestServer(t)

	expectActiveUser(mock, 2)
	mock.ExpectExec("DELETE FROM tags").
		WithArgs(uint64(7), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := doJSON(e, http.MethodDelete, "/v1/tags/7", authHeader(t, 2), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}

func TestTagListRejectsBadAssignedOnly(t *testing.T) {
	e, mock, _ := newTestServer(t)
	expectActiveUser(mock, 1)
	rec := doJSON(e, http.MethodGet, "/v1/tags?assigned_only=maybe", authHeader(t, 1), "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
}

func TestDeactivatedUserTokenRejected(t *testing.T) {
	e, mock, _ := newTestServer(t)

	// the token is validly signed, but the account behind it is disabled
	now := time.Now()
	mock.ExpectQuery("SELECT id, email, name, password_hash").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "name", "password_hash", "is_active", "is_staff", "created_at", "updated_at"}).
			AddRow(42, "gone@site.dev", "Gone", "x", false, false, now, now))

	rec := doJSON(e, http.MethodGet, "/v1/tags", authHeader(t, 42), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401 (body %s)", rec.Code, rec.Body)
	}
	// no resource query may run once the gate rejects the subject
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeletedUserTokenRejected(t *testing.T) {
	e, mock, _ := newTestServer(t)

	mock.ExpectQuery("SELECT id, email, name, password_hash").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "name", "password_hash", "is_active", "is_staff", "created_at", "updated_at"}))

	rec := doJSON(e, http.MethodGet, "/v1/tags", authHeader(t, 42), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401 (body %s)", rec.Code, rec.Body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
