package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rmiras/personal-site-api/internal/model"
)

// BlogRepo manages persistence for blog posts and their tag/picture edges.
type BlogRepo struct {
	db *sql.DB
}

// NewBlogRepo constructs a BlogRepo with the given DB handle.
func NewBlogRepo(db *sql.DB) *BlogRepo {
	return &BlogRepo{db: db}
}

// likeEscaper protects LIKE metacharacters so a search term containing
// % or _ matches literally instead of as a wildcard.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BlogFilter holds the optional list filters. TagIDs selects blogs carrying
// at least one of the given tags (set intersection, not exact match).
// Search is a case-insensitive substring matched against the title, the
// text and any attached tag's name; a blog matches when any of the three
// fields contains it.
type BlogFilter struct {
	TagIDs []uint64
	Search string
}

// BlogChanges carries an update payload. Nil fields were omitted by the
// caller; how an omission is applied depends on the UpdateMode.
type BlogChanges struct {
	Title      *string
	Text       *string
	TagIDs     *[]uint64
	PictureIDs *[]uint64
}

// ListByOwner returns the caller's blogs matching the filter, ordered by id.
// Only relation ids are attached to the results (reference shape); use
// GetByIDAndOwner for fully loaded relations.
func (r *BlogRepo) ListByOwner(ctx context.Context, ownerID uint64, f BlogFilter) ([]model.Blog, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT DISTINCT b.id, b.owner_id, b.title, b.text FROM blogs b`)
	args := make([]any, 0, 8)

	if len(f.TagIDs) > 0 {
		sb.WriteString(` JOIN blog_tags ft ON ft.blog_id = b.id`)
	}
	if f.Search != "" {
		// tag names participate in search, so join them even when no tag
		// filter is present
		sb.WriteString(` LEFT JOIN blog_tags sbt ON sbt.blog_id = b.id LEFT JOIN tags st ON st.id = sbt.tag_id`)
	}

	sb.WriteString(` WHERE b.owner_id = ?`)
	args = append(args, ownerID)

	if ids := uniqueIDs(f.TagIDs); len(ids) > 0 {
		sb.WriteString(` AND ft.tag_id IN (` + placeholders(len(ids)) + `)`)
		for _, id := range ids {
			args = append(args, id)
		}
	}
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		sb.WriteString(` AND (LOWER(b.title) LIKE ? OR LOWER(b.text) LIKE ? OR LOWER(st.name) LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}
	sb.WriteString(` ORDER BY b.id`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := make([]model.Blog, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		var b model.Blog
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Title, &b.Text); err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tagIDs, err := edgeIDsByParent(ctx, r.db, "blog_tags", "blog_id", "tag_id", ids)
	if err != nil {
		return nil, err
	}
	picIDs, err := edgeIDsByParent(ctx, r.db, "blog_pictures", "blog_id", "picture_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range blogs {
		for _, id := range tagIDs[blogs[i].ID] {
			blogs[i].Tags = append(blogs[i].Tags, model.Tag{ID: id})
		}
		for _, id := range picIDs[blogs[i].ID] {
			blogs[i].Pictures = append(blogs[i].Pictures, model.Picture{ID: id})
		}
	}
	return blogs, nil
}

// GetByIDAndOwner fetches one blog with its tags and pictures fully loaded
// for nested serialization. Other owners' blogs surface as ErrBlogNotFound.
func (r *BlogRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Blog, error) {
	const q = `SELECT b.id, b.owner_id, b.title, b.text FROM blogs b WHERE b.id = ? AND b.owner_id = ?`
	var b model.Blog
	err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&b.ID, &b.OwnerID, &b.Title, &b.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlogNotFound
	}
	if err != nil {
		return nil, err
	}

	const tq = `SELECT t.id, t.owner_id, t.name FROM tags t JOIN blog_tags bt ON bt.tag_id = t.id WHERE bt.blog_id = ? ORDER BY t.id`
	trows, err := r.db.QueryContext(ctx, tq, b.ID)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t model.Tag
		if err := trows.Scan(&t.ID, &t.OwnerID, &t.Name); err != nil {
			return nil, err
		}
		b.Tags = append(b.Tags, t)
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}

	const pq = `SELECT p.id, p.owner_id, p.caption, p.image FROM pictures p JOIN blog_pictures bp ON bp.picture_id = p.id WHERE bp.blog_id = ? ORDER BY p.id`
	prows, err := r.db.QueryContext(ctx, pq, b.ID)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var p model.Picture
		if err := prows.Scan(&p.ID, &p.OwnerID, &p.Caption, &p.Image); err != nil {
			return nil, err
		}
		b.Pictures = append(b.Pictures, p)
	}
	return &b, prows.Err()
}

// Create inserts a blog and its relation edges in one transaction. Every
// tag and picture id must resolve to a row owned by the blog's owner, else
// a RelationError names the offending field and nothing is written.
func (r *BlogRepo) Create(ctx context.Context, b *model.Blog, tagIDs, pictureIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := ensureOwned(ctx, tx, "tags", "tags", tagIDs, b.OwnerID); err != nil {
		return err
	}
	if err := ensureOwned(ctx, tx, "pictures", "pictures", pictureIDs, b.OwnerID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO blogs (owner_id, title, text) VALUES (?, ?, ?)`,
		b.OwnerID, b.Title, b.Text)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if err := replaceEdges(ctx, tx, "blog_tags", "blog_id", "tag_id", b.ID, tagIDs); err != nil {
		return err
	}
	if err := replaceEdges(ctx, tx, "blog_pictures", "blog_id", "picture_id", b.ID, pictureIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update applies changes per the update mode. FullUpdate resets omitted
// scalars to zero and clears omitted relation sets; PartialUpdate touches
// only the fields present in the changes.
func (r *BlogRepo) Update(ctx context.Context, id, ownerID uint64, ch BlogChanges, mode UpdateMode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists uint64
	err = tx.QueryRowContext(ctx, `SELECT b.id FROM blogs b WHERE b.id = ? AND b.owner_id = ? FOR UPDATE`, id, ownerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBlogNotFound
	}
	if err != nil {
		return err
	}

	if mode == FullUpdate {
		title, text := "", ""
		if ch.Title != nil {
			title = *ch.Title
		}
		if ch.Text != nil {
			text = *ch.Text
		}
		if _, err := tx.ExecContext(ctx, `UPDATE blogs SET title = ?, text = ? WHERE id = ?`, title, text, id); err != nil {
			return err
		}
	} else {
		if ch.Title != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE blogs SET title = ? WHERE id = ?`, *ch.Title, id); err != nil {
				return err
			}
		}
		if ch.Text != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE blogs SET text = ? WHERE id = ?`, *ch.Text, id); err != nil {
				return err
			}
		}
	}

	if ch.TagIDs != nil || mode == FullUpdate {
		var ids []uint64
		if ch.TagIDs != nil {
			ids = *ch.TagIDs
		}
		if err := ensureOwned(ctx, tx, "tags", "tags", ids, ownerID); err != nil {
			return err
		}
		if err := replaceEdges(ctx, tx, "blog_tags", "blog_id", "tag_id", id, ids); err != nil {
			return err
		}
	}
	if ch.PictureIDs != nil || mode == FullUpdate {
		var ids []uint64
		if ch.PictureIDs != nil {
			ids = *ch.PictureIDs
		}
		if err := ensureOwned(ctx, tx, "pictures", "pictures", ids, ownerID); err != nil {
			return err
		}
		if err := replaceEdges(ctx, tx, "blog_pictures", "blog_id", "picture_id", id, ids); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteByIDAndOwner removes a blog; edges cascade in the schema.
func (r *BlogRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBlogNotFound
	}
	return nil
}
