package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rmiras/personal-site-api/internal/model"
)

// TagRepo manages persistence for tags.
type TagRepo struct {
	db *sql.DB
}

// NewTagRepo constructs a TagRepo with the given DB handle.
func NewTagRepo(db *sql.DB) *TagRepo {
	return &TagRepo{db: db}
}

// ListByOwner returns the caller's tags in reverse name order. When
// assignedOnly is true only tags attached to at least one blog are
// returned, deduplicated across blogs.
func (r *TagRepo) ListByOwner(ctx context.Context, ownerID uint64, assignedOnly bool) ([]model.Tag, error) {
	q := `SELECT t.id, t.owner_id, t.name FROM tags t WHERE t.owner_id = ? ORDER BY t.name DESC`
	if assignedOnly {
		q = `SELECT DISTINCT t.id, t.owner_id, t.name FROM tags t
JOIN blog_tags bt ON bt.tag_id = t.id
WHERE t.owner_id = ? ORDER BY t.name DESC`
	}
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetByIDAndOwner fetches one tag. It returns ErrTagNotFound both when the
// id is absent and when the row belongs to a different owner.
func (r *TagRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Tag, error) {
	const q = `SELECT t.id, t.owner_id, t.name FROM tags t WHERE t.id = ? AND t.owner_id = ?`
	var t model.Tag
	err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&t.ID, &t.OwnerID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a tag and assigns the generated id back to the model.
func (r *TagRepo) Create(ctx context.Context, t *model.Tag) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO tags (owner_id, name) VALUES (?, ?)`, t.OwnerID, t.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Update writes the tag name. In FullUpdate mode a nil name resets it to
// the empty string; in PartialUpdate a nil name leaves it untouched.
func (r *TagRepo) Update(ctx context.Context, id, ownerID uint64, name *string, mode UpdateMode) error {
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	if name == nil && mode == PartialUpdate {
		return nil
	}
	newName := ""
	if name != nil {
		newName = *name
	}
	_, err := r.db.ExecContext(ctx, `UPDATE tags SET name = ? WHERE id = ? AND owner_id = ?`, newName, id, ownerID)
	return err
}

// DeleteByIDAndOwner removes a tag; join rows cascade in the schema.
func (r *TagRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTagNotFound
	}
	return nil
}
