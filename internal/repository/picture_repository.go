package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rmiras/personal-site-api/internal/model"
)

// PictureRepo manages persistence for pictures. The image column stores the
// blob reference produced by the storage layer and is NULL until the first
// upload.
type PictureRepo struct {
	db *sql.DB
}

// NewPictureRepo constructs a PictureRepo with the given DB handle.
func NewPictureRepo(db *sql.DB) *PictureRepo {
	return &PictureRepo{db: db}
}

// ListByOwner returns the caller's pictures in reverse caption order.
func (r *PictureRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Picture, error) {
	const q = `SELECT p.id, p.owner_id, p.caption, p.image FROM pictures p WHERE p.owner_id = ? ORDER BY p.caption DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pics := make([]model.Picture, 0)
	for rows.Next() {
		var p model.Picture
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Caption, &p.Image); err != nil {
			return nil, err
		}
		pics = append(pics, p)
	}
	return pics, rows.Err()
}

// GetByIDAndOwner fetches one picture, hiding other owners' rows behind
// ErrPictureNotFound.
func (r *PictureRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Picture, error) {
	const q = `SELECT p.id, p.owner_id, p.caption, p.image FROM pictures p WHERE p.id = ? AND p.owner_id = ?`
	var p model.Picture
	err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&p.ID, &p.OwnerID, &p.Caption, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPictureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a picture with no image yet.
func (r *PictureRepo) Create(ctx context.Context, p *model.Picture) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO pictures (owner_id, caption, image) VALUES (?, ?, ?)`,
		p.OwnerID, p.Caption, p.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Update writes the caption per the update mode. The image reference is
// never touched here; it changes only through SetImage.
func (r *PictureRepo) Update(ctx context.Context, id, ownerID uint64, caption *string, mode UpdateMode) error {
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	if caption == nil && mode == PartialUpdate {
		return nil
	}
	newCaption := ""
	if caption != nil {
		newCaption = *caption
	}
	_, err := r.db.ExecContext(ctx, `UPDATE pictures SET caption = ? WHERE id = ? AND owner_id = ?`, newCaption, id, ownerID)
	return err
}

// SetImage overwrites the stored blob reference after a successful upload.
func (r *PictureRepo) SetImage(ctx context.Context, id, ownerID uint64, image string) error {
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `UPDATE pictures SET image = ? WHERE id = ? AND owner_id = ?`, image, id, ownerID)
	return err
}

// DeleteByIDAndOwner removes a picture row. Attachments to blogs and
// slideshows cascade; already-uploaded bytes stay in the blob store.
func (r *PictureRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pictures WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPictureNotFound
	}
	return nil
}
