package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rmiras/personal-site-api/internal/model"
)

// SlideshowRepo manages persistence for slideshows and their picture edges.
type SlideshowRepo struct {
	db *sql.DB
}

// NewSlideshowRepo constructs a SlideshowRepo with the given DB handle.
func NewSlideshowRepo(db *sql.DB) *SlideshowRepo {
	return &SlideshowRepo{db: db}
}

// SlideshowChanges carries an update payload; nil fields were omitted.
type SlideshowChanges struct {
	Title      *string
	PictureIDs *[]uint64
}

// ListByOwner returns the caller's slideshows in reverse title order with
// their picture ids attached.
func (r *SlideshowRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Slideshow, error) {
	const q = `SELECT s.id, s.owner_id, s.title FROM slideshows s WHERE s.owner_id = ? ORDER BY s.title DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := make([]model.Slideshow, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		var s model.Slideshow
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Title); err != nil {
			return nil, err
		}
		shows = append(shows, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	picIDs, err := edgeIDsByParent(ctx, r.db, "slideshow_pictures", "slideshow_id", "picture_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range shows {
		for _, id := range picIDs[shows[i].ID] {
			shows[i].Pictures = append(shows[i].Pictures, model.Picture{ID: id})
		}
	}
	return shows, nil
}

// GetByIDAndOwner fetches one slideshow with its picture ids attached.
func (r *SlideshowRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Slideshow, error) {
	const q = `SELECT s.id, s.owner_id, s.title FROM slideshows s WHERE s.id = ? AND s.owner_id = ?`
	var s model.Slideshow
	err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&s.ID, &s.OwnerID, &s.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlideshowNotFound
	}
	if err != nil {
		return nil, err
	}

	picIDs, err := edgeIDsByParent(ctx, r.db, "slideshow_pictures", "slideshow_id", "picture_id", []uint64{s.ID})
	if err != nil {
		return nil, err
	}
	for _, pid := range picIDs[s.ID] {
		s.Pictures = append(s.Pictures, model.Picture{ID: pid})
	}
	return &s, nil
}

// Create inserts a slideshow and its picture edges in one transaction.
// Picture ids must resolve to rows owned by the slideshow's owner.
func (r *SlideshowRepo) Create(ctx context.Context, s *model.Slideshow, pictureIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := ensureOwned(ctx, tx, "pictures", "pictures", pictureIDs, s.OwnerID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO slideshows (owner_id, title) VALUES (?, ?)`, s.OwnerID, s.Title)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	if err := replaceEdges(ctx, tx, "slideshow_pictures", "slideshow_id", "picture_id", s.ID, pictureIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update applies changes per the update mode; FullUpdate with omitted
// pictures clears the whole relation.
func (r *SlideshowRepo) Update(ctx context.Context, id, ownerID uint64, ch SlideshowChanges, mode UpdateMode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists uint64
	err = tx.QueryRowContext(ctx, `SELECT s.id FROM slideshows s WHERE s.id = ? AND s.owner_id = ? FOR UPDATE`, id, ownerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSlideshowNotFound
	}
	if err != nil {
		return err
	}

	if mode == FullUpdate {
		title := ""
		if ch.Title != nil {
			title = *ch.Title
		}
		if _, err := tx.ExecContext(ctx, `UPDATE slideshows SET title = ? WHERE id = ?`, title, id); err != nil {
			return err
		}
	} else if ch.Title != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE slideshows SET title = ? WHERE id = ?`, *ch.Title, id); err != nil {
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
		if err := replaceEdges(ctx, tx, "slideshow_pictures", "slideshow_id", "picture_id", id, ids); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteByIDAndOwner removes a slideshow. Picture edges cascade and any
// project pointing at it is detached by the schema's set-null constraint.
func (r *SlideshowRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM slideshows WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSlideshowNotFound
	}
	return nil
}
