package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rmiras/personal-site-api/internal/model"
)

// ProjectRepo manages persistence for portfolio projects.
type ProjectRepo struct {
	db *sql.DB
}

// NewProjectRepo constructs a ProjectRepo with the given DB handle.
func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// ProjectChanges carries an update payload. The slideshow reference is
// tri-state: SlideshowSet reports whether the field was present at all,
// and a present-but-nil SlideshowID clears the reference to null.
type ProjectChanges struct {
	Title        *string
	Tagline      *string
	SlideshowSet bool
	SlideshowID  *uint64
}

// ListByOwner returns the caller's projects ordered by id.
func (r *ProjectRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Project, error) {
	const q = `SELECT p.id, p.owner_id, p.title, p.tagline, p.slideshow_id FROM projects p WHERE p.owner_id = ? ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]model.Project, 0)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Tagline, &p.SlideshowID); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetByIDAndOwner fetches one project, hiding other owners' rows behind
// ErrProjectNotFound.
func (r *ProjectRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Project, error) {
	const q = `SELECT p.id, p.owner_id, p.title, p.tagline, p.slideshow_id FROM projects p WHERE p.id = ? AND p.owner_id = ?`
	var p model.Project
	err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&p.ID, &p.OwnerID, &p.Title, &p.Tagline, &p.SlideshowID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a project. A non-nil slideshow id must resolve to one of
// the owner's slideshows.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	if p.SlideshowID != nil {
		if err := ensureOwned(ctx, r.db, "slideshows", "slideshow", []uint64{*p.SlideshowID}, p.OwnerID); err != nil {
			return err
		}
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO projects (owner_id, title, tagline, slideshow_id) VALUES (?, ?, ?, ?)`,
		p.OwnerID, p.Title, p.Tagline, p.SlideshowID)
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

// Update applies changes per the update mode. In FullUpdate an omitted
// slideshow field clears the reference to null, matching the relation
// semantics of the other entities.
func (r *ProjectRepo) Update(ctx context.Context, id, ownerID uint64, ch ProjectChanges, mode UpdateMode) error {
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}

	if ch.SlideshowSet && ch.SlideshowID != nil {
		if err := ensureOwned(ctx, r.db, "slideshows", "slideshow", []uint64{*ch.SlideshowID}, ownerID); err != nil {
			return err
		}
	}

	if mode == FullUpdate {
		title, tagline := "", ""
		if ch.Title != nil {
			title = *ch.Title
		}
		if ch.Tagline != nil {
			tagline = *ch.Tagline
		}
		_, err := r.db.ExecContext(ctx,
			`UPDATE projects SET title = ?, tagline = ?, slideshow_id = ? WHERE id = ? AND owner_id = ?`,
			title, tagline, ch.SlideshowID, id, ownerID)
		return err
	}

	if ch.Title != nil {
		if _, err := r.db.ExecContext(ctx, `UPDATE projects SET title = ? WHERE id = ? AND owner_id = ?`, *ch.Title, id, ownerID); err != nil {
			return err
		}
	}
	if ch.Tagline != nil {
		if _, err := r.db.ExecContext(ctx, `UPDATE projects SET tagline = ? WHERE id = ? AND owner_id = ?`, *ch.Tagline, id, ownerID); err != nil {
			return err
		}
	}
	if ch.SlideshowSet {
		if _, err := r.db.ExecContext(ctx, `UPDATE projects SET slideshow_id = ? WHERE id = ? AND owner_id = ?`, ch.SlideshowID, id, ownerID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByIDAndOwner removes a project.
func (r *ProjectRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}
