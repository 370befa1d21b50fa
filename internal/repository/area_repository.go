// This file defines the Area model and repository methods. An Area is a
// subdivision of a site (a floor, a wing, a perimeter section) and owns the
// patrol points placed inside it.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Area represents a subdivision of a site persisted in the database.
type Area struct {
	ID        string `json:"id"`         // areas.id
	SiteID    string `json:"site_id"`    // areas.site_id
	Name      string `json:"name"`       // areas.name
	CreatedAt string `json:"created_at"` // areas.created_at
	UpdatedAt string `json:"updated_at"` // areas.updated_at
}

// AreaRepo encapsulates all database queries related to areas.
type AreaRepo struct {
	db *sql.DB
}

// NewAreaRepo constructs an AreaRepo with the provided DB handle.
func NewAreaRepo(db *sql.DB) *AreaRepo { return &AreaRepo{db: db} }

// Create inserts a new area under an existing site. The parent site is
// verified inside the same transaction as the insert; ErrSiteNotFound is
// returned when it does not resolve.
func (r *AreaRepo) Create(ctx context.Context, a *Area) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var parent string
	if err = tx.QueryRowContext(ctx, `SELECT id FROM sites WHERE id = ?`, a.SiteID).Scan(&parent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrSiteNotFound
		}
		return err
	}
	a.ID = NewID()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO areas (id, site_id, name) VALUES (?, ?, ?)`,
		a.ID, a.SiteID, a.Name); err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM areas WHERE id = ?`, a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	return err
}

// GetByID fetches an area by id, returning ErrAreaNotFound when absent.
func (r *AreaRepo) GetByID(ctx context.Context, id string) (*Area, error) {
	const q = `SELECT id, site_id, name, created_at, updated_at FROM areas WHERE id = ?`
	var a Area
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.SiteID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListBySite returns the areas belonging to one site ordered by id.
func (r *AreaRepo) ListBySite(ctx context.Context, siteID string) ([]*Area, error) {
	const q = `SELECT id, site_id, name, created_at, updated_at
	           FROM areas WHERE site_id = ? ORDER BY id`
	return r.scanList(ctx, q, siteID)
}

// ListAll returns every area for the report and QR label joins.
func (r *AreaRepo) ListAll(ctx context.Context) ([]*Area, error) {
	const q = `SELECT id, site_id, name, created_at, updated_at FROM areas ORDER BY id`
	return r.scanList(ctx, q)
}

func (r *AreaRepo) scanList(ctx context.Context, q string, args ...any) ([]*Area, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Area
	for rows.Next() {
		a := new(Area)
		if err := rows.Scan(&a.ID, &a.SiteID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName renames an area, returning ErrAreaNotFound when no row matched.
func (r *AreaRepo) UpdateName(ctx context.Context, id, name string) error {
	const q = `UPDATE areas SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAreaNotFound
	}
	return nil
}

// Delete removes an area and the points inside it. Patrol logs referencing
// the removed points are preserved.
func (r *AreaRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var exists string
	if err = tx.QueryRowContext(ctx, `SELECT id FROM areas WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrAreaNotFound
		}
		return err
	}
	pointIDs, err := collectIDs(ctx, tx, `SELECT id FROM points WHERE area_id = ?`, []any{id})
	if err != nil {
		return err
	}
	if err = deleteByIDs(ctx, tx, "points", pointIDs); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM areas WHERE id = ?`, id)
	return err
}
