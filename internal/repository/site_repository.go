// This file defines the Site model and repository methods. A Site is a
// guarded location belonging to a single company and containing multiple
// areas. Parent existence is validated on insert so a site can never be
// created as an orphan.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Site represents a guarded location persisted in the database.
type Site struct {
	ID        string `json:"id"`         // sites.id
	CompanyID string `json:"company_id"` // sites.company_id
	Name      string `json:"name"`       // sites.name
	CreatedAt string `json:"created_at"` // sites.created_at
	UpdatedAt string `json:"updated_at"` // sites.updated_at
}

// SiteRepo encapsulates all database queries related to sites.
type SiteRepo struct {
	db *sql.DB
}

// NewSiteRepo constructs a SiteRepo with the provided DB handle.
func NewSiteRepo(db *sql.DB) *SiteRepo { return &SiteRepo{db: db} }

// Create inserts a new site under an existing company. The parent company is
// verified inside the same transaction as the insert; ErrCompanyNotFound is
// returned when it does not resolve.
func (r *SiteRepo) Create(ctx context.Context, s *Site) error {
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
	if err = tx.QueryRowContext(ctx, `SELECT id FROM companies WHERE id = ?`, s.CompanyID).Scan(&parent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCompanyNotFound
		}
		return err
	}
	s.ID = NewID()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO sites (id, company_id, name) VALUES (?, ?, ?)`,
		s.ID, s.CompanyID, s.Name); err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM sites WHERE id = ?`, s.ID).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	return err
}

// GetByID fetches a site by id, returning ErrSiteNotFound when absent.
func (r *SiteRepo) GetByID(ctx context.Context, id string) (*Site, error) {
	const q = `SELECT id, company_id, name, created_at, updated_at FROM sites WHERE id = ?`
	var s Site
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.CompanyID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByCompany returns the sites belonging to one company ordered by id.
func (r *SiteRepo) ListByCompany(ctx context.Context, companyID string) ([]*Site, error) {
	const q = `SELECT id, company_id, name, created_at, updated_at
	           FROM sites WHERE company_id = ? ORDER BY id`
	return r.scanList(ctx, q, companyID)
}

// ListAll returns every site. The report and QR label views join against the
// full site set, so no parent scoping is applied here.
func (r *SiteRepo) ListAll(ctx context.Context) ([]*Site, error) {
	const q = `SELECT id, company_id, name, created_at, updated_at FROM sites ORDER BY id`
	return r.scanList(ctx, q)
}

func (r *SiteRepo) scanList(ctx context.Context, q string, args ...any) ([]*Site, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Site
	for rows.Next() {
		s := new(Site)
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName renames a site, returning ErrSiteNotFound when no row matched.
func (r *SiteRepo) UpdateName(ctx context.Context, id, name string) error {
	const q = `UPDATE sites SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSiteNotFound
	}
	return nil
}

// Delete removes a site and cascades to its areas and points, mirroring the
// company cascade one level down. Patrol logs referencing the removed site
// are preserved.
func (r *SiteRepo) Delete(ctx context.Context, id string) error {
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
	if err = tx.QueryRowContext(ctx, `SELECT id FROM sites WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrSiteNotFound
		}
		return err
	}
	areaIDs, err := collectIDs(ctx, tx, `SELECT id FROM areas WHERE site_id = ?`, []any{id})
	if err != nil {
		return err
	}
	pointIDs, err := collectChildIDs(ctx, tx, "points", "area_id", areaIDs)
	if err != nil {
		return err
	}
	if err = deleteByIDs(ctx, tx, "points", pointIDs); err != nil {
		return err
	}
	if err = deleteByIDs(ctx, tx, "areas", areaIDs); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	return err
}
