// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Company model and repository methods for CRUD and the
// cascading delete that keeps the hierarchy consistent. A Company is the root
// of the patrol hierarchy: it owns sites, which own areas, which own points.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to compare against sentinel values
	"strings"      // strings builds IN (...) placeholder lists
)

// Company represents a guard company persisted in the database. Each company
// may contain multiple sites. The ID field is an opaque ULID string assigned
// at creation.
type Company struct {
	ID        string `json:"id"`         // companies.id
	Name      string `json:"name"`       // companies.name
	CreatedAt string `json:"created_at"` // companies.created_at
	UpdatedAt string `json:"updated_at"` // companies.updated_at
}

// CompanyRepo encapsulates all database queries related to companies. It
// depends on a sql.DB connection pool which is opened once at startup and
// injected here, never constructed per request.
type CompanyRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCompanyRepo constructs a CompanyRepo with the provided DB handle. This
// function allows dependency injection of the database in tests and at
// startup. There is no initialization logic beyond assigning the field.
func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create inserts a new company. The caller provides the name; the repository
// assigns the ULID id. After the insert a SELECT populates the timestamp
// columns so callers receive a fully populated record.
func (r *CompanyRepo) Create(ctx context.Context, c *Company) error {
	c.ID = NewID()
	const qInsert = "INSERT INTO companies (id, name) VALUES (?, ?)"
	if _, err := r.db.ExecContext(ctx, qInsert, c.ID, c.Name); err != nil {
		return err // propagate DB errors to the caller
	}
	const qSelect = "SELECT name, created_at, updated_at FROM companies WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.Name, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a company by its id. It returns ErrCompanyNotFound when no
// row matches.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*Company, error) {
	const q = "SELECT id, name, created_at, updated_at FROM companies WHERE id = ?"
	var c Company
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all companies ordered by id. Because ids are ULIDs this is
// also insertion order.
func (r *CompanyRepo) List(ctx context.Context) ([]*Company, error) {
	const q = `SELECT id, name, created_at, updated_at FROM companies ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Company
	for rows.Next() {
		c := new(Company)
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName renames a company. It returns ErrCompanyNotFound when no row is
// affected.
func (r *CompanyRepo) UpdateName(ctx context.Context, id, name string) error {
	const q = `UPDATE companies
	           SET name = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// Delete removes a company together with every site under it, every area
// under those sites and every point under those areas. Patrol logs are
// historical records and are never touched by this cascade; reports degrade
// to "N/A" for logs whose ancestry is gone.
//
// The cascade is two-phase and runs inside one transaction: first the full
// id set to remove is collected by walking the hierarchy level by level,
// then each collection is pruned by id set. No reader can observe a partial
// cascade.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
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
	// Verify the company exists before doing any work.
	var exists string
	if err = tx.QueryRowContext(ctx, `SELECT id FROM companies WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCompanyNotFound
		}
		return err
	}

	// Phase one: collect the removal set by descending the hierarchy inside
	// the same transaction snapshot.
	siteIDs, err := collectIDs(ctx, tx, `SELECT id FROM sites WHERE company_id = ?`, []any{id})
	if err != nil {
		return err
	}
	areaIDs, err := collectChildIDs(ctx, tx, "areas", "site_id", siteIDs)
	if err != nil {
		return err
	}
	pointIDs, err := collectChildIDs(ctx, tx, "points", "area_id", areaIDs)
	if err != nil {
		return err
	}

	// Phase two: prune each collection bottom-up so foreign keys never dangle
	// mid-transaction.
	if err = deleteByIDs(ctx, tx, "points", pointIDs); err != nil {
		return err
	}
	if err = deleteByIDs(ctx, tx, "areas", areaIDs); err != nil {
		return err
	}
	if err = deleteByIDs(ctx, tx, "sites", siteIDs); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	return err
}

// collectIDs runs an id-returning query and gathers the results into a slice.
func collectIDs(ctx context.Context, tx *sql.Tx, q string, args []any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// collectChildIDs gathers the ids of rows in table whose parent column is in
// the given parent id set. An empty parent set yields an empty result without
// touching the database.
func collectChildIDs(ctx context.Context, tx *sql.Tx, table, parentCol string, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	q := "SELECT id FROM " + table + " WHERE " + parentCol + " IN (" + placeholders(len(parentIDs)) + ")"
	return collectIDs(ctx, tx, q, toArgs(parentIDs))
}

// deleteByIDs removes the rows of table whose id is in the given set.
func deleteByIDs(ctx context.Context, tx *sql.Tx, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := "DELETE FROM " + table + " WHERE id IN (" + placeholders(len(ids)) + ")"
	_, err := tx.ExecContext(ctx, q, toArgs(ids)...)
	return err
}

// placeholders returns "?,?,...,?" with n placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// toArgs converts a string slice to the []any form ExecContext expects.
func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
