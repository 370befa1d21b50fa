// This file defines the Point model and repository methods. A Point is a
// physical checkpoint inside an area, bound to a QR code that officers scan
// during rounds. The qr_id column is the scan lookup key and is unique
// across all points; qr_code is the payload encoded into the printed code
// and defaults to qr_id when left empty.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Point represents a patrol checkpoint persisted in the database.
// ScansRequiredPerHour is optional; nil means no compliance threshold is
// recorded for the point. The value is stored only, no compliance checking
// happens in this service.
type Point struct {
	ID                   string `json:"id"`          // points.id
	AreaID               string `json:"area_id"`     // points.area_id
	Description          string `json:"description"` // points.description
	QRCode               string `json:"qr_code"`     // points.qr_code (payload, defaults to qr_id)
	QRID                 string `json:"qr_id"`       // points.qr_id (unique scan key)
	ScansRequiredPerHour *uint32 `json:"scans_required_per_hour,omitempty"` // points.scans_required_per_hour (nullable)
	CreatedAt            string `json:"created_at"`  // points.created_at
	UpdatedAt            string `json:"updated_at"`  // points.updated_at
}

// PointRepo encapsulates all database queries related to patrol points.
type PointRepo struct {
	db *sql.DB
}

// NewPointRepo constructs a PointRepo with the provided DB handle.
func NewPointRepo(db *sql.DB) *PointRepo { return &PointRepo{db: db} }

// Create inserts a new point under an existing area. The parent area and the
// qr_id uniqueness are both verified inside the same transaction as the
// insert: ErrAreaNotFound when the area does not resolve, ErrQRIDExists when
// another point already owns the qr_id. An empty QRCode defaults to QRID.
func (r *PointRepo) Create(ctx context.Context, p *Point) error {
	if p.QRCode == "" {
		p.QRCode = p.QRID
	}
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
	if err = tx.QueryRowContext(ctx, `SELECT id FROM areas WHERE id = ?`, p.AreaID).Scan(&parent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrAreaNotFound
		}
		return err
	}
	var taken string
	err = tx.QueryRowContext(ctx, `SELECT id FROM points WHERE qr_id = ?`, p.QRID).Scan(&taken)
	switch {
	case err == nil:
		err = ErrQRIDExists
		return err
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}
	p.ID = NewID()
	var scans any
	if p.ScansRequiredPerHour != nil {
		scans = *p.ScansRequiredPerHour
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO points (id, area_id, description, qr_code, qr_id, scans_required_per_hour)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.AreaID, p.Description, p.QRCode, p.QRID, scans); err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM points WHERE id = ?`, p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return err
}

// GetByID fetches a point by id, returning ErrPointNotFound when absent.
func (r *PointRepo) GetByID(ctx context.Context, id string) (*Point, error) {
	const q = `SELECT id, area_id, description, qr_code, qr_id, scans_required_per_hour, created_at, updated_at
	           FROM points WHERE id = ?`
	return r.scanOne(ctx, q, id)
}

// GetByQRID performs the exact-match scan lookup. It returns the unique
// point owning the qr_id or ErrPointNotFound. Uniqueness is enforced at
// insert so at most one row can match.
func (r *PointRepo) GetByQRID(ctx context.Context, qrID string) (*Point, error) {
	const q = `SELECT id, area_id, description, qr_code, qr_id, scans_required_per_hour, created_at, updated_at
	           FROM points WHERE qr_id = ? LIMIT 1`
	return r.scanOne(ctx, q, qrID)
}

func (r *PointRepo) scanOne(ctx context.Context, q string, arg any) (*Point, error) {
	var (
		p     Point
		scans sql.NullInt32
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&p.ID, &p.AreaID, &p.Description, &p.QRCode, &p.QRID, &scans, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPointNotFound
		}
		return nil, err
	}
	if scans.Valid {
		v := uint32(scans.Int32)
		p.ScansRequiredPerHour = &v
	}
	return &p, nil
}

// ListByArea returns the points belonging to one area ordered by id.
func (r *PointRepo) ListByArea(ctx context.Context, areaID string) ([]*Point, error) {
	const q = `SELECT id, area_id, description, qr_code, qr_id, scans_required_per_hour, created_at, updated_at
	           FROM points WHERE area_id = ? ORDER BY id`
	return r.scanList(ctx, q, areaID)
}

// ListAll returns every point. Reports and the QR label sheet render against
// the full point set.
func (r *PointRepo) ListAll(ctx context.Context) ([]*Point, error) {
	const q = `SELECT id, area_id, description, qr_code, qr_id, scans_required_per_hour, created_at, updated_at
	           FROM points ORDER BY id`
	return r.scanList(ctx, q)
}

func (r *PointRepo) scanList(ctx context.Context, q string, args ...any) ([]*Point, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Point
	for rows.Next() {
		var (
			p     Point
			scans sql.NullInt32
		)
		if err := rows.Scan(&p.ID, &p.AreaID, &p.Description, &p.QRCode, &p.QRID, &scans, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if scans.Valid {
			v := uint32(scans.Int32)
			p.ScansRequiredPerHour = &v
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of a point. The qr_id stays untouched;
// it is the printed scan key and changing it would orphan physical labels.
func (r *PointRepo) Update(ctx context.Context, id, description, qrCode string, scansRequiredPerHour *uint32) error {
	var scans any
	if scansRequiredPerHour != nil {
		scans = *scansRequiredPerHour
	}
	const q = `UPDATE points
	           SET description = ?, qr_code = ?, scans_required_per_hour = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, description, qrCode, scans, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPointNotFound
	}
	return nil
}

// Delete removes a single point. Patrol logs referencing it are preserved.
func (r *PointRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM points WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPointNotFound
	}
	return nil
}
