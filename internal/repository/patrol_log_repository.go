// This file defines the PatrolLog model and repository methods. Patrol logs
// are append-only history: one row per successful scan+submit cycle. They are
// never deleted by entity cascades; the only mutation after creation is an
// administrative correction by id.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PatrolLog records one checkpoint visit. SiteID is denormalized onto the
// row at submission time so site filtering in reports survives later
// hierarchy changes. Signature is an opaque captured payload (the clients
// send a rendered image data URL); the repository stores it untouched.
type PatrolLog struct {
	ID            string    `json:"id"`             // patrol_logs.id
	Timestamp     time.Time `json:"timestamp"`      // patrol_logs.ts (UTC, assigned at submission)
	OfficerName   string    `json:"officer_name"`   // patrol_logs.officer_name
	CompanyNumber string    `json:"company_number"` // patrol_logs.company_number
	PointID       string    `json:"point_id"`       // patrol_logs.point_id
	SiteID        string    `json:"site_id"`        // patrol_logs.site_id (denormalized)
	GeoLocation   string    `json:"geo_location"`   // patrol_logs.geo_location ("Unavailable" sentinel allowed)
	Signature     string    `json:"signature"`      // patrol_logs.signature (opaque payload)
	Notes         string    `json:"notes"`          // patrol_logs.notes (optional)
}

// PatrolLogRepo encapsulates all database queries related to patrol logs.
type PatrolLogRepo struct {
	db *sql.DB
}

// NewPatrolLogRepo constructs a PatrolLogRepo with the provided DB handle.
func NewPatrolLogRepo(db *sql.DB) *PatrolLogRepo { return &PatrolLogRepo{db: db} }

// Create appends one immutable log row. The id and UTC timestamp are
// assigned here; the caller has already validated the required fields.
func (r *PatrolLogRepo) Create(ctx context.Context, l *PatrolLog) error {
	l.ID = NewID()
	l.Timestamp = time.Now().UTC()
	const q = `INSERT INTO patrol_logs
	           (id, ts, officer_name, company_number, point_id, site_id, geo_location, signature, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		l.ID, l.Timestamp, l.OfficerName, l.CompanyNumber, l.PointID, l.SiteID,
		l.GeoLocation, l.Signature, l.Notes)
	return err
}

// ListAll returns every patrol log ordered by id (insertion order). The
// report resolver filters and sorts in memory over this set.
func (r *PatrolLogRepo) ListAll(ctx context.Context) ([]*PatrolLog, error) {
	const q = `SELECT id, ts, officer_name, company_number, point_id, site_id, geo_location, signature, notes
	           FROM patrol_logs ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*PatrolLog
	for rows.Next() {
		l := new(PatrolLog)
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.OfficerName, &l.CompanyNumber,
			&l.PointID, &l.SiteID, &l.GeoLocation, &l.Signature, &l.Notes); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one log, returning ErrLogNotFound when absent.
func (r *PatrolLogRepo) GetByID(ctx context.Context, id string) (*PatrolLog, error) {
	const q = `SELECT id, ts, officer_name, company_number, point_id, site_id, geo_location, signature, notes
	           FROM patrol_logs WHERE id = ?`
	l := new(PatrolLog)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.Timestamp, &l.OfficerName,
		&l.CompanyNumber, &l.PointID, &l.SiteID, &l.GeoLocation, &l.Signature, &l.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return l, nil
}

// Correct applies an administrative correction to an existing log. Only the
// officer-supplied fields may be rewritten; the timestamp and the point/site
// references stay as recorded. Returns ErrLogNotFound when the id does not
// resolve.
func (r *PatrolLogRepo) Correct(ctx context.Context, id, officerName, companyNumber, geoLocation, notes string) error {
	const q = `UPDATE patrol_logs
	           SET officer_name = ?, company_number = ?, geo_location = ?, notes = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, officerName, companyNumber, geoLocation, notes, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLogNotFound
	}
	return nil
}
