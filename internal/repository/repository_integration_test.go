package repository

// Integration tests against a real MySQL instance. They are skipped unless
// PATROL_TEST_DSN is set, e.g.
//
//	PATROL_TEST_DSN='root@tcp(127.0.0.1:3306)/patrol_test?parseTime=true&loc=UTC' go test ./internal/repository
//
// The tests create the schema if needed and only delete rows they created.

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id VARCHAR(26) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sites (
		id VARCHAR(26) PRIMARY KEY,
		company_id VARCHAR(26) NOT NULL,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_sites_company (company_id)
	)`,
	`CREATE TABLE IF NOT EXISTS areas (
		id VARCHAR(26) PRIMARY KEY,
		site_id VARCHAR(26) NOT NULL,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_areas_site (site_id)
	)`,
	`CREATE TABLE IF NOT EXISTS points (
		id VARCHAR(26) PRIMARY KEY,
		area_id VARCHAR(26) NOT NULL,
		description VARCHAR(255) NOT NULL,
		qr_code VARCHAR(255) NOT NULL,
		qr_id VARCHAR(255) NOT NULL,
		scans_required_per_hour INT UNSIGNED NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_points_qr_id (qr_id),
		KEY idx_points_area (area_id)
	)`,
	`CREATE TABLE IF NOT EXISTS patrol_logs (
		id VARCHAR(26) PRIMARY KEY,
		ts DATETIME NOT NULL,
		officer_name VARCHAR(255) NOT NULL,
		company_number VARCHAR(64) NOT NULL,
		point_id VARCHAR(26) NOT NULL,
		site_id VARCHAR(26) NOT NULL,
		geo_location VARCHAR(255) NOT NULL,
		signature MEDIUMTEXT NOT NULL,
		notes TEXT NOT NULL,
		KEY idx_logs_site (site_id)
	)`,
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("PATROL_TEST_DSN")
	if dsn == "" {
		t.Skip("PATROL_TEST_DSN not set; skipping DB integration tests")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx))
	for _, ddl := range schemaDDL {
		_, err := db.ExecContext(ctx, ddl)
		require.NoError(t, err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// buildChain inserts company -> site -> area -> point and registers cleanup
// for whatever the test leaves behind.
func buildChain(t *testing.T, db *sql.DB, qrID string) (*Company, *Site, *Area, *Point) {
	t.Helper()
	ctx := context.Background()

	co := &Company{Name: "Acme Security"}
	require.NoError(t, NewCompanyRepo(db).Create(ctx, co))
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM companies WHERE id = ?", co.ID)
	})

	s := &Site{CompanyID: co.ID, Name: "Headquarters"}
	require.NoError(t, NewSiteRepo(db).Create(ctx, s))
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM sites WHERE id = ?", s.ID)
	})

	a := &Area{SiteID: s.ID, Name: "Lobby"}
	require.NoError(t, NewAreaRepo(db).Create(ctx, a))
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM areas WHERE id = ?", a.ID)
	})

	p := &Point{AreaID: a.ID, Description: "Front Desk", QRID: qrID}
	require.NoError(t, NewPointRepo(db).Create(ctx, p))
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM points WHERE id = ?", p.ID)
	})

	return co, s, a, p
}

func TestCompanyCascadePreservesLogs(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	co, s, a, p := buildChain(t, db, "IT-"+NewID())

	logs := NewPatrolLogRepo(db)
	l := &PatrolLog{
		OfficerName:   "Jordan Blake",
		CompanyNumber: "ACME-7",
		PointID:       p.ID,
		SiteID:        s.ID,
		GeoLocation:   "51.5,-0.12",
		Signature:     "data:image/png;base64,AAA=",
	}
	require.NoError(t, logs.Create(ctx, l))
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM patrol_logs WHERE id = ?", l.ID)
	})

	require.NoError(t, NewCompanyRepo(db).Delete(ctx, co.ID))

	// The whole hierarchy under the company is gone.
	_, err := NewSiteRepo(db).GetByID(ctx, s.ID)
	require.ErrorIs(t, err, ErrSiteNotFound)
	_, err = NewAreaRepo(db).GetByID(ctx, a.ID)
	require.ErrorIs(t, err, ErrAreaNotFound)
	_, err = NewPointRepo(db).GetByID(ctx, p.ID)
	require.ErrorIs(t, err, ErrPointNotFound)

	// The patrol log survives the cascade untouched.
	kept, err := logs.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, "Jordan Blake", kept.OfficerName)
	require.Equal(t, p.ID, kept.PointID)
}

func TestDeleteMissingCompany(t *testing.T) {
	db := testDB(t)
	err := NewCompanyRepo(db).Delete(context.Background(), NewID())
	require.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestPointQRIDMustBeUnique(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	qr := "IT-" + NewID()
	_, _, a, _ := buildChain(t, db, qr)

	dup := &Point{AreaID: a.ID, Description: "Back Door", QRID: qr}
	err := NewPointRepo(db).Create(ctx, dup)
	require.ErrorIs(t, err, ErrQRIDExists)
}

func TestSiteCreateRequiresCompany(t *testing.T) {
	db := testDB(t)
	s := &Site{CompanyID: NewID(), Name: "Orphan"}
	err := NewSiteRepo(db).Create(context.Background(), s)
	require.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestPatrolLogCorrect(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, s, _, p := buildChain(t, db, "IT-"+NewID())

	logs := NewPatrolLogRepo(db)
	l := &PatrolLog{
		OfficerName:   "Jordn Blake", // typo, to be corrected
		CompanyNumber: "ACME-7",
		PointID:       p.ID,
		SiteID:        s.ID,
		GeoLocation:   "Unavailable",
		Signature:     "data:image/png;base64,AAA=",
	}
	require.NoError(t, logs.Create(ctx, l))
	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM patrol_logs WHERE id = ?", l.ID)
	})

	require.NoError(t, logs.Correct(ctx, l.ID, "Jordan Blake", "ACME-7", "Unavailable", "name fixed"))

	got, err := logs.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, "Jordan Blake", got.OfficerName)
	require.Equal(t, "name fixed", got.Notes)
	require.Equal(t, l.Timestamp.Unix(), got.Timestamp.Unix())

	require.ErrorIs(t, logs.Correct(ctx, NewID(), "x", "y", "z", ""), ErrLogNotFound)
}
