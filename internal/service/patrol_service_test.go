package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guardtrack/patrol-api/internal/report"
	"github.com/guardtrack/patrol-api/internal/repository"
)

// Mock lookups for testing
type MockPointLookup struct {
	mock.Mock
}

func (m *MockPointLookup) GetByQRID(ctx context.Context, qrID string) (*repository.Point, error) {
	args := m.Called(ctx, qrID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Point), args.Error(1)
}

type MockAreaLookup struct {
	mock.Mock
}

func (m *MockAreaLookup) GetByID(ctx context.Context, id string) (*repository.Area, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Area), args.Error(1)
}

type MockSiteLookup struct {
	mock.Mock
}

func (m *MockSiteLookup) GetByID(ctx context.Context, id string) (*repository.Site, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Site), args.Error(1)
}

type MockLogAppender struct {
	mock.Mock
}

func (m *MockLogAppender) Create(ctx context.Context, l *repository.PatrolLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func newServiceWithHierarchy() (*PatrolService, *MockLogAppender) {
	points := new(MockPointLookup)
	areas := new(MockAreaLookup)
	sites := new(MockSiteLookup)
	logs := new(MockLogAppender)

	points.On("GetByQRID", mock.Anything, "Q1").Return(&repository.Point{
		ID: "p1", AreaID: "a1", Description: "Front Desk", QRID: "Q1", QRCode: "Q1",
	}, nil)
	points.On("GetByQRID", mock.Anything, mock.Anything).Return(nil, repository.ErrPointNotFound)
	areas.On("GetByID", mock.Anything, "a1").Return(&repository.Area{ID: "a1", SiteID: "s1", Name: "Lobby"}, nil)
	sites.On("GetByID", mock.Anything, "s1").Return(&repository.Site{ID: "s1", CompanyID: "c1", Name: "HQ"}, nil)

	return NewPatrolService(points, areas, sites, logs), logs
}

func TestResolveScanSuccess(t *testing.T) {
	svc, _ := newServiceWithHierarchy()

	point, details, err := svc.ResolveScan(context.Background(), " Q1 ")
	require.NoError(t, err)
	require.Equal(t, "p1", point.ID)
	require.Equal(t, "Front Desk", details.Description)
	require.Equal(t, "Lobby", details.Area)
	require.Equal(t, "HQ", details.Site)
}

func TestResolveScanUnknownCode(t *testing.T) {
	svc, _ := newServiceWithHierarchy()

	_, _, err := svc.ResolveScan(context.Background(), "nope")
	require.ErrorIs(t, err, repository.ErrPointNotFound)
}

func TestResolveScanDanglingAncestry(t *testing.T) {
	points := new(MockPointLookup)
	areas := new(MockAreaLookup)
	sites := new(MockSiteLookup)
	points.On("GetByQRID", mock.Anything, "Q9").Return(&repository.Point{
		ID: "p9", AreaID: "gone", Description: "Back Door", QRID: "Q9",
	}, nil)
	areas.On("GetByID", mock.Anything, "gone").Return(nil, repository.ErrAreaNotFound)
	svc := NewPatrolService(points, areas, sites, new(MockLogAppender))

	_, details, err := svc.ResolveScan(context.Background(), "Q9")
	require.NoError(t, err)
	require.Equal(t, "Back Door", details.Description)
	require.Equal(t, report.NA, details.Area)
	require.Equal(t, report.NA, details.Site)
}

func TestSubmitAppendsLog(t *testing.T) {
	svc, logs := newServiceWithHierarchy()
	logs.On("Create", mock.Anything, mock.AnythingOfType("*repository.PatrolLog")).Return(nil)

	created, details, err := svc.Submit(context.Background(), SubmitInput{
		QRID:          "Q1",
		OfficerName:   " Jane Doe ",
		CompanyNumber: "42",
		GeoLocation:   "51.50000, -0.12000",
		Signature:     "<data>",
		Notes:         "all clear",
	})
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", created.OfficerName)
	require.Equal(t, "42", created.CompanyNumber)
	require.Equal(t, "p1", created.PointID)
	require.Equal(t, "s1", created.SiteID)
	require.Equal(t, "51.50000, -0.12000", created.GeoLocation)
	require.Equal(t, "all clear", created.Notes)
	require.Equal(t, "Front Desk", details.Description)
	logs.AssertExpectations(t)
}

func TestSubmitRequiredFields(t *testing.T) {
	svc, logs := newServiceWithHierarchy()

	cases := []SubmitInput{
		{QRID: "Q1", CompanyNumber: "42", Signature: "<data>"},       // missing officer
		{QRID: "Q1", OfficerName: "Jane", Signature: "<data>"},       // missing company number
		{QRID: "Q1", OfficerName: "Jane", CompanyNumber: "42"},       // missing signature
		{QRID: "Q1", OfficerName: "  ", CompanyNumber: "42", Signature: "x"}, // blank counts as missing
	}
	for _, in := range cases {
		_, _, err := svc.Submit(context.Background(), in)
		require.ErrorIs(t, err, ErrValidation)
	}
	logs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitGeolocationNeverBlocks(t *testing.T) {
	svc, logs := newServiceWithHierarchy()
	logs.On("Create", mock.Anything, mock.AnythingOfType("*repository.PatrolLog")).Return(nil)

	created, _, err := svc.Submit(context.Background(), SubmitInput{
		QRID:          "Q1",
		OfficerName:   "Jane",
		CompanyNumber: "42",
		Signature:     "<data>",
		GeoLocation:   "   ",
	})
	require.NoError(t, err)
	require.Equal(t, GeoUnavailable, created.GeoLocation)
}

func TestSubmitUnknownPoint(t *testing.T) {
	svc, logs := newServiceWithHierarchy()

	_, _, err := svc.Submit(context.Background(), SubmitInput{
		QRID:          "missing",
		OfficerName:   "Jane",
		CompanyNumber: "42",
		Signature:     "<data>",
	})
	require.ErrorIs(t, err, repository.ErrPointNotFound)
	logs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
