package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocationRepo struct {
	repositories.LocationRepository
	created []*models.Location
}

func (r *fakeLocationRepo) Create(_ context.Context, _ repositories.SQLExecutor, l *models.Location) error {
	for _, existing := range r.created {
		if existing.Name == l.Name {
			return repositories.ErrLocationNameConflict
		}
	}
	l.ID = len(r.created) + 1
	r.created = append(r.created, l)
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id int) (*models.Location, error) {
	for _, l := range r.created {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, repositories.ErrLocationNotFound
}

type fakeSwitches struct {
	SwitchService
	active map[string]bool
}

func (f fakeSwitches) IsActive(_ context.Context, name string) bool { return f.active[name] }

func TestCheckCSVContentType(t *testing.T) {
	for _, ct := range []string{"text/csv", "text/csv; charset=utf-8", "application/vnd.ms-excel", "TEXT/PLAIN"} {
		assert.NoError(t, CheckCSVContentType(ct), ct)
	}
	for _, ct := range []string{"", "application/json", "image/png", "not a type;;"} {
		assert.ErrorIs(t, CheckCSVContentType(ct), ErrUploadContentType, ct)
	}
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffName, City\nIce Palace,Long Beach\n,\nRink Two,\n"
	rows, err := readCSV(strings.NewReader(input), "name")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].line)
	assert.Equal(t, "Ice Palace", rows[0].values["name"])
	assert.Equal(t, "Long Beach", rows[0].values["city"])
	assert.Equal(t, 4, rows[1].line, "blank rows are skipped but still counted")

	_, err = readCSV(strings.NewReader("city\nLong Beach\n"), "name")
	assert.ErrorIs(t, err, ErrUploadHeader)

	_, err = readCSV(strings.NewReader("name\n"), "name")
	assert.ErrorIs(t, err, ErrUploadEmpty)
}

func TestBulkUploadService_UploadLocations(t *testing.T) {
	locations := &fakeLocationRepo{}
	svc := NewBulkUploadService(nil, nil, locations, fakeSwitches{}, fakeTx{}, discardLogger())

	csv := "name,street_number,street,city,region,postal_code\n" +
		"iceworks arena,12,main street,syosset,NY,11791\n" +
		"the rinx,660,terry road,hauppauge,NY,11788\n"
	result, err := svc.UploadLocations(context.Background(), "text/csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.NotEmpty(t, result.UploadID)
	require.Len(t, locations.created, 2)
	assert.Equal(t, "Iceworks Arena", locations.created[0].Name)
	assert.Equal(t, "Main Street", locations.created[0].Street)
}

func TestBulkUploadService_UploadLocationsRejectsBadRows(t *testing.T) {
	locations := &fakeLocationRepo{}
	svc := NewBulkUploadService(nil, nil, locations, fakeSwitches{}, fakeTx{}, discardLogger())

	csv := "name,city\nGood Rink,Syosset\n,Nowhere\n"
	result, err := svc.UploadLocations(context.Background(), "text/csv", strings.NewReader(csv))
	assert.ErrorIs(t, err, ErrUploadRows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Empty(t, locations.created, "nothing is inserted when a row fails")
}

func TestBulkUploadService_UploadTeamsRequiresSwitch(t *testing.T) {
	svc := NewBulkUploadService(nil, nil, nil, fakeSwitches{}, fakeTx{}, discardLogger())
	_, err := svc.UploadTeams(context.Background(), 1, "text/csv", strings.NewReader("name,division\n"))
	assert.ErrorIs(t, err, ErrFeatureDisabled)
}
