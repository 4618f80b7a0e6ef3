package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSeasonService_CopyExpiring(t *testing.T) {
	repo := newFakeSeasonRepo(
		// expiring, copy already exists
		models.Season{ID: 1, LeagueID: 1, StartDate: day("2017-09-01"), EndDate: day("2018-03-31"), TeamIDs: []int{1, 2}},
		// expiring, no copy yet
		models.Season{ID: 2, LeagueID: 2, StartDate: day("2017-10-01"), EndDate: day("2018-04-01"), TeamIDs: []int{3, 4}},
		// the existing copy of season 1
		models.Season{ID: 3, LeagueID: 1, StartDate: day("2018-09-01"), EndDate: day("2019-03-31")},
		// ends outside the window
		models.Season{ID: 4, LeagueID: 3, StartDate: day("2018-01-01"), EndDate: day("2018-12-31")},
	)
	svc := NewSeasonService(repo, &fakeTeamRepo{}, fakeTx{}, discardLogger())

	result, err := svc.CopyExpiring(context.Background(), day("2018-03-15"), 30*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, result.Skipped)
	require.Len(t, result.Created, 1)
	created := result.Created[0]
	assert.Equal(t, 2, created.LeagueID)
	assert.Equal(t, day("2018-10-01"), created.StartDate)
	assert.Equal(t, day("2019-04-01"), created.EndDate)
	assert.Equal(t, []int{3, 4}, created.TeamIDs)
	assert.Equal(t, "2018-2019 Season", created.Label())
}

func TestSeasonService_CopyExpiringIsIdempotent(t *testing.T) {
	repo := newFakeSeasonRepo(
		models.Season{ID: 1, LeagueID: 1, StartDate: day("2017-09-01"), EndDate: day("2018-03-31")},
	)
	svc := NewSeasonService(repo, &fakeTeamRepo{}, fakeTx{}, discardLogger())
	now := day("2018-03-15")

	first, err := svc.CopyExpiring(context.Background(), now, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Len(t, first.Created, 1)

	second, err := svc.CopyExpiring(context.Background(), now, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Equal(t, []int{1}, second.Skipped)
}

func TestSeasonService_CreateValidation(t *testing.T) {
	teams := &fakeTeamRepo{teams: []models.Team{{ID: 1}, {ID: 2}}}
	svc := NewSeasonService(newFakeSeasonRepo(), teams, fakeTx{}, discardLogger())
	ctx := context.Background()

	tests := []struct {
		name    string
		input   SeasonInput
		wantErr error
	}{
		{
			name:    "end before start",
			input:   SeasonInput{LeagueID: 1, StartDate: "2018-09-01", EndDate: "2018-08-01"},
			wantErr: ErrSeasonDatesInvalid,
		},
		{
			name:    "malformed date",
			input:   SeasonInput{LeagueID: 1, StartDate: "09/01/2018", EndDate: "2019-03-31"},
			wantErr: ErrValidationFailed,
		},
		{
			name:    "team outside league",
			input:   SeasonInput{LeagueID: 1, StartDate: "2018-09-01", EndDate: "2019-03-31", TeamIDs: []int{1, 9}},
			wantErr: ErrSeasonTeamNotLeague,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	season, err := svc.Create(ctx, SeasonInput{LeagueID: 1, StartDate: "2018-09-01", EndDate: "2019-03-31", TeamIDs: []int{2, 1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, season.TeamIDs)

	_, err = svc.Create(ctx, SeasonInput{LeagueID: 1, StartDate: "2018-09-01", EndDate: "2019-03-31"})
	assert.ErrorIs(t, err, ErrSeasonConflict)
}
