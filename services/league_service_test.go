package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeagueRepo struct {
	repositories.LeagueRepository
	leagues map[int]*models.League
	created []*models.League
}

func (r *fakeLeagueRepo) Create(_ context.Context, league *models.League) error {
	league.ID = len(r.created) + 1
	r.created = append(r.created, league)
	return nil
}

func (r *fakeLeagueRepo) GetByID(_ context.Context, id int) (*models.League, error) {
	l, ok := r.leagues[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}
	copied := *l
	return &copied, nil
}

func TestLeagueService_CreateLeagueAbbreviation(t *testing.T) {
	tests := []struct {
		name         string
		input        LeagueInput
		wantFullName string
		wantName     string
	}{
		{
			name:         "capitalized words only",
			input:        LeagueInput{FullName: "League of Ice Hockey", SportID: 1},
			wantFullName: "League of Ice Hockey",
			wantName:     "LIH",
		},
		{
			name:         "spaces collapsed",
			input:        LeagueInput{FullName: "  Long Island   Amateur Hockey League ", SportID: 1},
			wantFullName: "Long Island Amateur Hockey League",
			wantName:     "LIAHL",
		},
		{
			name:         "lowercase name falls back to all initials",
			input:        LeagueInput{FullName: "weekend beer league", SportID: 1},
			wantFullName: "weekend beer league",
			wantName:     "WBL",
		},
		{
			name:         "explicit short name kept",
			input:        LeagueInput{Name: "NYHL", FullName: "New York Hockey League", SportID: 1},
			wantFullName: "New York Hockey League",
			wantName:     "NYHL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeLeagueRepo{}
			svc := NewLeagueService(repo, storage.Disabled{}, discardLogger())

			league, err := svc.CreateLeague(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFullName, league.FullName)
			assert.Equal(t, tt.wantName, league.Name)
			assert.Equal(t, models.AbbreviateName(league.FullName), league.AbbreviatedName())
			require.Len(t, repo.created, 1)
		})
	}
}

func TestLeagueService_CreateLeagueBlankName(t *testing.T) {
	repo := &fakeLeagueRepo{}
	svc := NewLeagueService(repo, storage.Disabled{}, discardLogger())

	_, err := svc.CreateLeague(context.Background(), LeagueInput{FullName: "   ", SportID: 1})
	assert.ErrorIs(t, err, ErrLeagueNameRequired)
	assert.Empty(t, repo.created)
}
