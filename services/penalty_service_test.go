package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePenaltyRepo struct {
	repositories.PenaltyRepository
	types   map[int]*models.PenaltyType
	created []*models.Penalty
}

func (r *fakePenaltyRepo) GetType(_ context.Context, id int) (*models.PenaltyType, error) {
	pt, ok := r.types[id]
	if !ok {
		return nil, repositories.ErrPenaltyTypeNotFound
	}
	copied := *pt
	return &copied, nil
}

func (r *fakePenaltyRepo) Create(_ context.Context, p *models.Penalty) error {
	p.ID = len(r.created) + 1
	r.created = append(r.created, p)
	return nil
}

const (
	refereeID          = 50
	scorekeeperID      = 60
	otherScorekeeperID = 61
)

type penaltyFixture struct {
	penalties *fakePenaltyRepo
	publisher *fakePublisher
	perms     *Permissions
	svc       PenaltyService
}

// newPenaltyFixture sets up game 5 (hockey, in progress), game 6 (scheduled)
// and game 7 (generic, in progress), all in season 1 of league 3, sport 1.
func newPenaltyFixture() penaltyFixture {
	seasons := newFakeSeasonRepo(models.Season{
		ID: 1, LeagueID: 3, StartDate: day("2018-09-01"), EndDate: day("2019-03-31"), TeamIDs: []int{10, 20},
	})
	leagues := &fakeLeagueRepo{leagues: map[int]*models.League{3: {ID: 3, SportID: 1}}}
	roles := newFakeRoleRepo()
	roles.refereeOf[refereeID] = 3
	roles.scorekeeperOf[scorekeeperID] = 1
	roles.scorekeeperOf[otherScorekeeperID] = 2

	games := &fakeGameRepo{
		games: map[int]*models.Game{
			5: {ID: 5, Kind: models.GameKindHockey, SeasonID: 1, HomeTeamID: 10, AwayTeamID: 20, Status: models.GameInProgress},
			6: {ID: 6, Kind: models.GameKindHockey, SeasonID: 1, HomeTeamID: 10, AwayTeamID: 20, Status: models.GameScheduled},
			7: {ID: 7, Kind: models.GameKindGeneric, SeasonID: 1, HomeTeamID: 10, AwayTeamID: 20, Status: models.GameInProgress},
			8: {ID: 8, Kind: models.GameKindHockey, SeasonID: 99, HomeTeamID: 10, AwayTeamID: 20, Status: models.GameInProgress},
		},
		periods: map[int]models.Period{
			100: {ID: 100, GameID: 5, Name: "1", Duration: 20},
			101: {ID: 101, GameID: 6, Name: "1", Duration: 20},
			102: {ID: 102, GameID: 7, Name: "1", Duration: 20},
		},
		homeRoster: []int{1, 2},
		awayRoster: []int{3},
	}
	penalties := &fakePenaltyRepo{types: map[int]*models.PenaltyType{
		9: {ID: 9, SportID: 1, Name: "Hooking", Code: "HOOK", Duration: 2},
	}}
	publisher := &fakePublisher{}
	perms := NewPermissions(roles, seasons, leagues)
	svc := NewPenaltyService(penalties, games, perms, publisher, discardLogger())
	return penaltyFixture{penalties: penalties, publisher: publisher, perms: perms, svc: svc}
}

func TestPenaltyService_Record(t *testing.T) {
	f := newPenaltyFixture()

	penalty, err := f.svc.Record(context.Background(), Actor{UserID: refereeID}, 5, PenaltyInput{
		PeriodID: 100, TeamID: 20, PlayerID: 3, TypeID: 9, TimeInPeriod: 605,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, penalty.Duration, "duration defaults to the penalty type's")
	assert.Equal(t, 100, penalty.PeriodID)
	require.NotNil(t, penalty.CreatedBy)
	assert.Equal(t, refereeID, *penalty.CreatedBy)
	require.Len(t, f.penalties.created, 1)
	assert.Equal(t, []publishedEvent{{gameID: 5, eventType: live.EventPenaltyAdded}}, f.publisher.events)
}

func TestPenaltyService_RecordGenericGameSkipsRoster(t *testing.T) {
	f := newPenaltyFixture()

	penalty, err := f.svc.Record(context.Background(), Actor{UserID: scorekeeperID}, 7, PenaltyInput{
		PeriodID: 102, TeamID: 10, PlayerID: 99, TypeID: 9, Duration: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, penalty.Duration)
}

func TestPenaltyService_RecordViolations(t *testing.T) {
	valid := PenaltyInput{PeriodID: 100, TeamID: 10, PlayerID: 1, TypeID: 9, TimeInPeriod: 60}
	with := func(change func(*PenaltyInput)) PenaltyInput {
		in := valid
		change(&in)
		return in
	}

	tests := []struct {
		name    string
		actor   Actor
		gameID  int
		input   PenaltyInput
		wantErr error
	}{
		{name: "period of another game", actor: Actor{UserID: refereeID}, gameID: 5,
			input: with(func(in *PenaltyInput) { in.PeriodID = 101 }), wantErr: ErrPeriodNotInGame},
		{name: "time past the end of the period", actor: Actor{UserID: refereeID}, gameID: 5,
			input: with(func(in *PenaltyInput) { in.TimeInPeriod = 20*60 + 1 }), wantErr: ErrPenaltyTimeInvalid},
		{name: "team not in the game", actor: Actor{UserID: refereeID}, gameID: 5,
			input: with(func(in *PenaltyInput) { in.TeamID = 30 }), wantErr: ErrPenaltyTeamNotInGame},
		{name: "player on the other side's roster", actor: Actor{UserID: refereeID}, gameID: 5,
			input: with(func(in *PenaltyInput) { in.TeamID = 20 }), wantErr: ErrPenaltyPlayerInvalid},
		{name: "game not started", actor: Actor{UserID: refereeID}, gameID: 6,
			input: with(func(in *PenaltyInput) { in.PeriodID = 101 }), wantErr: ErrPenaltyGameClosed},
		{name: "unknown penalty type", actor: Actor{UserID: refereeID}, gameID: 5,
			input: with(func(in *PenaltyInput) { in.TypeID = 77 }), wantErr: ErrPenaltyTypeNotFound},
		{name: "user without an official role", actor: Actor{UserID: 70}, gameID: 5,
			input: valid, wantErr: ErrForbiddenOperation},
		{name: "scorekeeper of another sport", actor: Actor{UserID: otherScorekeeperID}, gameID: 5,
			input: valid, wantErr: ErrForbiddenOperation},
		{name: "unknown game", actor: Actor{UserID: refereeID}, gameID: 404,
			input: valid, wantErr: ErrGameNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPenaltyFixture()
			_, err := f.svc.Record(context.Background(), tt.actor, tt.gameID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.penalties.created)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestPermissions_CanScoreGame(t *testing.T) {
	game := &models.Game{ID: 5, SeasonID: 1}

	tests := []struct {
		name    string
		actor   Actor
		game    *models.Game
		wantErr error
	}{
		{name: "staff", actor: Actor{UserID: 1, IsStaff: true}, game: game},
		{name: "referee of the league", actor: Actor{UserID: refereeID}, game: game},
		{name: "scorekeeper of the sport", actor: Actor{UserID: scorekeeperID}, game: game},
		{name: "scorekeeper of another sport", actor: Actor{UserID: otherScorekeeperID}, game: game, wantErr: ErrForbiddenOperation},
		{name: "no official role", actor: Actor{UserID: 70}, game: game, wantErr: ErrForbiddenOperation},
		{name: "season missing", actor: Actor{UserID: refereeID}, game: &models.Game{ID: 8, SeasonID: 99}, wantErr: ErrSeasonNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPenaltyFixture()
			err := f.perms.CanScoreGame(context.Background(), tt.actor, tt.game)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
