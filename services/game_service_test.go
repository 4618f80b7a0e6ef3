package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gameFixture struct {
	games     *fakeGameRepo
	publisher *fakePublisher
	svc       GameService
}

func newGameFixture() gameFixture {
	roles := newFakeRoleRepo(
		models.Player{ID: 1, TeamID: 10, Position: models.PositionGoaltender, IsActive: true},
		models.Player{ID: 2, TeamID: 10, Position: models.PositionCenter, IsActive: true},
		models.Player{ID: 3, TeamID: 20, Position: models.PositionGoaltender, IsActive: true},
	)
	roles.managerOf[42] = 10
	games := &fakeGameRepo{games: map[int]*models.Game{
		5: {ID: 5, Kind: models.GameKindHockey, SeasonID: 1, HomeTeamID: 10, AwayTeamID: 20, Status: models.GameScheduled},
		6: {ID: 6, Kind: models.GameKindGeneric, SeasonID: 1, HomeTeamID: 10, AwayTeamID: 20, Status: models.GameScheduled},
	}}
	publisher := &fakePublisher{}
	perms := NewPermissions(roles, newFakeSeasonRepo(), nil)
	svc := NewGameService(games, nil, nil, nil, roles, nil, nil, perms, fakeTx{}, publisher, discardLogger())
	return gameFixture{games: games, publisher: publisher, svc: svc}
}

func intPtr(v int) *int { return &v }

func TestGameService_SetRoster(t *testing.T) {
	f := newGameFixture()

	game, err := f.svc.SetRoster(context.Background(), Actor{UserID: 42}, 5, GameRosterInput{
		Side:             "home",
		PlayerIDs:        []int{1, 2},
		StartingGoalieID: intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, game.HomePlayerIDs)
	require.NotNil(t, game.HomeStartingGoalieID)
	assert.Equal(t, 1, *game.HomeStartingGoalieID)

	require.Len(t, f.games.rosters, 1)
	assert.Equal(t, rosterCall{side: models.SideHome, players: []int{1, 2}, goalieID: 1}, f.games.rosters[0])
	assert.Equal(t, []publishedEvent{{gameID: 5, eventType: live.EventRosterUpdated}}, f.publisher.events)
}

func TestGameService_SetRosterViolations(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		gameID  int
		input   GameRosterInput
		wantErr error
	}{
		{
			name:    "starting goalie missing",
			actor:   Actor{UserID: 42},
			gameID:  5,
			input:   GameRosterInput{Side: "home", PlayerIDs: []int{1, 2}},
			wantErr: ErrStartingGoalieMissing,
		},
		{
			name:    "starting goalie not on roster",
			actor:   Actor{UserID: 42},
			gameID:  5,
			input:   GameRosterInput{Side: "home", PlayerIDs: []int{2}, StartingGoalieID: intPtr(1)},
			wantErr: ErrStartingGoalieInvalid,
		},
		{
			name:    "starting goalie is a skater",
			actor:   Actor{UserID: 42},
			gameID:  5,
			input:   GameRosterInput{Side: "home", PlayerIDs: []int{1, 2}, StartingGoalieID: intPtr(2)},
			wantErr: ErrStartingGoalieInvalid,
		},
		{
			name:    "player of the other team",
			actor:   Actor{IsStaff: true},
			gameID:  5,
			input:   GameRosterInput{Side: "home", PlayerIDs: []int{1, 3}, StartingGoalieID: intPtr(1)},
			wantErr: ErrGamePlayerInvalid,
		},
		{
			name:    "manager of the other side",
			actor:   Actor{UserID: 42},
			gameID:  5,
			input:   GameRosterInput{Side: "away", PlayerIDs: []int{3}, StartingGoalieID: intPtr(3)},
			wantErr: ErrForbiddenOperation,
		},
		{
			name:    "generic game",
			actor:   Actor{IsStaff: true},
			gameID:  6,
			input:   GameRosterInput{Side: "home", PlayerIDs: []int{1}, StartingGoalieID: intPtr(1)},
			wantErr: ErrRosterNotSupported,
		},
		{
			name:    "bad side",
			actor:   Actor{IsStaff: true},
			gameID:  5,
			input:   GameRosterInput{Side: "visitor", PlayerIDs: []int{1}, StartingGoalieID: intPtr(1)},
			wantErr: ErrSideInvalid,
		},
		{
			name:    "unknown game",
			actor:   Actor{IsStaff: true},
			gameID:  99,
			input:   GameRosterInput{Side: "home", PlayerIDs: []int{1}, StartingGoalieID: intPtr(1)},
			wantErr: ErrGameNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGameFixture()
			_, err := f.svc.SetRoster(context.Background(), tt.actor, tt.gameID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.games.rosters)
			assert.Empty(t, f.publisher.events)
		})
	}
}

type fakeChoices struct {
	ChoiceService
	choices map[int]models.GenericChoice
}

func (f fakeChoices) Require(_ context.Context, id int, contentType string) (*models.GenericChoice, error) {
	c, ok := f.choices[id]
	if !ok {
		return nil, ErrChoiceNotFound
	}
	if c.ContentType != contentType {
		return nil, ErrValidationFailed
	}
	return &c, nil
}

type gameCreateFixture struct {
	games *fakeGameRepo
	svc   GameService
}

func newGameCreateFixture() gameCreateFixture {
	seasons := newFakeSeasonRepo(models.Season{
		ID: 1, LeagueID: 3, StartDate: day("2018-09-01"), EndDate: day("2019-03-31"), TeamIDs: []int{10, 20},
	})
	roles := newFakeRoleRepo()
	roles.managerOf[42] = 10
	roles.managerOf[43] = 20
	locations := &fakeLocationRepo{created: []*models.Location{{ID: 1, Name: "Iceworks"}}}
	choices := fakeChoices{choices: map[int]models.GenericChoice{
		1: {ID: 1, ContentType: models.ChoiceGameType, ShortValue: "exhibition"},
		2: {ID: 2, ContentType: models.ChoiceGamePointValue, ShortValue: "2"},
	}}
	games := &fakeGameRepo{games: map[int]*models.Game{}}
	perms := NewPermissions(roles, seasons, nil)
	svc := NewGameService(games, seasons, nil, locations, roles, nil, choices, perms, fakeTx{}, &fakePublisher{}, discardLogger())
	return gameCreateFixture{games: games, svc: svc}
}

func validGameInput() GameInput {
	return GameInput{
		SeasonID:     1,
		HomeTeamID:   10,
		AwayTeamID:   20,
		TypeID:       1,
		PointValueID: 2,
		LocationID:   1,
		Start:        day("2018-10-06").Add(19 * time.Hour),
		End:          day("2018-10-06").Add(21 * time.Hour),
		Timezone:     "America/New_York",
	}
}

func TestGameService_CreateAddsPeriods(t *testing.T) {
	f := newGameCreateFixture()
	input := validGameInput()
	input.Overtimes = 1

	game, err := f.svc.Create(context.Background(), Actor{UserID: 42}, input)
	require.NoError(t, err)
	assert.Equal(t, models.GameKindHockey, game.Kind)
	assert.Equal(t, models.GameScheduled, game.Status)
	require.NotNil(t, game.CreatedBy)
	assert.Equal(t, 42, *game.CreatedBy)

	var names []string
	for _, p := range f.games.createdPeriods {
		assert.Equal(t, game.ID, p.GameID)
		assert.Equal(t, 20, p.Duration)
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"1", "2", "3", "OT1"}, names)
	assert.Len(t, game.Periods, 4)
}

func TestGameService_CreateCustomPeriods(t *testing.T) {
	f := newGameCreateFixture()
	input := validGameInput()
	input.Kind = string(models.GameKindGeneric)
	input.Periods = 2
	input.PeriodDuration = 25

	_, err := f.svc.Create(context.Background(), Actor{UserID: 43}, input)
	require.NoError(t, err, "the away team's manager may create the game")
	require.Len(t, f.games.createdPeriods, 2)
	assert.Equal(t, 25, f.games.createdPeriods[1].Duration)
}

func TestGameService_CreateViolations(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		change  func(*GameInput)
		wantErr error
	}{
		{name: "team outside the season", actor: Actor{IsStaff: true},
			change: func(in *GameInput) { in.AwayTeamID = 30 }, wantErr: ErrGameTeamNotInSeason},
		{name: "unknown season", actor: Actor{IsStaff: true},
			change: func(in *GameInput) { in.SeasonID = 9 }, wantErr: ErrSeasonNotFound},
		{name: "same teams", actor: Actor{IsStaff: true},
			change: func(in *GameInput) { in.AwayTeamID = 10 }, wantErr: ErrGameSameTeams},
		{name: "ends before it starts", actor: Actor{IsStaff: true},
			change: func(in *GameInput) { in.End = in.Start.Add(-time.Hour) }, wantErr: ErrGameTimesInvalid},
		{name: "bad timezone", actor: Actor{IsStaff: true},
			change: func(in *GameInput) { in.Timezone = "Mars/Olympus" }, wantErr: ErrInvalidTimezone},
		{name: "unknown kind", actor: Actor{IsStaff: true},
			change: func(in *GameInput) { in.Kind = "curling" }, wantErr: ErrGameKindInvalid},
		{name: "point value used as game type", actor: Actor{IsStaff: true},
			change: func(in *GameInput) { in.TypeID = 2 }, wantErr: ErrValidationFailed},
		{name: "unknown location", actor: Actor{IsStaff: true},
			change: func(in *GameInput) { in.LocationID = 5 }, wantErr: ErrLocationNotFound},
		{name: "manager of neither team", actor: Actor{UserID: 7},
			change: func(*GameInput) {}, wantErr: ErrForbiddenOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGameCreateFixture()
			input := validGameInput()
			tt.change(&input)

			_, err := f.svc.Create(context.Background(), tt.actor, input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.games.games)
			assert.Empty(t, f.games.createdPeriods)
		})
	}
}
