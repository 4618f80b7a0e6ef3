package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// The fakes embed the repository interfaces so that only the methods a test
// exercises need an implementation. Calling anything else panics.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTx struct{}

func (fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeSeasonRepo struct {
	repositories.SeasonRepository
	mu      sync.Mutex
	seasons map[int]*models.Season
	nextID  int
}

func newFakeSeasonRepo(seasons ...models.Season) *fakeSeasonRepo {
	r := &fakeSeasonRepo{seasons: make(map[int]*models.Season), nextID: 100}
	for i := range seasons {
		s := seasons[i]
		r.seasons[s.ID] = &s
	}
	return r
}

func (r *fakeSeasonRepo) GetByID(_ context.Context, id int) (*models.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.seasons[id]
	if !ok {
		return nil, repositories.ErrSeasonNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSeasonRepo) Create(_ context.Context, _ repositories.SQLExecutor, s *models.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.seasons {
		if existing.LeagueID == s.LeagueID && existing.StartDate.Equal(s.StartDate) && existing.EndDate.Equal(s.EndDate) {
			return repositories.ErrSeasonConflict
		}
	}
	r.nextID++
	s.ID = r.nextID
	copied := *s
	r.seasons[s.ID] = &copied
	return nil
}

func (r *fakeSeasonRepo) Exists(_ context.Context, leagueID int, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.seasons {
		if s.LeagueID == leagueID && s.StartDate.Equal(start) && s.EndDate.Equal(end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSeasonRepo) ListEndingBetween(_ context.Context, from, to time.Time) ([]models.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Season
	for _, s := range r.seasons {
		if s.EndDate.After(from) && !s.EndDate.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeTeamRepo struct {
	repositories.TeamRepository
	teams []models.Team
}

func (r *fakeTeamRepo) List(_ context.Context, _ repositories.TeamFilter) ([]models.Team, error) {
	return r.teams, nil
}

type fakeRoleRepo struct {
	repositories.RoleRepository
	players       map[int]models.Player
	active        map[models.Role]int
	managerOf     map[int]int // userID -> teamID
	refereeOf     map[int]int // userID -> leagueID
	scorekeeperOf map[int]int // userID -> sportID
	scorekeepers  map[int]*models.Scorekeeper
	referees      []*models.Referee
	deactivated   []models.Role
}

func newFakeRoleRepo(players ...models.Player) *fakeRoleRepo {
	r := &fakeRoleRepo{
		players:       make(map[int]models.Player),
		active:        make(map[models.Role]int),
		managerOf:     make(map[int]int),
		refereeOf:     make(map[int]int),
		scorekeeperOf: make(map[int]int),
		scorekeepers:  make(map[int]*models.Scorekeeper),
	}
	for _, p := range players {
		r.players[p.ID] = p
	}
	return r
}

func (r *fakeRoleRepo) ListPlayersByIDs(_ context.Context, ids []int) ([]models.Player, error) {
	var out []models.Player
	for _, id := range ids {
		if p, ok := r.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) CountActive(_ context.Context, role models.Role, filter models.RoleFilter) (int, error) {
	if role == models.RoleReferee && filter.LeagueID != 0 {
		if leagueID, ok := r.refereeOf[filter.UserID]; ok && leagueID == filter.LeagueID {
			return 1, nil
		}
		return 0, nil
	}
	if sportID, ok := r.scorekeeperOf[filter.UserID]; ok && role == models.RoleScorekeeper {
		if sportID == filter.SportID {
			return 1, nil
		}
		return 0, nil
	}
	if role == models.RoleManager && filter.TeamID != 0 {
		if r.managerOf[filter.UserID] == filter.TeamID {
			return 1, nil
		}
		return 0, nil
	}
	if filter.TeamID != 0 || filter.LeagueID != 0 {
		return 0, nil
	}
	return r.active[role], nil
}

func (r *fakeRoleRepo) DeactivateForUserSport(_ context.Context, _ repositories.SQLExecutor, role models.Role, _, _ int) (int64, error) {
	r.deactivated = append(r.deactivated, role)
	n := int64(r.active[role])
	r.active[role] = 0
	return n, nil
}

func (r *fakeRoleRepo) CreateScorekeeper(_ context.Context, sk *models.Scorekeeper) error {
	for _, existing := range r.scorekeepers {
		if existing.UserID == sk.UserID && existing.SportID == sk.SportID {
			return repositories.ErrRoleRecordConflict
		}
	}
	sk.ID = len(r.scorekeepers) + 1
	copied := *sk
	r.scorekeepers[sk.ID] = &copied
	return nil
}

func (r *fakeRoleRepo) GetScorekeeper(_ context.Context, id int) (*models.Scorekeeper, error) {
	sk, ok := r.scorekeepers[id]
	if !ok {
		return nil, repositories.ErrRoleRecordNotFound
	}
	copied := *sk
	return &copied, nil
}

func (r *fakeRoleRepo) CreateReferee(_ context.Context, ref *models.Referee) error {
	ref.ID = len(r.referees) + 1
	r.referees = append(r.referees, ref)
	return nil
}

func (r *fakeRoleRepo) SetActive(_ context.Context, role models.Role, id int, active bool) error {
	if role != models.RoleScorekeeper {
		return repositories.ErrRoleRecordNotFound
	}
	sk, ok := r.scorekeepers[id]
	if !ok {
		return repositories.ErrRoleRecordNotFound
	}
	sk.IsActive = active
	return nil
}

type completionCall struct {
	userID  int
	sportID int
}

// fakeRegistrations records completion refreshes triggered by role changes.
type fakeRegistrations struct {
	RegistrationService
	refreshed []completionCall
}

func (f *fakeRegistrations) RefreshCompletion(_ context.Context, userID, sportID int) (*models.SportRegistration, error) {
	f.refreshed = append(f.refreshed, completionCall{userID: userID, sportID: sportID})
	return &models.SportRegistration{UserID: userID, SportID: sportID}, nil
}

type fakeRegistrationRepo struct {
	repositories.RegistrationRepository
	regs map[int]*models.SportRegistration
	// staleMasks is what an unlocked read sees while another request has
	// already changed the row.
	staleMasks map[int]models.RolesMask
	locked     []int
	completed  map[int]bool
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id int) (*models.SportRegistration, error) {
	reg, ok := r.regs[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	copied := *reg
	if mask, ok := r.staleMasks[id]; ok {
		copied.RolesMask = mask
	}
	return &copied, nil
}

func (r *fakeRegistrationRepo) GetForUpdate(_ context.Context, _ repositories.SQLExecutor, id int) (*models.SportRegistration, error) {
	reg, ok := r.regs[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	r.locked = append(r.locked, id)
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) GetByUserAndSport(_ context.Context, userID, sportID int) (*models.SportRegistration, error) {
	for _, reg := range r.regs {
		if reg.UserID == userID && reg.SportID == sportID {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (r *fakeRegistrationRepo) ListByUser(_ context.Context, userID int) ([]models.SportRegistration, error) {
	out := make([]models.SportRegistration, 0)
	for id := 1; id <= 100; id++ {
		if reg, ok := r.regs[id]; ok && reg.UserID == userID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (r *fakeRegistrationRepo) SetComplete(_ context.Context, id int, complete bool) error {
	reg, ok := r.regs[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	reg.IsComplete = complete
	return nil
}

func (r *fakeRegistrationRepo) UpdateRoles(_ context.Context, _ repositories.SQLExecutor, id int, mask models.RolesMask, complete bool) error {
	reg, ok := r.regs[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	reg.RolesMask = mask
	reg.IsComplete = complete
	return nil
}

// fakeRosterRepo enforces the one-default-per-team-and-season index.
type fakeRosterRepo struct {
	repositories.SeasonRosterRepository
	created       []*models.SeasonRoster
	clearedExcept []int
}

func (r *fakeRosterRepo) Create(_ context.Context, _ repositories.SQLExecutor, roster *models.SeasonRoster) error {
	if roster.Default {
		for _, existing := range r.created {
			if existing.Default && existing.SeasonID == roster.SeasonID && existing.TeamID == roster.TeamID {
				return repositories.ErrRosterDefaultConflict
			}
		}
	}
	roster.ID = len(r.created) + 1
	copied := *roster
	r.created = append(r.created, &copied)
	return nil
}

func (r *fakeRosterRepo) ClearDefault(_ context.Context, _ repositories.SQLExecutor, seasonID, teamID, exceptID int) error {
	r.clearedExcept = append(r.clearedExcept, exceptID)
	for _, existing := range r.created {
		if existing.SeasonID == seasonID && existing.TeamID == teamID && existing.ID != exceptID {
			existing.Default = false
		}
	}
	return nil
}

type rosterCall struct {
	side     models.Side
	players  []int
	goalieID int
}

type fakeGameRepo struct {
	repositories.GameRepository
	games          map[int]*models.Game
	rosters        []rosterCall
	periods        map[int]models.Period
	homeRoster     []int
	awayRoster     []int
	createdPeriods []models.Period
}

func (r *fakeGameRepo) Create(_ context.Context, _ repositories.SQLExecutor, g *models.Game) error {
	g.ID = 500 + len(r.games)
	copied := *g
	r.games[g.ID] = &copied
	return nil
}

func (r *fakeGameRepo) CreatePeriods(_ context.Context, _ repositories.SQLExecutor, periods []models.Period) error {
	r.createdPeriods = append(r.createdPeriods, periods...)
	return nil
}

func (r *fakeGameRepo) GetPeriod(_ context.Context, id int) (*models.Period, error) {
	p, ok := r.periods[id]
	if !ok {
		return nil, repositories.ErrPeriodNotFound
	}
	return &p, nil
}

func (r *fakeGameRepo) GetRoster(_ context.Context, _ int) ([]int, []int, error) {
	return r.homeRoster, r.awayRoster, nil
}

func (r *fakeGameRepo) GetByID(_ context.Context, id int) (*models.Game, error) {
	g, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGameRepo) SetRoster(_ context.Context, _ repositories.SQLExecutor, _ int, side models.Side, playerIDs []int, goalieID *int) error {
	r.rosters = append(r.rosters, rosterCall{side: side, players: playerIDs, goalieID: *goalieID})
	return nil
}

type publishedEvent struct {
	gameID    int
	eventType string
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) PublishGameEvent(gameID int, eventType string, _ interface{}) {
	p.events = append(p.events, publishedEvent{gameID: gameID, eventType: eventType})
}

type fakeUserRepo struct {
	repositories.UserRepository
	users         map[int]*models.User
	profiles      map[int]*models.UserProfile
	tokens        map[int]*models.APIToken
	tokensCreated int
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{
		users:    make(map[int]*models.User),
		profiles: make(map[int]*models.UserProfile),
		tokens:   make(map[int]*models.APIToken),
	}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetProfile(_ context.Context, userID int) (*models.UserProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeUserRepo) GetTokenByUser(_ context.Context, userID int) (*models.APIToken, error) {
	t, ok := r.tokens[userID]
	if !ok {
		return nil, repositories.ErrTokenNotFound
	}
	return t, nil
}

func (r *fakeUserRepo) GetUserByToken(ctx context.Context, key string) (*models.User, error) {
	for userID, t := range r.tokens {
		if t.Key == key {
			return r.GetByID(ctx, userID)
		}
	}
	return nil, repositories.ErrTokenNotFound
}

func (r *fakeUserRepo) CreateToken(_ context.Context, token *models.APIToken) error {
	r.tokensCreated++
	r.tokens[token.UserID] = token
	return nil
}

func (r *fakeUserRepo) DeleteToken(_ context.Context, userID int) error {
	if _, ok := r.tokens[userID]; !ok {
		return repositories.ErrTokenNotFound
	}
	delete(r.tokens, userID)
	return nil
}
