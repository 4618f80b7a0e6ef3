package routes

import (
	"net/http"

	_ "github.com/Dosada05/league-system/docs"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Account      *handlers.AccountHandler
	Sport        *handlers.SportHandler
	League       *handlers.LeagueHandler
	Organization *handlers.OrganizationHandler
	Team         *handlers.TeamHandler
	Location     *handlers.LocationHandler
	Season       *handlers.SeasonHandler
	Registration *handlers.SportRegistrationHandler
	Role         *handlers.RoleHandler
	Game         *handlers.GameHandler
	Choice       *handlers.ChoiceHandler
	Admin        *handlers.AdminHandler
	WebSocket    *handlers.WebSocketHandler
	Health       *handlers.HealthHandler
}

// Options carries what the middleware chain needs besides handlers.
type Options struct {
	JWTSecret                string
	Tokens                   middleware.TokenResolver
	Profiles                 middleware.ProfileGetter
	Registrations            middleware.RegistrationChecker
	DefaultLanguage          string
	DefaultTimezone          string
	RegistrationRedirectPath string
	AllowedOrigins           []string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Language", "Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.Tokens)
	locale := middleware.WithLocale(opts.DefaultLanguage, opts.DefaultTimezone, opts.Profiles)
	requireComplete := middleware.RequireCompleteRegistration(
		opts.Registrations,
		opts.RegistrationRedirectPath,
		"/api/v1/account/",
		"/api/v1/sportregistrations",
		"/api/v1/players",
		"/api/v1/coaches",
		"/api/v1/referees",
		"/api/v1/managers",
		"/api/v1/scorekeepers",
		"/api/v1/revoke-token",
		"/auth/",
	)

	router.Get("/healthz", h.Health.Healthz)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/games/{gameID}", h.WebSocket.ServeGame)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", h.Auth.Me)
			r.Post("/change-password", h.Auth.ChangePassword)
		})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/obtain-token", h.Auth.ObtainToken)

		// Public reads.
		r.Group(func(r chi.Router) {
			r.Use(locale)
			r.Get("/sports", h.Sport.GetAllSports)
			r.Get("/sports/{sportID}", h.Sport.GetSportByID)
			r.Get("/leagues", h.League.ListLeagues)
			r.Get("/leagues/{leagueID}", h.League.GetLeague)
			r.Get("/leagues/{leagueID}/divisions", h.League.ListDivisions)
			r.Get("/organizations", h.Organization.ListOrganizations)
			r.Get("/organizations/{organizationID}", h.Organization.GetOrganization)
			r.Get("/teams", h.Team.ListTeams)
			r.Get("/teams/{teamID}", h.Team.GetTeam)
			r.Get("/locations", h.Location.ListLocations)
			r.Get("/locations/{locationID}", h.Location.GetLocation)
			r.Get("/seasons", h.Season.ListSeasons)
			r.Get("/seasons/{seasonID}", h.Season.GetSeason)
			r.Get("/seasons/{seasonID}/rosters", h.Season.ListRosters)
			r.Get("/seasons/{seasonID}/rosters/{rosterID}", h.Season.GetRoster)
			r.Get("/games", h.Game.ListGames)
			r.Get("/games/{gameID}", h.Game.GetGame)
			r.Get("/games/{gameID}/penalties", h.Game.ListPenalties)
			r.Get("/penalty-types", h.Game.ListPenaltyTypes)
			r.Get("/choices", h.Choice.ListChoices)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(locale)
			r.Use(requireComplete)

			r.Delete("/revoke-token", h.Auth.RevokeToken)

			r.Get("/account/profile", h.Account.GetProfile)
			r.Post("/account/profile", h.Account.SaveProfile)
			r.Put("/account/profile", h.Account.SaveProfile)
			r.Get("/account/status", h.Account.Status)

			r.Get("/sportregistrations", h.Registration.ListRegistrations)
			r.Post("/sportregistrations", h.Registration.CreateRegistration)
			r.Get("/sportregistrations/{registrationID}", h.Registration.GetRegistration)
			r.Post("/sportregistrations/{registrationID}/add-roles", h.Registration.AddRoles)
			r.Patch("/sportregistrations/{registrationID}/remove-role/{role}", h.Registration.RemoveRole)

			r.Get("/players", h.Role.ListPlayers)
			r.Post("/players", h.Role.CreatePlayer)
			r.Put("/players/{id}", h.Role.UpdatePlayer)
			r.Patch("/players/{id}/deactivate", h.Role.Deactivate(models.RolePlayer))
			r.Get("/coaches", h.Role.ListCoaches)
			r.Post("/coaches", h.Role.CreateCoach)
			r.Patch("/coaches/{id}/deactivate", h.Role.Deactivate(models.RoleCoach))
			r.Get("/referees", h.Role.ListReferees)
			r.Post("/referees", h.Role.CreateReferee)
			r.Patch("/referees/{id}/deactivate", h.Role.Deactivate(models.RoleReferee))
			r.Get("/managers", h.Role.ListManagers)
			r.Post("/managers", h.Role.CreateManager)
			r.Patch("/managers/{id}/deactivate", h.Role.Deactivate(models.RoleManager))
			r.Get("/scorekeepers", h.Role.ListScorekeepers)
			r.Post("/scorekeepers", h.Role.CreateScorekeeper)
			r.Patch("/scorekeepers/{id}/deactivate", h.Role.Deactivate(models.RoleScorekeeper))

			r.Post("/organizations", h.Organization.CreateOrganization)
			r.Put("/organizations/{organizationID}", h.Organization.UpdateOrganization)
			r.Put("/organizations/{organizationID}/logo", h.Organization.UploadLogo)

			r.Put("/teams/{teamID}", h.Team.UpdateTeam)
			r.Put("/teams/{teamID}/logo", h.Team.UploadLogo)

			r.Post("/seasons/{seasonID}/rosters", h.Season.CreateRoster)
			r.Put("/seasons/{seasonID}/rosters/{rosterID}", h.Season.UpdateRoster)
			r.Delete("/seasons/{seasonID}/rosters/{rosterID}", h.Season.DeleteRoster)

			r.Post("/games", h.Game.CreateGame)
			r.Delete("/games/{gameID}", h.Game.DeleteGame)
			r.Patch("/games/{gameID}/status", h.Game.UpdateStatus)
			r.Put("/games/{gameID}/roster", h.Game.SetRoster)
			r.Post("/games/{gameID}/periods/{periodID}/finish", h.Game.FinishPeriod)
			r.Post("/games/{gameID}/penalties", h.Game.RecordPenalty)
			r.Delete("/games/{gameID}/penalties/{penaltyID}", h.Game.DeletePenalty)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff)

				r.Post("/sports", h.Sport.CreateSport)
				r.Put("/sports/{sportID}", h.Sport.UpdateSport)
				r.Delete("/sports/{sportID}", h.Sport.DeleteSport)

				r.Post("/leagues", h.League.CreateLeague)
				r.Put("/leagues/{leagueID}", h.League.UpdateLeague)
				r.Delete("/leagues/{leagueID}", h.League.DeleteLeague)
				r.Put("/leagues/{leagueID}/logo", h.League.UploadLogo)
				r.Post("/leagues/{leagueID}/divisions", h.League.CreateDivision)
				r.Delete("/leagues/{leagueID}/divisions/{divisionID}", h.League.DeleteDivision)

				r.Post("/teams", h.Team.CreateTeam)
				r.Delete("/teams/{teamID}", h.Team.DeleteTeam)

				r.Post("/locations", h.Location.CreateLocation)
				r.Put("/locations/{locationID}", h.Location.UpdateLocation)
				r.Delete("/locations/{locationID}", h.Location.DeleteLocation)

				r.Post("/seasons", h.Season.CreateSeason)
				r.Put("/seasons/{seasonID}", h.Season.UpdateSeason)
				r.Delete("/seasons/{seasonID}", h.Season.DeleteSeason)

				r.Post("/penalty-types", h.Game.CreatePenaltyType)
				r.Delete("/penalty-types/{typeID}", h.Game.DeletePenaltyType)

				r.Post("/choices", h.Choice.CreateChoice)
			})
		})
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireStaff)

		r.Post("/bulk-upload/teams", h.Admin.UploadTeams)
		r.Post("/bulk-upload/locations", h.Admin.UploadLocations)
		r.Get("/switches", h.Admin.ListSwitches)
		r.Put("/switches/{name}", h.Admin.SetSwitch)
		r.Post("/seasons/copy-expiring", h.Season.CopyExpiring)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "the requested resource could not be found"}` + "\n"))
	})
}
