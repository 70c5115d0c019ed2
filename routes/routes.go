package routes

import (
	"github.com/Amanzhol04/esports-arena/handlers"
	"github.com/Amanzhol04/esports-arena/middleware"
	"github.com/Amanzhol04/esports-arena/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/{tournamentID}", tournamentHandler.GetTournamentHandler)
		r.Get("/{tournamentID}/games/{gameID}/bracket", tournamentHandler.GetBracketHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))
			r.Post("/{tournamentID}/games/{gameID}/seed", tournamentHandler.SeedFirstRoundHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetMatchHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Patch("/{matchID}/score", matchHandler.SubmitScoreHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
