package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/tournament-registration/handlers"
	"github.com/Dosada05/tournament-registration/middleware"
)

// SetupRoutes регистрирует все маршруты API на переданном роутере.
func SetupRoutes(
	router chi.Router,
	allowedOrigins []string,
	sessions middleware.TokenValidator,
	tournamentHandler *handlers.TournamentHandler,
	registrationHandler *handlers.RegistrationHandler,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Get("/tournament", tournamentHandler.GetTournament)
	router.Get("/fees", tournamentHandler.GetFees)
	router.Post("/registrations", registrationHandler.Register)
	router.Get("/ws/tournament", webSocketHandler.ServeWs)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signin", authHandler.SignIn)
		r.With(middleware.Authenticate(sessions)).Post("/signout", authHandler.SignOut)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(sessions))

		r.Get("/registration", adminHandler.GetRegistrationStatus)
		r.Post("/registration/toggle", adminHandler.ToggleRegistration)
		r.Post("/fixtures", adminHandler.GenerateFixtures)
	})
}
